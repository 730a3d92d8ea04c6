package gigachat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ean-extractor/internal/models"
	"ean-extractor/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGigaChat struct {
	tokenCalls  atomic.Int32
	modelsCalls atomic.Int32
	// status forced on /models when non-zero
	modelsStatus int
	chatStatus   int
	// expiry of the first issued token; zero means one hour from now
	firstExpiresAt time.Time
	modelsAuth     atomic.Value

	uploadedName string
	uploadedType string
	uploadedData []byte
	chat         chatRequest
}

func (f *fakeGigaChat) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		n := f.tokenCalls.Add(1)
		assert.Equal(t, "Basic secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("RqUID"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "GIGACHAT_API_PERS", r.PostForm.Get("scope"))

		token := "token-1"
		expiresAt := time.Now().Add(time.Hour)
		if n > 1 {
			token = "token-2"
		} else if !f.firstExpiresAt.IsZero() {
			expiresAt = f.firstExpiresAt
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": token, "expires_at": expiresAt.UnixMilli()})
	})

	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		f.modelsCalls.Add(1)
		f.modelsAuth.Store(r.Header.Get("Authorization"))
		if f.modelsStatus != 0 {
			w.WriteHeader(f.modelsStatus)
			_, _ = io.WriteString(w, `{"message":"denied"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"id":"GigaChat","object":"model"},{"id":"GigaChat-2-Max","object":"model"}]}`)
	})

	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "general", r.FormValue("purpose"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		f.uploadedName = header.Filename
		f.uploadedType = header.Header.Get("Content-Type")
		f.uploadedData, _ = io.ReadAll(file)
		_, _ = io.WriteString(w, `{"id":"file-42","object":"file"}`)
	})

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if f.chatStatus != 0 {
			w.WriteHeader(f.chatStatus)
			_, _ = io.WriteString(w, `{"message":"internal"}`)
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.chat))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"8058664165889|4.00"},"finish_reason":"stop"}]}`)
	})

	return mux
}

func newTestProvider(t *testing.T, fake *fakeGigaChat, pdfMode string) *Provider {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg := &config.GigaChatConfig{APIKey: "secret", Scope: "GIGACHAT_API_PERS", PDFMode: pdfMode}
	p := newProvider(cfg, srv.Client(), srv.URL, srv.URL+"/oauth", zap.NewNop())
	require.NoError(t, p.refreshToken(context.Background()))
	return p
}

func TestListModels(t *testing.T) {
	fake := &fakeGigaChat{}
	p := newTestProvider(t, fake, PDFModeUpload)

	list, err := p.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-1", fake.modelsAuth.Load())
	require.Len(t, list, 2)
	assert.Equal(t, "GigaChat", list[0].Name)
	assert.True(t, list[1].SupportsGeneration())
	assert.Equal(t, "gigachat", p.Name())
}

func TestGenerateUploadsImageAsPNG(t *testing.T) {
	fake := &fakeGigaChat{}
	p := newTestProvider(t, fake, PDFModeUpload)

	doc := &models.Document{
		FileName: "scan.jpg",
		Kind:     models.MediaKindImage,
		MIMEType: models.MIMETypePNG,
		Data:     []byte("png-bytes"),
	}
	text, err := p.Generate(context.Background(), "GigaChat-2-Max", "estrai", doc)

	require.NoError(t, err)
	assert.Equal(t, "8058664165889|4.00", text)
	assert.Equal(t, "scan.png", fake.uploadedName)
	assert.Equal(t, models.MIMETypePNG, fake.uploadedType)
	assert.Equal(t, []byte("png-bytes"), fake.uploadedData)

	assert.Equal(t, "GigaChat-2-Max", fake.chat.Model)
	require.Len(t, fake.chat.Messages, 1)
	assert.Equal(t, "user", fake.chat.Messages[0].Role)
	assert.Equal(t, "estrai", fake.chat.Messages[0].Content)
	assert.Equal(t, []string{"file-42"}, fake.chat.Messages[0].Attachments)
	assert.False(t, fake.chat.Stream)
}

func TestGeneratePDFUploadKeepsName(t *testing.T) {
	fake := &fakeGigaChat{}
	p := newTestProvider(t, fake, PDFModeUpload)

	doc := &models.Document{FileName: "listino.pdf", Kind: models.MediaKindPDF, MIMEType: models.MIMETypePDF, Data: []byte("%PDF")}
	_, err := p.Generate(context.Background(), "GigaChat", "estrai", doc)

	require.NoError(t, err)
	assert.Equal(t, "listino.pdf", fake.uploadedName)
	assert.Equal(t, models.MIMETypePDF, fake.uploadedType)
}

func TestUnauthorizedRefreshesTokenWithoutRetry(t *testing.T) {
	fake := &fakeGigaChat{modelsStatus: http.StatusUnauthorized}
	p := newTestProvider(t, fake, PDFModeUpload)

	_, err := p.ListModels(context.Background())

	var transportErr *models.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorContains(t, err, "token expired")
	assert.Equal(t, int32(1), fake.modelsCalls.Load())
	assert.Equal(t, int32(2), fake.tokenCalls.Load())
	assert.Equal(t, "token-2", p.token())
}

func TestForbiddenIsTransportFailure(t *testing.T) {
	fake := &fakeGigaChat{modelsStatus: http.StatusForbidden}
	p := newTestProvider(t, fake, PDFModeUpload)

	_, err := p.ListModels(context.Background())

	var transportErr *models.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestServerErrorIsModelFailure(t *testing.T) {
	fake := &fakeGigaChat{chatStatus: http.StatusInternalServerError}
	p := newTestProvider(t, fake, PDFModeUpload)

	doc := &models.Document{FileName: "a.pdf", Kind: models.MediaKindPDF, MIMEType: models.MIMETypePDF, Data: []byte("%PDF")}
	_, err := p.Generate(context.Background(), "GigaChat", "estrai", doc)

	var modelErr *models.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.ErrorContains(t, err, "status 500")
}

func TestTextModeWithoutClient(t *testing.T) {
	fake := &fakeGigaChat{}
	p := newTestProvider(t, fake, PDFModeText)

	doc := &models.Document{FileName: "a.pdf", Kind: models.MediaKindPDF, MIMEType: models.MIMETypePDF, Data: []byte("%PDF")}
	_, err := p.Generate(context.Background(), "GigaChat", "estrai", doc)

	var modelErr *models.ModelError
	assert.ErrorAs(t, err, &modelErr)
	assert.Empty(t, fake.uploadedName, "text mode never uploads")
	assert.NoError(t, p.Close())
}

func TestOAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := &config.GigaChatConfig{APIKey: "wrong", Scope: "GIGACHAT_API_PERS"}
	p := newProvider(cfg, srv.Client(), srv.URL, srv.URL, zap.NewNop())

	err := p.refreshToken(context.Background())

	var transportErr *models.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestExpiredTokenRenewedBeforeRequest(t *testing.T) {
	fake := &fakeGigaChat{firstExpiresAt: time.Now().Add(-time.Minute)}
	p := newTestProvider(t, fake, PDFModeUpload)
	require.True(t, p.tokenExpired())

	list, err := p.ListModels(context.Background())

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Bearer token-2", fake.modelsAuth.Load())
	assert.Equal(t, int32(2), fake.tokenCalls.Load())
	assert.Equal(t, int32(1), fake.modelsCalls.Load())
	assert.False(t, p.tokenExpired())
}
