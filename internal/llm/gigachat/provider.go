// Package gigachat implements llm.Provider on the Sber GigaChat API.
//
// Images and PDFs are uploaded through the Files API and referenced as chat
// attachments. In PDF text mode the page text is extracted locally and sent
// through the gigago client instead.
package gigachat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ean-extractor/internal/llm"
	"ean-extractor/internal/models"
	"ean-extractor/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	providerName = "gigachat"

	defaultBaseURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	defaultOAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"

	PDFModeUpload = "upload"
	PDFModeText   = "text"

	// tokenExpiryMargin renews the token slightly before expires_at.
	tokenExpiryMargin = time.Minute
)

type Provider struct {
	client     *gigago.Client
	config     *config.GigaChatConfig
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	oauthURL   string

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

// NewProvider obtains an access token and, in PDF text mode, opens a gigago
// client for plain-text generation.
func NewProvider(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*Provider, error) {
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	p := newProvider(cfg, httpClient, defaultBaseURL, defaultOAuthURL, logger)
	if err := p.refreshToken(ctx); err != nil {
		return nil, err
	}

	if cfg.PDFMode == PDFModeText {
		opts := []gigago.Option{gigago.WithCustomScope(cfg.Scope)}
		if cfg.InsecureSkipVerify {
			opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		}
		client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
		}
		p.client = client
	}

	return p, nil
}

func newProvider(cfg *config.GigaChatConfig, httpClient *http.Client, baseURL, oauthURL string, logger *zap.Logger) *Provider {
	return &Provider{
		config:     cfg,
		logger:     logger,
		httpClient: httpClient,
		baseURL:    baseURL,
		oauthURL:   oauthURL,
	}
}

func (p *Provider) Name() string {
	return providerName
}

// refreshToken obtains an access token from the OAuth endpoint. The API key
// is expected to be Base64-encoded already.
func (p *Provider) refreshToken(ctx context.Context) error {
	rqUID := uuid.New().String()

	formData := url.Values{}
	formData.Set("scope", p.config.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create OAuth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", rqUID)
	req.Header.Set("Authorization", "Basic "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &models.TransportError{Cause: fmt.Errorf("failed to get access token: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		p.logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
			zap.String("rq_uid", rqUID),
		)
		return &models.TransportError{Cause: fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))}
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return fmt.Errorf("empty access token in OAuth response")
	}

	p.mu.Lock()
	p.accessToken = oauthResp.AccessToken
	// expires_at is a Unix timestamp in milliseconds
	p.expiresAt = time.UnixMilli(oauthResp.ExpiresAt)
	p.mu.Unlock()

	p.logger.Info("Access token obtained", zap.Int64("expires_at", oauthResp.ExpiresAt))
	return nil
}

func (p *Provider) token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accessToken
}

func (p *Provider) tokenExpired() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.expiresAt.IsZero() && time.Now().Add(tokenExpiryMargin).After(p.expiresAt)
}

// do sends an authorized request. An expired token is renewed before
// sending. A 401 refreshes the token for the next call but the failed request
// is not repeated.
func (p *Provider) do(req *http.Request) ([]byte, error) {
	if p.tokenExpired() {
		p.logger.Info("Access token expired, refreshing")
		if err := p.refreshToken(req.Context()); err != nil {
			return nil, err
		}
	}
	req.Header.Set("Authorization", "Bearer "+p.token())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if refreshErr := p.refreshToken(req.Context()); refreshErr != nil {
			return nil, &models.TransportError{Cause: fmt.Errorf("request failed with 401, token refresh also failed: %w (original error: %s)", refreshErr, string(body))}
		}
		return nil, &models.TransportError{Cause: fmt.Errorf("token expired, please retry the operation (original error: %s)", string(body))}
	}

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return nil, &models.ModelError{Cause: fmt.Errorf("file too large (413): %s", string(body))}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, llm.ClassifyStatus(resp.StatusCode, fmt.Errorf("%s %s failed with status %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body)))
	}

	return body, nil
}

// ListModels calls GET /models. GigaChat only lists chat models, so every
// entry is reported as generation-capable.
func (p *Provider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := p.do(req)
	if err != nil {
		return nil, err
	}

	var modelsResp struct {
		Data []struct {
			ID      string `json:"id"`
			Object  string `json:"object"`
			OwnedBy string `json:"owned_by"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		return nil, &models.ModelError{Cause: fmt.Errorf("failed to decode models response: %w", err)}
	}

	out := make([]llm.ModelInfo, 0, len(modelsResp.Data))
	for _, m := range modelsResp.Data {
		out = append(out, llm.ModelInfo{Name: m.ID, Methods: []string{llm.GenerateContentMethod}})
	}
	return out, nil
}

func (p *Provider) Generate(ctx context.Context, model, instruction string, doc *models.Document) (string, error) {
	if doc.IsPDF() && p.config.PDFMode == PDFModeText {
		return p.generateFromPDFText(ctx, model, instruction, doc)
	}

	fileID, err := p.uploadFile(ctx, doc)
	if err != nil {
		return "", err
	}
	return p.chatWithAttachment(ctx, model, instruction, fileID)
}

// uploadFile posts the payload to the Files API with purpose "general" so it
// can be attached to a chat request.
func (p *Provider) uploadFile(ctx context.Context, doc *models.Document) (string, error) {
	fileName := doc.FileName
	if doc.IsImage() {
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".png"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("purpose", "general"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", doc.MIMEType)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := p.do(req)
	if err != nil {
		return "", err
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		return "", &models.ModelError{Cause: fmt.Errorf("failed to decode upload response: %w", err)}
	}
	if uploadResp.ID == "" {
		return "", &models.ModelError{Cause: fmt.Errorf("upload response carries no file id")}
	}

	p.logger.Info("File uploaded to GigaChat", zap.String("file_id", uploadResp.ID), zap.String("file", fileName))
	return uploadResp.ID, nil
}

type chatMessage struct {
	Role        string   `json:"role"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (p *Provider) chatWithAttachment(ctx context.Context, model, instruction, fileID string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: instruction, Attachments: []string{fileID}},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := p.do(req)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &models.ModelError{Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return "", &models.ModelError{Cause: fmt.Errorf("no response from GigaChat")}
	}

	text := resp.Choices[0].Message.Content
	p.logger.Info("GigaChat response received",
		zap.String("model", model),
		zap.String("file_id", fileID),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

func (p *Provider) generateFromPDFText(ctx context.Context, model, instruction string, doc *models.Document) (string, error) {
	if p.client == nil {
		return "", &models.ModelError{Cause: fmt.Errorf("GigaChat text client not initialized")}
	}

	text, err := extractPDFText(doc.Data, doc.FileName, p.logger)
	if err != nil {
		return "", &models.ModelError{Cause: err}
	}

	generative := p.client.GenerativeModel(model)
	generative.Temperature = 0.1

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: instruction + "\n\nDocument text:\n" + text},
	}
	resp, err := generative.Generate(ctx, messages)
	if err != nil {
		return "", llm.Classify(fmt.Errorf("failed to generate response: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", &models.ModelError{Cause: fmt.Errorf("no response from GigaChat")}
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
