// Package document turns an uploaded file into the payload sent to the model.
package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"ean-extractor/internal/models"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// SupportedExtensions lists the suffixes the upload shells accept.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// KindOf classifies a file name by suffix only. Content is never sniffed.
func KindOf(fileName string) (models.MediaKind, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return models.MediaKindPDF, nil
	case ".jpg", ".jpeg", ".png":
		return models.MediaKindImage, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: jpg, jpeg, png, pdf)", models.ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

// Load builds the transmission payload for an upload. PDFs travel verbatim;
// images are decoded into a pixel buffer and re-encoded as PNG.
func (l *Loader) Load(fileName string, data []byte) (*models.Document, error) {
	kind, err := KindOf(fileName)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, models.ErrEmptyDocument
	}

	doc := &models.Document{
		FileName: fileName,
		Kind:     kind,
		Size:     int64(len(data)),
	}

	if kind == models.MediaKindPDF {
		doc.MIMEType = models.MIMETypePDF
		doc.Data = data
		doc.Pages = l.countPages(fileName, data)
		return doc, nil
	}

	pixels, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %s: %w", models.ErrInvalidDocument, fileName, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, pixels); err != nil {
		return nil, fmt.Errorf("failed to encode image %s: %w", fileName, err)
	}

	doc.MIMEType = models.MIMETypePNG
	doc.Pixels = pixels
	doc.Data = buf.Bytes()

	bounds := pixels.Bounds()
	l.logger.Debug("Image decoded",
		zap.String("file", fileName),
		zap.String("format", format),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
	)
	return doc, nil
}

// countPages is informational only; a PDF the reader cannot parse is still
// sent as-is and the provider decides.
func (l *Loader) countPages(fileName string, data []byte) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("PDF page count failed", zap.String("file", fileName), zap.Any("panic", r))
			pages = 0
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		l.logger.Warn("PDF page count failed", zap.String("file", fileName), zap.Error(err))
		return 0
	}
	return reader.NumPage()
}
