package gigachat

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// extractPDFText renders the text layer of every page. Pages that fail are
// skipped; a PDF without any text is an error.
func extractPDFText(data []byte, fileName string, logger *zap.Logger) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", fileName),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("no text found in PDF %s", fileName)
	}

	logger.Info("PDF text extracted",
		zap.String("file", fileName),
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}
