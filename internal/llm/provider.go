// Package llm defines the boundary to hosted multimodal model providers.
package llm

import (
	"context"

	"ean-extractor/internal/models"
)

// GenerateContentMethod is the capability a model must declare to be
// usable for extraction.
const GenerateContentMethod = "generateContent"

type ModelInfo struct {
	Name    string
	Methods []string
}

// SupportsGeneration reports whether the model declares free-form content
// generation.
func (m ModelInfo) SupportsGeneration() bool {
	for _, method := range m.Methods {
		if method == GenerateContentMethod {
			return true
		}
	}
	return false
}

// Provider is a hosted model service. Generate sends the instruction text
// followed by the document and returns the model's raw text. Implementations
// return *models.TransportError or *models.ModelError on failure.
type Provider interface {
	Name() string
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Generate(ctx context.Context, model, instruction string, doc *models.Document) (string, error)
	Close() error
}
