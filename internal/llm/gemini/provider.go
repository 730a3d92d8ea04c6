// Package gemini implements llm.Provider on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"ean-extractor/internal/llm"
	"ean-extractor/internal/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const providerName = "gemini"

type Provider struct {
	client *genai.Client
	logger *zap.Logger
}

type Options struct {
	APIKey string
	// BaseURL overrides the API endpoint; empty uses the default.
	BaseURL string
}

func NewProvider(ctx context.Context, opts Options, logger *zap.Logger) (*Provider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{client: client, logger: logger}, nil
}

func (p *Provider) Name() string {
	return providerName
}

// ListModels enumerates every model visible to the API key.
func (p *Provider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	var out []llm.ModelInfo
	for model, err := range p.client.Models.All(ctx) {
		if err != nil {
			return nil, llm.Classify(fmt.Errorf("failed to list models: %w", err))
		}
		out = append(out, llm.ModelInfo{
			Name:    model.Name,
			Methods: model.SupportedActions,
		})
	}

	p.logger.Debug("Gemini models listed", zap.Int("count", len(out)))
	return out, nil
}

// Generate sends the instruction and the document as inline data in a single
// user turn.
func (p *Provider) Generate(ctx context.Context, model, instruction string, doc *models.Document) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: instruction},
				{InlineData: &genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data}},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", classify(err)
	}

	text := resp.Text()
	if text == "" {
		reason := "empty response"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			reason = "finish reason " + string(resp.Candidates[0].FinishReason)
		}
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
		}
		return "", &models.ModelError{Cause: fmt.Errorf("no text returned by %s: %s", model, reason)}
	}

	p.logger.Info("Gemini response received",
		zap.String("model", model),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

func (p *Provider) Close() error {
	return nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.ClassifyStatus(apiErr.Code, fmt.Errorf("gemini API error: %w", err))
	}
	return llm.Classify(err)
}
