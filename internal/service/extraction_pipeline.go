package service

import (
	"context"
	"time"

	"ean-extractor/internal/llm"
	"ean-extractor/internal/models"

	"go.uber.org/zap"
)

// ExtractionPipeline issues the single model call of an extraction.
type ExtractionPipeline struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

func NewExtractionPipeline(provider llm.Provider, timeout time.Duration, logger *zap.Logger) *ExtractionPipeline {
	return &ExtractionPipeline{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Extract sends (instruction, document) to the model once and returns its
// text unchanged. Failures come back as *models.TransportError or
// *models.ModelError; panics in the provider are converted as well.
func (p *ExtractionPipeline) Extract(ctx context.Context, instruction models.Instruction, doc *models.Document, handle models.ModelHandle) (text string, err error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Provider panicked", zap.Any("panic", r))
			text, err = "", &models.ModelError{Cause: panicError{value: r}}
		}
	}()

	start := time.Now()
	text, err = p.provider.Generate(ctx, handle.Name, instruction.Text, doc)
	if err != nil {
		err = llm.Classify(err)
		p.logger.Warn("Model call failed",
			zap.String("model", handle.Name),
			zap.String("file", doc.FileName),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}

	p.logger.Debug("Model call completed",
		zap.String("model", handle.Name),
		zap.String("instruction_version", instruction.Version),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return "provider panic: " + fmtAny(e.value)
}
