package service

import (
	"context"
	"fmt"
	"time"

	"ean-extractor/internal/document"
	"ean-extractor/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExtractionService runs one upload through load, resolve, extract,
// normalize and validate.
type ExtractionService struct {
	loader      *document.Loader
	selector    *ModelSelector
	pipeline    *ExtractionPipeline
	instruction models.Instruction
	logger      *zap.Logger
}

func NewExtractionService(
	loader *document.Loader,
	selector *ModelSelector,
	pipeline *ExtractionPipeline,
	instruction models.Instruction,
	logger *zap.Logger,
) *ExtractionService {
	return &ExtractionService{
		loader:      loader,
		selector:    selector,
		pipeline:    pipeline,
		instruction: instruction,
		logger:      logger,
	}
}

// Process extracts code|value pairs from one uploaded file.
func (s *ExtractionService) Process(ctx context.Context, fileName string, data []byte) (*models.ExtractionResult, error) {
	id := uuid.New()
	start := time.Now()
	log := s.logger.With(zap.String("extraction_id", id.String()), zap.String("file", fileName))

	doc, err := s.loader.Load(fileName, data)
	if err != nil {
		log.Warn("Document rejected", zap.Error(err))
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	handle, err := s.selector.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("Extraction started",
		zap.String("kind", string(doc.Kind)),
		zap.Int64("size", doc.Size),
		zap.Int("pages", doc.Pages),
		zap.String("model", handle.Name),
	)

	raw, err := s.pipeline.Extract(ctx, s.instruction, doc, handle)
	if err != nil {
		return nil, err
	}

	text := Normalize(sanitizeUTF8(raw))
	report := ParseRecords(text, s.instruction.Policy)

	result := &models.ExtractionResult{
		ID:          id,
		FileName:    fileName,
		Kind:        doc.Kind,
		Model:       handle,
		Instruction: s.instruction.Version,
		Text:        text,
		Report:      report,
		Duration:    time.Since(start),
		CreatedAt:   start,
	}

	if !report.Clean() {
		log.Warn("Model output deviates from code|value format",
			zap.Int("deviations", len(report.Deviations)),
		)
	}
	log.Info("Extraction completed",
		zap.Int("records", len(report.Records)),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// ResolvedModel returns the memoized model handle.
func (s *ExtractionService) ResolvedModel(ctx context.Context) (models.ModelHandle, error) {
	return s.selector.Resolve(ctx)
}
