package cli

import (
	"context"
	"fmt"

	"ean-extractor/internal/document"
	"ean-extractor/internal/llm"
	"ean-extractor/internal/llm/gemini"
	"ean-extractor/internal/llm/gigachat"
	"ean-extractor/internal/service"
	"ean-extractor/pkg/config"
	"ean-extractor/pkg/logger"

	"go.uber.org/zap"
)

// runtime holds the process-wide state built once at startup.
type runtime struct {
	config   *config.Config
	logger   *zap.Logger
	provider llm.Provider
	service  *service.ExtractionService
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger := logger.Get()

	provider, err := newProvider(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}

	instruction, err := service.InstructionFor(cfg.Extraction.Policy)
	if err != nil {
		provider.Close()
		return nil, err
	}

	loader := document.NewLoader(logger.Named("loader"))
	selector := service.NewModelSelector(provider, cfg.Model, cfg.Extraction.Timeout, logger.Named("model_selector"))
	pipeline := service.NewExtractionPipeline(provider, cfg.Extraction.Timeout, logger.Named("pipeline"))
	extractionService := service.NewExtractionService(loader, selector, pipeline, instruction, logger.Named("extraction"))

	appLogger.Info("Extractor initialized",
		zap.String("provider", provider.Name()),
		zap.String("code_policy", string(cfg.Extraction.Policy)),
		zap.String("instruction_version", instruction.Version),
	)

	return &runtime{
		config:   cfg,
		logger:   appLogger,
		provider: provider,
		service:  extractionService,
	}, nil
}

func newProvider(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGigaChat:
		provider, err := gigachat.NewProvider(ctx, &cfg.GigaChat, appLogger.Named("gigachat"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GigaChat provider: %w", err)
		}
		return provider, nil
	default:
		provider, err := gemini.NewProvider(ctx, gemini.Options{APIKey: cfg.Gemini.APIKey}, appLogger.Named("gemini"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini provider: %w", err)
		}
		return provider, nil
	}
}

func (r *runtime) Close() {
	if err := r.provider.Close(); err != nil {
		r.logger.Warn("Provider close failed", zap.Error(err))
	}
	logger.Sync()
}
