package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ean-extractor/internal/llm"
	"ean-extractor/internal/models"
	"ean-extractor/pkg/config"

	"go.uber.org/zap"
)

// ModelSelector resolves the model used for extraction once per process.
//
// Among the models declaring generateContent it prefers the first whose name
// contains the preferred marker, then the first containing the family marker,
// and falls back to the configured default when none match. A failed
// enumeration, including one that panics or exceeds the timeout, yields
// models.ErrModelUnavailable. Either outcome is memoized.
type ModelSelector struct {
	provider llm.Provider
	config   config.ModelConfig
	timeout  time.Duration
	logger   *zap.Logger

	once   sync.Once
	handle models.ModelHandle
	err    error
}

func NewModelSelector(provider llm.Provider, cfg config.ModelConfig, timeout time.Duration, logger *zap.Logger) *ModelSelector {
	return &ModelSelector{
		provider: provider,
		config:   cfg,
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *ModelSelector) Resolve(ctx context.Context) (models.ModelHandle, error) {
	s.once.Do(func() {
		s.handle, s.err = s.resolve(ctx)
		if s.err != nil {
			s.logger.Error("Model resolution failed", zap.Error(s.err))
			return
		}
		s.logger.Info("Model resolved",
			zap.String("provider", s.handle.Provider),
			zap.String("model", s.handle.Name),
			zap.Bool("fallback", s.handle.Fallback),
		)
	})
	return s.handle, s.err
}

func (s *ModelSelector) resolve(ctx context.Context) (models.ModelHandle, error) {
	handle := models.ModelHandle{Provider: s.provider.Name()}

	if s.config.Name != "" {
		handle.Name = s.config.Name
		return handle, nil
	}

	available, err := s.listModels(ctx)
	if err != nil {
		return models.ModelHandle{}, fmt.Errorf("%w: %w", models.ErrModelUnavailable, err)
	}

	if name, ok := firstMatching(available, s.config.PreferredMarker); ok {
		handle.Name = name
		return handle, nil
	}
	if name, ok := firstMatching(available, s.config.FamilyMarker); ok {
		handle.Name = name
		return handle, nil
	}

	if s.config.Default == "" {
		return models.ModelHandle{}, fmt.Errorf("%w: no candidate among %d models and no default configured", models.ErrModelUnavailable, len(available))
	}
	handle.Name = s.config.Default
	handle.Fallback = true
	return handle, nil
}

// listModels bounds the enumeration by the timeout and converts a provider
// panic into an error so the memoized outcome is never an empty handle.
func (s *ModelSelector) listModels(ctx context.Context) (available []llm.ModelInfo, err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Provider panicked during model enumeration", zap.Any("panic", r))
			available, err = nil, panicError{value: r}
		}
	}()

	return s.provider.ListModels(ctx)
}

func firstMatching(available []llm.ModelInfo, marker string) (string, bool) {
	if marker == "" {
		return "", false
	}
	for _, m := range available {
		if m.SupportsGeneration() && strings.Contains(m.Name, marker) {
			return m.Name, true
		}
	}
	return "", false
}
