package service

import (
	"context"
	"sync"

	"ean-extractor/internal/llm"
	"ean-extractor/internal/models"
)

// stubProvider implements llm.Provider for testing.
type stubProvider struct {
	mu sync.Mutex

	models  []llm.ModelInfo
	listErr error
	listFn  func(ctx context.Context) ([]llm.ModelInfo, error)

	response    string
	generateErr error
	generateFn  func(ctx context.Context) (string, error)

	listCalls      int
	generateCalls  int
	gotModel       string
	gotInstruction string
	gotDoc         *models.Document
}

func (s *stubProvider) Name() string {
	return "stub"
}

func (s *stubProvider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	s.mu.Lock()
	s.listCalls++
	fn := s.listFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.models, nil
}

func (s *stubProvider) Generate(ctx context.Context, model, instruction string, doc *models.Document) (string, error) {
	s.mu.Lock()
	s.generateCalls++
	s.gotModel = model
	s.gotInstruction = instruction
	s.gotDoc = doc
	fn := s.generateFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.response, nil
}

func (s *stubProvider) Close() error {
	return nil
}

func generating(names ...string) []llm.ModelInfo {
	out := make([]llm.ModelInfo, 0, len(names))
	for _, name := range names {
		out = append(out, llm.ModelInfo{Name: name, Methods: []string{llm.GenerateContentMethod}})
	}
	return out
}
