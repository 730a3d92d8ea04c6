package dto

import (
	"time"

	"ean-extractor/internal/models"
)

type ExtractionResponse struct {
	ID                 string             `json:"id"`
	FileName           string             `json:"file_name"`
	Kind               string             `json:"kind"`
	Model              string             `json:"model"`
	InstructionVersion string             `json:"instruction_version"`
	Text               string             `json:"text"`
	Records            []models.Record    `json:"records"`
	Deviations         []models.Deviation `json:"deviations"`
	DurationMS         int64              `json:"duration_ms"`
	CreatedAt          string             `json:"created_at"`
	// DownloadName is the file name the table should be saved under.
	DownloadName string `json:"download_name,omitempty"`
}

type ModelResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Fallback bool   `json:"fallback"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewExtractionResponse(result *models.ExtractionResult) ExtractionResponse {
	return ExtractionResponse{
		ID:                 result.ID.String(),
		FileName:           result.FileName,
		Kind:               string(result.Kind),
		Model:              result.Model.Name,
		InstructionVersion: result.Instruction,
		Text:               result.Text,
		Records:            result.Report.Records,
		Deviations:         result.Report.Deviations,
		DurationMS:         result.Duration.Milliseconds(),
		CreatedAt:          result.CreatedAt.Format(time.RFC3339),
	}
}

func NewModelResponse(handle models.ModelHandle) ModelResponse {
	return ModelResponse{
		Provider: handle.Provider,
		Model:    handle.Name,
		Fallback: handle.Fallback,
	}
}
