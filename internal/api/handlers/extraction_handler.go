package handlers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"ean-extractor/internal/document"
	"ean-extractor/internal/dto"
	"ean-extractor/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Extractor is the core the shell calls into.
type Extractor interface {
	Process(ctx context.Context, fileName string, data []byte) (*models.ExtractionResult, error)
	ResolvedModel(ctx context.Context) (models.ModelHandle, error)
}

type ExtractionHandler struct {
	extractor        Extractor
	maxUploadBytes   int64
	downloadFileName string
	logger           *zap.Logger
}

func NewExtractionHandler(extractor Extractor, maxUploadBytes int64, downloadFileName string, logger *zap.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		extractor:        extractor,
		maxUploadBytes:   maxUploadBytes,
		downloadFileName: downloadFileName,
		logger:           logger,
	}
}

// CreateExtraction godoc
// @Summary Extract EAN codes and quantities
// @Description Upload a PDF, JPG or PNG list and get the normalized code|value table
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file (pdf, jpg, jpeg, png)"
// @Success 200 {object} dto.ExtractionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/extractions [post]
func (h *ExtractionHandler) CreateExtraction(c *fiber.Ctx) error {
	result, err := h.extract(c)
	if err != nil {
		return h.respondError(c, err)
	}
	resp := dto.NewExtractionResponse(result)
	resp.DownloadName = h.downloadFileName
	return c.JSON(resp)
}

// DownloadExtraction godoc
// @Summary Extract and download as text
// @Description Same as CreateExtraction but returns the table as a text/plain attachment
// @Tags extractions
// @Accept multipart/form-data
// @Produce plain
// @Param file formData file true "Document file (pdf, jpg, jpeg, png)"
// @Success 200 {string} string "code|value lines"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/extractions/download [post]
func (h *ExtractionHandler) DownloadExtraction(c *fiber.Ctx) error {
	result, err := h.extract(c)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Attachment(h.downloadFileName)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(result.Text)
}

// GetModel godoc
// @Summary Resolved model
// @Description Returns the model chosen for extractions in this process
// @Tags model
// @Produce json
// @Success 200 {object} dto.ModelResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/model [get]
func (h *ExtractionHandler) GetModel(c *fiber.Ctx) error {
	handle, err := h.extractor.ResolvedModel(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.NewModelResponse(handle))
}

func (h *ExtractionHandler) extract(c *fiber.Ctx) (*models.ExtractionResult, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File is required")
	}

	if !isAccepted(file.Filename) {
		return nil, models.ErrUnsupportedFormat
	}
	if file.Size > h.maxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "File exceeds upload limit")
	}

	src, err := file.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to open file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxUploadBytes+1))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read file")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "File exceeds upload limit")
	}

	return h.extractor.Process(c.UserContext(), file.Filename, data)
}

func (h *ExtractionHandler) respondError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message})
	}

	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("Extraction failed", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: models.DisplayMessage(err)})
}

func statusFor(err error) int {
	var transportErr *models.TransportError
	var modelErr *models.ModelError
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat),
		errors.Is(err, models.ErrEmptyDocument),
		errors.Is(err, models.ErrInvalidDocument):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrModelUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &transportErr), errors.As(err, &modelErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func isAccepted(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, supported := range document.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
