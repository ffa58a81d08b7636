package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataanalyst/internal/domain"
	"dataanalyst/internal/service"
	"dataanalyst/internal/spreadsheet"
)

// multipartMemory is how much of a form is buffered in memory before parts spill to disk.
const multipartMemory = 8 << 20

// AnalysisHandler handles the question-bundle endpoint.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	maxUploadBytes  int64
	log             *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler. maxUploadBytes <= 0 disables the body limit.
func NewAnalysisHandler(analysisService service.AnalysisService, maxUploadBytes int64, log *zap.Logger) *AnalysisHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisHandler{
		analysisService: analysisService,
		maxUploadBytes:  maxUploadBytes,
		log:             log,
	}
}

// Analyze handles POST /api
// @Summary Answer a data-analysis question bundle
// @Description Reads questions.txt (required), data.csv or data.xlsx and image.png (optional), optionally scrapes a referenced table, and returns the model's JSON answer
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param questions.txt formData file true "Question text (UTF-8)"
// @Param data.csv formData file false "CSV data (UTF-8)"
// @Param data.xlsx formData file false "Excel workbook; first sheet is used when data.csv is absent"
// @Param image.png formData file false "Image"
// @Success 200 {object} object "Model answer, or {response, status} when not JSON"
// @Failure 400 {object} ErrorResponse "Missing or undecodable upload"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 500 {object} ErrorResponse "Missing API key or model failure"
// @Router /api [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	bundle, err := h.readBundle(c)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), *bundle)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result.Body)
}

func (h *AnalysisHandler) readBundle(c *gin.Context) (*domain.Bundle, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, domain.ErrUploadTooLarge
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, domain.ErrMissingQuestions
		default:
			return nil, fmt.Errorf("%w: malformed multipart body: %v", domain.ErrInvalidUpload, err)
		}
	}
	form := c.Request.MultipartForm

	questions, _, ok, err := readPart(form, domain.FieldQuestions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrMissingQuestions
	}
	bundle := &domain.Bundle{Questions: string(questions)}

	csvData, _, ok, err := readPart(form, domain.FieldCSV)
	if err != nil {
		return nil, err
	}
	if ok {
		bundle.CSV = string(csvData)
		bundle.HasCSV = true
	} else {
		xlsxData, _, ok, err := readPart(form, domain.FieldXLSX)
		if err != nil {
			return nil, err
		}
		if ok {
			text, convErr := spreadsheet.XLSXToCSV(xlsxData)
			if convErr != nil {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSpreadsheet, domain.FieldXLSX, convErr)
			}
			bundle.CSV = text
			bundle.HasCSV = true
		}
	}

	image, imageName, ok, err := readPart(form, domain.FieldImage)
	if err != nil {
		return nil, err
	}
	if ok {
		bundle.Image = image
		bundle.ImageName = imageName
		bundle.HasImage = true
	}

	return bundle, nil
}

// readPart returns the first file uploaded under field. Plain (non-file)
// form values are accepted too, so curl -F 'questions.txt=...' works.
func readPart(form *multipart.Form, field string) (data []byte, filename string, ok bool, err error) {
	if form == nil {
		return nil, "", false, nil
	}
	if headers := form.File[field]; len(headers) > 0 {
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, "", false, fmt.Errorf("%w: error reading %s: %v", domain.ErrInvalidUpload, field, err)
		}
		defer func() { _ = f.Close() }()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", false, fmt.Errorf("%w: error reading %s: %v", domain.ErrInvalidUpload, field, err)
		}
		return data, fh.Filename, true, nil
	}
	if values := form.Value[field]; len(values) > 0 {
		return []byte(values[0]), field, true, nil
	}
	return nil, "", false, nil
}
