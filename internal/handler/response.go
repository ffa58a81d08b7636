package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataanalyst/internal/domain"
	"dataanalyst/internal/middleware"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, detail string) {
	c.JSON(status, ErrorResponse{Detail: detail, Code: code})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string) {
	switch {
	case errors.Is(err, domain.ErrMissingQuestions):
		return http.StatusBadRequest, "MISSING_QUESTIONS"
	case errors.Is(err, domain.ErrInvalidUpload):
		return http.StatusBadRequest, "INVALID_UPLOAD"
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusBadRequest, "UNSUPPORTED_IMAGE"
	case errors.Is(err, domain.ErrInvalidSpreadsheet):
		return http.StatusBadRequest, "INVALID_SPREADSHEET"
	case errors.Is(err, domain.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"
	case errors.Is(err, domain.ErrAPIKeyMissing):
		return http.StatusInternalServerError, "API_KEY_MISSING"
	case errors.Is(err, domain.ErrEmptyModelResponse):
		return http.StatusInternalServerError, "EMPTY_MODEL_RESPONSE"
	case errors.Is(err, domain.ErrModelFailure):
		return http.StatusInternalServerError, "MODEL_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Unknown errors are logged and reported without detail.
func HandleError(c *gin.Context, log *zap.Logger, err error) {
	status, code := MapDomainError(err)
	detail := err.Error()
	if code == "INTERNAL_ERROR" {
		detail = "an internal error occurred"
	}
	if status >= 500 {
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	RespondError(c, status, code, detail)
}
