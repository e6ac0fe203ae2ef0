package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

// Error codes used in the response envelope
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeURLResolutionFailed = "URL_RESOLUTION_FAILED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	var ue *usecase.Error
	if !errors.As(err, &ue) {
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternal,
			Message:    usecase.MsgInternal,
		}
	}

	switch ue.Kind {
	case usecase.KindInvalidInput:
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeInvalidRequest,
			Message:    ue.Message,
		}
	case usecase.KindResolution:
		// the cause is shown to the caller
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeURLResolutionFailed,
			Message:    ue.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternal,
			Message:    usecase.MsgInternal,
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// Internal errors keep the request id the usecase reported.
func HandleUsecaseError(c *gin.Context, err error) {
	var ue *usecase.Error
	if errors.As(err, &ue) && ue.RequestID != "" {
		c.Set("request_id", ue.RequestID)
	}
	errResp := MapUsecaseError(err)
	if errResp.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, message)
}
