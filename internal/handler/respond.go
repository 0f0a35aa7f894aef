package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"

	"github.com/gin-gonic/gin"
)

// Error codes surfaced to API clients. Upstream error bodies are never echoed.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeExternalAPI    = "EXTERNAL_API_ERROR"
	codeInternal       = "INTERNAL_ERROR"
)

// APIError is the error half of the response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the uniform JSON response shape.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Timestamp int64     `json:"timestamp"`
	Error     *APIError `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{
		Success:   false,
		Timestamp: time.Now().UnixMilli(),
		Error:     &APIError{Code: code, Message: message},
	})
}

// respondError maps the error taxonomy onto HTTP statuses: ValidationError
// 400, UpstreamError 502 with a generic message, everything else 500.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		respondErrorCode(c, http.StatusBadRequest, codeInvalidRequest, validationErr.Error())
		return
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		respondErrorCode(c, http.StatusBadGateway, codeExternalAPI, "upstream fetch failed")
		return
	}

	respondErrorCode(c, http.StatusInternalServerError, codeInternal, "internal server error")
}
