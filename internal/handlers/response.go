package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/pkg/apierr"
	pkgerrors "github.com/sambasci/marketing-tools-backend/internal/pkg/errors"
	"github.com/sambasci/marketing-tools-backend/internal/repos"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusFor maps service and storage errors onto HTTP statuses so every
// handler reports failures the same way.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, pkgerrors.ErrInvalidArgument),
		errors.Is(err, repos.ErrMissingRequiredField):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, repos.ErrConstraintViolation):
		return http.StatusConflict, "conflict"
	case errors.Is(err, pkgerrors.ErrMissingConfiguration):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, repos.ErrUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	case apierr.IsCode(err, apierr.CodeRateLimited):
		return http.StatusTooManyRequests, apierr.CodeRateLimited
	case apierr.IsCode(err, apierr.CodeTimeout):
		return http.StatusGatewayTimeout, apierr.CodeTimeout
	case apierr.IsCode(err, apierr.CodeUnauthorized):
		return http.StatusBadGateway, "upstream_unauthorized"
	case apierr.IsCode(err, apierr.CodeMalformedResponse):
		return http.StatusBadGateway, apierr.CodeMalformedResponse
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// RespondServiceError classifies err with statusFor and writes the envelope.
func RespondServiceError(c *gin.Context, err error) {
	status, code := statusFor(err)
	RespondError(c, status, code, err)
}
