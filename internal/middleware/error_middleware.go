package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// errorMapping ties an error category to its HTTP status and public code
type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

// Checked in order; the first category err matches wins.
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests, please try again later"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)

	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().
			Err(err).
			Str("requestID", RequestIDFrom(c)).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err)
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor maps an error onto its HTTP status and response detail.
// Messages of application errors are passed through; anything else is a generic 500.
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		message := m.fallback
		var appErr *apperrors.CustomError
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}

		detail := dto.NewErrorDetail(m.code, message)
		if appErr != nil {
			switch {
			case appErr.Code != "" && appErr.Details != nil:
				detail = detail.WithDetails(withCode(appErr.Details, appErr.Code))
			case appErr.Code != "":
				detail = detail.WithDetails(map[string]interface{}{"code": appErr.Code})
			case appErr.Details != nil:
				detail = detail.WithDetails(appErr.Details)
			}
		}
		if m.status >= http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityCritical)
		}
		return m.status, detail
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
}

func withCode(details map[string]interface{}, code string) map[string]interface{} {
	out := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out["code"] = code
	return out
}

// Recovery turns panics into the standard 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		HandleAPIError(c, fmt.Errorf("panic: %v", recovered))
	})
}
