package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/logger"
)

// errorMapping ties an error class to its HTTP status and code. Order
// matters: ErrFamilyAlreadyExists wraps ErrConflict, for instance.
var errorMapping = []struct {
	target error
	status int
	code   dto.ErrorCode
}{
	{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeDuplicateEmail},
	{apperrors.ErrInvalidReferralCode, http.StatusBadRequest, dto.ErrorCodeInvalidReferralCode},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrConflict, http.StatusBadRequest, dto.ErrorCodeConflict},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
}

// HandleAPIError writes the error response for err. Client errors carry the
// error's own message; anything unrecognised becomes a 500 with the
// underlying text in details.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			c.JSON(m.status, dto.NewErrorResponse(dto.NewErrorDetail(m.code, err.Error())))
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical).
		WithDetails(err.Error())
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}

// Recovery turns a panic into the standard 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	})
}
