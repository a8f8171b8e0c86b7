// Package controllers exposes the services over HTTP.
package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/memberdir/internal/app/auth"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/middleware"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
)

var errInvalidID = apperrors.NewValidationError("invalid id")

// parseIDParam parses a positive ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// principal returns the authenticated caller or writes a 401.
func principal(ctx *gin.Context) (appauth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
	}
	return p, ok
}

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), gin.MIMEMultipartPOSTForm)
}

// rawBody reads a loosely typed object from a JSON body or from the fields
// of a multipart form. The form is nil for JSON requests.
func rawBody(ctx *gin.Context) (dto.RawObject, *multipart.Form, error) {
	if isMultipart(ctx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid multipart form: %v", err)
		}
		return dto.RawObjectFromForm(form.Value), form, nil
	}

	data, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, apperrors.NewValidationError("request body too large")
		}
		return nil, nil, err
	}
	obj, err := dto.ParseRawObject(data)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("invalid JSON body: %v", err)
	}
	return obj, nil, nil
}

// formFile returns the named upload or nil when absent.
func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}
