package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("first_name is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeDuplicateEmail},
		{"wrapped referral", fmt.Errorf("linking: %w", apperrors.ErrInvalidReferralCode), http.StatusBadRequest, dto.ErrorCodeInvalidReferralCode},
		{"family conflict", apperrors.ErrFamilyAlreadyExists, http.StatusBadRequest, dto.ErrorCodeConflict},
		{"not found", apperrors.ErrMemberNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "connection reset", body.Error.Details)
			} else {
				assert.Equal(t, tt.err.Error(), body.Message)
			}
		})
	}
}

func newAuthRouter(jwt *auth.JWTService) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": p.MemberID})
	})
	r.GET("/admin", m.JWTAuth(), m.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	r := newAuthRouter(jwt)

	basic, _, err := jwt.GenerateAccessToken(auth.Subject{MemberID: 7, Email: "a@example.com", AccessLevel: "Basic"})
	require.NoError(t, err)
	admin, _, err := jwt.GenerateAccessToken(auth.Subject{MemberID: 1, Email: "root@example.com", AccessLevel: "Admin"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		query  string
		status int
	}{
		{"missing token", "/me", "", "", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer not.a.jwt", "", http.StatusUnauthorized},
		{"bearer", "/me", "Bearer " + basic, "", http.StatusOK},
		{"raw token", "/me", basic, "", http.StatusOK},
		{"query token", "/me", "", basic, http.StatusOK},
		{"basic on admin route", "/admin", "Bearer " + basic, "", http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + admin, "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := tt.path
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: -time.Minute, TokenIssuer: "test"})
	token, _, err := expired.GenerateAccessToken(auth.Subject{MemberID: 7, Email: "a@example.com"})
	require.NoError(t, err)

	r := newAuthRouter(expired)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, w).Error.Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	admin, _, err := jwt.GenerateAccessToken(auth.Subject{MemberID: 1, Email: "root@example.com", AccessLevel: "Admin"})
	require.NoError(t, err)

	m := NewAuthMiddleware(jwt)
	r := gin.New()
	r.POST("/open", m.OptionalJWTAuth(), func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"known": ok, "admin": p.IsAdmin()})
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"anonymous", "", `{"admin":false,"known":false}`},
		{"bad token", "Bearer not.a.jwt", `{"admin":false,"known":false}`},
		{"admin token", "Bearer " + admin, `{"admin":true,"known":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/open", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}
