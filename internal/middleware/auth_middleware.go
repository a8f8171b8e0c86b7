package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/memberdir/internal/app/auth"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/auth"
)

const principalKey = "principal"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	detail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// tokenFromRequest reads the bearer token. Swagger UI sometimes sends the
// raw token or passes it as a query parameter.
func tokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	header = strings.Trim(strings.TrimSpace(header), `"'`)
	if header == "" {
		return ""
	}
	token, _ := auth.ExtractBearerToken(header)
	return strings.TrimSpace(token)
}

func principalFromClaims(claims *auth.Claims) appauth.Principal {
	return appauth.Principal{
		MemberID:    claims.MemberID,
		Email:       claims.Email,
		AccessLevel: domain.AccessLevel(claims.AccessLevel),
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(token)
		if err != nil {
			code, details := dto.ErrorCodeInvalidToken, "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code, details = dto.ErrorCodeExpiredToken, "Token has expired"
			}
			abortUnauthorized(c, code, details)
			return
		}

		c.Set(principalKey, principalFromClaims(claims))
		c.Next()
	}
}

// OptionalJWTAuth sets the principal when a valid token is sent and lets
// anonymous callers through. A bad token is treated as no token.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := m.jwtService.ValidateAndExtractClaims(token); err == nil {
				c.Set(principalKey, principalFromClaims(claims))
			}
		}
		c.Next()
	}
}

// AdminRequired rejects callers without the Admin access level. It must run
// after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Member information not found")
			return
		}
		if !p.IsAdmin() {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("Admin access level required")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller set by JWTAuth.
func CurrentPrincipal(c *gin.Context) (appauth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return appauth.Principal{}, false
	}
	p, ok := v.(appauth.Principal)
	return p, ok
}
