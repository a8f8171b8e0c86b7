package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/memberdir/internal/app/models/dto"
)

// BindJSON binds the body into obj and writes a 400 listing the failing
// fields when binding or validation fails. It reports whether the handler
// may continue.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// Bind is BindJSON for requests that may be JSON or multipart.
func Bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// MaxMultipartMemory caps request bodies at limit bytes.
func MaxMultipartMemory(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			// multipart overhead on top of the file limit
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
		}
		c.Next()
	}
}
