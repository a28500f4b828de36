package middleware

import (
	"net/http"

	"github.com/garimpo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body size. The declared Content-Length is
// rejected up front; bodies without a declared length are capped while
// streaming via MaxBytesReader, which matters for the CSV upload route.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeFileTooLarge,
					"Request body exceeds maximum allowed size",
					c.GetString("request_id")))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
