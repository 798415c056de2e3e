package middleware

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDParam answers 404 when a named path parameter is present but is not a
// UUID, so malformed ids never reach the database.
func UUIDParam(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			v := c.Param(name)
			if v == "" {
				continue
			}
			if _, err := uuid.Parse(v); err != nil {
				response.Abort(c, http.StatusNotFound, apperror.CodeNotFound, apperror.ErrNotFound.Message)
				return
			}
		}
		c.Next()
	}
}
