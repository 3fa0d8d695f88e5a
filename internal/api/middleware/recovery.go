package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KHILANO5/Campusfound/pkg/apperr"
	"github.com/KHILANO5/Campusfound/pkg/logger"
	"github.com/KHILANO5/Campusfound/pkg/response"
)

// Recovery turns a handler panic into a logged 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString("request_id")),
					zap.ByteString("stack", debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{
					Code:    apperr.KindStorage,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}
