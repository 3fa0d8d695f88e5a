// Package response shapes HTTP bodies. Success bodies are written as-is;
// failures use ErrorBody and never expose store error text.
package response

import (
	"errors"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KHILANO5/Campusfound/pkg/apperr"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
}

const internalMessage = "internal server error"

// StatusOf maps an error kind to its fixed HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func Success(c *gin.Context, data any) { c.JSON(http.StatusOK, data) }

func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

// BadRequest 请求格式错误（JSON 解析失败、路径参数非法等）
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Code: apperr.KindValidation, Message: msg})
}

// InternalError logs err and writes a generic 500.
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Code: apperr.KindStorage, Message: internalMessage})
}

// Error writes the response for a service error.
func Error(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindStorage {
		InternalError(c, err)
		return
	}
	c.AbortWithStatusJSON(StatusOf(ae.Kind), ErrorBody{Code: ae.Kind, Message: ae.Message, Field: ae.Field})
}
