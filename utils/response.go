package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-farmlink/logger"
	"go-farmlink/models"
)

var log = logger.NewSublogger("http")

// Response 统一API响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorDetail 错误响应中的附加信息
type ErrorDetail struct {
	// 拒绝访问的原因代码，例如 ACCESS_RESTRICTED
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// Created 返回创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

// BadRequest 返回请求错误响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// Unauthorized 返回未授权响应
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

// Forbidden 返回拒绝访问响应
func Forbidden(c *gin.Context, reason, message string) {
	c.JSON(http.StatusForbidden, Response{
		Code:    http.StatusForbidden,
		Message: message,
		Data:    ErrorDetail{Reason: reason},
	})
}

// NotFound 返回资源未找到响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

// TooManyRequests 返回限流响应
func TooManyRequests(c *gin.Context, message string) {
	c.JSON(http.StatusTooManyRequests, Response{
		Code:    http.StatusTooManyRequests,
		Message: message,
	})
}

// InternalServerError 返回服务器内部错误响应
func InternalServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

// NoContent 返回无内容响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail 将领域错误转换为响应。未识别的错误只记录日志，客户端看到 "Failed to <op>"
func Fail(c *gin.Context, op string, err error) {
	var validation *models.ValidationError
	var transition *models.TransitionError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: validation.Error(),
			Data:    ErrorDetail{Field: validation.Field},
		})
	case errors.Is(err, models.ErrUnauthorized):
		Unauthorized(c, "Authentication required")
	case errors.Is(err, models.ErrForbidden):
		if accessErr, ok := models.IsAccessError(err); ok {
			Forbidden(c, accessErr.Code, accessErr.Message)
			return
		}
		Forbidden(c, models.CodeAccessRestricted, "Access restricted")
	case errors.Is(err, models.ErrNotFound):
		NotFound(c, "Not found")
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, Response{
			Code:    http.StatusConflict,
			Message: transition.Error(),
			Data:    ErrorDetail{From: string(transition.From), To: string(transition.To)},
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, Response{
			Code:    http.StatusConflict,
			Message: "Conflict",
		})
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"op":     op,
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		InternalServerError(c, "Failed to "+op)
	}
}
