// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/sandrasocial/sselfie-9g-sub000/pkg/errors"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/tracer"
)

// Response 统一响应结构（查询类接口）
type Response[T any] struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    T         `json:"data,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// PageMeta 分页元数据
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TraceID 优先取追踪中间件写入的 trace_id，否则从 span 读取
func TraceID(c *gin.Context) string {
	if id := c.GetString("trace_id"); id != "" {
		return id
	}
	return tracer.TraceID(c.Request.Context())
}

// Success 返回成功响应
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, Response[T]{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		TraceID: TraceID(c),
	})
}

// SuccessWithPage 返回带分页的成功响应
func SuccessWithPage[T any](c *gin.Context, data T, meta *PageMeta) {
	c.JSON(http.StatusOK, Response[T]{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		Meta:    meta,
		TraceID: TraceID(c),
	})
}

// Error 返回错误响应；message 与 trace_id 总是存在
func Error(c *gin.Context, httpCode int, message string) {
	c.AbortWithStatusJSON(httpCode, gin.H{
		"code":     httpCode,
		"message":  message,
		"trace_id": TraceID(c),
	})
}

// AppError 把 AppError 写成扁平 JSON：附加数据（required/current/photoshootId 等）直接放在顶层，
// 5xx 额外带 error 与 details
func AppError(c *gin.Context, err *apperrors.AppError) {
	body := gin.H{
		"code":     err.Code,
		"message":  err.Message,
		"trace_id": TraceID(c),
	}
	if err.HTTPStatus >= http.StatusInternalServerError {
		body["error"] = err.Message
		if err.Detail != "" {
			body["details"] = err.Detail
		}
	} else if err.Detail != "" {
		body["details"] = err.Detail
	}
	for k, v := range err.Data {
		body[k] = v
	}
	c.AbortWithStatusJSON(err.HTTPStatus, body)
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 返回 401 错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Conflict 返回 409 错误
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// TooManyRequests 返回 429 错误
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// InternalError 返回 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NewPageMeta 创建分页元数据
func NewPageMeta(page, pageSize int, total int64) *PageMeta {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &PageMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
