package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// 通用错误码
const (
	CodeOK            = 0
	CodeBadParam      = 10001
	CodeUnauthorized  = 10002
	CodeForbidden     = 10003
	CodeTooMany       = 10004
	CodeBodyTooLarge  = 10005
	CodeInternalError = 50000
)

func write(c *gin.Context, status int, resp Response) {
	if rid, ok := c.Get("request_id"); ok {
		resp.RequestID, _ = rid.(string)
	}
	c.JSON(status, resp)
}

// OK 200 成功响应
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, Response{Code: CodeOK, Message: "success", Data: data})
}

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	write(c, httpStatus, Response{Code: code, Message: message, Details: details})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// ServiceUnavailable 503，存储协作方不可用
func ServiceUnavailable(c *gin.Context, code int, message string) {
	Error(c, http.StatusServiceUnavailable, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternalError, "服务器内部错误")
}
