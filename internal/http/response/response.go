package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK 200 响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 纯消息响应
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// NotFound 404 响应，固定 {"error": ...} 形态
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// UnprocessableEntity 422 响应，字段名到错误消息列表的映射
func UnprocessableEntity(c *gin.Context, field, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{field: []string{msg}})
}

// TooManyRequests 429 响应
func TooManyRequests(c *gin.Context, msg string) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": msg})
}

// Internal 500 响应
func Internal(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
