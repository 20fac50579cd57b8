package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dongha22/strategiccategory/internal/store"
)

// 错误码
const (
	CodeOK              = 0
	CodeInvalidParams   = 1001
	CodeUnknownCategory = 1002
	CodeNotFound        = 4004
	CodeStorage         = 5001
	CodeImport          = 5002
	CodeExport          = 5003
)

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// storeError 按存储层的哨兵错误选择状态码
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		errorResponse(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, store.ErrInvalid):
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, err.Error())
	case errors.Is(err, store.ErrUnknownCategory):
		errorResponse(c, http.StatusNotFound, CodeUnknownCategory, err.Error())
	default:
		errorResponse(c, http.StatusInternalServerError, CodeStorage, err.Error())
	}
}
