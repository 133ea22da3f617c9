package handler

import (
	"VideoForge/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// sendServiceError 把service层的错误翻译成状态码，业务错误可以安全地展示给用户，其余的只返回fallback
func sendServiceError(c *gin.Context, logCtx *logrus.Entry, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		logCtx.WithError(err).Warn("参数校验失败")
		sendErrorResponse(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrVideoNotFound):
		sendErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		sendErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrNotPublishable):
		sendErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		sendErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrPublishDisabled):
		sendErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		logCtx.WithError(err).Error(fallback)
		sendErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// 因为context中的userID是从jwt中间件中解析的，jwt.MapClaims中的数字相关会自动解析为float64，而context中的值又会被转化为interface{}
func currentUser(c *gin.Context) (uint64, string, bool) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		return 0, "", false
	}
	id, ok := userIDFloat.(float64)
	if !ok {
		return 0, "", false
	}
	username, _ := c.Get("username")
	name, _ := username.(string)
	return uint64(id), name, true
}

// c.Param从URL提取的是string，转成uint64
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// 在URL的查询参数里（?后面的部分）找key，没找到或不是数字就返回默认值
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
