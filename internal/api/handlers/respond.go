package handlers

import (
	"errors"
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為統一的 JSON 響應並記錄
func RespondError(c *gin.Context, err error, debug bool) {
	status, resp := common.ToErrorResponse(err, debug)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("code", resp.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求被拒絕", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// BindJSON 解析請求體，失敗時回應錯誤並回傳 false
func BindJSON(c *gin.Context, dst interface{}, debug bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, common.ErrPayloadTooLarge.Wrap(err), debug)
			return false
		}
		RespondError(c, common.ErrInvalidRequest.Wrap(err), debug)
		return false
	}
	return true
}

// Deleted 刪除成功的響應
func Deleted(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
