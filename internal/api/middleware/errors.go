package middleware

import (
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// abortWithError 以統一的錯誤格式中止請求
func abortWithError(c *gin.Context, err *common.CustomError) {
	status, resp := common.ToErrorResponse(err, false)
	c.AbortWithStatusJSON(status, resp)
}
