package middleware

import (
	"net/http"
	"strings"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserIDKey gin context 中已驗證使用者 ID 的 key
const UserIDKey = "user_id"

// Auth 驗證 HS256 Bearer token，將 sub 作為使用者 ID
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortWithError(c, common.ErrUnauthorized)
			return
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || claims.Subject == "" {
			common.LogWarn("Rejected bearer token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestIDOf(c)),
			)
			abortWithError(c, common.ErrUnauthorized)
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Request = c.Request.WithContext(common.WithUserID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

// UserID 取得已驗證的使用者 ID
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// IssueToken 簽發測試與內部工具使用的 token
func IssueToken(secret, userID string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = userID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalError, "failed to sign token", http.StatusInternalServerError, err)
	}
	return signed, nil
}
