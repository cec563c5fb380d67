package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie 页面登录使用的 Cookie 名
const TokenCookie = "token"

// Claims JWT 声明，Subject 为用户邮箱
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// RequireAuth 必须登录中间件
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, jwtSecret)
		if err != nil {
			// 如果是页面请求，重定向到登录页
			if strings.Contains(c.GetHeader("Accept"), "text/html") {
				c.Redirect(http.StatusFound, "/auth/login?redirect="+c.Request.URL.Path)
				c.Abort()
				return
			}
			// API 请求返回 401
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "未登录", "success": false})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		refreshIfNeeded(c, claims, jwtSecret)
		c.Next()
	}
}

// OptionalAuth 可选登录中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := extractClaims(c, jwtSecret); err == nil {
			setIdentity(c, claims)
			refreshIfNeeded(c, claims, jwtSecret)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
}

// refreshIfNeeded 滑动续期：只续期 Cookie 中的 Token，Bearer Token 由调用方自行换取
func refreshIfNeeded(c *gin.Context, claims *Claims, jwtSecret string) {
	if !shouldRefresh(claims) {
		return
	}
	if _, err := c.Cookie(TokenCookie); err != nil {
		return
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	newToken, err := GenerateToken(claims.UserID, claims.Email, jwtSecret, lifetime)
	if err == nil {
		c.SetCookie(TokenCookie, newToken, int(lifetime.Seconds()), "/", "", false, true)
	}
}

// extractClaims 从 Cookie 或 Header 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	var tokenString string

	// 优先从 Authorization Header 获取，其次 Cookie
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie(TokenCookie); err == nil {
		tokenString = cookie
	}

	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	return ParseToken(tokenString, jwtSecret)
}

// ParseToken 校验并解析 Token
func ParseToken(tokenString, jwtSecret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) int {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(int)
	}
	return 0
}

// GenerateToken 生成 JWT Token
func GenerateToken(userID int, email, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// shouldRefresh 判断是否需要刷新 Token
// 逻辑：如果已经消耗了总有效期的 50% 以上，则建议刷新
func shouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return false
	}

	totalDuration := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	elapsedDuration := time.Since(claims.IssuedAt.Time)

	return elapsedDuration > totalDuration/2
}
