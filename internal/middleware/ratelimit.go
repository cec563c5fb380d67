package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// IPRateLimiter 按客户端 IP 限流，长时间不活跃的 IP 自动过期
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

const (
	maxTrackedIPs  = 10000
	visitorIdleTTL = 10 * time.Minute
)

// NewIPRateLimiter perMinute 为每分钟允许的请求数
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	burst := perMinute / 4
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedIPs, nil, visitorIdleTTL),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// Allow 判断该 IP 是否还有余量
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// 重新写入以刷新过期时间
	l.limiters.Add(ip, limiter)
	l.mu.Unlock()

	return limiter.Allow()
}

// Tracked 当前记录的 IP 数
func (l *IPRateLimiter) Tracked() int {
	return l.limiters.Len()
}

// RateLimit 限流中间件，用于登录与注册
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "请求过于频繁，请稍后再试",
				"success": false,
			})
			return
		}
		c.Next()
	}
}
