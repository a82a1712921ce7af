package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/config"
)

const (
	traceIDHeader = "X-Trace-ID"
	traceIDKey    = "trace_id"
)

// RecoveryMiddleware panic恢复，记录日志后返回500
func RecoveryMiddleware(log *mlog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("请求处理发生panic",
			mlog.String("trace_id", c.GetString(traceIDKey)),
			mlog.String("path", c.Request.URL.Path),
			mlog.String("panic", fmt.Sprintf("%v", recovered)),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// LoggerMiddleware 访问日志中间件
func LoggerMiddleware(log *mlog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []mlog.Field{
			mlog.String("trace_id", c.GetString(traceIDKey)),
			mlog.String("method", c.Request.Method),
			mlog.String("path", path),
			mlog.Int("status", c.Writer.Status()),
			mlog.Duration("latency", time.Since(start)),
			mlog.String("client_ip", c.ClientIP()),
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("HTTP请求", fields...)
		case status >= 400:
			log.Warn("HTTP请求", fields...)
		default:
			log.Debug("HTTP请求", fields...)
		}
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Trace-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// TraceIDMiddleware TraceID中间件
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头获取TraceID，如果没有则生成
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(traceIDKey, traceID)
		c.Header(traceIDHeader, traceID)

		c.Next()
	}
}

// APITokenAuthMiddleware API Token认证中间件
// 验证请求头中的 Authorization: Bearer <token>
func APITokenAuthMiddleware(securityCfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 如果没有配置token，跳过验证（开发模式）
		if securityCfg.APIToken == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization must be: Bearer <token>",
			})
			return
		}

		if parts[1] != securityCfg.APIToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid API token",
			})
			return
		}

		c.Next()
	}
}

// IPWhitelistMiddleware IP白名单中间件
func IPWhitelistMiddleware(securityCfg *config.SecurityConfig) gin.HandlerFunc {
	// 预解析CIDR
	var networks []*net.IPNet
	var singleIPs []net.IP

	for _, cidr := range securityCfg.IPWhitelist {
		if strings.Contains(cidr, "/") {
			_, network, err := net.ParseCIDR(cidr)
			if err == nil {
				networks = append(networks, network)
			}
		} else {
			ip := net.ParseIP(cidr)
			if ip != nil {
				singleIPs = append(singleIPs, ip)
			}
		}
	}

	return func(c *gin.Context) {
		if len(securityCfg.IPWhitelist) == 0 {
			c.Next()
			return
		}

		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil || !ipAllowed(clientIP, singleIPs, networks) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": fmt.Sprintf("IP %s is not whitelisted", c.ClientIP()),
			})
			return
		}

		c.Next()
	}
}

func ipAllowed(ip net.IP, singleIPs []net.IP, networks []*net.IPNet) bool {
	for _, allowed := range singleIPs {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
