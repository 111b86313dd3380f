package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/pkg/response"
)

// RequireRole aborts with 403 unless the authenticated user holds one of the
// given roles. Admins pass every role check.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
			c.Abort()
			return
		}
		if claims.Role == user.RoleAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, response.ErrorResponse{Error: "insufficient role"})
		c.Abort()
	}
}

// Admin restricts an endpoint to admins.
func Admin() gin.HandlerFunc {
	return RequireRole(user.RoleAdmin)
}

func claimsFrom(c *gin.Context) (*Claims, bool) {
	raw, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*Claims)
	return claims, ok
}

// LoggingMiddleware tags every request with an id and logs method, path,
// status and latency.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Printf("[%s] %s %s -> %d (%s)",
			requestID[:8], c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost:") {
				return true
			}
			if strings.HasPrefix(origin, "http://127.0.0.1:") {
				return true
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	return cors.New(config)
}
