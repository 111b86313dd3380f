package testutils

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/api/middleware"
	"github.com/sdgmon/portal-go/internal/api/routes"
	"github.com/sdgmon/portal-go/internal/config"
	"gorm.io/gorm"
)

// SetupRouter builds a test engine with the full route table over the given
// database connection.
func SetupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	config.LoadConfig()
	middleware.Init()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.RegisterRoutes(r, db)
	return r
}
