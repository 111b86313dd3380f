package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/sdgmon/portal-go/internal/api/handlers"
	"github.com/sdgmon/portal-go/internal/api/middleware"
	"github.com/sdgmon/portal-go/internal/application"
	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/internal/repository"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) *application.Services {
	repos := repository.NewRepositories(db)
	services := application.New(repos)
	h := handlers.New(services, repos, r)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/register", h.User.Register)
	r.POST("/login", h.User.Login)
	r.POST("/logout", h.User.Logout)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.GET("/auth/status", h.User.AuthStatus)
		auth.GET("/indicators", handlers.ListIndicators)

		records := auth.Group("/records")
		{
			records.GET("", h.Record.List)
			records.POST("", middleware.RequireRole(user.RoleSubmitter), h.Record.Save)
			records.POST("/reconcile", h.Record.Reconcile)
			records.PUT("/:id/review", middleware.RequireRole(user.RoleReviewer), h.Record.Review)
			records.PUT("/:id/approve", middleware.RequireRole(user.RoleApprover), h.Record.Approve)
			records.PUT("/:id/reject", middleware.RequireRole(user.RoleReviewer, user.RoleApprover), h.Record.Reject)
			records.PUT("/:id/fields", h.Record.EditFields)
			records.PUT("/:id/restore", h.Record.Restore)
			records.DELETE("/:id", h.Record.Delete)
		}

		assignments := auth.Group("/assignments")
		{
			assignments.GET("/next", h.Assignment.Next)
			assignments.GET("/workload", h.Assignment.Workload)
		}

		users := auth.Group("/users")
		users.Use(middleware.Admin())
		{
			users.GET("", h.User.GetUsers)
			users.PUT("/:id", h.User.UpdateUser)
			users.PUT("/:id/approve", h.User.ApproveUser)
			users.PUT("/:id/reject", h.User.RejectUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}

		auth.GET("/audit-logs", middleware.Admin(), h.Audit.ListAuditLogs)
	}

	return services
}
