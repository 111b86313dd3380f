package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/application"
	"github.com/sdgmon/portal-go/internal/repository"
)

type Handlers struct {
	Assignment *AssignmentHandler
	Audit      *AuditHandler
	Record     *RecordHandler
	User       *UserHandler
	Router     *gin.Engine
}

func New(svc *application.Services, repos *repository.Repos, router *gin.Engine) *Handlers {
	return &Handlers{
		Assignment: NewAssignmentHandler(svc.Assignment),
		Audit:      NewAuditHandler(svc.Audit),
		Record:     NewRecordHandler(svc.Record, repos.Audit),
		User:       NewUserHandler(svc.User),
		Router:     router,
	}
}

func parseIDParam(c *gin.Context) (uint, error) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}
