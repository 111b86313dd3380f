package application

import (
	"github.com/sdgmon/portal-go/internal/repository"
)

type Services struct {
	Audit      *AuditService
	Assignment *AssignmentService
	Record     *RecordService
	User       *UserService
}

func New(repos *repository.Repos) *Services {
	assignment := NewAssignmentService(repos)
	return &Services{
		Audit:      NewAuditService(repos),
		Assignment: assignment,
		Record:     NewRecordService(repos, assignment),
		User:       NewUserService(repos),
	}
}
