package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/application"
	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/pkg/response"
)

type AssignmentHandler struct {
	svc *application.AssignmentService
}

func NewAssignmentHandler(svc *application.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// Next godoc
// @Summary Pick the next reviewer or approver under the configured policy
// @Tags assignments
// @Produce json
// @Param role query string true "reviewer or approver"
// @Success 200 {object} response.SuccessResponse "Selected user's identity"
// @Failure 400 {object} response.ErrorResponse "Unknown role"
// @Failure 404 {object} response.ErrorResponse "No eligible users"
// @Router /assignments/next [get]
func (h *AssignmentHandler) Next(c *gin.Context) {
	var (
		selected user.User
		err      error
	)

	switch user.Role(c.Query("role")) {
	case user.RoleReviewer:
		selected, err = h.svc.NextReviewer()
	case user.RoleApprover:
		selected, err = h.svc.NextApprover()
	default:
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "role must be reviewer or approver"})
		return
	}

	if err != nil {
		if errors.Is(err, application.ErrNoEligibleUsers) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Data: gin.H{
		"email": selected.Email,
		"role":  selected.Role,
	}})
}

// Workload godoc
// @Summary Per-user workload dashboard for reviewers and approvers
// @Tags assignments
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=application.WorkloadDashboard}
// @Router /assignments/workload [get]
func (h *AssignmentHandler) Workload(c *gin.Context) {
	dashboard, err := h.svc.Workload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Data: dashboard})
}
