package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/application"
	"github.com/sdgmon/portal-go/internal/domain/record"
	"github.com/sdgmon/portal-go/internal/repository"
	"github.com/sdgmon/portal-go/pkg/response"
	"github.com/sdgmon/portal-go/pkg/utils"
)

type RecordHandler struct {
	svc       *application.RecordService
	auditRepo repository.AuditRepo
}

func NewRecordHandler(svc *application.RecordService, auditRepo repository.AuditRepo) *RecordHandler {
	return &RecordHandler{svc: svc, auditRepo: auditRepo}
}

// writeRecordError maps workflow failures onto the response contract:
// validation 400, missing candidate 404, permission denials 403 with the
// role-specific reason text.
func writeRecordError(c *gin.Context, err error) {
	var fe *application.ForbiddenError
	switch {
	case errors.Is(err, application.ErrMessageRequired),
		errors.Is(err, application.ErrUnknownIndicator):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrNoCandidateRecord),
		errors.Is(err, repository.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
	case errors.As(err, &fe):
		c.JSON(http.StatusForbidden, response.ErrorResponse{Error: fe.Reason})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
	}
}

// Save godoc
// @Summary Create a draft or submit an indicator record
// @Tags records
// @Accept json
// @Produce json
// @Param input body record.SaveRecordInput true "Record payload with target status (draft or submitted)"
// @Success 201 {object} response.SuccessResponse{data=record.Record}
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Router /records [post]
func (h *RecordHandler) Save(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	var input record.SaveRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.Save(actor, input)
	if err != nil {
		writeRecordError(c, err)
		return
	}

	utils.LogAuditWithConsole(c, string(rec.Status), "record", rec.IndicatorID, nil, rec, "record saved", h.auditRepo)
	c.JSON(http.StatusCreated, response.SuccessResponse{Data: rec})
}

// Review godoc
// @Summary Review a submitted record (reviewer)
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Indicator ID"
// @Param input body record.TransitionInput true "Review note (required)"
// @Success 200 {object} response.SuccessResponse{data=record.Record}
// @Failure 400 {object} response.ErrorResponse "Note missing"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 404 {object} response.ErrorResponse "No candidate record"
// @Router /records/{id}/review [put]
func (h *RecordHandler) Review(c *gin.Context) {
	h.transition(c, record.ActionReview)
}

// Approve godoc
// @Summary Approve a reviewed record (approver)
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Indicator ID"
// @Param input body record.TransitionInput true "Approval note (required)"
// @Success 200 {object} response.SuccessResponse{data=record.Record}
// @Failure 400 {object} response.ErrorResponse "Note missing"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 404 {object} response.ErrorResponse "No candidate record"
// @Router /records/{id}/approve [put]
func (h *RecordHandler) Approve(c *gin.Context) {
	h.transition(c, record.ActionApprove)
}

// Reject godoc
// @Summary Reject a submitted or reviewed record (reviewer/approver)
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Indicator ID"
// @Param input body record.TransitionInput true "Rejection note (required)"
// @Success 200 {object} response.SuccessResponse{data=record.Record}
// @Failure 400 {object} response.ErrorResponse "Note missing"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 404 {object} response.ErrorResponse "No candidate record"
// @Router /records/{id}/reject [put]
func (h *RecordHandler) Reject(c *gin.Context) {
	h.transition(c, record.ActionReject)
}

func (h *RecordHandler) transition(c *gin.Context, action record.Action) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	var input record.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.Transition(actor, c.Param("id"), action, input.Note)
	if err != nil {
		writeRecordError(c, err)
		return
	}

	utils.LogAuditWithConsole(c, string(action), "record", rec.IndicatorID, nil, rec, "workflow transition", h.auditRepo)
	c.JSON(http.StatusOK, response.SuccessResponse{Data: rec})
}

// EditFields godoc
// @Summary Edit record payload fields without a status change
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Indicator ID"
// @Param input body record.EditFieldsInput true "Fields to change"
// @Success 200 {object} response.SuccessResponse{data=record.Record}
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 404 {object} response.ErrorResponse "No candidate record"
// @Router /records/{id}/fields [put]
func (h *RecordHandler) EditFields(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	var input record.EditFieldsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.EditFields(actor, c.Param("id"), input)
	if err != nil {
		writeRecordError(c, err)
		return
	}

	utils.LogAuditWithConsole(c, "edit", "record", rec.IndicatorID, nil, rec, "fields edited", h.auditRepo)
	c.JSON(http.StatusOK, response.SuccessResponse{Data: rec})
}

// Delete godoc
// @Summary Soft-delete a record (role-gated)
// @Tags records
// @Produce json
// @Param id path string true "Indicator ID"
// @Param saved_at query string false "Exact version stamp; latest version when omitted"
// @Success 200 {object} response.SuccessResponse{data=record.Record}
// @Failure 403 {object} response.ErrorResponse "Forbidden with role-specific reason"
// @Failure 404 {object} response.ErrorResponse "No candidate record"
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	rec, err := h.svc.Delete(actor, c.Param("id"), c.Query("saved_at"))
	if err != nil {
		writeRecordError(c, err)
		return
	}

	utils.LogAuditWithConsole(c, "delete", "record", rec.IndicatorID, nil, rec, "record soft-deleted", h.auditRepo)
	c.JSON(http.StatusOK, response.SuccessResponse{Data: rec})
}

// Restore godoc
// @Summary Restore a deleted record back to draft (original submitter only)
// @Tags records
// @Produce json
// @Param id path string true "Indicator ID"
// @Param saved_at query string false "Exact version stamp; latest version when omitted"
// @Success 200 {object} response.SuccessResponse{data=record.Record}
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 404 {object} response.ErrorResponse "No candidate record"
// @Router /records/{id}/restore [put]
func (h *RecordHandler) Restore(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	rec, err := h.svc.Restore(actor, c.Param("id"), c.Query("saved_at"))
	if err != nil {
		writeRecordError(c, err)
		return
	}

	utils.LogAuditWithConsole(c, "restore", "record", rec.IndicatorID, nil, rec, "record restored to draft", h.auditRepo)
	c.JSON(http.StatusOK, response.SuccessResponse{Data: rec})
}

// List godoc
// @Summary List the reconciled record view
// @Tags records
// @Produce json
// @Param status query string false "Filter by status"
// @Param all query bool false "Ignore the status filter"
// @Success 200 {object} response.SuccessResponse{data=[]record.Record}
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	all := c.Query("all") == "true"
	status := record.Status(c.Query("status"))

	records, err := h.svc.List(status, all, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Data: records})
}

// Reconcile godoc
// @Summary Merge client-held records into the server view
// @Description The browser-local tier posts its records; the response is the deduplicated view across all tiers.
// @Tags records
// @Accept json
// @Produce json
// @Param input body record.ReconcileInput true "Client-tier records"
// @Success 200 {object} response.SuccessResponse{data=[]record.Record}
// @Router /records/reconcile [post]
func (h *RecordHandler) Reconcile(c *gin.Context) {
	var input record.ReconcileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	records, err := h.svc.List("", true, input.Records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Data: records})
}
