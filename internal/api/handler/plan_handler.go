package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/dto"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/service"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/response"
)

// PlanHandler covers saved plans and share links.
type PlanHandler struct {
	planSvc    service.PlanService
	plannerSvc service.PlannerService
}

// NewPlanHandler builds a PlanHandler.
func NewPlanHandler(planSvc service.PlanService, plannerSvc service.PlannerService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, plannerSvc: plannerSvc}
}

// SavePlan persists the current state under a name.
// POST /api/v1/plans
func (h *PlanHandler) SavePlan(c *gin.Context) {
	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "plan name required")
		return
	}

	plan, err := h.planSvc.Save(c.Request.Context(), req.Name)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.Created(c, plan)
}

// ListPlans lists saved plans, newest first.
// GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planSvc.List(c.Request.Context())
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, gin.H{"list": plans})
}

// LoadPlan applies a saved plan to the session and returns the new state.
// GET /api/v1/plans/:id
func (h *PlanHandler) LoadPlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "plan id required")
		return
	}

	if err := h.planSvc.Load(c.Request.Context(), id); err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, h.plannerSvc.State(c.Request.Context()))
}

// DeletePlan removes a saved plan.
// DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "plan id required")
		return
	}

	if err := h.planSvc.Delete(c.Request.Context(), id); err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}

// CreateShare mints a share code for the current state.
// POST /api/v1/share
func (h *PlanHandler) CreateShare(c *gin.Context) {
	share, err := h.planSvc.CreateShare(c.Request.Context())
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.Created(c, share)
}

// ResolveShare returns the snapshot stored under a share code.
// GET /api/v1/share/:code
func (h *PlanHandler) ResolveShare(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "share code required")
		return
	}

	snapshot, err := h.planSvc.ResolveShare(c.Request.Context(), code)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, snapshot)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 17001, "plan not found")
	case errors.Is(err, service.ErrShareUnavailable):
		response.ServiceUnavailable(c, 18001, "share links are unavailable")
	case errors.Is(err, service.ErrShareNotFound):
		response.NotFound(c, 18002, "share code not found or expired")
	case errors.Is(err, service.ErrShareCorrupt):
		response.ErrorWithDetails(c, 500, 18003, "share payload is corrupt", err.Error())
	default:
		response.InternalError(c)
	}
}
