package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/dto"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/service"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/response"
)

// PlannerHandler exposes the session state and its mutations.
type PlannerHandler struct {
	svc service.PlannerService
}

// NewPlannerHandler builds a PlannerHandler.
func NewPlannerHandler(svc service.PlannerService) *PlannerHandler {
	return &PlannerHandler{svc: svc}
}

// GetState returns the full session snapshot.
// GET /api/v1/planner/state
func (h *PlannerHandler) GetState(c *gin.Context) {
	response.OK(c, h.svc.State(c.Request.Context()))
}

// LoadState applies a serialized snapshot to the session.
// PUT /api/v1/planner/state
func (h *PlannerHandler) LoadState(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		response.BadRequest(c, 12001, "snapshot body required")
		return
	}
	state, err := h.svc.LoadState(c.Request.Context(), raw)
	if err != nil {
		response.ErrorWithDetails(c, 400, 12002, "snapshot is not valid JSON", err.Error())
		return
	}
	response.OK(c, state)
}

// AvailableSubjects lists the tray for the active period.
// GET /api/v1/planner/subjects/available
func (h *PlannerHandler) AvailableSubjects(c *gin.Context) {
	response.OK(c, h.svc.AvailableSubjects(c.Request.Context()))
}

// Place puts a subject into a cell.
// POST /api/v1/planner/cells/place
func (h *PlannerHandler) Place(c *gin.Context) {
	var req dto.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.svc.Place(c.Request.Context(), &req); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// Move relocates a placement within one period.
// POST /api/v1/planner/cells/move
func (h *PlannerHandler) Move(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.svc.Move(c.Request.Context(), &req); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// Remove takes a subject off a cell.
// POST /api/v1/planner/cells/remove
func (h *PlannerHandler) Remove(c *gin.Context) {
	var req dto.RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.svc.Remove(c.Request.Context(), &req); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteSubject permanently deletes a subject, opening the undo window.
// DELETE /api/v1/planner/subjects/:id
func (h *PlannerHandler) DeleteSubject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "subject id required")
		return
	}
	if err := h.svc.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// Undo restores the last deleted subject if the window is still open.
// POST /api/v1/planner/undo
func (h *PlannerHandler) Undo(c *gin.Context) {
	response.OK(c, h.svc.Undo(c.Request.Context()))
}

// HideSubject hides a subject from the tray.
// POST /api/v1/planner/subjects/:id/hide
func (h *PlannerHandler) HideSubject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "subject id required")
		return
	}
	if err := h.svc.HideSubject(c.Request.Context(), id); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// RestoreSubject returns a hidden subject to the tray.
// POST /api/v1/planner/subjects/:id/restore
func (h *PlannerHandler) RestoreSubject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "subject id required")
		return
	}
	if err := h.svc.UnhideSubject(c.Request.Context(), id); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddPeriod appends a new period.
// POST /api/v1/planner/periods
func (h *PlannerHandler) AddPeriod(c *gin.Context) {
	p, err := h.svc.AddPeriod(c.Request.Context())
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.Created(c, p)
}

// RemovePeriod deletes a period and everything keyed by it.
// DELETE /api/v1/planner/periods/:id
func (h *PlannerHandler) RemovePeriod(c *gin.Context) {
	pid, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 10001, "period id must be numeric")
		return
	}
	if err := h.svc.RemovePeriod(c.Request.Context(), pid); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// ActivatePeriod switches the active period.
// PUT /api/v1/planner/periods/:id/activate
func (h *PlannerHandler) ActivatePeriod(c *gin.Context) {
	pid, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 10001, "period id must be numeric")
		return
	}
	if err := h.svc.ActivatePeriod(c.Request.Context(), pid); err != nil {
		h.handlePlannerError(c, err)
		return
	}
	response.OK(c, nil)
}

// handlePlannerError maps store sentinels to HTTP codes.
func (h *PlannerHandler) handlePlannerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSubjectNotFound):
		response.NotFound(c, 12101, "subject not found")
	case errors.Is(err, store.ErrPeriodNotFound):
		response.NotFound(c, 12102, "period not found")
	case errors.Is(err, store.ErrSlotOutOfRange):
		response.BadRequest(c, 12103, "slot index out of range")
	case errors.Is(err, store.ErrInvalidDate):
		response.BadRequest(c, 12104, "date must be yyyy-MM-dd")
	case errors.Is(err, store.ErrDateOutOfRange):
		response.BadRequest(c, 12105, "date outside the period range")
	case errors.Is(err, store.ErrDateBlackedOut):
		response.BadRequest(c, 12106, "date is blacked out")
	case errors.Is(err, store.ErrAlreadyPlaced):
		response.Conflict(c, 12107, "subject already placed in this period")
	case errors.Is(err, store.ErrNotPlaced):
		response.NotFound(c, 12108, "subject is not placed in that cell")
	case errors.Is(err, store.ErrPeriodLimit):
		response.Conflict(c, 12109, "period limit reached")
	case errors.Is(err, store.ErrLastPeriod):
		response.Conflict(c, 12110, "the last period cannot be removed")
	default:
		response.InternalError(c)
	}
}
