package dto

import "github.com/sambrocindrela-ctrl/gestor-examens/internal/model"

// PlaceRequest puts a subject into a grid cell.
// SlotIndex is a pointer so index 0 survives required-field binding.
type PlaceRequest struct {
	PeriodID  int    `json:"periodId" binding:"required"`
	SubjectID string `json:"subjectId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	SlotIndex *int   `json:"slotIndex" binding:"required"`
}

// MoveRequest relocates a placement within one period.
type MoveRequest struct {
	PeriodID  int    `json:"periodId" binding:"required"`
	SubjectID string `json:"subjectId" binding:"required"`
	FromDate  string `json:"fromDate" binding:"required"`
	FromSlot  *int   `json:"fromSlot" binding:"required"`
	ToDate    string `json:"toDate" binding:"required"`
	ToSlot    *int   `json:"toSlot" binding:"required"`
}

// RemoveRequest takes a subject off the grid.
type RemoveRequest struct {
	PeriodID  int    `json:"periodId" binding:"required"`
	SubjectID string `json:"subjectId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	SlotIndex *int   `json:"slotIndex" binding:"required"`
}

// StateResponse is the full session state plus session-only flags that
// are not part of the serialized snapshot contract.
type StateResponse struct {
	model.StateSnapshot
	PendingUndo bool `json:"pendingUndo"`
}

// UndoResponse reports whether an undo actually restored something.
type UndoResponse struct {
	Restored bool `json:"restored"`
}

// AvailableSubjectsResponse lists the tray for the active period.
type AvailableSubjectsResponse struct {
	PeriodID int             `json:"periodId"`
	Subjects []model.Subject `json:"subjects"`
}
