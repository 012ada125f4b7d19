package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/dto"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
)

// PlannerService is the session's mutation surface. All errors worth
// mapping to HTTP codes come from the store package sentinels.
type PlannerService interface {
	State(ctx context.Context) *dto.StateResponse
	LoadState(ctx context.Context, raw []byte) (*dto.StateResponse, error)
	AvailableSubjects(ctx context.Context) *dto.AvailableSubjectsResponse

	Place(ctx context.Context, req *dto.PlaceRequest) error
	Move(ctx context.Context, req *dto.MoveRequest) error
	Remove(ctx context.Context, req *dto.RemoveRequest) error

	DeleteSubject(ctx context.Context, subjectID string) error
	Undo(ctx context.Context) *dto.UndoResponse
	HideSubject(ctx context.Context, subjectID string) error
	UnhideSubject(ctx context.Context, subjectID string) error

	AddPeriod(ctx context.Context) (*model.Period, error)
	RemovePeriod(ctx context.Context, pid int) error
	ActivatePeriod(ctx context.Context, pid int) error
}

type plannerService struct {
	store  *store.PlannerStore
	logger *zap.Logger
}

// NewPlannerService builds a PlannerService over the session store.
func NewPlannerService(st *store.PlannerStore, logger *zap.Logger) PlannerService {
	return &plannerService{store: st, logger: logger}
}

func (s *plannerService) State(ctx context.Context) *dto.StateResponse {
	return &dto.StateResponse{
		StateSnapshot: s.store.Snapshot(),
		PendingUndo:   s.store.PendingUndo(),
	}
}

func (s *plannerService) LoadState(ctx context.Context, raw []byte) (*dto.StateResponse, error) {
	if err := s.store.LoadSnapshot(raw); err != nil {
		return nil, err
	}
	return s.State(ctx), nil
}

func (s *plannerService) AvailableSubjects(ctx context.Context) *dto.AvailableSubjectsResponse {
	snap := s.store.Snapshot()
	subjects := s.store.AvailableSubjects()
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return &dto.AvailableSubjectsResponse{
		PeriodID: snap.ActivePid,
		Subjects: subjects,
	}
}

func (s *plannerService) Place(ctx context.Context, req *dto.PlaceRequest) error {
	return s.store.PlaceSubject(req.PeriodID, req.SubjectID, req.Date, *req.SlotIndex)
}

func (s *plannerService) Move(ctx context.Context, req *dto.MoveRequest) error {
	return s.store.MoveSubject(req.PeriodID, req.SubjectID, req.FromDate, *req.FromSlot, req.ToDate, *req.ToSlot)
}

func (s *plannerService) Remove(ctx context.Context, req *dto.RemoveRequest) error {
	return s.store.RemoveFromCell(req.PeriodID, req.SubjectID, req.Date, *req.SlotIndex)
}

func (s *plannerService) DeleteSubject(ctx context.Context, subjectID string) error {
	return s.store.DeleteSubjectPermanently(subjectID)
}

func (s *plannerService) Undo(ctx context.Context) *dto.UndoResponse {
	return &dto.UndoResponse{Restored: s.store.UndoDelete()}
}

func (s *plannerService) HideSubject(ctx context.Context, subjectID string) error {
	return s.store.HideSubject(subjectID)
}

func (s *plannerService) UnhideSubject(ctx context.Context, subjectID string) error {
	return s.store.UnhideSubject(subjectID)
}

func (s *plannerService) AddPeriod(ctx context.Context) (*model.Period, error) {
	p, err := s.store.AddPeriod()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *plannerService) RemovePeriod(ctx context.Context, pid int) error {
	return s.store.RemovePeriod(pid)
}

func (s *plannerService) ActivatePeriod(ctx context.Context, pid int) error {
	return s.store.SetActivePeriod(pid)
}
