package handler

import "github.com/sambrocindrela-ctrl/gestor-examens/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Planner *PlannerHandler
	Import  *ImportHandler
	Export  *ExportHandler
	Plan    *PlanHandler
}

// NewHandler builds the aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Planner: NewPlannerHandler(svc.Planner),
		Import:  NewImportHandler(svc.Import),
		Export:  NewExportHandler(svc.Export),
		Plan:    NewPlanHandler(svc.Plan, svc.Planner),
	}
}
