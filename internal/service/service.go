package service

import (
	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/config"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/repository"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/redis"
)

// Service aggregates every business interface.
type Service struct {
	Planner PlannerService
	Import  ImportService
	Export  ExportService
	Plan    PlanService
}

// NewService builds the aggregate. rdb may be nil; only share links
// depend on it.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	st *store.PlannerStore,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Planner: NewPlannerService(st, logger),
		Import:  NewImportService(st, logger),
		Export:  NewExportService(st, logger),
		Plan:    NewPlanService(repo, st, rdb, cfg.Server.BaseURL, cfg.Share.TTL, logger),
	}
}
