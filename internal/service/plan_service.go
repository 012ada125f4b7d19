package service

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/dto"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/repository"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/redis"
)

// ── plan and share errors ──

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrShareUnavailable = errors.New("share links are unavailable")
	ErrShareNotFound    = errors.New("share code not found or expired")
	ErrShareCorrupt     = errors.New("share payload is corrupt")
)

// PlanService persists named snapshots and mints share links. Share links
// are optional: when the server started without Redis, share methods
// return ErrShareUnavailable and everything else keeps working.
type PlanService interface {
	Save(ctx context.Context, name string) (*dto.PlanResponse, error)
	List(ctx context.Context) ([]dto.PlanResponse, error)
	Load(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	CreateShare(ctx context.Context) (*dto.ShareResponse, error)
	ResolveShare(ctx context.Context, code string) (json.RawMessage, error)
}

type planService struct {
	repo     *repository.Repository
	store    *store.PlannerStore
	rdb      *redis.Client
	baseURL  string
	shareTTL time.Duration
	logger   *zap.Logger
}

// NewPlanService builds a PlanService. rdb may be nil.
func NewPlanService(repo *repository.Repository, st *store.PlannerStore, rdb *redis.Client, baseURL string, shareTTL time.Duration, logger *zap.Logger) PlanService {
	return &planService{
		repo:     repo,
		store:    st,
		rdb:      rdb,
		baseURL:  strings.TrimRight(baseURL, "/"),
		shareTTL: shareTTL,
		logger:   logger,
	}
}

// ────────────────────── Save ──────────────────────

func (s *planService) Save(ctx context.Context, name string) (*dto.PlanResponse, error) {
	payload, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}

	plan := &model.Plan{
		PlanID:  uuid.NewString(),
		Name:    name,
		Payload: datatypes.JSON(payload),
	}
	if err := s.repo.Plan.Create(ctx, plan); err != nil {
		s.logger.Error("saving plan failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("plan saved", zap.String("planId", plan.PlanID), zap.String("name", name))
	return s.toPlanResponse(plan), nil
}

// ────────────────────── List ──────────────────────

func (s *planService) List(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := s.repo.Plan.List(ctx)
	if err != nil {
		s.logger.Error("listing plans failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		result = append(result, *s.toPlanResponse(&plans[i]))
	}
	return result, nil
}

// ────────────────────── Load ──────────────────────

func (s *planService) Load(ctx context.Context, id string) error {
	plan, err := s.repo.Plan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		s.logger.Error("fetching plan failed", zap.String("planId", id), zap.Error(err))
		return err
	}

	if err := s.store.LoadSnapshot(plan.Payload); err != nil {
		return err
	}
	s.logger.Info("plan loaded", zap.String("planId", id), zap.String("name", plan.Name))
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *planService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Plan.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		s.logger.Error("fetching plan failed", zap.String("planId", id), zap.Error(err))
		return err
	}
	if err := s.repo.Plan.Delete(ctx, id); err != nil {
		s.logger.Error("deleting plan failed", zap.String("planId", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Share links ──────────────────────

func (s *planService) CreateShare(ctx context.Context) (*dto.ShareResponse, error) {
	if s.rdb == nil {
		return nil, ErrShareUnavailable
	}

	payload, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	packed, err := compressSnapshot(payload)
	if err != nil {
		return nil, err
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	if err := s.rdb.SetShare(ctx, code, packed, s.shareTTL); err != nil {
		s.logger.Error("storing share failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("share created",
		zap.String("code", code),
		zap.Int("rawBytes", len(payload)),
		zap.Int("packedBytes", len(packed)))
	return &dto.ShareResponse{
		Code: code,
		URL:  fmt.Sprintf("%s/api/v1/share/%s", s.baseURL, code),
	}, nil
}

func (s *planService) ResolveShare(ctx context.Context, code string) (json.RawMessage, error) {
	if s.rdb == nil {
		return nil, ErrShareUnavailable
	}

	packed, err := s.rdb.GetShare(ctx, code)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrShareNotFound
		}
		s.logger.Error("fetching share failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	payload, err := decompressSnapshot(packed)
	if err != nil {
		s.logger.Warn("share payload unreadable", zap.String("code", code), zap.Error(err))
		return nil, ErrShareCorrupt
	}
	return payload, nil
}

// ── helpers ──

func (s *planService) toPlanResponse(plan *model.Plan) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:        plan.PlanID,
		Name:      plan.Name,
		CreatedAt: plan.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: plan.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// compressSnapshot deflates a snapshot and wraps it base64url, the same
// shape the payload would take embedded in a link fragment.
func compressSnapshot(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	out := make([]byte, base64.RawURLEncoding.EncodedLen(buf.Len()))
	base64.RawURLEncoding.Encode(out, buf.Bytes())
	return out, nil
}

func decompressSnapshot(packed []byte) ([]byte, error) {
	deflated := make([]byte, base64.RawURLEncoding.DecodedLen(len(packed)))
	n, err := base64.RawURLEncoding.Decode(deflated, packed)
	if err != nil {
		return nil, err
	}
	r := flate.NewReader(bytes.NewReader(deflated[:n]))
	defer r.Close()
	return io.ReadAll(r)
}
