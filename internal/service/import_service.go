package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/dto"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
)

// ── import errors ──

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrUnknownMode     = errors.New("unknown import mode")
	ErrEmptyImport     = errors.New("file contains no data rows")
)

// Import modes for subject catalogs.
const (
	ModeReplace = "replace"
	ModeMerge   = "merge"
)

// ImportService runs file imports against the session. Data-quality
// problems inside a file are skips in the returned summary, never errors;
// errors here mean the file itself could not be used.
type ImportService interface {
	ImportSubjects(ctx context.Context, mode, filename string, r io.Reader) (*dto.SubjectsImportResponse, error)
	ImportRooms(ctx context.Context, filename string, r io.Reader) (*dto.RoomsImportResponse, error)
	ImportCalendar(ctx context.Context, filename string, r io.Reader) (*dto.CalendarImportResponse, error)
}

type importService struct {
	store  *store.PlannerStore
	logger *zap.Logger
}

// NewImportService builds an ImportService over the session store.
func NewImportService(st *store.PlannerStore, logger *zap.Logger) ImportService {
	return &importService{store: st, logger: logger}
}

// ────────────────────── ImportSubjects ──────────────────────

func (s *importService) ImportSubjects(ctx context.Context, mode, filename string, r io.Reader) (*dto.SubjectsImportResponse, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	switch mode {
	case ModeReplace:
		res := ImportSubjectsReplace(rows)
		s.store.ReplaceCatalog(res.Subjects, res.Periods, res.Slots, res.Allowed)
		s.logger.Info("subjects imported",
			zap.String("mode", mode),
			zap.Int("subjects", len(res.Subjects)),
			zap.Int("periods", len(res.Periods)))
		return &dto.SubjectsImportResponse{
			Mode:     mode,
			Subjects: len(res.Subjects),
			Periods:  len(res.Periods),
		}, nil

	case ModeMerge:
		snap := s.store.Snapshot()
		res := ImportSubjectsMerge(rows, MergeState{
			Subjects: snap.Subjects,
			Periods:  snap.Periods,
			Allowed:  snap.AllowedPeriodsBySubject,
			Slots:    snap.SlotsPerPeriod,
			Assigned: snap.AssignedPerPeriod,
			Rooms:    snap.RoomsData,
		})
		s.store.ApplyMerged(res.Subjects, res.Periods, res.Allowed, res.Slots, res.Assigned, res.Rooms)
		s.logger.Info("subjects imported",
			zap.String("mode", mode),
			zap.Int("added", res.AddedSubjects),
			zap.Int("updated", res.UpdatedSubjects),
			zap.Int("addedPeriods", res.AddedPeriods))
		return &dto.SubjectsImportResponse{
			Mode:            mode,
			Subjects:        len(res.Subjects),
			Periods:         len(res.Periods),
			AddedSubjects:   res.AddedSubjects,
			UpdatedSubjects: res.UpdatedSubjects,
			AddedPeriods:    res.AddedPeriods,
		}, nil

	default:
		return nil, ErrUnknownMode
	}
}

// ────────────────────── ImportRooms ──────────────────────

func (s *importService) ImportRooms(ctx context.Context, filename string, r io.Reader) (*dto.RoomsImportResponse, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	snap := s.store.Snapshot()
	res := ImportRooms(rows, RoomsContext{
		Subjects: snap.Subjects,
		Periods:  snap.Periods,
		Slots:    snap.SlotsPerPeriod,
		Assigned: snap.AssignedPerPeriod,
		Rooms:    snap.RoomsData,
	})
	s.store.SetRoomsData(res.Rooms)
	s.logger.Info("rooms imported",
		zap.Int("attached", res.Attached),
		zap.Int("skipped", res.Skips.Total()))
	return &dto.RoomsImportResponse{
		Attached: res.Attached,
		Skipped:  res.Skips.Total(),
		Skips: dto.RoomsSkipBreakdown{
			NoIdentity: res.Skips.NoIdentity,
			NoPeriod:   res.Skips.NoPeriod,
			NoDate:     res.Skips.NoDate,
			NoTime:     res.Skips.NoTime,
			NoSlot:     res.Skips.NoSlot,
			NotPlaced:  res.Skips.NotPlaced,
			NoRoom:     res.Skips.NoRoom,
		},
	}, nil
}

// ────────────────────── ImportCalendar ──────────────────────

func (s *importService) ImportCalendar(ctx context.Context, filename string, r io.Reader) (*dto.CalendarImportResponse, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".xlsx" && ext != ".xlsm" {
		return nil, ErrUnsupportedFile
	}

	snap := s.store.Snapshot()
	res, err := ImportExcelCalendar(r, snap.Subjects)
	if err != nil {
		return nil, err
	}
	if len(res.Periods) == 0 {
		return nil, ErrEmptyImport
	}

	s.store.ApplyCalendar(res.Periods, res.Slots, res.Assigned, res.Rooms, res.Subjects)
	s.logger.Info("calendar imported",
		zap.Int("periods", len(res.Periods)),
		zap.Int("addedSubjects", res.AddedSubjects))
	return &dto.CalendarImportResponse{
		Periods:       len(res.Periods),
		AddedSubjects: res.AddedSubjects,
	}, nil
}

// readRows dispatches on file extension to the matching row reader.
func readRows(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSVRows(r)
	case ".xlsx", ".xlsm":
		return ReadXLSXRows(r)
	default:
		return nil, ErrUnsupportedFile
	}
}
