package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
)

// newExportFixture builds a store with one period in January 2025 and one
// placement on Friday the 10th.
func newExportFixture(t *testing.T) *store.PlannerStore {
	t.Helper()
	st := store.NewPlannerStore(zap.NewNop(), 0)
	st.ReplaceCatalog(
		[]model.Subject{
			{ID: "230001", Code: "230001", Acronym: "XC", Level: "GRAU"},
		},
		[]model.Period{{
			ID: 10, Label: "Period 10", Kind: model.PeriodPartial,
			StartDate: "2025-01-06", EndDate: "2025-01-31",
		}},
		model.SlotsPerPeriod{10: {
			{Start: "08:00", End: "10:00"},
			{Start: "15:00", End: "17:00"},
		}},
		map[string][]int{},
	)
	if err := st.PlaceSubject(10, "230001", "2025-01-10", 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	return st
}

func applySnapshot(t *testing.T, st *store.PlannerStore, snap model.StateSnapshot) {
	t.Helper()
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := st.LoadSnapshot(raw); err != nil {
		t.Fatalf("load failed: %v", err)
	}
}

func TestExportCSV_LineLayout(t *testing.T) {
	st := newExportFixture(t)
	svc := NewExportService(st, zap.NewNop())

	buf, filename, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if filename != "examens_export.csv" {
		t.Errorf("filename = %q", filename)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	// Neither the subject nor the period carries a year or half-year, so
	// both come from the exam date: January reads as half-year 1 of the
	// course year that started the previous September.
	want := "230,2024,1,PARTIAL,10-01-2025,08:00,10:00,230001,"
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestExportCSV_SubjectFieldsWin(t *testing.T) {
	st := newExportFixture(t)
	snapFix := st.Snapshot()
	snapFix.Subjects[0].AcademicYear = "2025"
	snapFix.Subjects[0].HalfYear = 2
	applySnapshot(t, st, snapFix)

	svc := NewExportService(st, zap.NewNop())
	buf, _, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "230,2025,2,") {
		t.Errorf("subject-level year/half must win, got %q", buf.String())
	}
}

func TestExportCSV_NothingPlaced(t *testing.T) {
	st := store.NewPlannerStore(zap.NewNop(), 0)
	svc := NewExportService(st, zap.NewNop())

	if _, _, err := svc.ExportCSV(context.Background()); !errors.Is(err, ErrExportNothing) {
		t.Errorf("got %v, want ErrExportNothing", err)
	}
	if _, _, err := svc.ExportICS(context.Background()); !errors.Is(err, ErrExportNothing) {
		t.Errorf("ICS: got %v, want ErrExportNothing", err)
	}
}

func TestExportICS_Event(t *testing.T) {
	st := newExportFixture(t)
	svc := NewExportService(st, zap.NewNop())

	buf, filename, err := svc.ExportICS(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if filename != "examens.ics" {
		t.Errorf("filename = %q", filename)
	}
	out := buf.String()
	if strings.Count(out, "BEGIN:VEVENT") != 1 {
		t.Errorf("expected exactly one event:\n%s", out)
	}
	if !strings.Contains(out, "SUMMARY:230001 · XC") {
		t.Errorf("summary missing:\n%s", out)
	}
	if !strings.Contains(out, "DTSTART:20250110T080000Z") {
		t.Errorf("start time missing:\n%s", out)
	}
}

func TestExportXLSX_SheetPerPeriod(t *testing.T) {
	st := newExportFixture(t)
	svc := NewExportService(st, zap.NewNop())

	buf, _, err := svc.ExportXLSX(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("reopening workbook failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Period 10" {
		t.Fatalf("sheets = %v", sheets)
	}
	// The placement cell: Friday is column F, first slot row of the first
	// week. Title row 1, blank row 2, date header row 3, slot rows from 4.
	got, err := f.GetCellValue("Period 10", "F4")
	if err != nil {
		t.Fatalf("reading cell: %v", err)
	}
	if !strings.Contains(got, "230001 · XC") || !strings.Contains(got, "GRAU") {
		t.Errorf("cell F4 = %q", got)
	}
}

func TestExportJSON_SnapshotShape(t *testing.T) {
	st := newExportFixture(t)
	svc := NewExportService(st, zap.NewNop())

	buf, filename, err := svc.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if filename != "planificador-examens.json" {
		t.Errorf("filename = %q", filename)
	}
	for _, key := range []string{"\"subjects\"", "\"assignedPerPeriod\"", "\"activePid\""} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("snapshot JSON missing %s", key)
		}
	}
}

func TestInferHalfYear(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	may := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	oct := time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC)
	if inferHalfYear(jan) != 1 || inferHalfYear(oct) != 1 {
		t.Error("September through January must read as half-year 1")
	}
	if inferHalfYear(may) != 2 {
		t.Error("spring months must read as half-year 2")
	}
	if inferAcademicYear(jan) != "2024" || inferAcademicYear(oct) != "2025" {
		t.Error("the course year starts in September")
	}
}
