package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
)

const subjectsCSV = `codi,sigles,nivell,curs,quadrimestre,periode,period_inici,period_fi,period_slots
230001,XC,GRAU,2025-26,1,1,2025-01-06,2025-01-31,8:00-10:00;10:30-12:30
230002,FIS,GRAU,2025-26,1,1,,,
`

func TestImportService_SubjectsReplace_EndToEnd(t *testing.T) {
	st := store.NewPlannerStore(zap.NewNop(), 0)
	svc := NewImportService(st, zap.NewNop())

	sum, err := svc.ImportSubjects(context.Background(), ModeReplace, "subjects.csv", strings.NewReader(subjectsCSV))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if sum.Subjects != 2 || sum.Periods != 1 {
		t.Errorf("summary = %+v", sum)
	}

	snap := st.Snapshot()
	if len(snap.Subjects) != 2 || len(snap.Periods) != 1 {
		t.Fatalf("state = %d subjects, %d periods", len(snap.Subjects), len(snap.Periods))
	}
	if snap.Periods[0].StartDate != "2025-01-06" {
		t.Errorf("period = %+v", snap.Periods[0])
	}
	if len(snap.SlotsPerPeriod[1]) != 2 {
		t.Errorf("slots = %v", snap.SlotsPerPeriod[1])
	}
	if snap.ActivePid != 1 {
		t.Errorf("activePid = %d", snap.ActivePid)
	}
}

func TestImportService_SubjectsReplace_Idempotent(t *testing.T) {
	st := store.NewPlannerStore(zap.NewNop(), 0)
	svc := NewImportService(st, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.ImportSubjects(ctx, ModeReplace, "subjects.csv", strings.NewReader(subjectsCSV)); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	first, err := json.Marshal(st.Snapshot())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if _, err := svc.ImportSubjects(ctx, ModeReplace, "subjects.csv", strings.NewReader(subjectsCSV)); err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	second, err := json.Marshal(st.Snapshot())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("replacing with the same file must not change the state:\n%s\n%s", first, second)
	}
}

func TestImportService_SubjectsMerge_EndToEnd(t *testing.T) {
	st := store.NewPlannerStore(zap.NewNop(), 0)
	svc := NewImportService(st, zap.NewNop())
	if _, err := svc.ImportSubjects(context.Background(), ModeReplace, "subjects.csv", strings.NewReader(subjectsCSV)); err != nil {
		t.Fatalf("seed import failed: %v", err)
	}

	mergeCSV := "codi,sigles,nivell\n230001,XC,MASTER\n230099,NOU,GRAU\n"
	sum, err := svc.ImportSubjects(context.Background(), ModeMerge, "update.csv", strings.NewReader(mergeCSV))
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if sum.AddedSubjects != 1 || sum.UpdatedSubjects != 1 {
		t.Errorf("summary = %+v", sum)
	}

	snap := st.Snapshot()
	if len(snap.Subjects) != 3 {
		t.Fatalf("subjects = %v", snap.Subjects)
	}
	for _, subj := range snap.Subjects {
		if subj.ID == "230001" && subj.Level != "MASTER" {
			t.Errorf("merge must overwrite, got %+v", subj)
		}
	}
}

func TestImportService_Rooms_EndToEnd(t *testing.T) {
	st := store.NewPlannerStore(zap.NewNop(), 0)
	svc := NewImportService(st, zap.NewNop())
	if _, err := svc.ImportSubjects(context.Background(), ModeReplace, "subjects.csv", strings.NewReader(subjectsCSV)); err != nil {
		t.Fatalf("seed import failed: %v", err)
	}
	if err := st.PlaceSubject(1, "230001", "2025-01-10", 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	roomsCSV := "codi,periode,dia,hora_inici,hora_fi,aula,estudiants\n" +
		"230001,1,2025-01-10,8:00,10:00,A5.01,45\n" +
		"230002,1,2025-01-10,8:00,10:00,A5.02,30\n"
	sum, err := svc.ImportRooms(context.Background(), "rooms.csv", strings.NewReader(roomsCSV))
	if err != nil {
		t.Fatalf("rooms import failed: %v", err)
	}
	if sum.Attached != 1 || sum.Skipped != 1 || sum.Skips.NotPlaced != 1 {
		t.Errorf("summary = %+v", sum)
	}

	rec := st.Snapshot().RoomsData[1]["2025-01-10|0"]["230001"]
	if rec == nil || len(rec.Rooms) != 1 || rec.Rooms[0] != "A5.01" {
		t.Errorf("room record = %+v", rec)
	}
}

func TestImportService_FileErrors(t *testing.T) {
	st := store.NewPlannerStore(zap.NewNop(), 0)
	svc := NewImportService(st, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.ImportSubjects(ctx, ModeReplace, "subjects.txt", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("bad extension: got %v", err)
	}
	if _, err := svc.ImportSubjects(ctx, "sideways", "subjects.csv", strings.NewReader(subjectsCSV)); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("bad mode: got %v", err)
	}
	if _, err := svc.ImportSubjects(ctx, ModeReplace, "subjects.csv", strings.NewReader("codi,sigles\n")); !errors.Is(err, ErrEmptyImport) {
		t.Errorf("header-only file: got %v", err)
	}
	if _, err := svc.ImportCalendar(ctx, "calendar.csv", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("calendar wants a workbook: got %v", err)
	}
}
