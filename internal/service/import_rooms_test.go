package service

import (
	"testing"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

func baseRoomsContext() RoomsContext {
	return RoomsContext{
		Subjects: []model.Subject{
			{ID: "230001", Code: "230001", Acronym: "XC"},
			{ID: "230002", Code: "230002", Acronym: "FIS"},
		},
		Periods: []model.Period{{ID: 1, StartDate: "2025-01-05", EndDate: "2025-01-30"}},
		Slots: model.SlotsPerPeriod{
			1: {{Start: "08:00", End: "10:00"}, {Start: "10:30", End: "12:30"}},
		},
		Assigned: model.AssignedPerPeriod{
			1: model.AssignedMap{"2025-01-10|0": {"230001"}},
		},
		Rooms: model.RoomsPerPeriod{1: map[string]model.RoomsPerCell{}},
	}
}

func roomRow(overrides Row) Row {
	r := Row{
		"codi":       "230001",
		"periode":    "1",
		"dia":        "2025-01-10",
		"hora_inici": "8:00",
		"hora_fi":    "10:00",
		"aula":       "A5.01",
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

func TestImportRooms_AttachesToPlacement(t *testing.T) {
	ctx := baseRoomsContext()
	rows := []Row{roomRow(Row{"estudiants": "45 est."})}

	res := ImportRooms(rows, ctx)

	if res.Attached != 1 || res.Skips.Total() != 0 {
		t.Fatalf("attached %d, skips %+v", res.Attached, res.Skips)
	}
	rec := res.Rooms[1]["2025-01-10|0"]["230001"]
	if rec == nil {
		t.Fatal("expected a room record")
	}
	if len(rec.Rooms) != 1 || rec.Rooms[0] != "A5.01" {
		t.Errorf("rooms = %v", rec.Rooms)
	}
	if rec.Students == nil || *rec.Students != 45 {
		t.Errorf("students = %v, want 45", rec.Students)
	}
}

func TestImportRooms_AcronymFallback(t *testing.T) {
	ctx := baseRoomsContext()
	rows := []Row{roomRow(Row{"codi": "", "sigles": "xc"})}

	res := ImportRooms(rows, ctx)

	if res.Attached != 1 {
		t.Fatalf("acronym match failed: skips %+v", res.Skips)
	}
}

func TestImportRooms_ExcelSerialDate(t *testing.T) {
	ctx := baseRoomsContext()
	ctx.Periods[0].StartDate = "2023-03-01"
	ctx.Periods[0].EndDate = "2023-03-31"
	ctx.Assigned[1] = model.AssignedMap{"2023-03-15|0": {"230001"}}
	rows := []Row{roomRow(Row{"dia": "45000"})}

	res := ImportRooms(rows, ctx)

	if res.Attached != 1 {
		t.Fatalf("serial date should resolve: skips %+v", res.Skips)
	}
	if res.Rooms[1]["2023-03-15|0"]["230001"] == nil {
		t.Error("record must land on the serial-resolved cell")
	}
}

func TestImportRooms_SkipReasons(t *testing.T) {
	ctx := baseRoomsContext()
	rows := []Row{
		{"periode": "1", "dia": "2025-01-10", "hora_inici": "8:00", "hora_fi": "10:00", "aula": "A"},
		roomRow(Row{"codi": "999999"}),
		roomRow(Row{"periode": "9"}),
		roomRow(Row{"dia": "not a date"}),
		roomRow(Row{"hora_inici": "morning"}),
		roomRow(Row{"hora_inici": "9:00", "hora_fi": "11:00"}),
		roomRow(Row{"codi": "230002"}),
		roomRow(Row{"aula": ""}),
	}

	res := ImportRooms(rows, ctx)

	if res.Attached != 0 {
		t.Fatalf("nothing should attach, got %d", res.Attached)
	}
	want := RoomSkips{NoIdentity: 2, NoPeriod: 1, NoDate: 1, NoTime: 1, NoSlot: 1, NotPlaced: 1, NoRoom: 1}
	if res.Skips != want {
		t.Errorf("skips = %+v, want %+v", res.Skips, want)
	}
}

func TestImportRooms_RoomDedupAndHeadcountFirstWins(t *testing.T) {
	ctx := baseRoomsContext()
	rows := []Row{
		roomRow(Row{"estudiants": "45"}),
		roomRow(Row{"estudiants": "99"}),
		roomRow(Row{"aula": "A5.02", "estudiants": "99"}),
	}

	res := ImportRooms(rows, ctx)

	if res.Attached != 3 {
		t.Fatalf("attached = %d, skips %+v", res.Attached, res.Skips)
	}
	rec := res.Rooms[1]["2025-01-10|0"]["230001"]
	if len(rec.Rooms) != 2 || rec.Rooms[0] != "A5.01" || rec.Rooms[1] != "A5.02" {
		t.Errorf("rooms = %v, want [A5.01 A5.02]", rec.Rooms)
	}
	if rec.Students == nil || *rec.Students != 45 {
		t.Errorf("first headcount must win, got %v", rec.Students)
	}
}

func TestImportRooms_DoesNotMutateInput(t *testing.T) {
	ctx := baseRoomsContext()
	rows := []Row{roomRow(nil)}

	ImportRooms(rows, ctx)

	if len(ctx.Rooms[1]) != 0 {
		t.Error("input room data mutated")
	}
}
