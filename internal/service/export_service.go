package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
)

// ── export errors ──

var (
	ErrExportNothing      = errors.New("nothing to export")
	ErrExportGenerateFail = errors.New("generating export file failed")
)

// ExportService renders the session in its downloadable formats. Every
// method returns the file content plus a suggested filename; the handler
// layer sets the HTTP headers and streams the buffer.
type ExportService interface {
	ExportJSON(ctx context.Context) (*bytes.Buffer, string, error)
	ExportCSV(ctx context.Context) (*bytes.Buffer, string, error)
	ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	store  *store.PlannerStore
	logger *zap.Logger
}

// NewExportService builds an ExportService over the session store.
func NewExportService(st *store.PlannerStore, logger *zap.Logger) ExportService {
	return &exportService{store: st, logger: logger}
}

// ════════════════════════════════════════════════
// JSON — the snapshot contract, pretty-printed
// ════════════════════════════════════════════════

func (s *exportService) ExportJSON(ctx context.Context) (*bytes.Buffer, string, error) {
	snap := s.store.Snapshot()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Error("marshaling snapshot failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return bytes.NewBuffer(data), "planificador-examens.json", nil
}

// ════════════════════════════════════════════════
// CSV — one flat line per placement
// ════════════════════════════════════════════════
//
// Column layout (fixed, no header line):
//
//	CENTRE, CURS, QUADRIMESTRE, TIPUS_EXAMEN, DIA, HORA_INICI, HORA_FI,
//	UNITAT_DOCENT, GRUPS
//
// CURS and QUADRIMESTRE fall back subject → period → inference from the
// exam date (September through January reads as the first half-year).

const exportCentre = "230"

func (s *exportService) ExportCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	snap := s.store.Snapshot()
	subjByID := indexSubjects(snap.Subjects)

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	lines := 0

	forEachPlacement(snap, func(p *model.Period, day time.Time, slot model.TimeSlot, subjectID string) {
		subj, ok := subjByID[subjectID]
		if !ok {
			return
		}
		curs := subj.AcademicYear
		if curs == "" {
			curs = p.AcademicYear
		}
		if curs == "" {
			curs = inferAcademicYear(day)
		}
		quad := subj.HalfYear
		if quad == 0 {
			quad = p.HalfYear
		}
		if quad == 0 {
			quad = inferHalfYear(day)
		}
		w.Write([]string{
			exportCentre,
			curs,
			fmt.Sprintf("%d", quad),
			string(p.Kind),
			day.Format("02-01-2006"),
			slot.Start,
			slot.End,
			subj.Code,
			"",
		})
		lines++
	})

	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("writing CSV failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if lines == 0 {
		return nil, "", ErrExportNothing
	}
	return buf, "examens_export.csv", nil
}

// ════════════════════════════════════════════════
// XLSX — one sheet per period, weeks stacked
// ════════════════════════════════════════════════
//
// Each week renders a date header row (Monday through Friday) followed by
// one row per time slot. Cells carry the subjects placed there; fills
// follow the slot's start time, with gray for blacked-out or out-of-range
// days.

var dayLabels = [5]string{"Dl", "Dt", "Dc", "Dj", "Dv"}

func (s *exportService) ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	snap := s.store.Snapshot()
	subjByID := indexSubjects(snap.Subjects)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyles := map[string]int{}
	styleFor := func(color string) int {
		if id, ok := cellStyles[color]; ok {
			return id
		}
		id, _ := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#" + color}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border: []excelize.Border{
				{Type: "left", Color: "999999", Style: 1},
				{Type: "right", Color: "999999", Style: 1},
				{Type: "top", Color: "999999", Style: 1},
				{Type: "bottom", Color: "999999", Style: 1},
			},
		})
		cellStyles[color] = id
		return id
	}

	sheets := 0
	for pi := range snap.Periods {
		p := &snap.Periods[pi]
		slots := snap.SlotsPerPeriod[p.ID]
		start, end, ok := periodRange(p)
		if len(slots) == 0 || !ok {
			continue
		}
		amap := snap.AssignedPerPeriod[p.ID]
		rooms := snap.RoomsData[p.ID]

		sheet := p.Label
		idx, err := f.NewSheet(sheet)
		if err != nil {
			continue
		}
		if sheets == 0 {
			f.SetActiveSheet(idx)
		}
		sheets++

		f.SetColWidth(sheet, "A", "A", 14)
		f.SetColWidth(sheet, "B", "F", 32)

		row := 1
		f.SetCellValue(sheet, cell("A", row), fmt.Sprintf("%s (%s) %s — %s", p.Label, p.Kind, p.StartDate, p.EndDate))
		f.MergeCell(sheet, cell("A", row), cell("F", row))
		f.SetCellStyle(sheet, cell("A", row), cell("F", row), headerStyle)
		row += 2

		for weekStart := mondayOf(start); !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
			// Date header.
			for i := 0; i < 5; i++ {
				day := weekStart.AddDate(0, 0, i)
				f.SetCellValue(sheet, cell(colName(1+i), row), fmt.Sprintf("%s %s", dayLabels[i], day.Format("02-01")))
				f.SetCellStyle(sheet, cell(colName(1+i), row), cell(colName(1+i), row), headerStyle)
			}
			row++

			for si, slot := range slots {
				f.SetCellValue(sheet, cell("A", row), fmt.Sprintf("%s-%s", slot.Start, slot.End))
				for i := 0; i < 5; i++ {
					day := weekStart.AddDate(0, 0, i)
					c := cell(colName(1+i), row)
					disabled := dayDisabled(day, p)
					f.SetCellStyle(sheet, c, c, styleFor(slotColor(slot.Start, disabled)))
					if disabled {
						continue
					}
					key := model.CellKey(day.Format("2006-01-02"), si)
					var texts []string
					for _, id := range amap[key] {
						subj, ok := subjByID[id]
						if !ok {
							continue
						}
						var extra *model.RoomsEnroll
						if cellRooms := rooms[key]; cellRooms != nil {
							extra = cellRooms[id]
						}
						texts = append(texts, formatSubjectCell(&subj, extra))
					}
					if len(texts) > 0 {
						f.SetCellValue(sheet, c, strings.Join(texts, "\n\n"))
					}
				}
				row++
			}
			row++
		}
	}

	if sheets == 0 {
		return nil, "", ErrExportNothing
	}
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("writing XLSX failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "planificador-examens.xlsx", nil
}

// ════════════════════════════════════════════════
// ICS — one VEVENT per placement
// ════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context) (*bytes.Buffer, string, error) {
	snap := s.store.Snapshot()
	subjByID := indexSubjects(snap.Subjects)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//gestor-examens//planner//CA")
	now := time.Now().UTC()

	events := 0
	forEachPlacement(snap, func(p *model.Period, day time.Time, slot model.TimeSlot, subjectID string) {
		subj, ok := subjByID[subjectID]
		if !ok {
			return
		}
		startAt, err := clockOn(day, slot.Start)
		if err != nil {
			return
		}
		endAt, err := clockOn(day, slot.End)
		if err != nil {
			return
		}

		evt := cal.AddEvent(uuid.NewString())
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(startAt)
		evt.SetEndAt(endAt)
		evt.SetSummary(fmt.Sprintf("%s · %s", subj.Code, subj.Acronym))

		key := model.CellKey(day.Format("2006-01-02"), slotIndexOf(snap.SlotsPerPeriod[p.ID], slot))
		if cellRooms := snap.RoomsData[p.ID][key]; cellRooms != nil {
			if extra := cellRooms[subj.ID]; extra != nil {
				if len(extra.Rooms) > 0 {
					evt.SetLocation(strings.Join(extra.Rooms, ", "))
				}
				if extra.Students != nil {
					evt.SetDescription(fmt.Sprintf("Estudiants/Students: %d", *extra.Students))
				}
			}
		}
		events++
	})

	if events == 0 {
		return nil, "", ErrExportNothing
	}
	return bytes.NewBufferString(cal.Serialize()), "examens.ics", nil
}

// ── placement traversal ──

// forEachPlacement walks every placement in period order, week by week,
// Monday through Friday, skipping disabled days.
func forEachPlacement(snap model.StateSnapshot, fn func(p *model.Period, day time.Time, slot model.TimeSlot, subjectID string)) {
	for pi := range snap.Periods {
		p := &snap.Periods[pi]
		slots := snap.SlotsPerPeriod[p.ID]
		start, end, ok := periodRange(p)
		if len(slots) == 0 || !ok {
			continue
		}
		amap := snap.AssignedPerPeriod[p.ID]
		for weekStart := mondayOf(start); !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
			for i := 0; i < 5; i++ {
				day := weekStart.AddDate(0, 0, i)
				if dayDisabled(day, p) {
					continue
				}
				dateISO := day.Format("2006-01-02")
				for si, slot := range slots {
					for _, id := range amap[model.CellKey(dateISO, si)] {
						fn(p, day, slot, id)
					}
				}
			}
		}
	}
}

// ── helpers ──

func indexSubjects(subjects []model.Subject) map[string]model.Subject {
	out := make(map[string]model.Subject, len(subjects))
	for _, s := range subjects {
		out[s.ID] = s
	}
	return out
}

func periodRange(p *model.Period) (time.Time, time.Time, bool) {
	start, err1 := time.Parse("2006-01-02", p.StartDate)
	end, err2 := time.Parse("2006-01-02", p.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, fridayOf(end), true
}

func mondayOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, 1-wd)
}

func fridayOf(t time.Time) time.Time {
	return mondayOf(t).AddDate(0, 0, 4)
}

// dayDisabled reports whether the period excludes the day, by range or
// blackout.
func dayDisabled(day time.Time, p *model.Period) bool {
	iso := day.Format("2006-01-02")
	if iso < p.StartDate || iso > p.EndDate {
		return true
	}
	for _, b := range p.Blackouts {
		if b == iso {
			return true
		}
	}
	return false
}

// inferAcademicYear reads the academic year off an exam date; the course
// year starts in September.
func inferAcademicYear(day time.Time) string {
	y := day.Year()
	if day.Month() < time.September {
		y--
	}
	return fmt.Sprintf("%d", y)
}

// inferHalfYear maps September through January to the first half-year.
func inferHalfYear(day time.Time) int {
	m := day.Month()
	if m >= time.September || m == time.January {
		return 1
	}
	return 2
}

func clockOn(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func slotIndexOf(slots []model.TimeSlot, slot model.TimeSlot) int {
	for i, s := range slots {
		if s == slot {
			return i
		}
	}
	return 0
}

// formatSubjectCell renders one subject's grid text: identity line, track
// labels, then rooms and headcount when known.
func formatSubjectCell(s *model.Subject, extra *model.RoomsEnroll) string {
	lines := []string{fmt.Sprintf("%s · %s", s.Code, s.Acronym)}

	var tags []string
	for _, t := range []string{s.Level, s.MET, s.MATT, s.MEE, s.MCYBERS} {
		if t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		lines = append(lines, strings.Join(tags, " · "))
	}

	if extra != nil {
		if len(extra.Rooms) > 0 {
			lines = append(lines, "Aules/Rooms: "+strings.Join(extra.Rooms, ", "))
		}
		if extra.Students != nil {
			lines = append(lines, fmt.Sprintf("Estudiants/Students: %d", *extra.Students))
		}
	}
	return strings.Join(lines, "\n")
}

// slotColor picks the fill for a slot row from its start time, matching
// the print layout's banding.
func slotColor(slotStart string, disabled bool) string {
	if disabled {
		return "D9D9D9"
	}
	t, err := time.Parse("15:04", slotStart)
	if err != nil {
		return "FFFFFF"
	}
	mins := t.Hour()*60 + t.Minute()
	switch {
	case mins < 11*60:
		return "FFFFCC"
	case mins < 14*60:
		return "FFFF99"
	case mins < 17*60:
		return "DBE4F0"
	default:
		return "B9CDE5"
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
