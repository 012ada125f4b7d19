package service

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

// CalendarResult is a full grid reconstructed from a visual exam calendar
// workbook: periods with their slot layouts, placements, and the subject
// catalog extended with any subjects the workbook mentioned that the
// session did not know yet.
type CalendarResult struct {
	Periods  []model.Period
	Slots    model.SlotsPerPeriod
	Assigned model.AssignedPerPeriod
	Rooms    model.RoomsPerPeriod
	Subjects []model.Subject

	AddedSubjects int
}

var (
	calMetaRe       = regexp.MustCompile(`(?i)Period(?:e)?\s*[:\s]\s*(.*?)[,;]\s*Curs\s*[:\s]\s*(.*?)[,;]\s*Q(?:uad(?:rimestre)?)?\s*[:\s]\s*(\d+)`)
	calMetaSimpleRe = regexp.MustCompile(`(?i)(PARCIAL(?:S)?|FINAL(?:S)?|REAVALUACIÓ(?:NS)?)[-\s]+(\d{4})[-\s]+(\d)`)
	calClockRe      = regexp.MustCompile(`\d{1,2}[:.]\d{2}`)
	calSubjectRe    = regexp.MustCompile(`^(\d{3,6})\s*[-–:]?\s*(.*)$`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
)

// ImportExcelCalendar parses a visual calendar workbook laid out as
// repeating blocks: a metadata line announcing a period ("PARCIALS-2025-1"
// or "Periode: PARCIAL, Curs: 2025, Q: 1"), a row of week dates, then
// time-slot rows whose date columns hold the subjects examined in that
// cell. Rows between slot rows continue the most recent slot, which is how
// merged cells arrive.
//
// Subjects are resolved against the existing catalog by code; unknown
// codes become new subjects with generated ids.
func ImportExcelCalendar(r io.Reader, existing []model.Subject) (CalendarResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return CalendarResult{}, fmt.Errorf("opening calendar workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return CalendarResult{}, fmt.Errorf("calendar workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return CalendarResult{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	res := CalendarResult{
		Slots:    make(model.SlotsPerPeriod),
		Assigned: make(model.AssignedPerPeriod),
		Rooms:    make(model.RoomsPerPeriod),
		Subjects: append([]model.Subject(nil), existing...),
	}

	subjIDByCode := make(map[string]string, len(res.Subjects))
	for _, s := range res.Subjects {
		if s.Code != "" {
			subjIDByCode[s.Code] = s.ID
		}
	}
	resolveSubject := func(code, name string) string {
		if id, ok := subjIDByCode[code]; ok {
			return id
		}
		name = strings.TrimSpace(spaceRunRe.ReplaceAllString(name, " "))
		if name == "" {
			name = "Assignatura " + code
		}
		s := model.Subject{
			ID:           uuid.NewString(),
			Code:         code,
			Acronym:      name,
			AcademicYear: "1",
			HalfYear:     1,
		}
		res.Subjects = append(res.Subjects, s)
		subjIDByCode[code] = s.ID
		res.AddedSubjects++
		return s.ID
	}

	var current *model.Period
	weekDates := map[int]string{} // column -> ISO date
	slotIndex := -1
	periodCounter := 0

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		rowString := strings.Join(row, " ")

		// Metadata row opens a new period block.
		if p, ok := parseCalendarMeta(rowString); ok {
			periodCounter++
			p.ID = periodCounter
			p.Label = fmt.Sprintf("Period %d", periodCounter)
			res.Periods = append(res.Periods, p)
			current = &res.Periods[len(res.Periods)-1]
			res.Slots[p.ID] = nil
			res.Assigned[p.ID] = make(model.AssignedMap)
			res.Rooms[p.ID] = make(map[string]model.RoomsPerCell)
			slotIndex = -1
			continue
		}

		// A row carrying two or more dates resets the visible week and
		// stretches the current period's date range.
		dates := map[int]string{}
		for c := 1; c < len(row); c++ {
			if d, ok := parseCalendarDate(row[c]); ok {
				dates[c] = d
			}
		}
		if len(dates) >= 2 {
			weekDates = dates
			if current != nil {
				for _, d := range dates {
					if current.StartDate == "" || d < current.StartDate {
						current.StartDate = d
					}
					if current.EndDate == "" || d > current.EndDate {
						current.EndDate = d
					}
				}
			}
			slotIndex = -1
			continue
		}

		// A row whose first (or second) column holds two clock readings
		// defines or reuses a time slot; otherwise the previous slot
		// continues.
		if current != nil {
			if start, end, ok := parseSlotTimes(row); ok {
				idx := findSlot(res.Slots[current.ID], start, end)
				if idx < 0 {
					res.Slots[current.ID] = append(res.Slots[current.ID], model.TimeSlot{Start: start, End: end})
					idx = len(res.Slots[current.ID]) - 1
				}
				slotIndex = idx
			}
		}

		if current == nil || slotIndex < 0 {
			continue
		}
		for c := 1; c < len(row); c++ {
			content := strings.TrimSpace(row[c])
			if content == "" {
				continue
			}
			date, ok := weekDates[c]
			if !ok {
				continue
			}
			key := model.CellKey(date, slotIndex)
			for _, found := range parseCellSubjects(content) {
				id := resolveSubject(found.code, found.name)
				if !containsString(res.Assigned[current.ID][key], id) {
					res.Assigned[current.ID][key] = append(res.Assigned[current.ID][key], id)
				}
			}
		}
	}

	return res, nil
}

func parseCalendarMeta(rowString string) (model.Period, bool) {
	var kindRaw, yearRaw, halfRaw string
	if m := calMetaRe.FindStringSubmatch(rowString); m != nil {
		kindRaw, yearRaw, halfRaw = m[1], m[2], m[3]
	} else if m := calMetaSimpleRe.FindStringSubmatch(rowString); m != nil {
		kindRaw, yearRaw, halfRaw = m[1], m[2], m[3]
	} else {
		return model.Period{}, false
	}

	year := strings.TrimSpace(yearRaw)
	half, err := strconv.Atoi(strings.TrimSpace(halfRaw))
	if err != nil || (half != 1 && half != 2) {
		return model.Period{}, false
	}
	if _, err := strconv.Atoi(year); err != nil {
		year = "2025"
	}
	return model.Period{
		Kind:         normalizePeriodKind(kindRaw),
		AcademicYear: year,
		HalfYear:     half,
	}, true
}

// parseCalendarDate accepts dd/MM/yyyy with "/", "." or "-" separators,
// plus Excel serial day counts.
func parseCalendarDate(cell string) (string, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return "", false
	}
	norm := strings.NewReplacer(".", "-", "/", "-").Replace(s)
	if m := dmyDateRe.FindStringSubmatch(norm); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		if t.Day() != d || int(t.Month()) != mo {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n > 20000 && n < 80000 {
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return epoch.AddDate(0, 0, int(n)).Format("2006-01-02"), true
	}
	return "", false
}

// parseSlotTimes looks for two clock readings in the first column, falling
// back to the second column when layouts indent the time band.
func parseSlotTimes(row []string) (start, end string, ok bool) {
	times := calClockRe.FindAllString(strings.TrimSpace(row[0]), -1)
	if len(times) < 2 && len(row) > 1 {
		if second := calClockRe.FindAllString(strings.TrimSpace(row[1]), -1); len(second) >= 2 {
			times = second
		}
	}
	if len(times) < 2 {
		return "", "", false
	}
	return padClock(strings.Replace(times[0], ".", ":", 1)),
		padClock(strings.Replace(times[1], ".", ":", 1)), true
}

type cellSubject struct {
	code string
	name string
}

// parseCellSubjects extracts every "code name" pair from a grid cell.
// Cells hold one subject per line, with "/" and ";" also accepted as
// separators when several exams share a cell.
func parseCellSubjects(content string) []cellSubject {
	var out []cellSubject
	toks := strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == ';' || r == '/'
	})
	for _, tok := range toks {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		m := calSubjectRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		out = append(out, cellSubject{code: m[1], name: strings.TrimSpace(m[2])})
	}
	return out
}
