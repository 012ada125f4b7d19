package service

import (
	"fmt"
	"sort"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

// ReplaceResult is the catalog rebuilt from scratch by a replace import.
// Clearing assignments, room data and hidden subjects is the caller's
// responsibility, not the importer's.
type ReplaceResult struct {
	Subjects []model.Subject
	Periods  []model.Period
	Slots    model.SlotsPerPeriod
	Allowed  map[string][]int
}

// ImportSubjectsReplace builds a full subject catalog, period catalog,
// slot layout and allowed-periods index out of a row batch, discarding
// nothing it is handed but starting from an empty state.
//
// Dedup policy: the first row for a subject key or period id wins; later
// rows only fill fields the first one left unset.
func ImportSubjectsReplace(rows []Row) ReplaceResult {
	subjByKey := make(map[string]*model.Subject)
	var subjOrder []string

	periodsByKey := make(map[string]map[int]bool)
	periodByID := make(map[int]*model.Period)
	slots := make(model.SlotsPerPeriod)

	// HalfYear/academicYear seen in subject-level columns of rows that
	// reference a period, kept as a fallback when the period-level
	// columns never populate them.
	halfSeenPerPid := make(map[int]int)
	yearSeenPerPid := make(map[int]string)

	for _, r := range rows {
		code := r.Str(colCode...)
		acronym := r.Str(colAcronym...)
		level := r.Str(colLevel...)
		year := NormalizeAcademicYear(r.Str(colYear...))
		half := NormalizeHalfYear(r.Str(colHalfYear...))

		met := r.Str(colTrackMET...)
		matt := r.Str(colTrackMATT...)
		mee := r.Str(colTrackMEE...)
		mcybers := r.Str(colTrackMCYBERS...)

		key := SubjectKey(code, acronym)

		if code != "" || acronym != "" {
			if s, ok := subjByKey[key]; ok {
				if s.Level == "" {
					s.Level = level
				}
				if s.AcademicYear == "" {
					s.AcademicYear = year
				}
				if s.HalfYear == 0 {
					s.HalfYear = half
				}
				if s.MET == "" {
					s.MET = met
				}
				if s.MATT == "" {
					s.MATT = matt
				}
				if s.MEE == "" {
					s.MEE = mee
				}
				if s.MCYBERS == "" {
					s.MCYBERS = mcybers
				}
			} else {
				id := code
				if id == "" {
					id = acronym
				}
				subjByKey[key] = &model.Subject{
					ID:           id,
					Code:         code,
					Acronym:      acronym,
					Level:        level,
					AcademicYear: year,
					HalfYear:     half,
					MET:          met,
					MATT:         matt,
					MEE:          mee,
					MCYBERS:      mcybers,
				}
				subjOrder = append(subjOrder, key)
			}
		}

		pidRaw, pidOK := r.First(colPeriodID...)
		pid := parsePeriodID(pidRaw, pidOK)
		if pid < 1 {
			continue
		}

		if key != "||" {
			if periodsByKey[key] == nil {
				periodsByKey[key] = make(map[int]bool)
			}
			periodsByKey[key][pid] = true
		}

		if half != 0 {
			halfSeenPerPid[pid] = half
		}
		if year != "" {
			yearSeenPerPid[pid] = year
		}

		if p, ok := periodByID[pid]; ok {
			// Only fill academicYear/halfYear left unset by the first row.
			if p.AcademicYear == "" {
				p.AcademicYear = NormalizeAcademicYear(r.Str(colPeriodYear...))
			}
			if p.HalfYear == 0 {
				p.HalfYear = NormalizeHalfYear(r.Str(colPeriodHalf...))
			}
			continue
		}

		startDate, _ := ParseDate(r.Str(colPeriodStart...))
		endDate, _ := ParseDate(r.Str(colPeriodEnd...))

		slotList := ParseSlotSpec(r.Str(colPeriodSlots...))
		if len(slotList) == 0 {
			slotList = []model.TimeSlot{{Start: "08:00", End: "10:00"}}
		}

		blackoutsRaw, _ := r.First(colPeriodBlackout...)

		periodByID[pid] = &model.Period{
			ID:           pid,
			Label:        fmt.Sprintf("Period %d", pid),
			Kind:         normalizePeriodKind(r.Str(colPeriodKind...)),
			StartDate:    startDate,
			EndDate:      endDate,
			AcademicYear: NormalizeAcademicYear(r.Str(colPeriodYear...)),
			HalfYear:     NormalizeHalfYear(r.Str(colPeriodHalf...)),
			Blackouts:    ParseBlackouts(blackoutsRaw),
		}
		slots[pid] = slotList
	}

	// Subject-level fallbacks for periods whose own columns stayed empty.
	for pid, p := range periodByID {
		if p.HalfYear == 0 {
			p.HalfYear = halfSeenPerPid[pid]
		}
		if p.AcademicYear == "" {
			p.AcademicYear = yearSeenPerPid[pid]
		}
	}

	subjects := make([]model.Subject, 0, len(subjOrder))
	allowed := make(map[string][]int)
	for _, key := range subjOrder {
		s := subjByKey[key]
		subjects = append(subjects, *s)
		if pids := periodsByKey[key]; len(pids) > 0 {
			allowed[s.ID] = sortedInts(pids)
		}
	}

	periods := make([]model.Period, 0, len(periodByID))
	for _, p := range periodByID {
		periods = append(periods, *p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].ID < periods[j].ID })

	return ReplaceResult{Subjects: subjects, Periods: periods, Slots: slots, Allowed: allowed}
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
