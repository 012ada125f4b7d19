package service

import (
	"fmt"
	"sort"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

// MergeState is the slice of current planner state a merge import reads
// and rewrites. The importer never mutates it; results come back as deep
// copies in MergeResult.
type MergeState struct {
	Subjects []model.Subject
	Periods  []model.Period
	Allowed  map[string][]int
	Slots    model.SlotsPerPeriod
	Assigned model.AssignedPerPeriod
	Rooms    model.RoomsPerPeriod
}

// MergeResult carries the post-merge state plus change counters.
type MergeResult struct {
	Subjects []model.Subject
	Periods  []model.Period
	Allowed  map[string][]int
	Slots    model.SlotsPerPeriod
	Assigned model.AssignedPerPeriod
	Rooms    model.RoomsPerPeriod

	AddedSubjects   int
	UpdatedSubjects int
	AddedPeriods    int
}

// ImportSubjectsMerge folds a row batch into existing state. Subjects are
// matched by their (code, acronym) key; for matches the CSV value always
// wins, including clearing a field the CSV leaves empty. Periods are
// matched by id and updated field-wise, only where the CSV supplies a
// value. When a period's slot list changes shape, every assignment and
// room record in that period is remapped to the slot with the same start
// and end time; cells whose old slot no longer exists are dropped.
func ImportSubjectsMerge(rows []Row, cur MergeState) MergeResult {
	res := MergeResult{
		Subjects: append([]model.Subject(nil), cur.Subjects...),
		Periods:  append([]model.Period(nil), cur.Periods...),
		Allowed:  model.CloneAllowed(cur.Allowed),
		Slots:    cur.Slots.Clone(),
		Assigned: cur.Assigned.Clone(),
		Rooms:    cur.Rooms.Clone(),
	}

	subjIdxByKey := make(map[string]int, len(res.Subjects))
	for i, s := range res.Subjects {
		subjIdxByKey[SubjectKey(s.Code, s.Acronym)] = i
	}
	periodIdxByID := make(map[int]int, len(res.Periods))
	for i, p := range res.Periods {
		periodIdxByID[p.ID] = i
	}

	for _, r := range rows {
		code := r.Str(colCode...)
		acronym := r.Str(colAcronym...)
		if code == "" && acronym == "" {
			continue
		}

		level := r.Str(colLevel...)
		year := NormalizeAcademicYear(r.Str(colYear...))
		half := NormalizeHalfYear(r.Str(colHalfYear...))
		met := r.Str(colTrackMET...)
		matt := r.Str(colTrackMATT...)
		mee := r.Str(colTrackMEE...)
		mcybers := r.Str(colTrackMCYBERS...)

		key := SubjectKey(code, acronym)
		var subjectID string
		if i, ok := subjIdxByKey[key]; ok {
			s := &res.Subjects[i]
			next := *s
			next.Level = level
			next.AcademicYear = year
			next.HalfYear = half
			next.MET = met
			next.MATT = matt
			next.MEE = mee
			next.MCYBERS = mcybers
			if next != *s {
				*s = next
				res.UpdatedSubjects++
			}
			subjectID = s.ID
		} else {
			id := code
			if id == "" {
				id = acronym
			}
			res.Subjects = append(res.Subjects, model.Subject{
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
			})
			subjIdxByKey[key] = len(res.Subjects) - 1
			res.AddedSubjects++
			subjectID = id
		}

		pidRaw, pidOK := r.First(colPeriodID...)
		pid := parsePeriodID(pidRaw, pidOK)
		if pid < 1 {
			continue
		}

		kindRaw := r.Str(colPeriodKind...)
		startDate, _ := ParseDate(r.Str(colPeriodStart...))
		endDate, _ := ParseDate(r.Str(colPeriodEnd...))
		slotList := ParseSlotSpec(r.Str(colPeriodSlots...))

		if i, ok := periodIdxByID[pid]; ok {
			p := &res.Periods[i]
			if kindRaw != "" {
				p.Kind = normalizePeriodKind(kindRaw)
			}
			if startDate != "" {
				p.StartDate = startDate
			}
			if endDate != "" {
				p.EndDate = endDate
			}
			if len(slotList) > 0 {
				res.Slots[pid] = slotList
			}
		} else {
			if len(slotList) == 0 {
				slotList = []model.TimeSlot{{Start: "08:00", End: "10:00"}}
			}
			res.Periods = append(res.Periods, model.Period{
				ID:        pid,
				Label:     fmt.Sprintf("Period %d", pid),
				Kind:      normalizePeriodKind(kindRaw),
				StartDate: startDate,
				EndDate:   endDate,
			})
			periodIdxByID[pid] = len(res.Periods) - 1
			res.Slots[pid] = slotList
			res.AddedPeriods++
		}

		res.Allowed[subjectID] = addSorted(res.Allowed[subjectID], pid)
	}

	sort.Slice(res.Periods, func(i, j int) bool { return res.Periods[i].ID < res.Periods[j].ID })

	// Remap cell keys for every period whose slot list changed shape.
	for pid, newSlots := range res.Slots {
		oldSlots := cur.Slots[pid]
		if oldSlots == nil || slotsEqual(oldSlots, newSlots) {
			continue
		}
		idxMap := make(map[int]int, len(oldSlots))
		for oi, os := range oldSlots {
			for ni, ns := range newSlots {
				if os == ns {
					idxMap[oi] = ni
					break
				}
			}
		}
		if am := res.Assigned[pid]; am != nil {
			res.Assigned[pid] = remapAssigned(am, idxMap)
		}
		if rm := res.Rooms[pid]; rm != nil {
			res.Rooms[pid] = remapRooms(rm, idxMap)
		}
	}

	return res
}

func remapAssigned(am model.AssignedMap, idxMap map[int]int) model.AssignedMap {
	out := make(model.AssignedMap, len(am))
	for key, ids := range am {
		date, oldIdx, ok := model.SplitCellKey(key)
		if !ok {
			continue
		}
		newIdx, ok := idxMap[oldIdx]
		if !ok {
			continue
		}
		nk := model.CellKey(date, newIdx)
		out[nk] = append(out[nk], ids...)
	}
	return out
}

func remapRooms(rm map[string]model.RoomsPerCell, idxMap map[int]int) map[string]model.RoomsPerCell {
	out := make(map[string]model.RoomsPerCell, len(rm))
	for key, cell := range rm {
		date, oldIdx, ok := model.SplitCellKey(key)
		if !ok {
			continue
		}
		newIdx, ok := idxMap[oldIdx]
		if !ok {
			continue
		}
		nk := model.CellKey(date, newIdx)
		if out[nk] == nil {
			out[nk] = make(model.RoomsPerCell, len(cell))
		}
		for sid, rec := range cell {
			out[nk][sid] = rec
		}
	}
	return out
}

func slotsEqual(a, b []model.TimeSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func addSorted(list []int, n int) []int {
	for _, v := range list {
		if v == n {
			return list
		}
	}
	list = append(list, n)
	sort.Ints(list)
	return list
}

