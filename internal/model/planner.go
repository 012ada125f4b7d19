package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PeriodKind classifies a scheduling window.
type PeriodKind string

const (
	PeriodPartial PeriodKind = "PARTIAL"
	PeriodFinal   PeriodKind = "FINAL"
	PeriodResit   PeriodKind = "RESIT"
)

// Subject is a course offering. ID is derived from the code (or the acronym
// when the code is missing) at first import and never regenerated. Merge
// identity is the (code, acronym) pair, lower-cased and trimmed.
type Subject struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Acronym      string `json:"acronym"`
	Level        string `json:"level,omitempty"`
	AcademicYear string `json:"academicYear,omitempty"`
	HalfYear     int    `json:"halfYear,omitempty"` // 1 or 2; 0 means unset
	MET          string `json:"MET,omitempty"`
	MATT         string `json:"MATT,omitempty"`
	MEE          string `json:"MEE,omitempty"`
	MCYBERS      string `json:"MCYBERS,omitempty"`
}

// Period is a bounded calendar window during which exams occur.
type Period struct {
	ID           int        `json:"id"`
	Label        string     `json:"label"`
	Kind         PeriodKind `json:"kind"`
	StartDate    string     `json:"startDate"` // "2006-01-02", inclusive
	EndDate      string     `json:"endDate"`   // "2006-01-02", inclusive
	AcademicYear string     `json:"academicYear,omitempty"`
	HalfYear     int        `json:"halfYear,omitempty"`
	Blackouts    []string   `json:"blackouts,omitempty"` // ISO dates excluded from scheduling
}

// TimeSlot is a wall-clock interval within a period. Slots are referenced
// by their position in the period's slot list, so any change to the list's
// shape requires remapping every dependent cell key.
type TimeSlot struct {
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`
}

// AssignedMap maps cell keys ("date|slotIndex") to the subject ids placed
// in that cell. A cell may hold several subjects.
type AssignedMap map[string][]string

// AssignedPerPeriod keys assignment maps by period id.
type AssignedPerPeriod map[int]AssignedMap

// SlotsPerPeriod keys each period's ordered slot list by period id.
type SlotsPerPeriod map[int][]TimeSlot

// RoomsEnroll holds room names (insertion order, no duplicates) and an
// optional headcount for one (period, cell, subject) placement.
type RoomsEnroll struct {
	Rooms    []string `json:"rooms"`
	Students *int     `json:"students,omitempty"`
}

// Clone returns a deep copy of the entry.
func (r *RoomsEnroll) Clone() *RoomsEnroll {
	if r == nil {
		return nil
	}
	out := &RoomsEnroll{Rooms: append([]string(nil), r.Rooms...)}
	if r.Students != nil {
		n := *r.Students
		out.Students = &n
	}
	return out
}

// RoomsPerCell maps subject id to its room/enrollment record within a cell.
type RoomsPerCell map[string]*RoomsEnroll

// RoomsPerPeriod is pid -> cellKey -> subjectID -> record.
type RoomsPerPeriod map[int]map[string]RoomsPerCell

// DeletedSnapshot captures everything referencing a subject right before a
// permanent delete, so a single undo can restore it.
type DeletedSnapshot struct {
	Subject        Subject                     `json:"subject"`
	AllowedPeriods []int                       `json:"allowedPeriods,omitempty"`
	Placed         map[int][]string            `json:"placed"` // pid -> cell keys
	Rooms          map[int]map[string]RoomsEnroll `json:"rooms"`  // pid -> cellKey -> record
}

// StateSnapshot is the serialized form of the whole planner session. The
// field set and shape are a compatibility contract for save/load and share
// links; loading treats missing fields as "leave current value unchanged".
type StateSnapshot struct {
	Subjects                []Subject         `json:"subjects"`
	Periods                 []Period          `json:"periods"`
	SlotsPerPeriod          SlotsPerPeriod    `json:"slotsPerPeriod"`
	AssignedPerPeriod       AssignedPerPeriod `json:"assignedPerPeriod"`
	ActivePid               int               `json:"activePid"`
	RoomsData               RoomsPerPeriod    `json:"roomsData"`
	AllowedPeriodsBySubject map[string][]int  `json:"allowedPeriodsBySubject"`
	HiddenSubjectIDs        []string          `json:"hiddenSubjectIds"`
}

// Clone returns a deep copy.
func (m AssignedMap) Clone() AssignedMap {
	out := make(AssignedMap, len(m))
	for key, ids := range m {
		out[key] = append([]string(nil), ids...)
	}
	return out
}

// Clone returns a deep copy.
func (m AssignedPerPeriod) Clone() AssignedPerPeriod {
	out := make(AssignedPerPeriod, len(m))
	for pid, am := range m {
		out[pid] = am.Clone()
	}
	return out
}

// Clone returns a deep copy.
func (m SlotsPerPeriod) Clone() SlotsPerPeriod {
	out := make(SlotsPerPeriod, len(m))
	for pid, slots := range m {
		out[pid] = append([]TimeSlot(nil), slots...)
	}
	return out
}

// Clone returns a deep copy.
func (m RoomsPerPeriod) Clone() RoomsPerPeriod {
	out := make(RoomsPerPeriod, len(m))
	for pid, cells := range m {
		cp := make(map[string]RoomsPerCell, len(cells))
		for key, cell := range cells {
			cc := make(RoomsPerCell, len(cell))
			for sid, rec := range cell {
				cc[sid] = rec.Clone()
			}
			cp[key] = cc
		}
		out[pid] = cp
	}
	return out
}

// CloneAllowed deep-copies an allowed-periods index.
func CloneAllowed(in map[string][]int) map[string][]int {
	out := make(map[string][]int, len(in))
	for k, v := range in {
		out[k] = append([]int(nil), v...)
	}
	return out
}

// CellKey builds the canonical cell key "<ISO-date>|<slotIndex>".
func CellKey(dateISO string, slotIndex int) string {
	return fmt.Sprintf("%s|%d", dateISO, slotIndex)
}

// SplitCellKey parses a cell key back into its date and slot index.
func SplitCellKey(key string) (dateISO string, slotIndex int, ok bool) {
	i := strings.LastIndexByte(key, '|')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return key[:i], n, true
}
