package service

import (
	"strconv"
	"strings"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

// RoomSkips counts rows a room import rejected, by reason.
type RoomSkips struct {
	NoIdentity int `json:"noIdentity"`
	NoPeriod   int `json:"noPeriod"`
	NoDate     int `json:"noDate"`
	NoTime     int `json:"noTime"`
	NoSlot     int `json:"noSlot"`
	NotPlaced  int `json:"notPlaced"`
	NoRoom     int `json:"noRoom"`
}

// Total sums all skip counters.
func (s RoomSkips) Total() int {
	return s.NoIdentity + s.NoPeriod + s.NoDate + s.NoTime + s.NoSlot + s.NotPlaced + s.NoRoom
}

// RoomsContext is the read-only planner state a room import resolves rows
// against.
type RoomsContext struct {
	Subjects []model.Subject
	Periods  []model.Period
	Slots    model.SlotsPerPeriod
	Assigned model.AssignedPerPeriod
	Rooms    model.RoomsPerPeriod
}

// RoomsResult carries the rewritten room data plus an audit of the batch.
type RoomsResult struct {
	Rooms    model.RoomsPerPeriod
	Attached int
	Skips    RoomSkips
}

// ImportRooms attaches room names and enrollment headcounts to placements
// that already exist on the grid. Rows never create placements; a row that
// cannot be resolved to an existing (period, cell, subject) placement is
// counted under the reason it failed and otherwise ignored.
//
// Rooms accumulate without duplicates across batches. A headcount is only
// recorded the first time one arrives for a placement.
func ImportRooms(rows []Row, ctx RoomsContext) RoomsResult {
	res := RoomsResult{Rooms: ctx.Rooms.Clone()}

	periodExists := make(map[int]bool, len(ctx.Periods))
	for _, p := range ctx.Periods {
		periodExists[p.ID] = true
	}

	for _, r := range rows {
		code := strings.ToLower(r.Str(colCode...))
		acronym := strings.ToLower(r.Str(colAcronymEx...))
		if code == "" && acronym == "" {
			res.Skips.NoIdentity++
			continue
		}

		subject := findSubject(ctx.Subjects, code, acronym)
		if subject == nil {
			res.Skips.NoIdentity++
			continue
		}

		pidRaw, pidOK := r.First(colPeriodID...)
		pid := parsePeriodID(pidRaw, pidOK)
		if pid < 1 || !periodExists[pid] {
			res.Skips.NoPeriod++
			continue
		}

		dateRaw, _ := r.First(colExamDate...)
		date, ok := ParseExamDate(dateRaw)
		if !ok {
			res.Skips.NoDate++
			continue
		}

		start, okS := NormalizeClock(r.Str(colStartTime...))
		end, okE := NormalizeClock(r.Str(colEndTime...))
		if !okS || !okE {
			res.Skips.NoTime++
			continue
		}

		slotIdx := findSlot(ctx.Slots[pid], start, end)
		if slotIdx < 0 {
			res.Skips.NoSlot++
			continue
		}

		cell := model.CellKey(date, slotIdx)
		if !containsString(ctx.Assigned[pid][cell], subject.ID) {
			res.Skips.NotPlaced++
			continue
		}

		room := r.Str(colRoom...)
		if room == "" {
			res.Skips.NoRoom++
			continue
		}

		if res.Rooms[pid] == nil {
			res.Rooms[pid] = make(map[string]model.RoomsPerCell)
		}
		if res.Rooms[pid][cell] == nil {
			res.Rooms[pid][cell] = make(model.RoomsPerCell)
		}
		rec := res.Rooms[pid][cell][subject.ID]
		if rec == nil {
			rec = &model.RoomsEnroll{}
			res.Rooms[pid][cell][subject.ID] = rec
		}
		if !containsString(rec.Rooms, room) {
			rec.Rooms = append(rec.Rooms, room)
		}
		if rec.Students == nil {
			if n, ok := parseHeadcount(r.Str(colStudents...)); ok {
				rec.Students = &n
			}
		}

		res.Attached++
	}

	return res
}

// findSubject resolves by exact code match first, then exact acronym
// match, both case-insensitive on trimmed values.
func findSubject(subjects []model.Subject, code, acronym string) *model.Subject {
	if code != "" {
		for i := range subjects {
			if strings.ToLower(strings.TrimSpace(subjects[i].Code)) == code {
				return &subjects[i]
			}
		}
	}
	if acronym != "" {
		for i := range subjects {
			if strings.ToLower(strings.TrimSpace(subjects[i].Acronym)) == acronym {
				return &subjects[i]
			}
		}
	}
	return nil
}

// findSlot matches a normalized start/end pair positionally against the
// period's slot list.
func findSlot(slots []model.TimeSlot, start, end string) int {
	for i, s := range slots {
		if s.Start == start && s.End == end {
			return i
		}
	}
	return -1
}

func parseHeadcount(raw string) (int, bool) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
