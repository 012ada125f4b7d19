package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrPeriodNotFound  = errors.New("period not found")
	ErrSlotOutOfRange  = errors.New("slot index out of range")
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateOutOfRange  = errors.New("date outside period range")
	ErrDateBlackedOut  = errors.New("date is blacked out")
	ErrAlreadyPlaced   = errors.New("subject already placed in period")
	ErrNotPlaced       = errors.New("subject not placed in cell")
	ErrPeriodLimit     = errors.New("period limit reached")
	ErrLastPeriod      = errors.New("cannot remove the last period")
)

const (
	maxPeriods     = 5
	defaultUndoTTL = 20 * time.Second
)

var isoDayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// defaultSlots is the slot layout a fresh period starts with.
func defaultSlots() []model.TimeSlot {
	return []model.TimeSlot{
		{Start: "08:00", End: "10:00"},
		{Start: "10:30", End: "12:30"},
		{Start: "15:00", End: "17:00"},
	}
}

// PlannerStore owns the whole session state behind one mutex. Every
// mutator computes its next value under the lock before publishing it, so
// readers always observe a complete state. Snapshots returned to callers
// are deep copies and never alias internal maps.
type PlannerStore struct {
	mu  sync.Mutex
	log *zap.Logger

	subjects  []model.Subject
	periods   []model.Period
	slots     model.SlotsPerPeriod
	assigned  model.AssignedPerPeriod
	rooms     model.RoomsPerPeriod
	allowed   map[string][]int
	hidden    map[string]bool
	activePid int

	// Period ids only ever grow within a session; removing a period never
	// frees its id for reuse.
	nextPeriodID int

	undoTTL     time.Duration
	lastDeleted *model.DeletedSnapshot
	undoTimer   *time.Timer
	undoGen     uint64
}

// NewPlannerStore builds a session seeded with one partial-exams period
// covering the current working week.
func NewPlannerStore(log *zap.Logger, undoTTL time.Duration) *PlannerStore {
	if undoTTL <= 0 {
		undoTTL = defaultUndoTTL
	}
	monday := startOfWeek(time.Now())
	s := &PlannerStore{
		log: log,
		periods: []model.Period{{
			ID:        1,
			Label:     "Period 1",
			Kind:      model.PeriodPartial,
			StartDate: monday.Format("2006-01-02"),
			EndDate:   monday.AddDate(0, 0, 4).Format("2006-01-02"),
		}},
		slots:        model.SlotsPerPeriod{1: defaultSlots()},
		assigned:     model.AssignedPerPeriod{1: model.AssignedMap{}},
		rooms:        model.RoomsPerPeriod{1: map[string]model.RoomsPerCell{}},
		allowed:      map[string][]int{},
		hidden:       map[string]bool{},
		activePid:    1,
		nextPeriodID: 2,
		undoTTL:      undoTTL,
	}
	return s
}

func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, 1-wd)
}

// ────── Snapshots ──────

// Snapshot returns a deep copy of the full session state in the
// serialized contract shape.
func (s *PlannerStore) Snapshot() model.StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *PlannerStore) snapshotLocked() model.StateSnapshot {
	hidden := make([]string, 0, len(s.hidden))
	for id := range s.hidden {
		hidden = append(hidden, id)
	}
	sort.Strings(hidden)
	return model.StateSnapshot{
		Subjects:                append([]model.Subject(nil), s.subjects...),
		Periods:                 clonePeriods(s.periods),
		SlotsPerPeriod:          s.slots.Clone(),
		AssignedPerPeriod:       s.assigned.Clone(),
		ActivePid:               s.activePid,
		RoomsData:               s.rooms.Clone(),
		AllowedPeriodsBySubject: model.CloneAllowed(s.allowed),
		HiddenSubjectIDs:        hidden,
	}
}

// PendingUndo reports whether a deleted subject is still restorable.
func (s *PlannerStore) PendingUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDeleted != nil
}

// snapshotPatch mirrors StateSnapshot with pointer fields so a loaded
// document can distinguish an absent field from an empty one. Absent
// fields leave the current value untouched.
type snapshotPatch struct {
	Subjects          *[]model.Subject         `json:"subjects"`
	Periods           *[]model.Period          `json:"periods"`
	SlotsPerPeriod    *model.SlotsPerPeriod    `json:"slotsPerPeriod"`
	AssignedPerPeriod *model.AssignedPerPeriod `json:"assignedPerPeriod"`
	ActivePid         *int                     `json:"activePid"`
	RoomsData         *model.RoomsPerPeriod    `json:"roomsData"`
	Allowed           *map[string][]int        `json:"allowedPeriodsBySubject"`
	Hidden            *[]string                `json:"hiddenSubjectIds"`
}

// LoadSnapshot applies a serialized snapshot to the session. Fields the
// document omits keep their current value. Loading discards any pending
// undo and raises the period id counter above every loaded id.
func (s *PlannerStore) LoadSnapshot(data []byte) error {
	var patch snapshotPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Subjects != nil {
		s.subjects = *patch.Subjects
	}
	if patch.Periods != nil {
		s.periods = *patch.Periods
		sort.Slice(s.periods, func(i, j int) bool { return s.periods[i].ID < s.periods[j].ID })
	}
	if patch.SlotsPerPeriod != nil {
		s.slots = *patch.SlotsPerPeriod
	}
	if patch.AssignedPerPeriod != nil {
		s.assigned = *patch.AssignedPerPeriod
	}
	if patch.ActivePid != nil {
		s.activePid = *patch.ActivePid
	}
	if patch.RoomsData != nil {
		s.rooms = *patch.RoomsData
	}
	if patch.Allowed != nil {
		s.allowed = *patch.Allowed
	}
	if patch.Hidden != nil {
		s.hidden = make(map[string]bool, len(*patch.Hidden))
		for _, id := range *patch.Hidden {
			s.hidden[id] = true
		}
	}
	s.normalizeLocked()
	s.clearUndoLocked()
	s.log.Info("snapshot loaded",
		zap.Int("subjects", len(s.subjects)),
		zap.Int("periods", len(s.periods)),
		zap.Int("activePid", s.activePid))
	return nil
}

// normalizeLocked repairs cross-field invariants after a bulk state swap:
// nil maps for known periods, a valid active period, and a period id
// counter above every existing id.
func (s *PlannerStore) normalizeLocked() {
	if s.slots == nil {
		s.slots = model.SlotsPerPeriod{}
	}
	if s.assigned == nil {
		s.assigned = model.AssignedPerPeriod{}
	}
	if s.rooms == nil {
		s.rooms = model.RoomsPerPeriod{}
	}
	if s.allowed == nil {
		s.allowed = map[string][]int{}
	}
	if s.hidden == nil {
		s.hidden = map[string]bool{}
	}
	activeOK := false
	for _, p := range s.periods {
		if s.assigned[p.ID] == nil {
			s.assigned[p.ID] = model.AssignedMap{}
		}
		if s.rooms[p.ID] == nil {
			s.rooms[p.ID] = map[string]model.RoomsPerCell{}
		}
		if len(s.slots[p.ID]) == 0 {
			s.slots[p.ID] = defaultSlots()
		}
		if p.ID == s.activePid {
			activeOK = true
		}
		if p.ID >= s.nextPeriodID {
			s.nextPeriodID = p.ID + 1
		}
	}
	if !activeOK && len(s.periods) > 0 {
		s.activePid = s.periods[0].ID
	}
}

// ────── Cell mutations ──────

// PlaceSubject puts a subject into a grid cell. A subject holds at most
// one cell per period.
func (s *PlannerStore) PlaceSubject(pid int, subjectID, date string, slotIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.periodLocked(pid)
	if p == nil {
		return ErrPeriodNotFound
	}
	if s.subjectLocked(subjectID) == nil {
		return ErrSubjectNotFound
	}
	if err := s.validateCellLocked(p, date, slotIdx); err != nil {
		return err
	}
	for _, ids := range s.assigned[pid] {
		for _, id := range ids {
			if id == subjectID {
				return ErrAlreadyPlaced
			}
		}
	}

	key := model.CellKey(date, slotIdx)
	s.assigned[pid][key] = append(s.assigned[pid][key], subjectID)
	s.log.Debug("subject placed",
		zap.String("subjectId", subjectID), zap.Int("pid", pid), zap.String("cell", key))
	return nil
}

// MoveSubject relocates a placement within one period, carrying its room
// record along.
func (s *PlannerStore) MoveSubject(pid int, subjectID, fromDate string, fromSlot int, toDate string, toSlot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.periodLocked(pid)
	if p == nil {
		return ErrPeriodNotFound
	}
	if err := s.validateCellLocked(p, toDate, toSlot); err != nil {
		return err
	}

	fromKey := model.CellKey(fromDate, fromSlot)
	if !removeString(s.assigned[pid], fromKey, subjectID) {
		return ErrNotPlaced
	}
	toKey := model.CellKey(toDate, toSlot)
	s.assigned[pid][toKey] = append(s.assigned[pid][toKey], subjectID)

	if cell := s.rooms[pid][fromKey]; cell != nil {
		if rec, ok := cell[subjectID]; ok {
			delete(cell, subjectID)
			if len(cell) == 0 {
				delete(s.rooms[pid], fromKey)
			}
			if s.rooms[pid][toKey] == nil {
				s.rooms[pid][toKey] = model.RoomsPerCell{}
			}
			s.rooms[pid][toKey][subjectID] = rec
		}
	}
	return nil
}

// RemoveFromCell takes a subject off the grid, dropping its room record
// for that cell.
func (s *PlannerStore) RemoveFromCell(pid int, subjectID, date string, slotIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.periodLocked(pid) == nil {
		return ErrPeriodNotFound
	}
	key := model.CellKey(date, slotIdx)
	if !removeString(s.assigned[pid], key, subjectID) {
		return ErrNotPlaced
	}
	if cell := s.rooms[pid][key]; cell != nil {
		delete(cell, subjectID)
		if len(cell) == 0 {
			delete(s.rooms[pid], key)
		}
	}
	return nil
}

func (s *PlannerStore) validateCellLocked(p *model.Period, date string, slotIdx int) error {
	if !isoDayRe.MatchString(date) {
		return ErrInvalidDate
	}
	if slotIdx < 0 || slotIdx >= len(s.slots[p.ID]) {
		return ErrSlotOutOfRange
	}
	if (p.StartDate != "" && date < p.StartDate) || (p.EndDate != "" && date > p.EndDate) {
		return ErrDateOutOfRange
	}
	for _, b := range p.Blackouts {
		if b == date {
			return ErrDateBlackedOut
		}
	}
	return nil
}

// ────── Delete & undo ──────

// DeleteSubjectPermanently removes a subject and everything referencing
// it, keeping a restorable snapshot until the undo window expires.
func (s *PlannerStore) DeleteSubjectPermanently(subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.subjects {
		if s.subjects[i].ID == subjectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSubjectNotFound
	}

	snap := &model.DeletedSnapshot{
		Subject: s.subjects[idx],
		Placed:  map[int][]string{},
		Rooms:   map[int]map[string]model.RoomsEnroll{},
	}
	if allowed, ok := s.allowed[subjectID]; ok {
		snap.AllowedPeriods = append([]int(nil), allowed...)
	}

	for pid, am := range s.assigned {
		var keys []string
		for key, ids := range am {
			for _, id := range ids {
				if id == subjectID {
					keys = append(keys, key)
					break
				}
			}
		}
		if keys == nil {
			continue
		}
		sort.Strings(keys)
		snap.Placed[pid] = keys
		for _, key := range keys {
			removeString(am, key, subjectID)
		}
	}
	for pid, cells := range s.rooms {
		for key, cell := range cells {
			rec, ok := cell[subjectID]
			if !ok {
				continue
			}
			if snap.Rooms[pid] == nil {
				snap.Rooms[pid] = map[string]model.RoomsEnroll{}
			}
			snap.Rooms[pid][key] = *rec.Clone()
			delete(cell, subjectID)
			if len(cell) == 0 {
				delete(cells, key)
			}
		}
	}

	s.subjects = append(s.subjects[:idx], s.subjects[idx+1:]...)
	delete(s.allowed, subjectID)
	delete(s.hidden, subjectID)

	s.armUndoLocked(snap)
	s.log.Info("subject deleted",
		zap.String("subjectId", subjectID),
		zap.Int("placedPeriods", len(snap.Placed)),
		zap.Duration("undoWindow", s.undoTTL))
	return nil
}

// UndoDelete restores the last deleted subject. It reports whether a
// restore happened; calling it with nothing pending, after expiry, or a
// second time is a harmless no-op. Placements are restored by union, room
// records verbatim, and both skip periods that no longer exist.
func (s *PlannerStore) UndoDelete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.lastDeleted
	if snap == nil {
		return false
	}
	s.clearUndoLocked()

	exists := false
	for _, subj := range s.subjects {
		if subj.ID == snap.Subject.ID {
			exists = true
			break
		}
	}
	if !exists {
		s.subjects = append(s.subjects, snap.Subject)
	}
	if snap.AllowedPeriods != nil {
		s.allowed[snap.Subject.ID] = append([]int(nil), snap.AllowedPeriods...)
	}

	for pid, keys := range snap.Placed {
		if s.periodLocked(pid) == nil {
			continue
		}
		for _, key := range keys {
			if !containsString(s.assigned[pid][key], snap.Subject.ID) {
				s.assigned[pid][key] = append(s.assigned[pid][key], snap.Subject.ID)
			}
		}
	}
	for pid, cells := range snap.Rooms {
		if s.periodLocked(pid) == nil {
			continue
		}
		if s.rooms[pid] == nil {
			s.rooms[pid] = map[string]model.RoomsPerCell{}
		}
		for key, rec := range cells {
			if s.rooms[pid][key] == nil {
				s.rooms[pid][key] = model.RoomsPerCell{}
			}
			restored := rec
			s.rooms[pid][key][snap.Subject.ID] = &restored
		}
	}
	s.log.Info("delete undone", zap.String("subjectId", snap.Subject.ID))
	return true
}

// armUndoLocked replaces any pending snapshot and starts the expiry
// timer. The generation counter keeps a stale timer firing late from
// clearing a newer snapshot.
func (s *PlannerStore) armUndoLocked(snap *model.DeletedSnapshot) {
	if s.undoTimer != nil {
		s.undoTimer.Stop()
	}
	s.undoGen++
	gen := s.undoGen
	s.lastDeleted = snap
	s.undoTimer = time.AfterFunc(s.undoTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.undoGen != gen || s.lastDeleted == nil {
			return
		}
		s.log.Debug("undo window expired", zap.String("subjectId", s.lastDeleted.Subject.ID))
		s.lastDeleted = nil
	})
}

func (s *PlannerStore) clearUndoLocked() {
	if s.undoTimer != nil {
		s.undoTimer.Stop()
		s.undoTimer = nil
	}
	s.undoGen++
	s.lastDeleted = nil
}

// ────── Periods ──────

// AddPeriod appends a fresh period with the default slot layout and
// activates it.
func (s *PlannerStore) AddPeriod() (model.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.periods) >= maxPeriods {
		return model.Period{}, ErrPeriodLimit
	}
	id := s.nextPeriodID
	s.nextPeriodID++
	p := model.Period{
		ID:    id,
		Label: fmt.Sprintf("Period %d", id),
		Kind:  model.PeriodPartial,
	}
	s.periods = append(s.periods, p)
	s.slots[id] = defaultSlots()
	s.assigned[id] = model.AssignedMap{}
	s.rooms[id] = map[string]model.RoomsPerCell{}
	s.activePid = id
	s.log.Info("period added", zap.Int("pid", id))
	return p, nil
}

// RemovePeriod drops a period and everything keyed by it. The last
// remaining period cannot be removed.
func (s *PlannerStore) RemovePeriod(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.periods {
		if s.periods[i].ID == pid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPeriodNotFound
	}
	if len(s.periods) == 1 {
		return ErrLastPeriod
	}

	s.periods = append(s.periods[:idx], s.periods[idx+1:]...)
	delete(s.slots, pid)
	delete(s.assigned, pid)
	delete(s.rooms, pid)
	for id, list := range s.allowed {
		s.allowed[id] = removeInt(list, pid)
	}
	if s.activePid == pid {
		s.activePid = s.periods[0].ID
	}
	s.log.Info("period removed", zap.Int("pid", pid), zap.Int("activePid", s.activePid))
	return nil
}

// SetActivePeriod switches the period the grid shows.
func (s *PlannerStore) SetActivePeriod(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.periodLocked(pid) == nil {
		return ErrPeriodNotFound
	}
	s.activePid = pid
	return nil
}

// ────── Tray ──────

// HideSubject drops a subject from the availability tray without
// touching its placements.
func (s *PlannerStore) HideSubject(subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subjectLocked(subjectID) == nil {
		return ErrSubjectNotFound
	}
	s.hidden[subjectID] = true
	return nil
}

// UnhideSubject restores a hidden subject to the tray.
func (s *PlannerStore) UnhideSubject(subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subjectLocked(subjectID) == nil {
		return ErrSubjectNotFound
	}
	delete(s.hidden, subjectID)
	return nil
}

// AvailableSubjects lists the subjects placeable in the active period:
// not hidden, not already on the active grid, and admitted either by an
// explicit allowed-periods list (which overrides the subject's own
// half-year) or, absent one, by matching half-year and academic year.
func (s *PlannerStore) AvailableSubjects() []model.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.periodLocked(s.activePid)
	if p == nil {
		return nil
	}
	placed := map[string]bool{}
	for _, ids := range s.assigned[p.ID] {
		for _, id := range ids {
			placed[id] = true
		}
	}

	var out []model.Subject
	for _, subj := range s.subjects {
		if s.hidden[subj.ID] || placed[subj.ID] {
			continue
		}
		if allowed, ok := s.allowed[subj.ID]; ok {
			if !containsInt(allowed, p.ID) {
				continue
			}
		} else {
			if subj.HalfYear != 0 && p.HalfYear != 0 && subj.HalfYear != p.HalfYear {
				continue
			}
			if subj.AcademicYear != "" && p.AcademicYear != "" && subj.AcademicYear != p.AcademicYear {
				continue
			}
		}
		out = append(out, subj)
	}
	return out
}

// ────── Bulk state swaps (import application) ──────

// ReplaceCatalog installs a freshly imported catalog. Assignments, room
// data and hidden subjects always reset, since the old subject ids are
// gone. When the import carried periods they replace the current ones;
// otherwise the existing period layout survives with an empty grid.
func (s *PlannerStore) ReplaceCatalog(subjects []model.Subject, periods []model.Period, slots model.SlotsPerPeriod, allowed map[string][]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects = subjects
	s.allowed = allowed
	s.hidden = map[string]bool{}

	if len(periods) > 0 {
		s.periods = periods
		s.slots = slots
		s.activePid = periods[0].ID
	}
	s.assigned = model.AssignedPerPeriod{}
	s.rooms = model.RoomsPerPeriod{}
	s.normalizeLocked()
	s.clearUndoLocked()
	s.log.Info("catalog replaced",
		zap.Int("subjects", len(subjects)), zap.Int("periods", len(s.periods)))
}

// ApplyMerged installs the outcome of a merge import wholesale. Hidden
// subjects survive, since merge never regenerates subject ids.
func (s *PlannerStore) ApplyMerged(subjects []model.Subject, periods []model.Period, allowed map[string][]int, slots model.SlotsPerPeriod, assigned model.AssignedPerPeriod, rooms model.RoomsPerPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects = subjects
	s.periods = periods
	s.allowed = allowed
	s.slots = slots
	s.assigned = assigned
	s.rooms = rooms
	s.normalizeLocked()
	s.log.Info("merge applied",
		zap.Int("subjects", len(subjects)), zap.Int("periods", len(periods)))
}

// SetRoomsData installs rewritten room data from a rooms import.
func (s *PlannerStore) SetRoomsData(rooms model.RoomsPerPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = rooms
	s.normalizeLocked()
}

// ApplyCalendar replaces the whole grid with a calendar import, renumbering
// its periods onto the session's monotonic id sequence, and extends the
// subject catalog with the subjects the calendar minted.
func (s *PlannerStore) ApplyCalendar(periods []model.Period, slots model.SlotsPerPeriod, assigned model.AssignedPerPeriod, rooms model.RoomsPerPeriod, subjects []model.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idMap := make(map[int]int, len(periods))
	newPeriods := make([]model.Period, 0, len(periods))
	for _, p := range periods {
		newID := s.nextPeriodID
		s.nextPeriodID++
		idMap[p.ID] = newID
		p.ID = newID
		p.Label = fmt.Sprintf("Period %d", newID)
		newPeriods = append(newPeriods, p)
	}

	newSlots := model.SlotsPerPeriod{}
	newAssigned := model.AssignedPerPeriod{}
	newRooms := model.RoomsPerPeriod{}
	for old, id := range idMap {
		if sl, ok := slots[old]; ok {
			newSlots[id] = sl
		}
		if am, ok := assigned[old]; ok {
			newAssigned[id] = am
		}
		if rm, ok := rooms[old]; ok {
			newRooms[id] = rm
		}
	}

	s.subjects = subjects
	s.periods = newPeriods
	s.slots = newSlots
	s.assigned = newAssigned
	s.rooms = newRooms
	s.hidden = map[string]bool{}
	if len(newPeriods) > 0 {
		s.activePid = newPeriods[0].ID
	}
	s.normalizeLocked()
	s.clearUndoLocked()
	s.log.Info("calendar applied",
		zap.Int("periods", len(newPeriods)), zap.Int("subjects", len(subjects)))
}

// ────── helpers ──────

func (s *PlannerStore) periodLocked(pid int) *model.Period {
	for i := range s.periods {
		if s.periods[i].ID == pid {
			return &s.periods[i]
		}
	}
	return nil
}

func (s *PlannerStore) subjectLocked(id string) *model.Subject {
	for i := range s.subjects {
		if s.subjects[i].ID == id {
			return &s.subjects[i]
		}
	}
	return nil
}

func clonePeriods(in []model.Period) []model.Period {
	out := make([]model.Period, len(in))
	for i, p := range in {
		p.Blackouts = append([]string(nil), p.Blackouts...)
		out[i] = p
	}
	return out
}

// removeString deletes one occurrence of id from the cell's list,
// dropping the key when the list empties. Reports whether id was present.
func removeString(am model.AssignedMap, key, id string) bool {
	ids, ok := am[key]
	if !ok {
		return false
	}
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i], ids[i+1:]...)
			if len(ids) == 0 {
				delete(am, key)
			} else {
				am[key] = ids
			}
			return true
		}
	}
	return false
}

func removeInt(list []int, n int) []int {
	out := list[:0]
	for _, v := range list {
		if v != n {
			out = append(out, v)
		}
	}
	return out
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
