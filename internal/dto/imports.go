package dto

// SubjectsImportResponse summarizes a catalog import in either mode.
// Replace fills Subjects/Periods; merge fills the Added/Updated counters.
type SubjectsImportResponse struct {
	Mode            string `json:"mode"`
	Subjects        int    `json:"subjects"`
	Periods         int    `json:"periods"`
	AddedSubjects   int    `json:"addedSubjects,omitempty"`
	UpdatedSubjects int    `json:"updatedSubjects,omitempty"`
	AddedPeriods    int    `json:"addedPeriods,omitempty"`
}

// RoomsSkipBreakdown itemizes why room rows were ignored.
type RoomsSkipBreakdown struct {
	NoIdentity int `json:"noIdentity"`
	NoPeriod   int `json:"noPeriod"`
	NoDate     int `json:"noDate"`
	NoTime     int `json:"noTime"`
	NoSlot     int `json:"noSlot"`
	NotPlaced  int `json:"notPlaced"`
	NoRoom     int `json:"noRoom"`
}

// RoomsImportResponse summarizes a room/enrollment import.
type RoomsImportResponse struct {
	Attached int                `json:"attached"`
	Skipped  int                `json:"skipped"`
	Skips    RoomsSkipBreakdown `json:"skips"`
}

// CalendarImportResponse summarizes an Excel calendar import.
type CalendarImportResponse struct {
	Periods       int `json:"periods"`
	AddedSubjects int `json:"addedSubjects"`
}
