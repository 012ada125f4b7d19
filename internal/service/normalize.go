package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

// Canonicalizers for raw imported cell values. Everything here is
// tolerant by design: a value that does not normalize reports "absent"
// and the caller decides whether the row survives.

var (
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDateRe  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	yearPairRe = regexp.MustCompile(`^(\d{4})\s*[-/]`)
	bareYearRe = regexp.MustCompile(`^\d{4}$`)
	nonDigitRe = regexp.MustCompile(`\D`)
	slotPairRe = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})$`)
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
)

// ParseDate converts a raw cell to "yyyy-MM-dd". Accepted forms are ISO
// dates, DD/MM/YYYY and DD-MM-YYYY with one- or two-digit day and month.
func ParseDate(raw any) (string, bool) {
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return "", false
	}
	if isoDateRe.MatchString(s) {
		return s, true
	}
	if m := dmyDateRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1])), true
	}
	return "", false
}

// ParseExamDate is ParseDate extended with Excel serial day counts
// (days since 1899-12-30), accepted only in the plausible 40000–70000
// range so stray numeric columns cannot masquerade as dates.
func ParseExamDate(raw any) (string, bool) {
	if d, ok := ParseDate(raw); ok {
		return d, true
	}
	s := strings.TrimSpace(cellString(raw))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 40000 || n >= 70000 {
		return "", false
	}
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, int(n)).Format("2006-01-02"), true
}

// NormalizeHalfYear maps values like "1", "Q2" or "Quadrimestre 1" to 1 or
// 2 by stripping non-digits; anything else reports 0 (absent).
func NormalizeHalfYear(raw any) int {
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return 0
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "1" || digits == "2" {
		n, _ := strconv.Atoi(digits)
		return n
	}
	return 0
}

// NormalizeAcademicYear extracts the starting calendar year from "2025-26",
// "2025/26" or a bare "2025". Returns "" when unrecognized.
func NormalizeAcademicYear(raw any) string {
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return ""
	}
	if m := yearPairRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if bareYearRe.MatchString(s) {
		return s
	}
	return ""
}

// SubjectKey builds the merge-identity key for a subject. Missing operands
// participate as empty strings, so two rows with only matching acronyms
// still collapse onto one subject.
func SubjectKey(code, acronym string) string {
	return strings.ToLower(strings.TrimSpace(code)) + "||" + strings.ToLower(strings.TrimSpace(acronym))
}

// ParseSlotSpec parses a delimited list of "H:MM-H:MM" pairs (separators
// ";", "," or "|") into time slots, zero-padding hours. Unparseable pairs
// are dropped; an empty result reports nil.
func ParseSlotSpec(raw any) []model.TimeSlot {
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return nil
	}
	var slots []model.TimeSlot
	for _, tok := range splitList(s) {
		m := slotPairRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		slots = append(slots, model.TimeSlot{Start: padClock(m[1]), End: padClock(m[2])})
	}
	return slots
}

// ParseBlackouts parses a delimited list of date tokens, dropping invalid
// ones, deduplicating and sorting ascending.
func ParseBlackouts(raw any) []string {
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, tok := range splitList(s) {
		d, ok := ParseDate(tok)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// NormalizeClock converts "14:45", "14:45:00", "14.45", "14-45" or "8:05"
// to "HH:MM". The first "." or "-" is treated as the hour separator.
func NormalizeClock(raw any) (string, bool) {
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return "", false
	}
	s = strings.Replace(s, ".", ":", 1)
	s = strings.Replace(s, "-", ":", 1)
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return pad2(m[1]) + ":" + m[2], true
}

func padClock(hm string) string {
	parts := strings.SplitN(hm, ":", 2)
	if len(parts) != 2 {
		return hm
	}
	return pad2(parts[0]) + ":" + pad2(parts[1])
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func splitList(s string) []string {
	toks := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	})
	out := toks[:0]
	for _, t := range toks {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizePeriodKind maps loose type labels to the period kind enum.
// Anything unrecognized falls back to PARTIAL, the most common window.
func normalizePeriodKind(raw any) model.PeriodKind {
	switch strings.ToUpper(strings.TrimSpace(cellString(raw))) {
	case "FINAL", "FINALS":
		return model.PeriodFinal
	case "RESIT", "REAVALUACIO", "REAVALUACIÓ", "REAVALUACION":
		return model.PeriodResit
	default:
		return model.PeriodPartial
	}
}

// parsePeriodID extracts a positive numeric period id, reporting 0 when
// the cell is missing or not a number.
func parsePeriodID(raw any, ok bool) int {
	if !ok {
		return 0
	}
	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 1 {
		return 0
	}
	return int(n)
}
