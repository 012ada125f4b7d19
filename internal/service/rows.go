package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one imported spreadsheet line: a mapping from raw column name to
// raw cell value. Column names are matched case-sensitively against the
// candidate tables below, in priority order.
type Row map[string]any

// First returns the value of the first candidate column present in the
// row. Presence wins even when the cell is empty, matching how loosely
// exported spreadsheets behave: an empty cell under the right header must
// not fall through to a lower-priority header.
func (r Row) First(candidates ...string) (any, bool) {
	for _, k := range candidates {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Str resolves like First and renders the value as a trimmed string.
func (r Row) Str(candidates ...string) string {
	v, ok := r.First(candidates...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cellString(v))
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Column-name variants per logical field, in priority order. These are
// configuration tables, not types: real exports arrive with Catalan,
// Spanish and English headers, any casing, and sometimes a UTF-8 BOM glued
// to the first column name.
var (
	colCode      = []string{"codi", "codigo", "CODI", "CODIGO", "code", "\uFEFFcodi", "\uFEFFCODI"}
	colAcronym   = []string{"sigles", "SIGLES", "siglas", "SIGLAS"}
	colAcronymEx = []string{"sigles", "SIGLES", "siglas", "SIGLAS", "nom", "NOM"}
	colLevel     = []string{"nivell", "NIVELL", "nivel", "NIVEL"}
	colYear      = []string{"curs", "CURS", "curso", "CURSO"}
	colHalfYear  = []string{"quadrimestre", "QUADRIMESTRE", "quad", "QUAD"}

	colTrackMET     = []string{"MET", "met"}
	colTrackMATT    = []string{"MATT", "matt"}
	colTrackMEE     = []string{"MEE", "mee"}
	colTrackMCYBERS = []string{"MCYBERS", "mcybers"}

	colPeriodID = []string{
		"period_id", "PERIOD_ID", "\uFEFFperiod_id", "PeriodId",
		"periode", "PERIODE", "PERIODO", "PERIOD", "Period",
	}
	colPeriodKind     = []string{"period_tipus", "PERIOD_TIPUS", "tipo", "TIPO"}
	colPeriodStart    = []string{"period_inici", "PERIOD_INICI", "start"}
	colPeriodEnd      = []string{"period_fi", "PERIOD_FI", "end"}
	colPeriodSlots    = []string{"period_slots", "PERIOD_SLOTS", "slots"}
	colPeriodBlackout = []string{"period_blackouts", "PERIOD_BLACKOUTS", "blackouts", "BLOCKED_DATES"}
	colPeriodYear     = []string{"period_curs", "PERIOD_CURS"}
	colPeriodHalf     = []string{"period_quad", "PERIOD_QUAD"}

	colExamDate = []string{
		"data_examen", "DATA_EXAMEN", "\uFEFFdata_examen",
		"dia d'examen", "dia examen", "dia", "DIA",
		"fecha", "FECHA", "data", "DATA", "day",
	}
	colStartTime = []string{
		"hora_inici", "HORA_INICI", "\uFEFFhora_inici", "hora_inici_examen",
		"hora d'inici de l'examen", "hora inici examen", "inici", "start", "HORA_INI",
	}
	colEndTime = []string{
		"hora_fi", "HORA_FI", "\uFEFFhora_fi", "hora_fi_examen",
		"hora de fi de l'examen", "hora fi examen", "fi", "end",
	}
	colRoom = []string{"aula", "AULA", "\uFEFFaula", "sala", "SALA", "room", "ROOM"}

	colStudents = []string{
		"estudiants", "ESTUDIANTS", "\uFEFFestudiants",
		"número d'estudiants matriculats", "num_estudiants",
		"matriculats", "MATRICULATS", "matriculados", "MATRICULADOS",
		"students", "STUDENTS", "ENROLLED", "enrolled",
	}
)

// ReadCSVRows turns a CSV stream with a header line into the Row contract.
// Short records are tolerated; completely empty lines are dropped.
func ReadCSVRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}

		row := make(Row, len(header))
		empty := true
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			row[name] = rec[i]
			if strings.TrimSpace(rec[i]) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ReadXLSXRows extracts the first sheet of an XLSX workbook into the Row
// contract, using its first row as the header line. Cells beyond a row's
// last populated column stay absent from the Row, so lower-priority header
// variants can still match.
func ReadXLSXRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	var rows []Row
	for _, rec := range raw[1:] {
		row := make(Row, len(header))
		empty := true
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			row[name] = rec[i]
			if strings.TrimSpace(rec[i]) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
