package model

import "strings"

// Table is a raw tabular row set as delivered by ingestion.
// Column names are kept verbatim (already whitespace-trimmed).
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Index returns the position of the column whose trimmed, lowercased name
// equals name (also trimmed and lowercased), or -1.
func (t *Table) Index(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, c := range t.Columns {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return i
		}
	}
	return -1
}

// Cell returns the value at row/col, or "" when out of range.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// HistoricalDate is one row of the exact-date reference for 1930-2010.
type HistoricalDate struct {
	HomeTeam string
	AwayTeam string
	Date     string // raw date_exacte value
}

// CityCorrection is one row of the 2022 city reference.
type CityCorrection struct {
	HomeTeam string
	AwayTeam string
	City     string
}
