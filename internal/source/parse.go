package source

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// normalizeCol lowercases and collapses whitespace for header matching.
// "Home Team Name" → "home team name", " number of  goals team1" → "number of goals team1"
func normalizeCol(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// findColumn returns the index of the first column whose normalized name
// contains any of the substrings, trying substrings in priority order, or -1.
func findColumn(tbl *model.Table, substrings ...string) int {
	for _, sub := range substrings {
		sub = normalizeCol(sub)
		for i, c := range tbl.Columns {
			if strings.Contains(normalizeCol(c), sub) {
				return i
			}
		}
	}
	return -1
}

// exactColumn returns the index of the column whose normalized name equals
// name, or -1.
func exactColumn(tbl *model.Table, name string) int {
	want := normalizeCol(name)
	for i, c := range tbl.Columns {
		if normalizeCol(c) == want {
			return i
		}
	}
	return -1
}

// cell returns the trimmed value at col, or "" when col is -1 or out of range.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseYear parses an edition year such as "1930" or "1930.0".
func parseYear(s string) (int, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, v > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// placeholderDate is July 1st of the edition year, pending enrichment.
func placeholderDate(year int) *time.Time {
	return model.TimePtr(model.Day(year, time.July, 1))
}

// hasYear reports whether a date string carries a four-digit year token.
func hasYear(s string) bool {
	for _, f := range strings.Fields(s) {
		if len(f) == 4 {
			if _, err := strconv.Atoi(f); err == nil {
				return true
			}
		}
	}
	return false
}
