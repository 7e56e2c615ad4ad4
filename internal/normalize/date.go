package normalize

import (
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// dayMonthYear covers "13 Jul 2014" and "13 July 2014".
var dayMonthYear = []string{"2 Jan 2006", "2 January 2006"}

// genericLayouts are tried in order when no day-month-year form applies.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	model.DateLayout,
	"2006/01/02",
	"2 Jan 2006 15:04",
	"2 Jan 2006 - 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
}

// ParseDatetime parses a date from the formats the tabular sources use,
// keeping the calendar day only. Tried in order: "13 Jul 2014 - 16:00"
// (date part before " - "), "13 Jul 2014", then generic ISO-like layouts.
// Unparsable input yields nil with a warning.
func ParseDatetime(raw string) *time.Time {
	if IsMissing(raw) {
		return nil
	}
	s := stripQuotes(raw)

	if i := strings.Index(s, " - "); i >= 0 {
		if t, ok := parseAny(strings.TrimSpace(s[:i]), dayMonthYear); ok {
			return &t
		}
		zap.L().Warn("normalize: unparsable datetime", zap.String("raw", s))
		return nil
	}
	if len(strings.Fields(s)) == 3 {
		if t, ok := parseAny(strings.Join(strings.Fields(s), " "), dayMonthYear); ok {
			return &t
		}
	}
	if t, ok := parseAny(s, genericLayouts); ok {
		return &t
	}

	zap.L().Warn("normalize: unparsable datetime", zap.String("raw", s))
	return nil
}

// ParseCompactDate handles the 2022 form "20Nov22" (two-digit day,
// three-letter month, two-digit year in the 2000s) and defers everything
// else to ParseDatetime.
func ParseCompactDate(raw string) *time.Time {
	if IsMissing(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if len(s) == 7 && isAlpha(s[2:5]) {
		expanded := s[:2] + " " + s[2:5] + " 20" + s[5:]
		if t, ok := parseAny(expanded, dayMonthYear[:1]); ok {
			return &t
		}
	}
	return ParseDatetime(s)
}

// ParseISODate keeps the date part of an ISO-8601 timestamp such as
// "2018-06-14T18:00:00+03:00". The local calendar day of the source is kept.
func ParseISODate(raw string) *time.Time {
	if IsMissing(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		zap.L().Warn("normalize: unparsable iso date", zap.String("raw", raw))
		return nil
	}
	return &t
}

// ParseDayFirstDate parses "12/06/2014" (day first), falling back to
// ParseDatetime for ISO dates.
func ParseDayFirstDate(raw string) *time.Time {
	if IsMissing(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if t, ok := parseAny(s, []string{"2/1/2006"}); ok {
		return &t
	}
	return ParseDatetime(s)
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Day(t.Year(), t.Month(), t.Day()), true
		}
	}
	return time.Time{}, false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
