package model

import "time"

// Unknown is the sentinel for an unresolvable team or city name.
const Unknown = "Unknown"

// Draw is the result value of a match with equal scores.
const Draw = "draw"

// Match is the canonical record every source transformer produces.
// Optional fields are pointers; nil means the source supplied no usable value.
type Match struct {
	HomeTeam   string     `json:"home_team" validate:"required"`
	AwayTeam   string     `json:"away_team" validate:"required"`
	HomeResult *int       `json:"home_result,omitempty" validate:"omitempty,gte=0"`
	AwayResult *int       `json:"away_result,omitempty" validate:"omitempty,gte=0"`
	Result     *string    `json:"result,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Round      *string    `json:"round,omitempty"`
	City       string     `json:"city"`
	Edition    string     `json:"edition" validate:"required,numeric"`

	// Provenance and 2018-only extras; not part of the dedup key.
	Source      string `json:"source,omitempty"`
	StadiumID   *int   `json:"stadium_id,omitempty"`
	StadiumName string `json:"stadium_name,omitempty"`
}

// MatchRecord is a consolidated match with its sequential identifier.
type MatchRecord struct {
	IDMatch int `json:"id_match" validate:"min=1"`
	Match
}

// RoundLabel returns the round or "" when absent.
func (m *Match) RoundLabel() string {
	if m.Round == nil {
		return ""
	}
	return *m.Round
}

// ResultLabel returns the result or "" when absent.
func (m *Match) ResultLabel() string {
	if m.Result == nil {
		return ""
	}
	return *m.Result
}

// DateString formats the date as YYYY-MM-DD, or "" when absent.
func (m *Match) DateString() string {
	if m.Date == nil {
		return ""
	}
	return m.Date.Format(DateLayout)
}

// Clone returns a copy that shares no pointers with m.
func (m Match) Clone() Match {
	out := m
	if m.HomeResult != nil {
		out.HomeResult = IntPtr(*m.HomeResult)
	}
	if m.AwayResult != nil {
		out.AwayResult = IntPtr(*m.AwayResult)
	}
	if m.Result != nil {
		out.Result = StringPtr(*m.Result)
	}
	if m.Date != nil {
		d := *m.Date
		out.Date = &d
	}
	if m.Round != nil {
		out.Round = StringPtr(*m.Round)
	}
	if m.StadiumID != nil {
		out.StadiumID = IntPtr(*m.StadiumID)
	}
	return out
}

// DateLayout is the storage format for match dates.
const DateLayout = "2006-01-02"

// Day truncates t to a UTC calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// TimePtr returns a pointer to v.
func TimePtr(v time.Time) *time.Time { return &v }
