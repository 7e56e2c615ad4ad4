package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Tournament2018 is the nested 2018 source document.
type Tournament2018 struct {
	Groups     map[string]Stage2018 `json:"groups"`
	Knockout   map[string]Stage2018 `json:"knockout"`
	Stadiums   []Stadium            `json:"stadiums"`
	Teams      []Team               `json:"teams"`
	TVChannels []TVChannel          `json:"tvchannels"`
}

// Stage2018 is a group or knockout stage holding its matches.
type Stage2018 struct {
	Name    string      `json:"name"`
	Matches []Match2018 `json:"matches"`
}

// Match2018 is one match entry of the 2018 document. Team and stadium
// references are numeric IDs; unresolved knockout slots carry placeholders
// like "winner_a", which decode to an invalid FlexInt.
type Match2018 struct {
	Name       FlexInt `json:"name"`
	HomeTeam   FlexInt `json:"home_team"`
	AwayTeam   FlexInt `json:"away_team"`
	HomeResult FlexInt `json:"home_result"`
	AwayResult FlexInt `json:"away_result"`
	Date       string  `json:"date"`
	Stadium    FlexInt `json:"stadium"`
}

// Stadium is a 2018 venue.
type Stadium struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	City  string  `json:"city"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Image string  `json:"image"`
}

// Team is a 2018 participant.
type Team struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FIFACode string `json:"fifaCode"`
	ISO2     string `json:"iso2"`
	Flag     string `json:"flag"`
}

// TVChannel is a 2018 broadcaster.
type TVChannel struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	ISO2    string   `json:"iso2"`
	Lang    []string `json:"lang"`
}

// FlexInt decodes a JSON number, a numeric string, or null.
// Valid is false for null, missing, or non-numeric values.
type FlexInt struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexInt{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(s); err == nil {
			*f = FlexInt{Value: n, Valid: true}
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if v, err := n.Int64(); err == nil {
		*f = FlexInt{Value: int(v), Valid: true}
		return nil
	}
	if v, err := n.Float64(); err == nil {
		*f = FlexInt{Value: int(v), Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Ptr returns the value as *int, nil when invalid.
func (f FlexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	return IntPtr(f.Value)
}
