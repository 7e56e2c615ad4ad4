package consolidate

import (
	"sort"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// Summary is the result analysis of a consolidated table.
type Summary struct {
	Matches  int                `json:"matches"`
	Draws    int                `json:"draws"`
	NoResult int                `json:"no_result"`
	Teams    int                `json:"teams"`
	Editions []string           `json:"editions"`
	BySource map[string]int     `json:"by_source"`
	First    *model.MatchRecord `json:"first,omitempty"`
	Last     *model.MatchRecord `json:"last,omitempty"`
}

// Summarize computes draw counts, distinct teams and editions, and the
// first and last match by id.
func Summarize(records []model.MatchRecord) Summary {
	s := Summary{Matches: len(records), BySource: make(map[string]int)}
	teams := make(map[string]bool)
	editions := make(map[string]bool)

	for i := range records {
		r := &records[i]
		switch {
		case r.Result == nil:
			s.NoResult++
		case *r.Result == model.Draw:
			s.Draws++
		}
		teams[r.HomeTeam] = true
		teams[r.AwayTeam] = true
		editions[r.Edition] = true
		s.BySource[r.Source]++
	}
	delete(teams, model.Unknown)

	s.Teams = len(teams)
	for e := range editions {
		s.Editions = append(s.Editions, e)
	}
	sort.Strings(s.Editions)

	if len(records) > 0 {
		s.First = &records[0]
		s.Last = &records[len(records)-1]
	}
	return s
}
