package enrich

import (
	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// noReverse lists team pairs (in sorted order) whose two meetings took place
// in different cities, so a reference row for one leg must not be applied
// to the other.
var noReverse = map[[2]string]bool{
	{"Croatia", "Morocco"}: true,
}

// Cities2022 fills unknown or empty cities from refs, looked up by
// (home, away) then by (away, home). Known cities are never overwritten.
// The input slice is not modified.
func (e *Enricher) Cities2022(matches []model.Match, refs []model.CityCorrection) ([]model.Match, int) {
	out := make([]model.Match, len(matches))
	copy(out, matches)
	if len(refs) == 0 {
		return out, 0
	}

	lookup := make(map[[2]string]string, len(refs))
	for _, r := range refs {
		city := e.norm.City(r.City)
		if city == nil || *city == model.Unknown {
			continue
		}
		lookup[[2]string{e.norm.Team(r.HomeTeam), e.norm.Team(r.AwayTeam)}] = *city
	}

	var updated int
	for i := range out {
		m := &out[i]
		if m.City != "" && m.City != model.Unknown {
			continue
		}
		home, away := e.norm.Team(m.HomeTeam), e.norm.Team(m.AwayTeam)
		if city, ok := lookup[[2]string{home, away}]; ok {
			m.City = city
			updated++
			continue
		}
		if reversible(home, away) {
			if city, ok := lookup[[2]string{away, home}]; ok {
				m.City = city
				updated++
			}
		}
	}

	e.log.Info("enrich: 2022 cities applied",
		zap.Int("references", len(lookup)),
		zap.Int("updated", updated),
	)
	return out, updated
}

func reversible(home, away string) bool {
	if away < home {
		home, away = away, home
	}
	return !noReverse[[2]string{home, away}]
}
