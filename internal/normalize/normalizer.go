// Package normalize converts raw cell values into canonical team names,
// city names, round labels, scores, results and dates. Nothing here
// panics or returns an error: unusable values resolve to nil or "Unknown".
package normalize

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/reference"
)

// Normalizer applies one version of the reference tables. It is safe for
// concurrent use; the tables are never mutated after construction.
type Normalizer struct {
	tables reference.Tables

	teamCanon   map[string]bool
	cityCanon   map[string]bool
	teamsFolded map[string]string
	citiesFold  map[string]string
	roundsFold  map[string]string

	log *zap.Logger
}

// New builds a Normalizer over the given tables.
func New(t reference.Tables) *Normalizer {
	n := &Normalizer{
		tables:      t,
		teamCanon:   values(t.Teams),
		cityCanon:   values(t.Cities),
		teamsFolded: foldedIndex(t.Teams),
		citiesFold:  foldedIndex(t.Cities),
		roundsFold:  foldedIndex(t.Rounds),
		log:         zap.L().With(zap.String("component", "normalize")),
	}
	return n
}

// Tables returns the reference tables the normalizer was built with.
func (n *Normalizer) Tables() reference.Tables {
	return n.tables
}

// Team returns the canonical team name, or model.Unknown when raw is
// missing or purely numeric.
func (n *Normalizer) Team(raw string) string {
	if IsMissing(raw) {
		return model.Unknown
	}
	team := strings.TrimSpace(raw)
	if digitsRe.MatchString(team) {
		return model.Unknown
	}

	team = parenQualifierRe.ReplaceAllString(team, "")
	team = stripQuotes(team)
	if team == "" {
		return model.Unknown
	}

	// Mis-encoded variants that no alias key can anticipate.
	if strings.Contains(team, "C_") && strings.Contains(team, "Ivoire") {
		return reference.CoteDIvoire
	}
	if strings.Contains(team, "Trinidad") && strings.Contains(team, "Tobago") {
		return "Trinidad and Tobago"
	}

	if v, ok := n.tables.Teams[team]; ok {
		return v
	}
	title := TitleCase(team)
	if v, ok := n.tables.Teams[title]; ok {
		return v
	}
	if n.teamCanon[team] {
		return team
	}
	if v, ok := n.teamsFolded[Fold(team)]; ok {
		return v
	}

	if strings.Contains(team, "CTe") || strings.Contains(team, "Côte") || strings.Contains(team, "Cote") {
		return reference.CoteDIvoire
	}

	return title
}

// City returns the canonical city name, or nil when raw is missing.
func (n *Normalizer) City(raw string) *string {
	if IsMissing(raw) {
		return nil
	}
	city := stripQuotes(raw)
	city = strings.TrimSpace(parenGroupRe.ReplaceAllString(city, ""))
	if city == "" {
		return nil
	}

	if v, ok := n.tables.Cities[city]; ok {
		return &v
	}
	if n.cityCanon[city] {
		return &city
	}
	if v, ok := n.citiesFold[Fold(city)]; ok {
		return &v
	}
	out := TitleCase(city)
	return &out
}

// CityOrUnknown is City with nil mapped to model.Unknown.
func (n *Normalizer) CityOrUnknown(raw string) string {
	if c := n.City(raw); c != nil {
		return *c
	}
	return model.Unknown
}

// Round returns the canonical tournament phase, or nil when raw is missing.
// Labels outside the alias table fall back to a group/poule substring check,
// then to title case.
func (n *Normalizer) Round(raw string) *string {
	if IsMissing(raw) {
		return nil
	}
	round := stripQuotes(raw)
	if round == "" {
		return nil
	}

	if v, ok := n.tables.Rounds[round]; ok {
		return &v
	}
	if model.RoundOrder(&round) != model.RoundUnranked {
		return &round
	}
	if v, ok := n.roundsFold[Fold(round)]; ok {
		return &v
	}

	lower := strings.ToLower(round)
	if strings.Contains(lower, "group") || strings.Contains(lower, "poule") {
		return model.StringPtr(model.RoundGroupStage)
	}

	out := TitleCase(round)
	return &out
}

func values(m map[string]string) map[string]bool {
	out := make(map[string]bool, len(m))
	for _, v := range m {
		out[v] = true
	}
	return out
}

// foldedIndex keys every alias (and every target) by its folded form.
// On collisions the lexically smallest raw key wins.
func foldedIndex(m map[string]string) map[string]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(m)*2)
	for _, k := range keys {
		f := Fold(k)
		if _, ok := out[f]; !ok {
			out[f] = m[k]
		}
	}
	for _, k := range keys {
		f := Fold(m[k])
		if _, ok := out[f]; !ok {
			out[f] = m[k]
		}
	}
	return out
}
