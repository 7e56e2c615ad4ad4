package source

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/normalize"
)

const edition2018 = "2018"

// knockoutOrder is the chronological order of the 2018 knockout stage keys.
// Unlisted keys follow in lexical order.
var knockoutOrder = []string{"round_16", "round_8", "round_4", "round_2_loser", "round_2"}

// WorldCup2018 transforms the nested 2018 document. Teams and stadiums are
// numeric IDs resolved through the reference tables and the embedded
// stadium list.
type WorldCup2018 struct {
	norm *normalize.Normalizer
}

// NewWorldCup2018 creates the 2018 transformer.
func NewWorldCup2018(n *normalize.Normalizer) *WorldCup2018 {
	return &WorldCup2018{norm: n}
}

// Name implements Source.
func (w *WorldCup2018) Name() string { return Name2018 }

// Transform implements Source.
func (w *WorldCup2018) Transform(in Input) ([]model.Match, error) {
	doc := in.Tournament
	if doc == nil {
		return nil, nil
	}
	log := zap.L().With(zap.String("source", w.Name()))

	stadiums := make(map[int]model.Stadium, len(doc.Stadiums))
	for _, s := range doc.Stadiums {
		stadiums[s.ID] = s
	}

	var out []model.Match
	for _, key := range sortedKeys(doc.Groups, nil) {
		for _, m := range doc.Groups[key].Matches {
			out = append(out, w.match(m, model.StringPtr(model.RoundGroupStage), stadiums, log))
		}
	}
	for _, key := range sortedKeys(doc.Knockout, knockoutOrder) {
		round := w.norm.Round(key)
		for _, m := range doc.Knockout[key].Matches {
			out = append(out, w.match(m, round, stadiums, log))
		}
	}

	log.Info("source: transformed",
		zap.Int("groups", len(doc.Groups)),
		zap.Int("knockout_stages", len(doc.Knockout)),
		zap.Int("rows_out", len(out)),
	)
	return out, nil
}

func (w *WorldCup2018) match(m model.Match2018, round *string, stadiums map[int]model.Stadium, log *zap.Logger) model.Match {
	out := model.Match{
		HomeTeam:   w.team(m.HomeTeam, log),
		AwayTeam:   w.team(m.AwayTeam, log),
		HomeResult: m.HomeResult.Ptr(),
		AwayResult: m.AwayResult.Ptr(),
		Round:      round,
		City:       model.Unknown,
		Edition:    edition2018,
		Source:     w.Name(),
	}
	if out.HomeResult == nil || out.AwayResult == nil {
		out.HomeResult, out.AwayResult = nil, nil
	}
	out.Result = normalize.ComputeResult(out.HomeResult, out.AwayResult, out.HomeTeam, out.AwayTeam)

	out.Date = normalize.ParseISODate(m.Date)
	if out.Date == nil {
		out.Date = model.TimePtr(model.Day(2018, time.July, 1))
	}

	if m.Stadium.Valid {
		out.StadiumID = model.IntPtr(m.Stadium.Value)
		if s, ok := stadiums[m.Stadium.Value]; ok {
			out.City = w.norm.CityOrUnknown(s.City)
			out.StadiumName = s.Name
		}
		if out.StadiumName == "" {
			out.StadiumName = w.norm.Tables().Stadiums2018[m.Stadium.Value]
		}
	}
	return out
}

func (w *WorldCup2018) team(id model.FlexInt, log *zap.Logger) string {
	if !id.Valid {
		return model.Unknown
	}
	name, ok := w.norm.Tables().Teams2018[id.Value]
	if !ok {
		log.Warn("source: unknown 2018 team id", zap.Int("id", id.Value))
		return model.Unknown
	}
	return w.norm.Team(name)
}

// sortedKeys orders map keys by their position in preferred, then lexically.
func sortedKeys(m map[string]model.Stage2018, preferred []string) []string {
	rank := make(map[string]int, len(preferred))
	for i, k := range preferred {
		rank[k] = i
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
