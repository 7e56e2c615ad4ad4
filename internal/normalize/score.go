package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// scoreRe takes the first two integers at the start of the string separated
// by any non-digit run. Trailing content such as "(a.e.t.)" is ignored.
var scoreRe = regexp.MustCompile(`^(\d+)[^\d]+(\d+)`)

// ParseScore extracts (home, away) goals from strings like "2-1", "3:2" or
// "1 - 0 (a.e.t.)". Missing input yields (nil, nil) silently; unparsable
// input yields (nil, nil) with a warning.
func ParseScore(raw string) (home, away *int) {
	if IsMissing(raw) {
		return nil, nil
	}
	s := strings.TrimSpace(raw)

	m := scoreRe.FindStringSubmatch(s)
	if m == nil {
		zap.L().Warn("normalize: unparsable score", zap.String("raw", s))
		return nil, nil
	}

	h, errH := strconv.Atoi(m[1])
	a, errA := strconv.Atoi(m[2])
	if errH != nil || errA != nil {
		zap.L().Warn("normalize: score out of range", zap.String("raw", s))
		return nil, nil
	}
	return &h, &a
}

// ParseScorePair handles already-structured input: two separate goal cells.
// Both must parse or the pair is (nil, nil).
func ParseScorePair(home, away string) (*int, *int) {
	h := ParseGoals(home)
	a := ParseGoals(away)
	if h == nil || a == nil {
		return nil, nil
	}
	return h, a
}

// ParseGoals parses a single non-negative goal count. Integral floats such
// as "3.0" are accepted; anything else yields nil.
func ParseGoals(raw string) *int {
	if IsMissing(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return nil
		}
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		zap.L().Warn("normalize: unparsable goal count", zap.String("raw", s))
		return nil
	}
	n := int(f)
	return &n
}

// ComputeResult names the winner, or model.Draw on equal scores. Either score
// missing yields nil.
func ComputeResult(homeGoals, awayGoals *int, homeTeam, awayTeam string) *string {
	if homeGoals == nil || awayGoals == nil {
		return nil
	}
	switch {
	case *homeGoals > *awayGoals:
		return &homeTeam
	case *awayGoals > *homeGoals:
		return &awayTeam
	default:
		return model.StringPtr(model.Draw)
	}
}
