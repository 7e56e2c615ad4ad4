package model

// Tournament phase labels. Any other label is a heuristic fallback.
const (
	RoundGroupStage    = "Group Stage"
	RoundOf16          = "Round of 16"
	RoundQuarterFinals = "Quarter-finals"
	RoundSemiFinals    = "Semi-finals"
	RoundThirdPlace    = "Third Place"
	RoundFinal         = "Final"
)

// RoundUnranked sorts after every known phase.
const RoundUnranked = 99

var roundOrder = map[string]int{
	RoundGroupStage:    1,
	RoundOf16:          2,
	RoundQuarterFinals: 3,
	RoundSemiFinals:    4,
	RoundThirdPlace:    5,
	RoundFinal:         6,
}

// RoundOrder returns the chronological precedence of a round label.
// Unknown or missing labels return RoundUnranked.
func RoundOrder(round *string) int {
	if round == nil {
		return RoundUnranked
	}
	if n, ok := roundOrder[*round]; ok {
		return n
	}
	return RoundUnranked
}

// KnownRounds lists the taxonomy in chronological order.
func KnownRounds() []string {
	return []string{RoundGroupStage, RoundOf16, RoundQuarterFinals, RoundSemiFinals, RoundThirdPlace, RoundFinal}
}
