package reference

import "github.com/sells-group/worldcup-etl/internal/model"

// roundAliases maps raw phase labels to the round taxonomy.
var roundAliases = map[string]string{
	"GROUP_STAGE": model.RoundGroupStage,
	"Group A":     model.RoundGroupStage,
	"Group B":     model.RoundGroupStage,
	"Group C":     model.RoundGroupStage,
	"Group D":     model.RoundGroupStage,
	"Group E":     model.RoundGroupStage,
	"Group F":     model.RoundGroupStage,
	"Group G":     model.RoundGroupStage,
	"Group H":     model.RoundGroupStage,
	"Group 1":     model.RoundGroupStage,
	"Group 2":     model.RoundGroupStage,
	"Group 3":     model.RoundGroupStage,
	"Group 4":     model.RoundGroupStage,
	"Poules":      model.RoundGroupStage,
	"First round": model.RoundGroupStage,

	"8e de finale":  model.RoundOf16,
	"Round of 16":   model.RoundOf16,
	"ROUND_OF_16":   model.RoundOf16,
	"Eighth-finals": model.RoundOf16,
	"round_16":      model.RoundOf16,

	"1/4 finale":     model.RoundQuarterFinals,
	"Quarter-finals": model.RoundQuarterFinals,
	"QUARTER_FINALS": model.RoundQuarterFinals,
	"Quarterfinals":  model.RoundQuarterFinals,
	"Quarter-final":  model.RoundQuarterFinals,
	"round_8":        model.RoundQuarterFinals,

	"1/2 finale":  model.RoundSemiFinals,
	"Semi-finals": model.RoundSemiFinals,
	"SEMI_FINALS": model.RoundSemiFinals,
	"Semifinals":  model.RoundSemiFinals,
	"Semi-final":  model.RoundSemiFinals,
	"round_4":     model.RoundSemiFinals,

	"3rd place":                model.RoundThirdPlace,
	"Match pour la 3e place":   model.RoundThirdPlace,
	"Third place":              model.RoundThirdPlace,
	"Play-off for third place": model.RoundThirdPlace,
	"Third place play-off":     model.RoundThirdPlace,
	"round_2_loser":            model.RoundThirdPlace,

	"Final":   model.RoundFinal,
	"Finale":  model.RoundFinal,
	"FINAL":   model.RoundFinal,
	"round_2": model.RoundFinal,
}
