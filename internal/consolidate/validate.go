package consolidate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// Issue kinds reported by Validate.
const (
	IssueField     = "field"
	IssueResult    = "result"
	IssueID        = "id"
	IssueDuplicate = "duplicate"
)

// Options controls validation strictness.
type Options struct {
	// Strict makes Validate report failure when any issue is found.
	// The default is advisory: issues are logged and Validate succeeds.
	Strict bool
}

// Issue is one data-quality finding.
type Issue struct {
	IDMatch int    `json:"id_match"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Report lists every finding of a validation pass.
type Report struct {
	Rows   int     `json:"rows"`
	Issues []Issue `json:"issues"`
}

// Count returns the number of issues of the given kind.
func (r Report) Count(kind string) int {
	var n int
	for _, is := range r.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

var validate = validator.New()

// Validate checks the consolidated table: struct constraints, winner versus
// score consistency, ID contiguity and residual duplicates. It returns true
// unless opts.Strict is set and issues were found.
func Validate(records []model.MatchRecord, opts Options) (Report, bool) {
	log := zap.L().With(zap.String("component", "validate"))
	rep := Report{Rows: len(records)}
	add := func(id int, kind, format string, args ...any) {
		rep.Issues = append(rep.Issues, Issue{IDMatch: id, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	seenID := make(map[int]bool, len(records))
	seenKey := make(map[dedupKey]int, len(records))
	for i := range records {
		r := &records[i]

		if err := validate.Struct(r); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					add(r.IDMatch, IssueField, "%s failed %q", fe.Namespace(), fe.Tag())
				}
			} else {
				add(r.IDMatch, IssueField, "%v", err)
			}
		}

		checkResult(r, add)

		if seenID[r.IDMatch] {
			add(r.IDMatch, IssueID, "duplicate id_match %d", r.IDMatch)
		}
		seenID[r.IDMatch] = true

		k := keyOf(&r.Match)
		if first, ok := seenKey[k]; ok {
			add(r.IDMatch, IssueDuplicate, "duplicates id_match %d", first)
		} else {
			seenKey[k] = r.IDMatch
		}
	}
	for id := 1; id <= len(records); id++ {
		if !seenID[id] {
			add(0, IssueID, "id_match %d missing from 1..%d", id, len(records))
		}
	}

	for _, is := range rep.Issues {
		log.Warn("validate: issue",
			zap.Int("id_match", is.IDMatch),
			zap.String("kind", is.Kind),
			zap.String("message", is.Message),
		)
	}
	ok := !opts.Strict || len(rep.Issues) == 0
	log.Info("validate: complete",
		zap.Int("rows", rep.Rows),
		zap.Int("issues", len(rep.Issues)),
		zap.Bool("strict", opts.Strict),
		zap.Bool("ok", ok),
	)
	return rep, ok
}

func checkResult(r *model.MatchRecord, add func(int, string, string, ...any)) {
	if r.Result == nil {
		if r.HomeResult != nil && r.AwayResult != nil {
			add(r.IDMatch, IssueResult, "scores %d-%d without result", *r.HomeResult, *r.AwayResult)
		}
		return
	}
	if r.HomeResult == nil || r.AwayResult == nil {
		add(r.IDMatch, IssueResult, "result %q without both scores", *r.Result)
		return
	}
	h, a := *r.HomeResult, *r.AwayResult
	switch *r.Result {
	case model.Draw:
		if h != a {
			add(r.IDMatch, IssueResult, "draw declared but score %d-%d", h, a)
		}
	case r.HomeTeam:
		if h <= a {
			add(r.IDMatch, IssueResult, "%s declared winner but score %d-%d", r.HomeTeam, h, a)
		}
	case r.AwayTeam:
		if a <= h {
			add(r.IDMatch, IssueResult, "%s declared winner but score %d-%d", r.AwayTeam, h, a)
		}
	default:
		add(r.IDMatch, IssueResult, "result %q names neither team", *r.Result)
	}
}
