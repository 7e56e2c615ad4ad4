package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldcup-etl/internal/model"
)

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw        string
		home, away int
	}{
		{"2-1", 2, 1},
		{"3:2", 3, 2},
		{"1 - 0", 1, 0},
		{"4-2 (a.e.t.)", 4, 2},
		{"1–1", 1, 1},
		{" 10 : 0 ", 10, 0},
		{"2-1 (3-1 pen.)", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			h, a := ParseScore(tt.raw)
			require.NotNil(t, h)
			require.NotNil(t, a)
			assert.Equal(t, tt.home, *h)
			assert.Equal(t, tt.away, *a)
		})
	}
}

func TestParseScore_Unparsable(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "nan", "abc", "-", "2", "x2-1"} {
		h, a := ParseScore(raw)
		assert.Nil(t, h, raw)
		assert.Nil(t, a, raw)
	}
}

func TestParseScore_RoundTrip(t *testing.T) {
	t.Parallel()

	for h := 0; h <= 15; h++ {
		for a := 0; a <= 15; a++ {
			for _, sep := range []string{"-", ":"} {
				gh, ga := ParseScore(fmt.Sprintf("%d%s%d", h, sep, a))
				require.NotNil(t, gh)
				require.NotNil(t, ga)
				assert.Equal(t, h, *gh)
				assert.Equal(t, a, *ga)
			}
		}
	}
}

func TestParseGoals(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, *ParseGoals("3"))
	assert.Equal(t, 3, *ParseGoals("3.0"))
	assert.Equal(t, 0, *ParseGoals(" 0 "))
	assert.Nil(t, ParseGoals("-1"))
	assert.Nil(t, ParseGoals("2.5"))
	assert.Nil(t, ParseGoals("x"))
	assert.Nil(t, ParseGoals(""))
}

func TestParseScorePair(t *testing.T) {
	t.Parallel()

	h, a := ParseScorePair("1", "0")
	require.NotNil(t, h)
	assert.Equal(t, 1, *h)
	assert.Equal(t, 0, *a)

	h, a = ParseScorePair("1", "")
	assert.Nil(t, h)
	assert.Nil(t, a)
}

func TestComputeResult(t *testing.T) {
	t.Parallel()

	for h := 0; h <= 6; h++ {
		for a := 0; a <= 6; a++ {
			got := ComputeResult(model.IntPtr(h), model.IntPtr(a), "X", "Y")
			require.NotNil(t, got)
			switch {
			case h > a:
				assert.Equal(t, "X", *got)
			case h < a:
				assert.Equal(t, "Y", *got)
			default:
				assert.Equal(t, model.Draw, *got)
			}
		}
	}

	assert.Nil(t, ComputeResult(nil, model.IntPtr(1), "X", "Y"))
	assert.Nil(t, ComputeResult(model.IntPtr(1), nil, "X", "Y"))
}

func TestComputeResult_FromParsedScore(t *testing.T) {
	t.Parallel()

	h, a := ParseScore("3-1")
	assert.Equal(t, "Brazil", *ComputeResult(h, a, "Brazil", "Chile"))
}
