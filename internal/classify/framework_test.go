package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaxScoreSumsActiveLevelWeights(t *testing.T) {
	registry := []Classifier[int]{
		At("a", 10, Initial, func(a, b int) float64 { return 1 }),
		At("b", 5, Secondary, func(a, b int) float64 { return 1 }),
	}
	require.Equal(t, 10.0, MaxScore(registry, Initial))
	require.Equal(t, 15.0, MaxScore(registry, Secondary))
	require.Equal(t, 15.0, MaxScore(registry, Tertiary), "At registers from its level through Extra")
}

func TestMaxMismatchMatchesDefaultThresholds(t *testing.T) {
	mm := MaxMismatch(100, DefaultAbsoluteThreshold, DefaultRelativeThreshold)
	require.InDelta(t, 100*(1-0.49373), mm, 0.01)
}

func TestRankAbandonsEarlyOnMismatch(t *testing.T) {
	registry := []Classifier[int]{
		At("exact", 10, Initial, func(a, b int) float64 {
			if a == b {
				return 1.0
			}
			return 0.0
		}),
	}
	always := func(a, b int) bool { return true }
	ranked := Rank(5, []int{5, 6, 7}, registry, Initial, always, 5.0)
	require.Len(t, ranked, 1)
	require.Equal(t, 5, ranked[0].Subject)
}

func TestRankSortsDescending(t *testing.T) {
	registry := []Classifier[int]{
		At("closeness", 10, Initial, func(a, b int) float64 {
			diff := a - b
			if diff < 0 {
				diff = -diff
			}
			if diff > 10 {
				return 0
			}
			return 1 - float64(diff)/10
		}),
	}
	always := func(a, b int) bool { return true }
	ranked := Rank(0, []int{9, 1, 5}, registry, Initial, always, 100)
	require.Len(t, ranked, 3)
	require.Equal(t, 1, ranked[0].Subject, "closest candidate must rank first")
}

func TestFoundMatchAcceptsClearWinner(t *testing.T) {
	ranked := []RankResult[string]{
		{Subject: "best", Score: 95},
		{Subject: "second", Score: 10},
	}
	got, ok := FoundMatch(ranked, 100, DefaultAbsoluteThreshold, DefaultRelativeThreshold)
	require.True(t, ok)
	require.Equal(t, "best", got)
}

func TestFoundMatchRejectsBelowAbsolute(t *testing.T) {
	ranked := []RankResult[string]{{Subject: "best", Score: 10}}
	_, ok := FoundMatch(ranked, 100, DefaultAbsoluteThreshold, DefaultRelativeThreshold)
	require.False(t, ok)
}

func TestFoundMatchRejectsCloseSecond(t *testing.T) {
	ranked := []RankResult[string]{
		{Subject: "best", Score: 90},
		{Subject: "second", Score: 89},
	}
	_, ok := FoundMatch(ranked, 100, DefaultAbsoluteThreshold, DefaultRelativeThreshold)
	require.False(t, ok, "an ambiguous near-tie must not be accepted")
}

func TestFoundMatchSingleCandidateAccepted(t *testing.T) {
	ranked := []RankResult[string]{{Subject: "only", Score: 60}}
	got, ok := FoundMatch(ranked, 100, DefaultAbsoluteThreshold, DefaultRelativeThreshold)
	require.True(t, ok)
	require.Equal(t, "only", got)
}

func TestBitSimilarity(t *testing.T) {
	require.Equal(t, 1.0, BitSimilarity(0b1010, 0b1010, 0b1111))
	require.Equal(t, 0.0, BitSimilarity(0b1111, 0b0000, 0b1111))
	require.InDelta(t, 0.5, BitSimilarity(0b1100, 0b0000, 0b1111), 1e-9)
	require.Equal(t, 1.0, BitSimilarity(0b1111, 0b0000, 0), "empty mask trivially similar")
}
