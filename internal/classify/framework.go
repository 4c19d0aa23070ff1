// Package classify implements the weighted classifier framework of spec
// §4.2: named scoring functions grouped by level, rank-list production,
// and the foundMatch acceptance gate.
package classify

import (
	"math"
	"math/bits"
	"sort"
)

// Default tunables per spec §9's resolved open question: the strict pair
// used by the newest orchestrator variant. internal/match exposes these
// as configuration rather than hardcoding them at call sites.
const (
	DefaultAbsoluteThreshold = 0.25
	DefaultRelativeThreshold = 0.025
)

// Level is one of the four strict matching passes.
type Level int

const (
	Initial Level = iota
	Secondary
	Tertiary
	Extra
)

func (l Level) String() string {
	switch l {
	case Initial:
		return "initial"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	case Extra:
		return "extra"
	default:
		return "unknown"
	}
}

// Classifier is a named, weighted scoring function active at a set of
// levels. Score must return a value in [0.0, 1.0].
type Classifier[T any] struct {
	Name   string
	Weight float64
	Levels map[Level]bool
	Score  func(a, b T) float64
}

// At is a registration convenience: a classifier active at `from` and
// every subsequent level ("Secondary+" in the spec's prose).
func At[T any](name string, weight float64, from Level, score func(a, b T) float64) Classifier[T] {
	levels := map[Level]bool{}
	for l := from; l <= Extra; l++ {
		levels[l] = true
	}
	return Classifier[T]{Name: name, Weight: weight, Levels: levels, Score: score}
}

// Trace records one classifier's contribution to a rank result.
type Trace struct {
	Name  string
	Score float64
}

// RankResult is one candidate's score against a source, plus the
// per-classifier trace for diagnostics.
type RankResult[T any] struct {
	Subject T
	Score   float64
	Trace   []Trace
}

// MaxScore sums the weights of classifiers active at level across the
// registry.
func MaxScore[T any](registry []Classifier[T], level Level) float64 {
	var total float64
	for _, c := range registry {
		if c.Levels[level] {
			total += c.Weight
		}
	}
	return total
}

// MaxMismatch implements §4.2's maxMismatch = maxScore * (1 - sqrt(ABSOLUTE*(1-RELATIVE))).
func MaxMismatch(maxScore, absolute, relative float64) float64 {
	x := absolute * (1 - relative)
	if x < 0 {
		x = 0
	}
	return maxScore * (1 - math.Sqrt(x))
}

// Rank scores every candidate in d against source s that passes
// potentialEqual, iterating classifiers active at level in registration
// order and abandoning a candidate early once its accumulated mismatch
// reaches maxMismatch. Results are sorted by score descending.
func Rank[T any](
	s T,
	candidates []T,
	registry []Classifier[T],
	level Level,
	potentialEqual func(a, b T) bool,
	maxMismatch float64,
) []RankResult[T] {
	var results []RankResult[T]
	for _, d := range candidates {
		if !potentialEqual(s, d) {
			continue
		}
		var score, mismatch float64
		var trace []Trace
		abandoned := false
		for _, c := range registry {
			if !c.Levels[level] {
				continue
			}
			cs := c.Score(s, d)
			score += c.Weight * cs
			mismatch += c.Weight * (1 - cs)
			trace = append(trace, Trace{Name: c.Name, Score: cs})
			if mismatch >= maxMismatch {
				abandoned = true
				break
			}
		}
		if abandoned {
			continue
		}
		results = append(results, RankResult[T]{Subject: d, Score: score, Trace: trace})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// FoundMatch implements §4.2's acceptance gate:
//
//	s1 = (rank[0].score / maxScore)^2; reject if s1 < absolute.
//	if only one candidate, accept.
//	else s2 = (rank[1].score / maxScore)^2; accept iff s2 < s1*(1-relative).
func FoundMatch[T any](ranked []RankResult[T], maxScore, absolute, relative float64) (T, bool) {
	var zero T
	if len(ranked) == 0 || maxScore <= 0 {
		return zero, false
	}
	s1 := ranked[0].Score / maxScore
	s1 *= s1
	if s1 < absolute {
		return zero, false
	}
	if len(ranked) == 1 {
		return ranked[0].Subject, true
	}
	s2 := ranked[1].Score / maxScore
	s2 *= s2
	if s2 < s1*(1-relative) {
		return ranked[0].Subject, true
	}
	return zero, false
}

// BitSimilarity implements §4.2's bit-similarity formula:
// 1 - popcount(a XOR b)/N, where N is the number of distinguishing bits
// set in mask.
func BitSimilarity(a, b, mask uint32) float64 {
	n := bits.OnesCount32(mask)
	if n == 0 {
		return 1.0
	}
	diff := bits.OnesCount32((a ^ b) & mask)
	return 1.0 - float64(diff)/float64(n)
}
