package classify

import (
	"github.com/ruinedyourlife/matchengine/internal/bytecode"
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

const classTypeBits = model.AccEnum | model.AccInterface | model.AccAnnotation | model.AccAbstract

// ClassRegistry is the class classifier registry of spec §4.2, in
// registration order; entries from Initial, Secondary and Tertiary are
// all listed here, each tagged with the level it becomes active at.
var ClassRegistry = []Classifier[*model.Class]{
	At("access-flag-bits", 20, Initial, func(a, b *model.Class) float64 {
		return BitSimilarity(a.AccessFlags, b.AccessFlags, classTypeBits)
	}),
	At("hierarchy-depth", 1, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareCounts(len(a.HierarchyClosure()), len(b.HierarchyClosure()))
	}),
	At("sibling-count", 2, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareCounts(siblingCount(a), siblingCount(b))
	}),
	At("parent", 4, Initial, func(a, b *model.Class) float64 {
		if similarity.PotentiallyEqualClasses(a.Parent, b.Parent) {
			return 1.0
		}
		return 0.0
	}),
	At("children", 3, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareMatchableSets(classSet(a.Children), classSet(b.Children),
			classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("interfaces", 3, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareMatchableSets(a.Interfaces, b.Interfaces,
			classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("implementers", 2, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareMatchableSets(classSet(a.Implementers), classSet(b.Implementers),
			classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("method-count", 3, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareCounts(len(a.Methods), len(b.Methods))
	}),
	At("field-count", 3, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareCounts(len(a.Fields), len(b.Fields))
	}),
	At("similar-methods", 10, Initial, similarMethods),
	At("string-constants", 8, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareSets(model.Keys(a.Strings), model.Keys(b.Strings))
	}),
	At("numeric-constants", 6, Initial, func(a, b *model.Class) float64 {
		return averageNumericSimilarity(a.Ints, b.Ints, a.Longs, b.Longs, a.Floats, b.Floats, a.Doubles, b.Doubles)
	}),
	At("out-class-refs", 6, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareMatchableSets(classSet(a.OutRefs), classSet(b.OutRefs),
			classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("in-class-refs", 6, Initial, func(a, b *model.Class) float64 {
		return similarity.CompareMatchableSets(classSet(a.InRefs), classSet(b.InRefs),
			classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("method-out-refs", 6, Secondary, func(a, b *model.Class) float64 {
		return averageOverMethodPairs(a, b, func(ma, mb *model.Method) float64 {
			return similarity.CompareMatchableSets(methodSet(ma.CallOut), methodSet(mb.CallOut),
				methodName, methodMatch, similarity.PotentiallyEqualMethods)
		})
	}),
	At("method-in-refs", 6, Secondary, func(a, b *model.Class) float64 {
		return averageOverMethodPairs(a, b, func(ma, mb *model.Method) float64 {
			return similarity.CompareMatchableSets(methodSet(ma.CallIn), methodSet(mb.CallIn),
				methodName, methodMatch, similarity.PotentiallyEqualMethods)
		})
	}),
	At("field-read-refs", 5, Secondary, func(a, b *model.Class) float64 {
		return averageOverFieldPairs(a, b, func(fa, fb *model.Field) float64 {
			return similarity.CompareMatchableSets(methodSet(fa.ReadRefs), methodSet(fb.ReadRefs),
				methodName, methodMatch, similarity.PotentiallyEqualMethods)
		})
	}),
	At("field-write-refs", 5, Secondary, func(a, b *model.Class) float64 {
		return averageOverFieldPairs(a, b, func(fa, fb *model.Field) float64 {
			return similarity.CompareMatchableSets(methodSet(fa.WriteRefs), methodSet(fb.WriteRefs),
				methodName, methodMatch, similarity.PotentiallyEqualMethods)
		})
	}),
	At("members-full", 10, Tertiary, membersFull),
}

func classSet(m map[*model.Class]struct{}) []*model.Class { return model.Keys(m) }

func siblingCount(c *model.Class) int {
	if c.Parent == nil {
		return 0
	}
	return len(c.Parent.Children)
}

// similarMethods implements the "similar methods" routine of §4.2: for
// each method in a, find the best compatible (potentially-equal) method
// in b, scoring return/arg-type compatibility plus full instruction-stream
// similarity for real methods, then average the best-match scores across
// a.Methods.
func similarMethods(a, b *model.Class) float64 {
	if len(a.Methods) == 0 {
		if len(b.Methods) == 0 {
			return 1.0
		}
		return 0.0
	}
	var total float64
	for _, ma := range a.Methods {
		best := 0.0
		for _, mb := range b.Methods {
			if !similarity.PotentiallyEqualMethods(ma, mb) {
				continue
			}
			s := methodCompatibilityScore(ma, mb)
			if s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(a.Methods))
}

// methodCompatibilityScore blends return/arg-type compatibility with
// full instruction-stream similarity (vacuously 1.0 for non-real methods,
// per §4.3), each weighted equally.
func methodCompatibilityScore(a, b *model.Method) float64 {
	typeScore := 0.0
	if similarity.PotentiallyEqualClasses(a.ReturnType, b.ReturnType) {
		typeScore += 0.5
	}
	typeScore += 0.5 * similarity.CompareLists(a.ArgTypes, b.ArgTypes, similarity.PotentiallyEqualClasses)

	bodyScore := bytecode.InstructionSimilarity(a, b)
	return 0.5*typeScore + 0.5*bodyScore
}

// membersFull recursively runs the method classifier registry (at
// Tertiary) on every non-static real method of a against b's non-static
// real methods, via the same potential-equality/ranking machinery used
// by the orchestrator, and averages the accepted top scores. Methods
// without an accepted candidate contribute 0.
func membersFull(a, b *model.Class) float64 {
	var sources []*model.Method
	for _, m := range a.Methods {
		if !m.IsStatic() && m.IsReal() {
			sources = append(sources, m)
		}
	}
	if len(sources) == 0 {
		return 1.0
	}

	var candidates []*model.Method
	for _, m := range b.Methods {
		if !m.IsStatic() && m.IsReal() {
			candidates = append(candidates, m)
		}
	}

	maxScore := MaxScore(MethodRegistry, Tertiary)
	maxMismatch := MaxMismatch(maxScore, DefaultAbsoluteThreshold, DefaultRelativeThreshold)

	var total float64
	for _, s := range sources {
		ranked := Rank(s, candidates, MethodRegistry, Tertiary, similarity.PotentiallyEqualMethods, maxMismatch)
		if _, ok := FoundMatch(ranked, maxScore, DefaultAbsoluteThreshold, DefaultRelativeThreshold); ok {
			total += ranked[0].Score / maxScore
		}
	}
	return total / float64(len(sources))
}

func averageOverMethodPairs(a, b *model.Class, score func(ma, mb *model.Method) float64) float64 {
	if len(a.Methods) == 0 {
		if len(b.Methods) == 0 {
			return 1.0
		}
		return 0.0
	}
	var total float64
	for _, ma := range a.Methods {
		best := 0.0
		for _, mb := range b.Methods {
			if !similarity.PotentiallyEqualMethods(ma, mb) {
				continue
			}
			if s := score(ma, mb); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(a.Methods))
}

func averageOverFieldPairs(a, b *model.Class, score func(fa, fb *model.Field) float64) float64 {
	if len(a.Fields) == 0 {
		if len(b.Fields) == 0 {
			return 1.0
		}
		return 0.0
	}
	var total float64
	for _, fa := range a.Fields {
		best := 0.0
		for _, fb := range b.Fields {
			if !similarity.PotentiallyEqualFields(fa, fb) {
				continue
			}
			if s := score(fa, fb); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(a.Fields))
}
