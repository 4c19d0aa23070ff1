package classify

import (
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

const (
	methodTypeBits = model.AccStatic | model.AccAbstract | model.AccNative
	methodAccBits  = model.AccPublic | model.AccProtected | model.AccPrivate | model.AccFinal |
		model.AccSynchronized | model.AccBridge | model.AccVarargs | model.AccStrict | model.AccSynthetic
)

func methodName(m *model.Method) string { return m.Name }
func methodMatch(m *model.Method) *model.Method {
	if m == nil {
		return nil
	}
	return m.Match
}

func classRefSet(refs map[*model.Class]struct{}) []*model.Class { return model.Keys(refs) }
func methodSet(refs map[*model.Method]struct{}) []*model.Method { return model.Keys(refs) }
func fieldSet(refs map[*model.Field]struct{}) []*model.Field    { return model.Keys(refs) }

// MethodRegistry is the method classifier registry of spec §4.2. All
// entries participate at every level (the spec marks none of them
// Secondary+), registered in the order listed there.
var MethodRegistry = []Classifier[*model.Method]{
	At("method-type-bits", 10, Initial, func(a, b *model.Method) float64 {
		return BitSimilarity(a.AccessFlags, b.AccessFlags, methodTypeBits)
	}),
	At("access-bits", 4, Initial, func(a, b *model.Method) float64 {
		return BitSimilarity(a.AccessFlags, b.AccessFlags, methodAccBits)
	}),
	At("arg-types", 10, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(a.ArgTypes, b.ArgTypes, classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("return-type", 5, Initial, func(a, b *model.Method) float64 {
		if similarity.PotentiallyEqualClasses(a.ReturnType, b.ReturnType) {
			return 1.0
		}
		return 0.0
	}),
	At("class-refs", 3, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(classRefSet(a.ClassRefs), classRefSet(b.ClassRefs),
			classNameOf, classMatchOf, similarity.PotentiallyEqualClasses)
	}),
	At("string-constants", 5, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareSets(model.Keys(a.Strings), model.Keys(b.Strings))
	}),
	At("numeric-constants", 5, Initial, func(a, b *model.Method) float64 {
		return averageNumericSimilarity(
			a.Ints, b.Ints, a.Longs, b.Longs, a.Floats, b.Floats, a.Doubles, b.Doubles,
		)
	}),
	At("overrides", 10, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(methodSet(a.Overrides), methodSet(b.Overrides),
			methodName, methodMatch, similarity.PotentiallyEqualMethods)
	}),
	At("call-in-refs", 6, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(methodSet(a.CallIn), methodSet(b.CallIn),
			methodName, methodMatch, similarity.PotentiallyEqualMethods)
	}),
	At("call-out-refs", 6, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(methodSet(a.CallOut), methodSet(b.CallOut),
			methodName, methodMatch, similarity.PotentiallyEqualMethods)
	}),
	At("field-read-refs", 5, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(fieldSet(a.FieldReads), fieldSet(b.FieldReads),
			fieldName, fieldMatch, similarity.PotentiallyEqualFields)
	}),
	At("field-write-refs", 5, Initial, func(a, b *model.Method) float64 {
		return similarity.CompareMatchableSets(fieldSet(a.FieldWrites), fieldSet(b.FieldWrites),
			fieldName, fieldMatch, similarity.PotentiallyEqualFields)
	}),
}

func averageNumericSimilarity(
	aInt, bInt map[int32]struct{},
	aLong, bLong map[int64]struct{},
	aFloat, bFloat map[float32]struct{},
	aDouble, bDouble map[float64]struct{},
) float64 {
	sum := similarity.CompareSets(model.Keys(aInt), model.Keys(bInt)) +
		similarity.CompareSets(model.Keys(aLong), model.Keys(bLong)) +
		similarity.CompareSets(model.Keys(aFloat), model.Keys(bFloat)) +
		similarity.CompareSets(model.Keys(aDouble), model.Keys(bDouble))
	return sum / 4.0
}
