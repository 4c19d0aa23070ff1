package classify

import (
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

const fieldAccBits = model.AccPublic | model.AccProtected | model.AccPrivate | model.AccFinal |
	model.AccVolatile | model.AccTransient | model.AccSynthetic | model.AccEnum

// FieldRegistry is the field classifier registry of spec §4.2.
var FieldRegistry = []Classifier[*model.Field]{
	At("static-bit", 10, Initial, func(a, b *model.Field) float64 {
		return BitSimilarity(a.AccessFlags, b.AccessFlags, model.AccStatic)
	}),
	At("access-bits", 4, Initial, func(a, b *model.Field) float64 {
		return BitSimilarity(a.AccessFlags, b.AccessFlags, fieldAccBits)
	}),
	At("type", 10, Initial, func(a, b *model.Field) float64 {
		if similarity.PotentiallyEqualClasses(a.Type, b.Type) {
			return 1.0
		}
		return 0.0
	}),
	At("read-refs", 6, Initial, func(a, b *model.Field) float64 {
		return similarity.CompareMatchableSets(methodSet(a.ReadRefs), methodSet(b.ReadRefs),
			methodName, methodMatch, similarity.PotentiallyEqualMethods)
	}),
	At("write-refs", 6, Initial, func(a, b *model.Field) float64 {
		return similarity.CompareMatchableSets(methodSet(a.WriteRefs), methodSet(b.WriteRefs),
			methodName, methodMatch, similarity.PotentiallyEqualMethods)
	}),
	At("initializer", 7, Initial, func(a, b *model.Field) float64 {
		if a.Initializer == nil && b.Initializer == nil {
			return 1.0
		}
		if a.Initializer == nil || b.Initializer == nil {
			return 0.0
		}
		if initializerEqual(*a.Initializer, *b.Initializer) {
			return 1.0
		}
		return 0.0
	}),
	At("overrides", 10, Initial, func(a, b *model.Field) float64 {
		return similarity.CompareMatchableSets(fieldSet(a.Overrides), fieldSet(b.Overrides),
			fieldName, fieldMatch, similarity.PotentiallyEqualFields)
	}),
}

// initializerEqual mirrors the LDC constant-equality rule of §4.3: Type
// constants compare target classes by potential equality, everything
// else compares by value.
func initializerEqual(a, b model.Constant) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == model.ConstClassType {
		return similarity.PotentiallyEqualClasses(a.ClassVal, b.ClassVal)
	}
	return a.Equal(b)
}
