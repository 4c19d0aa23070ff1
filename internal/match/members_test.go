package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/classify"
	"github.com/ruinedyourlife/matchengine/internal/model"
)

func TestMatchMethodsAcceptsSoleObfuscatedCandidate(t *testing.T) {
	a := model.NewClassGroup()
	b := model.NewClassGroup()

	ownerA := model.NewClass("aa", 0, true)
	ownerB := model.NewClass("bb", 0, true)
	a.Add(ownerA)
	b.Add(ownerB)

	ma := model.NewMethod(ownerA, "aa", "()V", model.AccStatic)
	mb := model.NewMethod(ownerB, "bb", "()V", model.AccStatic)
	ownerA.Methods = append(ownerA.Methods, ma)
	ownerB.Methods = append(ownerB.Methods, mb)

	e := New(a, b, DefaultConfig())
	added := e.matchMethods(classify.Initial, true)
	require.True(t, added)
	require.True(t, ma.IsMatched())
	require.Same(t, mb, ma.Match)
}

func TestMatchMethodsStaticOnlyFilterExcludesInstanceMethods(t *testing.T) {
	a := model.NewClassGroup()
	b := model.NewClassGroup()

	ownerA := model.NewClass("aa", 0, true)
	ownerB := model.NewClass("bb", 0, true)
	a.Add(ownerA)
	b.Add(ownerB)

	ma := model.NewMethod(ownerA, "aa", "()V", 0) // instance method
	mb := model.NewMethod(ownerB, "bb", "()V", 0)
	ownerA.Methods = append(ownerA.Methods, ma)
	ownerB.Methods = append(ownerB.Methods, mb)

	e := New(a, b, DefaultConfig())
	added := e.matchMethods(classify.Initial, true) // staticOnly=true, but these are instance methods
	require.False(t, added)
	require.False(t, ma.IsMatched())
}

func TestMatchFieldsAcceptsSoleObfuscatedCandidate(t *testing.T) {
	a := model.NewClassGroup()
	b := model.NewClassGroup()

	ownerA := model.NewClass("aa", 0, true)
	ownerB := model.NewClass("bb", 0, true)
	a.Add(ownerA)
	b.Add(ownerB)

	fa := model.NewField(ownerA, "aa", "I", model.AccStatic)
	fb := model.NewField(ownerB, "bb", "I", model.AccStatic)
	ownerA.Fields = append(ownerA.Fields, fa)
	ownerB.Fields = append(ownerB.Fields, fb)

	e := New(a, b, DefaultConfig())
	added := e.matchFields(classify.Initial, true)
	require.True(t, added)
	require.True(t, fa.IsMatched())
	require.Same(t, fb, fa.Match)
}

func TestMatchMethodsNoCandidatesReturnsFalse(t *testing.T) {
	a := model.NewClassGroup()
	b := model.NewClassGroup()
	e := New(a, b, DefaultConfig())
	require.False(t, e.matchMethods(classify.Initial, true))
	require.False(t, e.matchFields(classify.Initial, true))
}

func TestMatchMethodsRejectsCandidateWhoseBodyDisagrees(t *testing.T) {
	a := model.NewClassGroup()
	b := model.NewClassGroup()

	ownerA := model.NewClass("aa", 0, true)
	ownerB := model.NewClass("bb", 0, true)
	a.Add(ownerA)
	b.Add(ownerB)

	ma := model.NewMethod(ownerA, "aa", "()V", model.AccStatic)
	ma.Instructions = []model.Instruction{
		{Op: model.OpBiPush, Position: 0, IntOperand: 5},
		{Op: model.OpReturn, Position: 1},
	}
	mb := model.NewMethod(ownerB, "bb", "()V", model.AccStatic)
	mb.Instructions = []model.Instruction{
		{Op: model.OpBiPush, Position: 0, IntOperand: 9},
		{Op: model.OpReturn, Position: 1},
	}
	ownerA.Methods = append(ownerA.Methods, ma)
	ownerB.Methods = append(ownerB.Methods, mb)

	e := New(a, b, DefaultConfig())
	added := e.matchMethods(classify.Initial, true)
	require.False(t, added, "a classifier-favored candidate whose body disagrees under the walker must be rejected")
	require.False(t, ma.IsMatched())
}
