package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/model"
)

func TestCompareCounts(t *testing.T) {
	require.Equal(t, 1.0, CompareCounts(0, 0))
	require.Equal(t, 1.0, CompareCounts(5, 5))
	require.InDelta(t, 0.5, CompareCounts(1, 2), 1e-9)
}

func TestCompareSets(t *testing.T) {
	require.Equal(t, 1.0, CompareSets[string](nil, nil))
	require.Equal(t, 1.0, CompareSets([]string{"a", "b"}, []string{"a", "b"}))
	// one overlapping element out of 3 total distinct slots: matched=1, denom = 2-1+2=3
	require.InDelta(t, 1.0/3.0, CompareSets([]string{"a", "b"}, []string{"a", "c"}), 1e-9)
}

func TestCompareLists(t *testing.T) {
	eq := func(a, b int) bool { return a == b }
	require.Equal(t, 1.0, CompareLists([]int{1, 2, 3}, []int{1, 2, 3}, eq))
	require.Equal(t, 1.0, CompareLists[int](nil, nil, eq))
	// one substitution out of 3
	require.InDelta(t, 1.0-1.0/3.0, CompareLists([]int{1, 2, 3}, []int{1, 9, 3}, eq), 1e-9)
}

func TestPotentiallyEqualClasses(t *testing.T) {
	a := model.NewClass("aa", 0, true)
	b := model.NewClass("bb", 0, true)
	require.True(t, PotentiallyEqualClasses(a, b), "both obfuscated names are compatible")

	named := model.NewClass("com/foo/Bar", 0, true)
	other := model.NewClass("com/foo/Baz", 0, true)
	require.False(t, PotentiallyEqualClasses(named, other), "two distinct non-obfuscated names never match")

	sameName := model.NewClass("com/foo/Bar", 0, true)
	require.True(t, PotentiallyEqualClasses(named, sameName))

	synthetic := model.NewClass("com/foo/Bar", 0, false)
	require.False(t, PotentiallyEqualClasses(named, synthetic), "real flag must agree")

	named.Match = other
	require.True(t, PotentiallyEqualClasses(named, other), "existing match pointer short-circuits")
}

func TestPotentiallyEqualMethodsStaticVsInstance(t *testing.T) {
	ownerA := model.NewClass("aa", 0, true)
	ownerB := model.NewClass("bb", 0, true)
	ma := model.NewMethod(ownerA, "aa", "()V", model.AccStatic)
	mb := model.NewMethod(ownerB, "bb", "()V", model.AccStatic)
	require.True(t, PotentiallyEqualMethods(ma, mb), "static methods skip the owner check")

	ia := model.NewMethod(ownerA, "aa", "()V", 0)
	ib := model.NewMethod(ownerB, "bb", "()V", 0)
	require.True(t, PotentiallyEqualMethods(ia, ib), "obfuscated owners are still compatible")

	namedOwnerA := model.NewClass("com/foo/A", 0, true)
	namedOwnerB := model.NewClass("com/foo/B", 0, true)
	ja := model.NewMethod(namedOwnerA, "aa", "()V", 0)
	jb := model.NewMethod(namedOwnerB, "bb", "()V", 0)
	require.False(t, PotentiallyEqualMethods(ja, jb), "instance methods require owner compatibility")
}

func TestPotentiallyEqualFieldsNoTypeCheck(t *testing.T) {
	owner := model.NewClass("aa", 0, true)
	fa := model.NewField(owner, "aa", "I", 0)
	fb := model.NewField(owner, "bb", "Ljava/lang/String;", 0)
	// different descriptors entirely, but names are both obfuscated and
	// owners are identical, so this must still pass: field type
	// compatibility is a weighted classifier, not part of the fast filter.
	require.True(t, PotentiallyEqualFields(fa, fb))
}

func TestCompareMatchableSets(t *testing.T) {
	nameOf := func(s string) string { return s }
	matchOf := func(s string) string { return "" }
	potEq := func(a, b string) bool { return a == b }

	require.Equal(t, 1.0, CompareMatchableSets[string](nil, nil, nameOf, matchOf, potEq))
	require.Equal(t, 0.0, CompareMatchableSets([]string{"a"}, nil, nameOf, matchOf, potEq))
	require.Equal(t, 1.0, CompareMatchableSets([]string{"x", "y"}, []string{"x", "y"}, nameOf, matchOf, potEq))
}
