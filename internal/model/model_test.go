package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsObfuscatedName(t *testing.T) {
	cases := map[string]bool{
		"a":               true,
		"ab":              true,
		"aaz":             true,
		"classFoo":        true,
		"methodBar":       true,
		"fieldBaz":        true,
		"toString":        false,
		"computeHash":     false,
		"zzz":             false,
	}
	for name, want := range cases {
		require.Equal(t, want, IsObfuscatedName(name), "name=%q", name)
	}
}

func TestHierarchyClosureParentChainAndInterfaces(t *testing.T) {
	object := NewClass("java/lang/Object", 0, false)
	base := NewClass("Base", 0, true)
	base.Parent = object
	ifaceA := NewClass("IfaceA", AccInterface, true)
	ifaceB := NewClass("IfaceB", AccInterface, true)
	child := NewClass("Child", 0, true)
	child.Parent = base
	child.Interfaces = []*Class{ifaceA, ifaceB}

	closure := child.HierarchyClosure()
	require.Contains(t, closure, child)
	require.Contains(t, closure, base)
	require.Contains(t, closure, object)
	require.Contains(t, closure, ifaceA)
	require.Contains(t, closure, ifaceB)
	require.Len(t, closure, 5)

	// cached: mutating Parent after the fact must not affect the cached result.
	child.Parent = nil
	require.Len(t, child.HierarchyClosure(), 5)

	// recomputed without a parent: Child, IfaceA, IfaceB.
	child.InvalidateClosure()
	require.Len(t, child.HierarchyClosure(), 3)
}

func TestClassGroupRealAndUnmatched(t *testing.T) {
	g := NewClassGroup()
	real := NewClass("a", 0, true)
	synthetic := NewClass("java/lang/Object", 0, false)
	g.Add(real)
	g.Add(synthetic)

	require.ElementsMatch(t, []*Class{real}, g.Real())
	require.ElementsMatch(t, []*Class{synthetic}, g.Synthetic())
	require.ElementsMatch(t, []*Class{real}, g.UnmatchedReal())

	other := NewClass("b", 0, true)
	real.Match = other
	require.Empty(t, g.UnmatchedReal())
}

func TestConstantEqual(t *testing.T) {
	a := Constant{Kind: ConstInt, IntVal: 5}
	b := Constant{Kind: ConstInt, IntVal: 5}
	c := Constant{Kind: ConstInt, IntVal: 6}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))

	str1 := Constant{Kind: ConstString, StringVal: "x"}
	str2 := Constant{Kind: ConstString, StringVal: "x"}
	require.True(t, str1.Equal(str2))

	mismatchKind := Constant{Kind: ConstLong, LongVal: 5}
	require.False(t, a.Equal(mismatchKind))
}

func TestMethodFlagPredicates(t *testing.T) {
	owner := NewClass("Owner", 0, true)
	ctor := NewMethod(owner, "<init>", "()V", 0)
	clinit := NewMethod(owner, "<clinit>", "()V", AccStatic)
	privateAbstract := NewMethod(owner, "helper", "()V", AccPrivate|AccAbstract)

	require.True(t, ctor.IsConstructor())
	require.False(t, ctor.IsClassInit())

	require.True(t, clinit.IsClassInit())
	require.False(t, clinit.IsConstructor())
	require.True(t, clinit.IsStatic())

	require.True(t, privateAbstract.IsPrivate())
	require.True(t, privateAbstract.IsAbstract())
	require.False(t, privateAbstract.IsConstructor())
	require.False(t, privateAbstract.IsClassInit())
}
