// Package similarity implements the comparators of spec §4.1: scalar
// count similarity, multiset similarity, match-aware symbol-set
// similarity, and instruction-list edit distance.
package similarity

import "github.com/ruinedyourlife/matchengine/internal/model"

// CompareCounts implements "1 - |a-b|/max(a,b)", with 1 if both are zero.
func CompareCounts(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	max := a
	if b > max {
		max = b
	}
	return 1.0 - float64(diff)/float64(max)
}

// CompareSets treats xs and ys as multisets of equal (comparable) T and
// returns matched / (|A| - matched + |B|), where matched = |A ∩ B|.
func CompareSets[T comparable](xs, ys []T) float64 {
	if len(xs) == 0 && len(ys) == 0 {
		return 1.0
	}
	counts := make(map[T]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	matched := 0
	for _, y := range ys {
		if counts[y] > 0 {
			counts[y]--
			matched++
		}
	}
	denom := len(xs) - matched + len(ys)
	if denom == 0 {
		return 1.0
	}
	return float64(matched) / float64(denom)
}

// matchAccessors is the capability compareMatchableSets needs from a symbol:
// a display name for the obfuscation check and a nullable match pointer.
// Class, Method and Field all already expose Name/Match in this shape via
// the accessor functions passed in below, so no interface is imposed on
// the model types themselves.
type matchAccessors[T comparable] struct {
	name  func(T) string
	match func(T) T // zero value (nil) if unmatched
	zero  T
}

// CompareMatchableSets implements the protocol of spec §4.1:
//  1. total = |A|+|B|, unmatched = 0.
//  2. For each a in A (destructive): if a in B, remove from both; else if
//     a has a match, try to remove a.match from B (unmatched++ if absent);
//     else if a's name is non-obfuscated, unmatched++ and drop a.
//  3. Symmetric pass removing non-obfuscated b in B, unmatched++ each.
//  4. For remaining a in A: if no b in B satisfies P(a,b), unmatched++ and
//     drop a.
//  5. Symmetric pass for remaining b in B.
//  6. Return (total-unmatched)/total, or 1.0 if both empty, 0.0 if exactly
//     one is empty.
func CompareMatchableSets[T comparable](
	a, b []T,
	nameOf func(T) string,
	matchOf func(T) T,
	potentialEqual func(x, y T) bool,
) float64 {
	var zero T
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	total := len(a) + len(b)
	unmatched := 0

	// Work on mutable copies; "remove" means splice out.
	as := append([]T(nil), a...)
	bs := append([]T(nil), b...)

	removeAt := func(xs []T, i int) []T {
		return append(xs[:i], xs[i+1:]...)
	}
	indexOf := func(xs []T, v T) int {
		for i, x := range xs {
			if x == v {
				return i
			}
		}
		return -1
	}

	// Step 2: destructive pass over A.
	var remainA []T
	for _, x := range as {
		if i := indexOf(bs, x); i >= 0 {
			bs = removeAt(bs, i)
			continue
		}
		m := matchOf(x)
		if m != zero {
			if i := indexOf(bs, m); i >= 0 {
				bs = removeAt(bs, i)
			} else {
				unmatched++
			}
			continue
		}
		if !model.IsObfuscatedName(nameOf(x)) {
			unmatched++
			continue
		}
		remainA = append(remainA, x)
	}
	as = remainA

	// Step 3: symmetric pass over remaining B, dropping non-obfuscated names.
	var remainB []T
	for _, y := range bs {
		if !model.IsObfuscatedName(nameOf(y)) {
			unmatched++
			continue
		}
		remainB = append(remainB, y)
	}
	bs = remainB

	// Step 4: remaining A against potential equality.
	remainA = remainA[:0]
	for _, x := range as {
		found := false
		for _, y := range bs {
			if potentialEqual(x, y) {
				found = true
				break
			}
		}
		if !found {
			unmatched++
			continue
		}
		remainA = append(remainA, x)
	}
	as = remainA

	// Step 5: symmetric pass for remaining B.
	remainB = remainB[:0]
	for _, y := range bs {
		found := false
		for _, x := range as {
			if potentialEqual(x, y) {
				found = true
				break
			}
		}
		if !found {
			unmatched++
			continue
		}
		remainB = append(remainB, y)
	}

	return float64(total-unmatched) / float64(total)
}

// CompareLists computes instruction-stream similarity: 1.0 if equal
// length and elementwise eq, else 1 - levenshtein(xs, ys)/max(len(xs),len(ys)),
// via the standard two-row rolling edit-distance algorithm.
func CompareLists[T any](xs, ys []T, eq func(a, b T) bool) float64 {
	if len(xs) == len(ys) {
		allEq := true
		for i := range xs {
			if !eq(xs[i], ys[i]) {
				allEq = false
				break
			}
		}
		if allEq {
			return 1.0
		}
	}

	n, m := len(xs), len(ys)
	if n == 0 && m == 0 {
		return 1.0
	}
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		cur[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if eq(xs[i-1], ys[j-1]) {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	dist := prev[m]

	max := n
	if m > max {
		max = m
	}
	if max == 0 {
		return 1.0
	}
	return 1.0 - float64(dist)/float64(max)
}

// PotentiallyEqualClasses implements the class potential-equality
// predicate of §4.1: equal, or one has a match pointing at the other, or
// both are real-flag-consistent and obfuscation-compatible by name.
func PotentiallyEqualClasses(a, b *model.Class) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Match == b || b.Match == a {
		return true
	}
	if a.Real != b.Real {
		return false
	}
	return namesCompatible(a.Name, b.Name)
}

// namesCompatible reports whether two names could still name the same
// underlying symbol: if both are non-obfuscated, they must be equal; if
// at least one is obfuscated, any obfuscated name is compatible.
func namesCompatible(a, b string) bool {
	aObf := model.IsObfuscatedName(a)
	bObf := model.IsObfuscatedName(b)
	if !aObf && !bObf {
		return a == b
	}
	return true
}

// PotentiallyEqualMethods implements the method potential-equality
// predicate: class rule, plus if both are non-static their owners must be
// potentially equal.
func PotentiallyEqualMethods(a, b *model.Method) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Match == b || b.Match == a {
		return true
	}
	if !a.IsStatic() && !b.IsStatic() {
		if !PotentiallyEqualClasses(a.Owner, b.Owner) {
			return false
		}
	}
	return namesCompatible(a.Name, b.Name)
}

// PotentiallyEqualFields implements the field potential-equality
// predicate: same rule as methods (class rule, plus owner potential
// equality if both are non-static). Type compatibility is a separate
// weighted classifier, not part of this fast filter.
func PotentiallyEqualFields(a, b *model.Field) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Match == b || b.Match == a {
		return true
	}
	if !a.IsStatic() && !b.IsStatic() {
		if !PotentiallyEqualClasses(a.Owner, b.Owner) {
			return false
		}
	}
	return namesCompatible(a.Name, b.Name)
}
