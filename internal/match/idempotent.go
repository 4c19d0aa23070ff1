package match

import (
	"fmt"

	"github.com/ruinedyourlife/matchengine/internal/model"
)

// CheckIdempotent re-runs the orchestration over two class groups that
// have already been matched by an earlier Run and asserts the match
// state is a fixpoint: no new matches, no retractions. This is the
// debug/test utility §9 adds for spec.md §8's idempotence invariant — an
// opt-in verification helper for the test suite, not a step Run takes on
// its own.
func CheckIdempotent(a, b *model.ClassGroup, cfg Config) error {
	before := (&Engine{A: a, B: b}).stats()
	after := New(a, b, cfg).Run()

	if before.ClassesMatched != after.ClassesMatched ||
		before.MethodsMatched != after.MethodsMatched ||
		before.FieldsMatched != after.FieldsMatched {
		return fmt.Errorf(
			"match state changed on re-run: classes %d->%d, methods %d->%d, fields %d->%d",
			before.ClassesMatched, after.ClassesMatched,
			before.MethodsMatched, after.MethodsMatched,
			before.FieldsMatched, after.FieldsMatched,
		)
	}
	return nil
}
