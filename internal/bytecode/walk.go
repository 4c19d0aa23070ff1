package bytecode

import (
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/walker"
)

// BodiesAgree implements §4.4's "usage in matching": step both methods'
// execution walkers in lockstep, pausing at comparable instructions and
// consulting Equal; any disagreement ends the comparison and rejects the
// pair. Methods without a decoded body (non-real stand-ins, or abstract
// methods) vacuously agree — there is nothing to contradict.
//
// Before paying for the lockstep walk, the two methods' opcode-skeleton
// fingerprints are compared as a cheap bucket filter: a pair whose
// skeletons differ is never worth walking.
func BodiesAgree(a, b *model.Method) bool {
	if !a.IsReal() || !b.IsReal() {
		return true
	}
	if len(a.Instructions) == 0 || len(b.Instructions) == 0 {
		return true
	}
	if walker.MethodFingerprint(a.Instructions) != walker.MethodFingerprint(b.Instructions) {
		return false
	}
	ea := walker.NewExecution(a)
	eb := walker.NewExecution(b)
	p := walker.NewParallelExecutor(ea, eb)
	agree := true
	p.ExecuteParallel(func(ia, ib model.Instruction) bool {
		if !Equal(ia, ib) {
			agree = false
			return false
		}
		return true
	})
	// ExecuteParallel stops as soon as either side terminates, so one
	// walk running dry before the other (a body that returns early, or
	// keeps going past where its counterpart stopped) must itself count
	// as a disagreement rather than a silent early exit.
	return agree && ea.Terminated == eb.Terminated
}
