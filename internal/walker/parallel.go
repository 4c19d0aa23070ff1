package walker

import "github.com/ruinedyourlife/matchengine/internal/model"

// Comparable reports whether instr is in one of the instruction opcode
// families the matching engine pauses on to score equivalence (spec §4.4's "comparable kinds": int,
// var, iinc, method, field, ldc, type, invokedynamic, jump, tableswitch,
// lookupswitch, multianewarray).
func Comparable(instr model.Instruction) bool {
	switch instr.Op {
	case model.OpBiPush, model.OpSiPush,
		model.OpILoad, model.OpLLoad, model.OpFLoad, model.OpDLoad, model.OpALoad,
		model.OpIStore, model.OpLStore, model.OpFStore, model.OpDStore, model.OpAStore,
		model.OpIinc,
		model.OpInvokeVirtual, model.OpInvokeSpecial, model.OpInvokeStatic, model.OpInvokeInterface,
		model.OpGetStatic, model.OpPutStatic, model.OpGetField, model.OpPutField,
		model.OpLdc,
		model.OpNew, model.OpANewArray, model.OpCheckCast, model.OpInstanceOf,
		model.OpInvokeDynamic,
		model.OpIfEq, model.OpIfNe, model.OpIfLt, model.OpIfGe, model.OpIfGt, model.OpIfLe,
		model.OpIfICmpEq, model.OpIfICmpNe, model.OpIfICmpLt, model.OpIfICmpGe, model.OpIfICmpGt, model.OpIfICmpLe,
		model.OpIfACmpEq, model.OpIfACmpNe, model.OpGoto, model.OpJsr, model.OpIfNull, model.OpIfNonNull,
		model.OpTableSwitch, model.OpLookupSwitch,
		model.OpMultiANewArray:
		return true
	default:
		return false
	}
}

// PausePredicate decides whether an execution should pause on the given
// instruction.
type PausePredicate func(model.Instruction) bool

// Consumer is invoked once both executions are paused on a comparable
// instruction. It returns whether the walk should continue; callers that
// want to stop as soon as a comparison disagrees return false.
type Consumer func(a, b model.Instruction) (cont bool)

// ParallelExecutor steps two executions in lockstep, per spec §4.4.
type ParallelExecutor struct {
	A, B    *Execution
	Pause   PausePredicate
	Steps   int // total lockstep steps taken, for diagnostics/loop bounds
}

// NewParallelExecutor pairs two method executions under the default
// comparable-instruction pause predicate.
func NewParallelExecutor(a, b *Execution) *ParallelExecutor {
	return &ParallelExecutor{A: a, B: b, Pause: Comparable}
}

// ExecuteParallel drives the lockstep walk: the pause predicate is first
// applied to each execution's entry instruction, then each round advances
// both executions by one step when not already paused or terminated,
// applies the pause predicate, and when both are paused hands their
// current instructions to consumer. Stops when either execution terminates
// or consumer returns false. Returns the total number of instruction pairs
// handed to consumer.
func (p *ParallelExecutor) ExecuteParallel(consumer Consumer) int {
	pairs := 0
	if ia, ok := p.A.Current(); ok && p.Pause(ia) {
		p.A.Paused = true
	}
	if ib, ok := p.B.Current(); ok && p.Pause(ib) {
		p.B.Paused = true
	}
	for {
		if p.A.Terminated || p.B.Terminated {
			return pairs
		}

		if !p.A.Paused {
			p.A.Step()
		}
		if !p.B.Paused {
			p.B.Step()
		}
		p.Steps++

		if p.A.Terminated || p.B.Terminated {
			return pairs
		}

		if ia, ok := p.A.Current(); ok && p.Pause(ia) {
			p.A.Paused = true
		}
		if ib, ok := p.B.Current(); ok && p.Pause(ib) {
			p.B.Paused = true
		}

		if !p.A.Paused || !p.B.Paused {
			continue
		}

		ia, okA := p.A.Current()
		ib, okB := p.B.Current()
		if !okA || !okB {
			return pairs
		}

		pairs++
		if !consumer(ia, ib) {
			return pairs
		}
		p.A.Paused = false
		p.B.Paused = false
	}
}
