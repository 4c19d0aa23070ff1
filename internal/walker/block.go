// Package walker implements the single-method control-flow walker of
// spec §4.4: basic-block partitioning, a deterministic linearization via
// single-step execution, and a parallel executor that steps two
// executions in lockstep, pausing at comparable instructions.
package walker

import (
	"sort"

	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/zeebo/blake3"
)

// BasicBlock is a maximal straight-line run of instructions bounded by
// branch targets and branch-source instructions.
type BasicBlock struct {
	Start, End   int // instruction indices: [Start, End)
	Instructions []model.Instruction

	Next     *BasicBlock   // fallthrough successor, nil if none
	Branches []*BasicBlock // non-fallthrough successors (jump/switch targets)
	Prev     []*BasicBlock

	// Origin is the earliest Prev-ancestor, computed once the full graph
	// exists (see computeOrigins).
	Origin *BasicBlock

	// Trunk is set by the execution's step rule each time this block is
	// entered as a branch of some other block (see Execution.nextBlock);
	// it records which block "owns" this one along the trunk the walk
	// took.
	Trunk *BasicBlock

	visitedBranches map[*BasicBlock]bool
}

// Graph is the full block graph for one method, plus a stable index from
// instruction position to its owning block.
type Graph struct {
	Blocks  []*BasicBlock
	byStart map[int]*BasicBlock
}

// Build partitions a method's instruction list into basic blocks and
// wires Next/Branches/Prev/Origin.
func Build(instructions []model.Instruction) *Graph {
	if len(instructions) == 0 {
		return &Graph{byStart: map[int]*BasicBlock{}}
	}

	leaders := map[int]bool{0: true}
	for _, instr := range instructions {
		switch instr.Op {
		case model.OpGoto, model.OpJsr, model.OpIfEq, model.OpIfNe, model.OpIfLt, model.OpIfGe,
			model.OpIfGt, model.OpIfLe, model.OpIfICmpEq, model.OpIfICmpNe, model.OpIfICmpLt,
			model.OpIfICmpGe, model.OpIfICmpGt, model.OpIfICmpLe, model.OpIfACmpEq, model.OpIfACmpNe,
			model.OpIfNull, model.OpIfNonNull:
			leaders[instr.JumpTarget] = true
			if instr.Position+1 < len(instructions) {
				leaders[instr.Position+1] = true
			}
		case model.OpTableSwitch, model.OpLookupSwitch:
			leaders[instr.DefaultTarget] = true
			for _, t := range instr.SwitchTargets {
				leaders[t] = true
			}
			if instr.Position+1 < len(instructions) {
				leaders[instr.Position+1] = true
			}
		case model.OpReturn, model.OpAThrow:
			if instr.Position+1 < len(instructions) {
				leaders[instr.Position+1] = true
			}
		}
	}

	var starts []int
	for s := range leaders {
		if s >= 0 && s < len(instructions) {
			starts = append(starts, s)
		}
	}
	sort.Ints(starts)

	g := &Graph{byStart: make(map[int]*BasicBlock, len(starts))}
	for i, start := range starts {
		end := len(instructions)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		b := &BasicBlock{
			Start:           start,
			End:             end,
			Instructions:    instructions[start:end],
			visitedBranches: map[*BasicBlock]bool{},
		}
		g.Blocks = append(g.Blocks, b)
		g.byStart[start] = b
	}

	for _, b := range g.Blocks {
		if len(b.Instructions) == 0 {
			continue
		}
		last := b.Instructions[len(b.Instructions)-1]
		switch last.Op {
		case model.OpGoto, model.OpJsr:
			if target := g.byStart[last.JumpTarget]; target != nil {
				b.Branches = append(b.Branches, target)
				target.Prev = append(target.Prev, b)
			}
			if last.Op == model.OpJsr {
				if next := g.byStart[b.End]; next != nil {
					b.Next = next
					next.Prev = append(next.Prev, b)
				}
			}
		case model.OpIfEq, model.OpIfNe, model.OpIfLt, model.OpIfGe, model.OpIfGt, model.OpIfLe,
			model.OpIfICmpEq, model.OpIfICmpNe, model.OpIfICmpLt, model.OpIfICmpGe, model.OpIfICmpGt,
			model.OpIfICmpLe, model.OpIfACmpEq, model.OpIfACmpNe, model.OpIfNull, model.OpIfNonNull:
			if target := g.byStart[last.JumpTarget]; target != nil {
				b.Branches = append(b.Branches, target)
				target.Prev = append(target.Prev, b)
			}
			if next := g.byStart[b.End]; next != nil {
				b.Next = next
				next.Prev = append(next.Prev, b)
			}
		case model.OpTableSwitch, model.OpLookupSwitch:
			targets := append([]int{last.DefaultTarget}, last.SwitchTargets...)
			for _, t := range targets {
				if target := g.byStart[t]; target != nil {
					b.Branches = append(b.Branches, target)
					target.Prev = append(target.Prev, b)
				}
			}
		case model.OpReturn, model.OpAThrow:
			// terminal: no Next, no Branches.
		default:
			if next := g.byStart[b.End]; next != nil {
				b.Next = next
				next.Prev = append(next.Prev, b)
			}
		}
	}

	computeOrigins(g)
	return g
}

// computeOrigins sets each block's Origin to its earliest Prev-ancestor,
// walking the first Prev link repeatedly until reaching a block with no
// predecessors (or a cycle, in which case the walk stops there).
func computeOrigins(g *Graph) {
	for _, b := range g.Blocks {
		seen := map[*BasicBlock]bool{}
		cur := b
		for len(cur.Prev) > 0 && !seen[cur] {
			seen[cur] = true
			cur = cur.Prev[0]
		}
		b.Origin = cur
	}
}

// Entry returns the entry block (instruction position 0), or nil for an
// empty method.
func (g *Graph) Entry() *BasicBlock {
	return g.byStart[0]
}

// MethodFingerprint hashes the opcode skeleton across an entire method's
// instruction stream (entry-block order is irrelevant here; this is a
// coarse pre-filter, not a structural proof).
func MethodFingerprint(instructions []model.Instruction) [32]byte {
	h := blake3.New()
	buf := make([]byte, 4)
	for _, instr := range instructions {
		op := uint32(instr.Op)
		buf[0] = byte(op)
		buf[1] = byte(op >> 8)
		buf[2] = byte(op >> 16)
		buf[3] = byte(op >> 24)
		h.Write(buf)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
