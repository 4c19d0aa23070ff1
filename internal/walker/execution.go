package walker

import "github.com/ruinedyourlife/matchengine/internal/model"

// InlineStaticCalls gates the execution walker's step-into-INVOKESTATIC
// behavior. The stepping-out machinery (the return-index stack) is fully
// implemented and exercised regardless of this flag so it stays
// testable; only the decision to actually descend into a callee's block
// graph is gated. Left disabled pending correctness review of same-group
// static-call inlining.
var InlineStaticCalls = false

// frame is one entry of an execution's invocation-layer stack: the
// caller's block graph, current block, and the instruction index to
// resume at after stepping out of an inlined static call.
type frame struct {
	graph       *Graph
	block       *BasicBlock
	returnIndex int
}

// Execution walks a single method's basic-block graph one instruction at
// a time, per spec §4.4.
type Execution struct {
	Method *model.Method
	graph  *Graph

	block *BasicBlock
	index int // index into block.Instructions

	Terminated bool
	Paused     bool

	returnStack []frame

	visitedBranches map[*BasicBlock]map[*BasicBlock]bool
	visitedTrunks   map[*BasicBlock]bool
}

// NewExecution builds the block graph for method and starts an execution
// at its entry block.
func NewExecution(method *model.Method) *Execution {
	g := Build(method.Instructions)
	e := &Execution{
		Method:          method,
		graph:           g,
		block:           g.Entry(),
		visitedBranches: map[*BasicBlock]map[*BasicBlock]bool{},
		visitedTrunks:   map[*BasicBlock]bool{},
	}
	if e.block == nil {
		e.Terminated = true
	}
	return e
}

// Current returns the instruction the execution is sitting on, or false
// if terminated.
func (e *Execution) Current() (model.Instruction, bool) {
	if e.Terminated || e.block == nil || e.index >= len(e.block.Instructions) {
		return model.Instruction{}, false
	}
	return e.block.Instructions[e.index], true
}

// Step advances the execution by one instruction, crossing into the next
// block via nextBlock() when the current block is exhausted.
func (e *Execution) Step() {
	if e.Terminated {
		return
	}
	e.index++
	if e.block == nil || e.index < len(e.block.Instructions) {
		e.maybeInline()
		return
	}
	e.nextBlock()
	if !e.Terminated {
		e.maybeInline()
	}
}

// maybeInline steps into an INVOKESTATIC target when InlineStaticCalls is
// enabled and the call resolves to a single, real, static, same-group
// target. Disabled by default per §9.
func (e *Execution) maybeInline() {
	if !InlineStaticCalls {
		return
	}
	instr, ok := e.Current()
	if !ok || instr.Op != model.OpInvokeStatic {
		return
	}
	target := resolveStaticTarget(instr)
	if target == nil || !target.IsReal() || !target.IsStatic() {
		return
	}
	callerGraph, callerBlock, callerIndex := e.graph, e.block, e.index
	e.returnStack = append(e.returnStack, frame{graph: callerGraph, block: callerBlock, returnIndex: callerIndex + 1})

	e.graph = Build(target.Instructions)
	e.block = e.graph.Entry()
	e.index = 0
	if e.block == nil {
		e.stepOut()
	}
}

func resolveStaticTarget(instr model.Instruction) *model.Method {
	if instr.MethodOwner == nil {
		return nil
	}
	for _, m := range instr.MethodOwner.Methods {
		if m.Name == instr.MethodName && m.Desc == instr.MethodDesc {
			return m
		}
	}
	return nil
}

// stepOut pops a return frame, resuming the caller where it left off.
func (e *Execution) stepOut() {
	if len(e.returnStack) == 0 {
		e.Terminated = true
		return
	}
	top := e.returnStack[len(e.returnStack)-1]
	e.returnStack = e.returnStack[:len(e.returnStack)-1]
	e.graph = top.graph
	e.block = top.block
	e.index = top.returnIndex
}

// nextBlock implements spec §4.4's five-step rule, mutating e.block/e.index
// (or e.Terminated) directly since step 3 (step-out) and the plain
// block-entry cases resume at different indices:
//  1. First unvisited branch of the current block — mark visited, set its
//     trunk, enter it at index 0.
//  2. Else the current block's next, at index 0.
//  3. Else if the return stack is non-empty, step out (resuming the
//     caller at its saved index).
//  4. Else the origin's trunk, if it exists and is unvisited, at index 0.
//  5. Else terminate.
func (e *Execution) nextBlock() {
	cur := e.block
	if cur == nil {
		e.Terminated = true
		return
	}

	visited := e.visitedBranches[cur]
	for _, b := range cur.Branches {
		if visited == nil || !visited[b] {
			if e.visitedBranches[cur] == nil {
				e.visitedBranches[cur] = map[*BasicBlock]bool{}
			}
			e.visitedBranches[cur][b] = true
			b.Trunk = cur
			e.block, e.index = b, 0
			return
		}
	}

	if cur.Next != nil {
		e.block, e.index = cur.Next, 0
		return
	}

	if len(e.returnStack) > 0 {
		e.stepOut()
		return
	}

	if cur.Origin != nil && cur.Origin.Trunk != nil && !e.visitedTrunks[cur.Origin.Trunk] {
		trunk := cur.Origin.Trunk
		e.visitedTrunks[trunk] = true
		e.block, e.index = trunk, 0
		return
	}

	e.Terminated = true
}
