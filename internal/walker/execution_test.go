package walker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/model"
)

func methodWith(instrs []model.Instruction) *model.Method {
	owner := model.NewClass("Owner", 0, true)
	m := model.NewMethod(owner, "run", "()V", 0)
	m.Instructions = instrs
	owner.Methods = append(owner.Methods, m)
	return m
}

func TestExecutionWalksStraightLine(t *testing.T) {
	m := methodWith([]model.Instruction{
		{Op: model.OpILoad, Position: 0},
		{Op: model.OpReturn, Position: 1},
	})
	e := NewExecution(m)
	require.False(t, e.Terminated)

	instr, ok := e.Current()
	require.True(t, ok)
	require.Equal(t, model.OpILoad, instr.Op)

	e.Step()
	instr, ok = e.Current()
	require.True(t, ok)
	require.Equal(t, model.OpReturn, instr.Op)

	e.Step()
	_, ok = e.Current()
	require.False(t, ok)
	require.True(t, e.Terminated)
}

func TestExecutionPrefersBranchOverFallthrough(t *testing.T) {
	m := methodWith(buildIfElse())
	e := NewExecution(m)

	var visited []model.Opcode
	steps := 0
	for !e.Terminated && steps < 100 {
		if instr, ok := e.Current(); ok {
			visited = append(visited, instr.Op)
		}
		e.Step()
		steps++
	}
	require.True(t, e.Terminated, "walk must terminate on this acyclic method")

	// nextBlock's step 1 tries the current block's first unvisited branch
	// before its fallthrough Next, so the IFEQ's branch target (ICONST) is
	// taken immediately and the GOTO block is never reached from here.
	require.Equal(t, []model.Opcode{model.OpILoad, model.OpIfEq, model.OpIConst, model.OpReturn}, visited)
}

func TestExecutionEmptyMethodTerminatesImmediately(t *testing.T) {
	m := methodWith(nil)
	e := NewExecution(m)
	require.True(t, e.Terminated)
	_, ok := e.Current()
	require.False(t, ok)
}

func TestMaybeInlineDisabledByDefault(t *testing.T) {
	require.False(t, InlineStaticCalls)

	owner := model.NewClass("Owner", 0, true)
	target := model.NewMethod(owner, "helper", "()V", model.AccStatic)
	target.Instructions = []model.Instruction{{Op: model.OpReturn, Position: 0}}
	owner.Methods = append(owner.Methods, target)

	caller := model.NewMethod(owner, "run", "()V", 0)
	caller.Instructions = []model.Instruction{
		{Op: model.OpNop, Position: 0},
		{Op: model.OpInvokeStatic, Position: 1, MethodOwner: owner, MethodName: "helper", MethodDesc: "()V"},
		{Op: model.OpReturn, Position: 2},
	}
	owner.Methods = append(owner.Methods, caller)

	e := NewExecution(caller)
	e.Step() // index 0 -> 1, sitting on the INVOKESTATIC
	require.Empty(t, e.returnStack, "inlining must not trigger while the flag is off")
	instr, ok := e.Current()
	require.True(t, ok)
	require.Equal(t, model.OpInvokeStatic, instr.Op)
}

func TestStepOutResumesCallerAtSavedIndex(t *testing.T) {
	InlineStaticCalls = true
	defer func() { InlineStaticCalls = false }()

	owner := model.NewClass("Owner", 0, true)
	target := model.NewMethod(owner, "helper", "()V", model.AccStatic)
	target.Instructions = []model.Instruction{{Op: model.OpReturn, Position: 0}}
	owner.Methods = append(owner.Methods, target)

	caller := model.NewMethod(owner, "run", "()V", 0)
	caller.Instructions = []model.Instruction{
		{Op: model.OpNop, Position: 0},
		{Op: model.OpInvokeStatic, Position: 1, MethodOwner: owner, MethodName: "helper", MethodDesc: "()V"},
		{Op: model.OpReturn, Position: 2},
	}
	owner.Methods = append(owner.Methods, caller)

	e := NewExecution(caller)
	e.Step() // index 0 -> 1, which inlines into target's entry block
	instr, ok := e.Current()
	require.True(t, ok)
	require.Equal(t, model.OpReturn, instr.Op, "must have descended into the callee")
	require.Len(t, e.returnStack, 1)

	e.Step() // steps past target's RETURN, stepping out to resume the caller
	require.False(t, e.Terminated)
	instr, ok = e.Current()
	require.True(t, ok)
	require.Equal(t, model.OpReturn, instr.Op, "must resume caller at instruction 2, not re-enter at 0")
	require.Empty(t, e.returnStack)
}
