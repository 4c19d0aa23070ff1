package walker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/model"
)

func TestComparableKinds(t *testing.T) {
	require.True(t, Comparable(model.Instruction{Op: model.OpGetField}))
	require.True(t, Comparable(model.Instruction{Op: model.OpLdc}))
	require.True(t, Comparable(model.Instruction{Op: model.OpTableSwitch}))
	require.False(t, Comparable(model.Instruction{Op: model.OpArithmetic}))
	require.False(t, Comparable(model.Instruction{Op: model.OpReturn}))
}

func TestExecuteParallelPausesOnComparablePairs(t *testing.T) {
	instrsA := []model.Instruction{
		{Op: model.OpILoad, Position: 0},
		{Op: model.OpBiPush, Position: 1, IntOperand: 5},
		{Op: model.OpReturn, Position: 2},
	}
	instrsB := []model.Instruction{
		{Op: model.OpILoad, Position: 0},
		{Op: model.OpBiPush, Position: 1, IntOperand: 5},
		{Op: model.OpReturn, Position: 2},
	}
	ea := NewExecution(methodWith(instrsA))
	eb := NewExecution(methodWith(instrsB))

	p := NewParallelExecutor(ea, eb)
	var pairs [][2]model.Opcode
	total := p.ExecuteParallel(func(a, b model.Instruction) bool {
		pairs = append(pairs, [2]model.Opcode{a.Op, b.Op})
		return true
	})

	require.Equal(t, total, len(pairs))
	require.NotEmpty(t, pairs)
	for _, pair := range pairs {
		require.Equal(t, pair[0], pair[1])
	}
}

func TestExecuteParallelStopsWhenConsumerRejects(t *testing.T) {
	instrs := []model.Instruction{
		{Op: model.OpBiPush, Position: 0, IntOperand: 1},
		{Op: model.OpBiPush, Position: 1, IntOperand: 2},
		{Op: model.OpReturn, Position: 2},
	}
	ea := NewExecution(methodWith(instrs))
	eb := NewExecution(methodWith(instrs))

	p := NewParallelExecutor(ea, eb)
	calls := 0
	total := p.ExecuteParallel(func(a, b model.Instruction) bool {
		calls++
		return false
	})
	require.Equal(t, 1, calls)
	require.Equal(t, 1, total)
}
