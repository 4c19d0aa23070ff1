package report

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/match"
	"github.com/ruinedyourlife/matchengine/internal/model"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old

	buf := make([]byte, 8192)
	n, _ := r.Read(buf)
	return string(buf[:n])
}

func TestTableRendersSymbolBreakdown(t *testing.T) {
	s := match.Stats{ClassesMatched: 3, ClassesTotal: 4, MethodsMatched: 8, MethodsTotal: 10, FieldsMatched: 1, FieldsTotal: 2}
	out := captureStdout(t, func() { Table(s) })
	require.Contains(t, out, "Classes")
	require.Contains(t, out, "Methods")
	require.Contains(t, out, "Fields")
	require.Contains(t, out, "75.0")
}

func TestUnmatchedTableListsUnmatchedSymbols(t *testing.T) {
	g := model.NewClassGroup()
	unmatched := model.NewClass("aa", 0, true)
	matched := model.NewClass("bb", 0, true)
	matched.Match = model.NewClass("bb2", 0, true)
	g.Add(unmatched)
	g.Add(matched)

	m := model.NewMethod(unmatched, "run", "()V", 0)
	unmatched.Methods = append(unmatched.Methods, m)
	f := model.NewField(unmatched, "x", "I", 0)
	unmatched.Fields = append(unmatched.Fields, f)

	out := captureStdout(t, func() { UnmatchedTable(g) })
	require.True(t, strings.Contains(out, "aa"))
	require.False(t, strings.Contains(out, "bb2"), "matched class must not be listed as unmatched")
}

func TestProgressAddDoesNotPanic(t *testing.T) {
	p := NewProgress(10)
	require.NotPanics(t, func() { p.Add(3) })
}
