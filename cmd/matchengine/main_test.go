package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/logx"
	"github.com/ruinedyourlife/matchengine/internal/model"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, logx.LevelDebug, parseLevel("debug"))
	require.Equal(t, logx.LevelWarn, parseLevel("warn"))
	require.Equal(t, logx.LevelError, parseLevel("error"))
	require.Equal(t, logx.LevelInfo, parseLevel("info"))
	require.Equal(t, logx.LevelInfo, parseLevel("nonsense"), "unknown levels default to info")
}

func TestExportMappingWritesMatchedEntriesOnly(t *testing.T) {
	ref := model.NewClassGroup()
	matched := model.NewClass("com/example/Widget", 0, true)
	matched.Match = model.NewClass("a", 0, true)
	unmatched := model.NewClass("com/example/Gadget", 0, true)
	ref.Add(matched)
	ref.Add(unmatched)

	mm := model.NewMethod(matched, "run", "()V", 0)
	mm.Match = model.NewMethod(matched.Match, "a", "()V", 0)
	matched.Methods = append(matched.Methods, mm)

	dir := t.TempDir()
	require.NoError(t, exportMapping(dir, ref))

	data, err := os.ReadFile(filepath.Join(dir, "mapping.json"))
	require.NoError(t, err)

	var entries []mappingEntry
	require.NoError(t, json.Unmarshal(data, &entries))

	var classNames []string
	for _, e := range entries {
		if e.Kind == "class" {
			classNames = append(classNames, e.Reference)
		}
	}
	require.Contains(t, classNames, "com/example/Widget")
	require.NotContains(t, classNames, "com/example/Gadget")
}
