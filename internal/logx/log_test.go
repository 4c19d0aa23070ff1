package logx

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestTruncateLeavesShortStringsAlone(t *testing.T) {
	require.Equal(t, "short", truncate("short"))
}

func TestTruncateClipsLongStrings(t *testing.T) {
	s := strings.Repeat("x", maxTraceLength+10)
	got := truncate(s)
	require.True(t, strings.HasSuffix(got, "..."))
	require.Equal(t, maxTraceLength+3, len(got))
}

func TestProgressBarFullAndEmpty(t *testing.T) {
	color.NoColor = true
	require.Equal(t, "["+strings.Repeat("=", 30)+"]", progressBar(100))
	require.Equal(t, "["+strings.Repeat("-", 30)+"]", progressBar(0))
}

func TestProgressBarPartial(t *testing.T) {
	color.NoColor = true
	got := progressBar(50)
	require.Equal(t, "["+strings.Repeat("=", 15)+strings.Repeat("-", 15)+"]", got)
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	return string(buf[:n])
}

func TestInitRoutesLoggedMessagesThroughPrettyHandler(t *testing.T) {
	color.NoColor = true
	logger := Init(LevelInfo)
	out := captureStdout(t, func() {
		logger.Info("seeded class match", "a", "Foo", "b", "Bar")
	})
	require.Contains(t, out, "seeded class match: Foo -> Bar")
}
