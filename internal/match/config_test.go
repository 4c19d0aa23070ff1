package match

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/classify"
)

func TestDefaultConfigUsesStrictThresholds(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, classify.DefaultAbsoluteThreshold, cfg.AbsoluteThreshold)
	require.Equal(t, classify.DefaultRelativeThreshold, cfg.RelativeThreshold)
	require.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestDefaultWorkersNeverBelowOne(t *testing.T) {
	want := runtime.GOMAXPROCS(0) - 1
	if want < 1 {
		want = 1
	}
	require.Equal(t, want, defaultWorkers())
}
