// Package match implements the top-level matcher orchestration of spec
// §4.6: seeding, iterative per-level refinement across four classifier
// levels, conflict resolution, transitive match-commit propagation, and
// fixpoint detection.
package match

import (
	"runtime"

	"github.com/ruinedyourlife/matchengine/internal/classify"
)

// Config holds the engine's process-wide tunables, read once at startup
// per spec §6.
type Config struct {
	// AbsoluteThreshold and RelativeThreshold are foundMatch's acceptance
	// gate parameters (§4.2). Defaults to the strict (0.25, 0.025) pair
	// per §9's resolved open question.
	AbsoluteThreshold float64
	RelativeThreshold float64

	// Workers bounds the worker pool size for each pass. Defaults to
	// max(1, runtime.GOMAXPROCS(0)-1) per §5.
	Workers int

	// OnMatch, if set, is called once for every class, method, or field
	// match committed during Run — the hook a caller uses to drive a
	// live progress display externally, per §6's reporting surface.
	OnMatch func()
}

// DefaultConfig returns the strict configuration.
func DefaultConfig() Config {
	return Config{
		AbsoluteThreshold: classify.DefaultAbsoluteThreshold,
		RelativeThreshold: classify.DefaultRelativeThreshold,
		Workers:           defaultWorkers(),
	}
}

func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0) - 1
	if n < 1 {
		n = 1
	}
	return n
}
