package bytecode

import (
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

// InstructionSimilarity is compareLists over Equal, per §4.3. Methods
// without a body available (non-real methods — synthetic stand-ins for
// platform library code) vacuously compare equal.
func InstructionSimilarity(a, b *model.Method) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	if !a.IsReal() || !b.IsReal() {
		return 1.0
	}
	return similarity.CompareLists(a.Instructions, b.Instructions, Equal)
}
