package match

// LevelBreakdown records how many matches of each kind were committed
// during one pass of the orchestration (the seed pass, or one of the
// four classifier levels) — the per-level statistics breakdown of §9,
// which spec.md's own statistics section only gestures at.
type LevelBreakdown struct {
	Level                    string
	Classes, Methods, Fields int
}

// Alternative records a source symbol the classifiers found candidates
// for but rejected as too ambiguous to accept (foundMatch's relative-
// threshold branch): the best-scoring candidates it could not choose
// between, per §9's "match report with alternatives" supplement.
type Alternative struct {
	Kind       string
	Source     string
	Candidates []string
	Scores     []float64
}

// Stats summarizes a completed run: matched/total counts for each symbol
// kind, per §4.6 step 4 and §7's user-visible outcome.
type Stats struct {
	ClassesMatched, ClassesTotal int
	MethodsMatched, MethodsTotal int
	FieldsMatched, FieldsTotal   int

	Levels       []LevelBreakdown
	Alternatives []Alternative
}

// ClassPercent, MethodPercent, FieldPercent return matched/total as a
// percentage in [0, 100], or 100 when total is zero (vacuously complete).
func (s Stats) ClassPercent() float64  { return percent(s.ClassesMatched, s.ClassesTotal) }
func (s Stats) MethodPercent() float64 { return percent(s.MethodsMatched, s.MethodsTotal) }
func (s Stats) FieldPercent() float64  { return percent(s.FieldsMatched, s.FieldsTotal) }

func percent(matched, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return 100.0 * float64(matched) / float64(total)
}

func (e *Engine) stats() Stats {
	var s Stats
	for _, c := range e.A.Real() {
		s.ClassesTotal++
		if c.IsMatched() {
			s.ClassesMatched++
		}
		for _, m := range c.Methods {
			s.MethodsTotal++
			if m.IsMatched() {
				s.MethodsMatched++
			}
		}
		for _, f := range c.Fields {
			s.FieldsTotal++
			if f.IsMatched() {
				s.FieldsMatched++
			}
		}
	}
	return s
}
