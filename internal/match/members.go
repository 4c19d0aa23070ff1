package match

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/ruinedyourlife/matchengine/internal/bytecode"
	"github.com/ruinedyourlife/matchengine/internal/classify"
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

// matchMethods runs one matchMethods(level, staticOnly) pass of §4.6:
// same shape as matchClasses, scoped to same-staticness members.
func (e *Engine) matchMethods(level classify.Level, staticOnly bool) bool {
	sources := e.unmatched.methodsOf(e.A, staticOnly)
	candidates := e.unmatched.methodsOf(e.B, staticOnly)
	if len(sources) == 0 || len(candidates) == 0 {
		return false
	}

	maxScore := classify.MaxScore(classify.MethodRegistry, level)
	maxMismatch := classify.MaxMismatch(maxScore, e.cfg.AbsoluteThreshold, e.cfg.RelativeThreshold)

	type result struct {
		source *model.Method
		dest   *model.Method
		alt    *Alternative
	}

	p := pool.NewWithResults[*result]().WithMaxGoroutines(e.cfg.Workers)
	for _, s := range sources {
		s := s
		p.Go(func() *result {
			ranked := classify.Rank(s, candidates, classify.MethodRegistry, level, similarity.PotentiallyEqualMethods, maxMismatch)
			best, ok := classify.FoundMatch(ranked, maxScore, e.cfg.AbsoluteThreshold, e.cfg.RelativeThreshold)
			if !ok {
				if alt := ambiguousAlternatives("method", s.Name, ranked, maxScore, e.cfg.AbsoluteThreshold, methodNameOf); alt != nil {
					return &result{alt: alt}
				}
				return nil
			}
			// §4.4's execution walker validates the classifier's pick: walk
			// both bodies in lockstep and reject a candidate whose
			// comparable instructions disagree anywhere along the way.
			if !bytecode.BodiesAgree(s, best) {
				return nil
			}
			return &result{source: s, dest: best}
		})
	}
	results := p.Wait()

	proposed := map[*model.Method]*model.Method{}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.alt != nil {
			e.alternatives = append(e.alternatives, *r.alt)
			logAlternative(*r.alt)
			continue
		}
		proposed[r.source] = r.dest
	}
	proposed = resolveConflicts(proposed)

	added := false
	for src, dst := range proposed {
		e.commitMethodMatch(src, dst, true)
		added = true
	}
	return added
}

// matchFields runs one matchFields(level, staticOnly) pass of §4.6.
func (e *Engine) matchFields(level classify.Level, staticOnly bool) bool {
	sources := e.unmatched.fieldsOf(e.A, staticOnly)
	candidates := e.unmatched.fieldsOf(e.B, staticOnly)
	if len(sources) == 0 || len(candidates) == 0 {
		return false
	}

	maxScore := classify.MaxScore(classify.FieldRegistry, level)
	maxMismatch := classify.MaxMismatch(maxScore, e.cfg.AbsoluteThreshold, e.cfg.RelativeThreshold)

	type result struct {
		source *model.Field
		dest   *model.Field
		alt    *Alternative
	}

	p := pool.NewWithResults[*result]().WithMaxGoroutines(e.cfg.Workers)
	for _, s := range sources {
		s := s
		p.Go(func() *result {
			ranked := classify.Rank(s, candidates, classify.FieldRegistry, level, similarity.PotentiallyEqualFields, maxMismatch)
			best, ok := classify.FoundMatch(ranked, maxScore, e.cfg.AbsoluteThreshold, e.cfg.RelativeThreshold)
			if !ok {
				if alt := ambiguousAlternatives("field", s.Name, ranked, maxScore, e.cfg.AbsoluteThreshold, fieldNameOf); alt != nil {
					return &result{alt: alt}
				}
				return nil
			}
			return &result{source: s, dest: best}
		})
	}
	results := p.Wait()

	proposed := map[*model.Field]*model.Field{}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.alt != nil {
			e.alternatives = append(e.alternatives, *r.alt)
			logAlternative(*r.alt)
			continue
		}
		proposed[r.source] = r.dest
	}
	proposed = resolveConflicts(proposed)

	added := false
	for src, dst := range proposed {
		e.commitFieldMatch(src, dst)
		added = true
	}
	return added
}

func methodNameOf(m *model.Method) string { return m.Name }
func fieldNameOf(f *model.Field) string   { return f.Name }
