package match

import (
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/ruinedyourlife/matchengine/internal/classify"
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/similarity"
)

// Engine holds the two class groups under match and the tunables driving
// a single run. It is not safe for concurrent Run calls on the same
// instance, but a single run parallelizes each pass internally.
type Engine struct {
	A, B *model.ClassGroup
	cfg  Config

	ix        *ids
	unmatched *unmatchedSets

	levels       []LevelBreakdown
	alternatives []Alternative
}

// New builds an engine over two parsed class groups with the given
// config.
func New(a, b *model.ClassGroup, cfg Config) *Engine {
	ix := newIDs()
	return &Engine{
		A:         a,
		B:         b,
		cfg:       cfg,
		ix:        ix,
		unmatched: newUnmatchedSets(ix, a, b),
	}
}

// Run executes the full orchestration of spec §4.6 and returns summary
// statistics.
func (e *Engine) Run() Stats {
	before := e.stats()
	e.seedSynthetic()
	e.seed()
	afterSeed := e.stats()
	e.recordLevel("seed", before, afterSeed)
	prev := afterSeed

	if e.matchClasses(classify.Initial) {
		e.matchClasses(classify.Initial)
	}
	afterInitial := e.stats()
	e.recordLevel(classify.Initial.String(), prev, afterInitial)
	prev = afterInitial

	for level := classify.Secondary; level <= classify.Extra; level++ {
		passes := 0
		for {
			memberAdds := 0
			memberAdds += count(e.matchMethods(level, true))
			memberAdds += count(e.matchFields(level, true))
			memberAdds += count(e.matchMethods(level, false))
			memberAdds += count(e.matchFields(level, false))

			classAdds := e.matchClasses(level)
			passes++

			if memberAdds == 0 && !classAdds {
				slog.Info("fixpoint reached", "level", level.String(), "passes", passes)
				break
			}
		}
		s := e.stats()
		slog.Info("level summary", "level", level.String(),
			"classes_matched", s.ClassesMatched, "methods_matched", s.MethodsMatched, "fields_matched", s.FieldsMatched)
		e.recordLevel(level.String(), prev, s)
		prev = s
	}

	final := e.stats()
	final.Levels = e.levels
	final.Alternatives = e.alternatives
	slog.Info("match summary",
		"class_percent", final.ClassPercent(),
		"method_percent", final.MethodPercent(),
		"field_percent", final.FieldPercent(),
	)
	return final
}

// recordLevel appends the per-kind delta between two stats snapshots as
// one pass's contribution to the level breakdown, per §9.
func (e *Engine) recordLevel(name string, before, after Stats) {
	e.levels = append(e.levels, LevelBreakdown{
		Level:   name,
		Classes: after.ClassesMatched - before.ClassesMatched,
		Methods: after.MethodsMatched - before.MethodsMatched,
		Fields:  after.FieldsMatched - before.FieldsMatched,
	})
}

// notifyMatch fires the optional progress hook. All of commitClassMatch,
// commitMethodMatch, and commitFieldMatch run on the sequential
// aggregation path after each pass's parallel ranking phase completes,
// never inside a worker goroutine, so this needs no synchronization.
func (e *Engine) notifyMatch() {
	if e.cfg.OnMatch != nil {
		e.cfg.OnMatch()
	}
}

func count(added bool) int {
	if added {
		return 1
	}
	return 0
}

// seedSynthetic implements §3/§8's "a synthetic class matches itself"
// invariant: every synthetic class (a referenced-but-undeclared platform
// or library class the parser stood in, never a real obfuscation target)
// is its own match, unconditionally and before any other pass runs. This
// is what lets classifiers comparing class-ref/return-type/arg-type sets
// via PotentiallyEqualClasses recognize two references to the same
// synthetic class (e.g. java/lang/Object) as equal, the same way a real
// class match does, without the synthetic pass itself ever being
// ambiguous or contested.
func (e *Engine) seedSynthetic() {
	for _, c := range e.A.Synthetic() {
		if !c.IsMatched() {
			c.Match = c
		}
	}
	for _, c := range e.B.Synthetic() {
		if !c.IsMatched() {
			c.Match = c
		}
	}
}

// seed implements §4.6 step 1: match same-named non-obfuscated real
// classes across groups, then propagate into non-obfuscated-named
// members and override-linked members.
func (e *Engine) seed() {
	byName := make(map[string]*model.Class, len(e.B.Classes))
	for _, c := range e.B.Real() {
		byName[c.Name] = c
	}
	for _, a := range e.A.Real() {
		if a.IsMatched() || model.IsObfuscatedName(a.Name) {
			continue
		}
		b, ok := byName[a.Name]
		if !ok || b.IsMatched() {
			continue
		}
		slog.Debug("seeded class match", "a", a.Name, "b", b.Name)
		e.commitClassMatch(a, b)
	}
}

// commitClassMatch sets the symmetric match back-reference and runs the
// transitive member-matching side effects of §4.6's match-commit rules.
func (e *Engine) commitClassMatch(a, b *model.Class) {
	if a.IsMatched() || b.IsMatched() {
		return
	}
	a.Match = b
	b.Match = a
	a.InvalidateClosure()
	b.InvalidateClosure()
	e.unmatched.markClassMatched(e.A, a)
	e.unmatched.markClassMatched(e.B, b)
	e.notifyMatch()

	for _, ma := range a.Methods {
		if ma.IsMatched() || model.IsObfuscatedName(ma.Name) {
			continue
		}
		for _, mb := range b.Methods {
			if mb.Name == ma.Name && mb.Desc == ma.Desc && !mb.IsMatched() {
				e.commitMethodMatch(ma, mb, true)
				break
			}
		}
	}
	for _, fa := range a.Fields {
		if fa.IsMatched() || model.IsObfuscatedName(fa.Name) {
			continue
		}
		for _, fb := range b.Fields {
			if fb.Name == fa.Name && fb.Desc == fa.Desc && !fb.IsMatched() {
				e.commitFieldMatch(fa, fb)
				break
			}
		}
	}
}

// commitMethodMatch sets the match back-reference and, if matchHierarchy
// is true, walks the override set to match hierarchy counterparts,
// recursing with matchHierarchy=false to guard against infinite
// recursion (per §9).
func (e *Engine) commitMethodMatch(a, b *model.Method, matchHierarchy bool) {
	if a.IsMatched() || b.IsMatched() {
		return
	}
	a.Match = b
	b.Match = a
	e.unmatched.markMethodMatched(e.A, a)
	e.unmatched.markMethodMatched(e.B, b)
	e.notifyMatch()
	slog.Debug("method match", "a", a.Name+a.Desc, "b", b.Name+b.Desc, "owner", a.Owner.Name)

	if !matchHierarchy {
		return
	}
	for oa := range a.Overrides {
		if oa.IsMatched() {
			continue
		}
		for ob := range b.Overrides {
			if ob.IsMatched() || ob.Name != oa.Name || ob.Desc != oa.Desc {
				continue
			}
			e.commitMethodMatch(oa, ob, false)
			break
		}
	}
}

func (e *Engine) commitFieldMatch(a, b *model.Field) {
	if a.IsMatched() || b.IsMatched() {
		return
	}
	a.Match = b
	b.Match = a
	e.unmatched.markFieldMatched(e.A, a)
	e.unmatched.markFieldMatched(e.B, b)
	e.notifyMatch()
	slog.Debug("field match", "a", a.Name, "b", b.Name, "owner", a.Owner.Name)

	for oa := range a.Overrides {
		if oa.IsMatched() {
			continue
		}
		for ob := range b.Overrides {
			if ob.IsMatched() || ob.Name != oa.Name || ob.Desc != oa.Desc {
				continue
			}
			e.commitFieldMatch(oa, ob)
			break
		}
	}
}

// matchClasses runs one matchClasses(level) pass per §4.6/§4.6's
// description: unmatched real A classes as sources, unmatched real B
// classes as candidates, ranked in parallel, foundMatch-gated, conflict
// resolved, then committed. Returns whether it added any matches.
func (e *Engine) matchClasses(level classify.Level) bool {
	sources := e.unmatched.classesOf(e.A)
	candidates := e.unmatched.classesOf(e.B)
	if len(sources) == 0 || len(candidates) == 0 {
		return false
	}

	// Warm the hierarchy-closure cache serially: §5 requires the worker
	// phase to be strictly read-only, but HierarchyClosure lazily
	// memoizes, so every source/candidate must be touched once up front
	// to avoid concurrent cache writes on a shared class.
	for _, c := range sources {
		c.HierarchyClosure()
	}
	for _, c := range candidates {
		c.HierarchyClosure()
	}

	maxScore := classify.MaxScore(classify.ClassRegistry, level)
	maxMismatch := classify.MaxMismatch(maxScore, e.cfg.AbsoluteThreshold, e.cfg.RelativeThreshold)

	type result struct {
		source *model.Class
		dest   *model.Class
		score  float64
		alt    *Alternative
	}

	p := pool.NewWithResults[*result]().WithMaxGoroutines(e.cfg.Workers)
	for _, s := range sources {
		s := s
		p.Go(func() *result {
			ranked := classify.Rank(s, candidates, classify.ClassRegistry, level, similarity.PotentiallyEqualClasses, maxMismatch)
			best, ok := classify.FoundMatch(ranked, maxScore, e.cfg.AbsoluteThreshold, e.cfg.RelativeThreshold)
			if !ok {
				if alt := ambiguousAlternatives("class", s.Name, ranked, maxScore, e.cfg.AbsoluteThreshold, classNameOf); alt != nil {
					return &result{alt: alt}
				}
				return nil
			}
			return &result{source: s, dest: best, score: ranked[0].Score / maxScore}
		})
	}
	results := p.Wait()

	proposed := map[*model.Class]*model.Class{}
	scores := map[*model.Class]float64{}
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
		scores[r.source] = r.score
	}
	proposed = resolveConflicts(proposed)

	added := false
	for src, dst := range proposed {
		slog.Debug("class match", "a", src.Name, "b", dst.Name, "level", level.String(), "score", scores[src])
		e.commitClassMatch(src, dst)
		added = true
	}
	return added
}

func classNameOf(c *model.Class) string { return c.Name }

// logAlternative surfaces a found-but-ambiguous candidate set, the
// §9-supplemented counterpart of the per-match slog.Debug calls above.
func logAlternative(alt Alternative) {
	slog.Debug("found potential matches",
		"kind", alt.Kind,
		"source", alt.Source,
		"candidates", strings.Join(alt.Candidates, ", "),
	)
}

// ambiguousAlternatives builds an Alternative when foundMatch rejected a
// source not because its best candidate scored too low, but because the
// runner-up was too close to call (the relative-threshold branch) — §9's
// "match report with alternatives" supplement. Returns nil when there is
// nothing ambiguous to report (no candidates, or the best one simply
// failed the absolute floor).
func ambiguousAlternatives[T any](kind, sourceName string, ranked []classify.RankResult[T], maxScore, absolute float64, nameOf func(T) string) *Alternative {
	if len(ranked) < 2 || maxScore <= 0 {
		return nil
	}
	s1 := ranked[0].Score / maxScore
	s1 *= s1
	if s1 < absolute {
		return nil
	}
	const topK = 3
	k := topK
	if k > len(ranked) {
		k = len(ranked)
	}
	alt := &Alternative{Kind: kind, Source: sourceName}
	for _, r := range ranked[:k] {
		alt.Candidates = append(alt.Candidates, nameOf(r.Subject))
		alt.Scores = append(alt.Scores, r.Score/maxScore)
	}
	return alt
}

// resolveConflicts drops every source entry whose destination is claimed
// by more than one source, per §4.6's conflict-resolution rule.
func resolveConflicts[S, D comparable](proposed map[S]D) map[S]D {
	destCount := map[D]int{}
	for _, d := range proposed {
		destCount[d]++
	}
	out := map[S]D{}
	for s, d := range proposed {
		if destCount[d] > 1 {
			continue
		}
		out[s] = d
	}
	return out
}
