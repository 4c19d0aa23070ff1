// Package report renders a completed match run's statistics as a table,
// driving a progress bar during the run and a summary table afterward —
// the reporting surface named as an external collaborator in spec §6,
// here given a concrete (non-core) implementation.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/ruinedyourlife/matchengine/internal/match"
	"github.com/ruinedyourlife/matchengine/internal/model"
)

// Progress wraps a schollz/progressbar/v3 bar sized to the total number
// of real symbols (classes+methods+fields) in the reference group, and
// is advanced externally as passes commit matches.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress builds a progress bar over `total` symbols.
func NewProgress(total int) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stdout) }),
	)
	return &Progress{bar: bar}
}

// Add advances the bar by n matched symbols.
func (p *Progress) Add(n int) { _ = p.bar.Add(n) }

// Table renders a final matched/total breakdown for classes, methods,
// and fields as a table on stdout.
func Table(s match.Stats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Matched", "Total", "Percent"})
	table.Append([]string{"Classes", fmt.Sprint(s.ClassesMatched), fmt.Sprint(s.ClassesTotal), fmt.Sprintf("%.1f%%", s.ClassPercent())})
	table.Append([]string{"Methods", fmt.Sprint(s.MethodsMatched), fmt.Sprint(s.MethodsTotal), fmt.Sprintf("%.1f%%", s.MethodPercent())})
	table.Append([]string{"Fields", fmt.Sprint(s.FieldsMatched), fmt.Sprint(s.FieldsTotal), fmt.Sprintf("%.1f%%", s.FieldPercent())})
	table.Render()
}

// LevelTable renders the per-pass matched-count breakdown of §9's
// supplemented per-level statistics: how many classes/methods/fields
// each of the seed pass and classifier levels contributed.
func LevelTable(s match.Stats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Level", "Classes", "Methods", "Fields"})
	for _, lv := range s.Levels {
		table.Append([]string{lv.Level, fmt.Sprint(lv.Classes), fmt.Sprint(lv.Methods), fmt.Sprint(lv.Fields)})
	}
	table.Render()
}

// AlternativesTable renders every source symbol the classifiers found
// candidates for but rejected as too ambiguous to accept, alongside the
// candidates it could not choose between (§9's "match report with
// alternatives" supplement). Renders nothing if there were none.
func AlternativesTable(s match.Stats) {
	if len(s.Alternatives) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Source", "Candidates"})
	for _, alt := range s.Alternatives {
		table.Append([]string{alt.Kind, alt.Source, strings.Join(alt.Candidates, ", ")})
	}
	table.Render()
}

// UnmatchedTable renders every unmatched real class/method/field name in
// group g, to surface exactly what the mapping writer collaborator will
// leave absent (per §7's user-visible outcome).
func UnmatchedTable(g *model.ClassGroup) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Owner", "Name"})
	for _, c := range g.UnmatchedReal() {
		table.Append([]string{"class", "", c.Name})
		slog.Debug("unmatched symbol", "kind", "class", "name", c.Name)
	}
	for _, c := range g.Real() {
		for _, m := range c.Methods {
			if !m.IsMatched() {
				table.Append([]string{"method", c.Name, m.Name + m.Desc})
				slog.Debug("unmatched symbol", "kind", "method", "name", c.Name+"#"+m.Name+m.Desc)
			}
		}
		for _, f := range c.Fields {
			if !f.IsMatched() {
				table.Append([]string{"field", c.Name, f.Name})
				slog.Debug("unmatched symbol", "kind", "field", "name", c.Name+"#"+f.Name)
			}
		}
	}
	table.Render()
}
