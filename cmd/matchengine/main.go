package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ruinedyourlife/matchengine/internal/logx"
	"github.com/ruinedyourlife/matchengine/internal/match"
	"github.com/ruinedyourlife/matchengine/internal/model"
	"github.com/ruinedyourlife/matchengine/internal/parser"
	"github.com/ruinedyourlife/matchengine/internal/report"
)

func main() {
	app := &cli.App{
		Name:      "matchengine",
		Usage:     "recover human-readable names for an obfuscated artifact by matching it against a reference",
		ArgsUsage: "<reference-fixture> <target-fixture>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "export", Usage: "directory to write the resulting mapping to"},
			&cli.StringFlag{Name: "log", Value: "info", Usage: "log level: debug, info, warn, error"},
			&cli.Float64Flag{Name: "absolute", Value: match.DefaultConfig().AbsoluteThreshold, Usage: "ABSOLUTE_MATCHING_THRESHOLD"},
			&cli.Float64Flag{Name: "relative", Value: match.DefaultConfig().RelativeThreshold, Usage: "RELATIVE_MATCHING_THRESHOLD"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return cli.Exit("expected two positional arguments: reference and target fixture paths", 1)
	}

	logx.Init(parseLevel(c.String("log")))

	refPath := c.Args().Get(0)
	targetPath := c.Args().Get(1)

	ref, target, err := parser.LoadPaired(refPath, targetPath)
	if err != nil {
		return fmt.Errorf("loading class groups: %w", err)
	}

	slog.Info("loaded class groups",
		"reference_classes", len(ref.Real()),
		"target_classes", len(target.Real()),
	)

	cfg := match.DefaultConfig()
	cfg.AbsoluteThreshold = c.Float64("absolute")
	cfg.RelativeThreshold = c.Float64("relative")

	progress := report.NewProgress(len(ref.Real()) + len(ref.AllMethods()) + len(ref.AllFields()))
	cfg.OnMatch = func() { progress.Add(1) }

	engine := match.New(ref, target, cfg)
	stats := engine.Run()

	report.Table(stats)
	report.LevelTable(stats)
	report.AlternativesTable(stats)
	report.UnmatchedTable(ref)

	if dir := c.String("export"); dir != "" {
		if err := exportMapping(dir, ref); err != nil {
			return fmt.Errorf("exporting mapping: %w", err)
		}
	}

	return nil
}

func parseLevel(s string) logx.Level {
	switch s {
	case "debug":
		return logx.LevelDebug
	case "warn":
		return logx.LevelWarn
	case "error":
		return logx.LevelError
	default:
		return logx.LevelInfo
	}
}

// mappingEntry is one reference-name -> target-name row of the exported
// mapping. Writing the mapping file's own text format is out of scope
// per spec §6; this JSON rendering is the CLI driver's concrete
// substitute for "the mapping writer collaborator".
type mappingEntry struct {
	Kind       string `json:"kind"`
	Owner      string `json:"owner,omitempty"`
	Reference  string `json:"reference"`
	Target     string `json:"target"`
}

func exportMapping(dir string, ref *model.ClassGroup) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var entries []mappingEntry
	for _, c := range ref.Real() {
		if c.Match != nil {
			entries = append(entries, mappingEntry{Kind: "class", Reference: c.Name, Target: c.Match.Name})
		}
		for _, m := range c.Methods {
			if m.Match != nil {
				entries = append(entries, mappingEntry{Kind: "method", Owner: c.Name, Reference: m.Name + m.Desc, Target: m.Match.Name + m.Match.Desc})
			}
		}
		for _, f := range c.Fields {
			if f.Match != nil {
				entries = append(entries, mappingEntry{Kind: "field", Owner: c.Name, Reference: f.Name, Target: f.Match.Name})
			}
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "mapping.json"), data, 0o644)
}
