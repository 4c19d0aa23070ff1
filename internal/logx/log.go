// Package logx adapts the driver's structured logging to the matching
// engine's own message vocabulary: class/method/field match events, pass
// and level progress, and fixpoint/summary reporting.
package logx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var Logger *slog.Logger

type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

const maxTraceLength = 80

func truncate(s string) string {
	if len(s) <= maxTraceLength {
		return s
	}
	return s[:maxTraceLength] + "..."
}

type PrettyHandler struct {
	slog.Handler
	l *slog.Logger
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := ""
	switch r.Level {
	case slog.LevelDebug:
		level = color.BlueString("DBG")
	case slog.LevelInfo:
		level = color.GreenString("INF")
	case slog.LevelWarn:
		level = color.YellowString("WRN")
	case slog.LevelError:
		level = color.RedString("ERR")
	}

	var attrs []struct{ k, v string }
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, struct{ k, v string }{a.Key, a.Value.String()})
		return true
	})

	var output string
	switch msg := r.Message; msg {
	case "seeded class match":
		a, b := "", ""
		for _, attr := range attrs {
			switch attr.k {
			case "a":
				a = color.GreenString(attr.v)
			case "b":
				b = color.GreenString(attr.v)
			}
		}
		output = fmt.Sprintf("%s seeded class match: %s -> %s", level, a, b)

	case "class match":
		a, b, lvl := "", "", ""
		var score float64
		for _, attr := range attrs {
			switch attr.k {
			case "a":
				a = color.GreenString(attr.v)
			case "b":
				b = color.GreenString(attr.v)
			case "level":
				lvl = color.BlueString(attr.v)
			case "score":
				score, _ = strconv.ParseFloat(attr.v, 64)
			}
		}
		output = fmt.Sprintf("%s class match [%s]: %s -> %s (score %.3f)", level, lvl, a, b, score)

	case "method match", "field match":
		a, b, owner := "", "", ""
		for _, attr := range attrs {
			switch attr.k {
			case "a":
				a = color.GreenString(attr.v)
			case "b":
				b = color.GreenString(attr.v)
			case "owner":
				owner = color.YellowString(attr.v)
			}
		}
		kind := "method"
		if msg == "field match" {
			kind = "field"
		}
		output = fmt.Sprintf("%s     %s match on %s: %s -> %s", level, kind, owner, a, b)

	case "level summary":
		var lvl string
		var classes, methods, fields string
		for _, attr := range attrs {
			switch attr.k {
			case "level":
				lvl = color.BlueString(attr.v)
			case "classes_matched":
				classes = color.GreenString(attr.v)
			case "methods_matched":
				methods = color.GreenString(attr.v)
			case "fields_matched":
				fields = color.GreenString(attr.v)
			}
		}
		output = fmt.Sprintf("%s Level %s summary: classes=%s methods=%s fields=%s",
			level, lvl, classes, methods, fields)

	case "fixpoint reached":
		var passes string
		for _, attr := range attrs {
			if attr.k == "passes" {
				passes = color.BlueString(attr.v)
			}
		}
		output = fmt.Sprintf("%s fixpoint reached after %s passes", level, passes)

	case "match summary":
		var classPct, methodPct, fieldPct float64
		for _, attr := range attrs {
			switch attr.k {
			case "class_percent":
				classPct, _ = strconv.ParseFloat(attr.v, 64)
			case "method_percent":
				methodPct, _ = strconv.ParseFloat(attr.v, 64)
			case "field_percent":
				fieldPct, _ = strconv.ParseFloat(attr.v, 64)
			}
		}
		output = fmt.Sprintf(`%s Match Summary:
    Classes: %s %.1f%%
    Methods: %s %.1f%%
    Fields:  %s %.1f%%`,
			level,
			progressBar(classPct), classPct,
			progressBar(methodPct), methodPct,
			progressBar(fieldPct), fieldPct,
		)

	case "found potential matches":
		kind, source, candidates := "", "", ""
		for _, attr := range attrs {
			switch attr.k {
			case "kind":
				kind = attr.v
			case "source":
				source = color.YellowString(attr.v)
			case "candidates":
				candidates = color.CyanString(attr.v)
			}
		}
		output = fmt.Sprintf("%s found potential matches for %s %s: %s", level, kind, source, candidates)

	case "unmatched symbol":
		name, kind := "", ""
		for _, attr := range attrs {
			switch attr.k {
			case "name":
				name = color.RedString(attr.v)
			case "kind":
				kind = attr.v
			}
		}
		output = fmt.Sprintf("%s     unmatched %s: %s", level, kind, name)

	default:
		output = fmt.Sprintf("%s %s", level, msg)
		for _, attr := range attrs {
			output += fmt.Sprintf(" %s=%s", color.New(color.Bold).Sprint(attr.k), truncate(strings.TrimSpace(attr.v)))
		}
	}

	_, err := fmt.Fprintln(os.Stdout, output)
	return err
}

func Init(level Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}
	handler := slog.NewTextHandler(os.Stdout, opts)
	pretty := &PrettyHandler{handler, nil}
	Logger = slog.New(pretty)
	pretty.l = Logger
	slog.SetDefault(Logger)
	return Logger
}

func progressBar(percent float64) string {
	width := 30
	completed := int(percent * float64(width) / 100)
	if completed > width {
		completed = width
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(color.GreenString(strings.Repeat("=", completed)))
	if completed < width {
		b.WriteString(color.HiBlackString(strings.Repeat("-", width-completed)))
	}
	b.WriteString("]")
	return b.String()
}
