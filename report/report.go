// Package report renders benchmark results as a markdown comparison document,
// optionally converted to HTML.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/emrusson/ocrbench/evaluate"
	"github.com/emrusson/ocrbench/runstore"
)

// EngineSummary is the rollup for one engine across the corpus.
type EngineSummary struct {
	Engine      string
	Products    int
	Errors      int
	Truncated   int
	Macro       evaluate.Summary
	MeanLatency time.Duration
}

// BottomN is how many worst-scoring products the report lists per engine.
const BottomN = 5

// Markdown renders the comparison document. Engines are ordered by macro F1,
// best first, so the recommendation reads off the top row.
func Markdown(summaries []EngineSummary, scores []runstore.Score) string {
	ordered := make([]EngineSummary, len(summaries))
	copy(ordered, summaries)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Macro.MacroF1 > ordered[j].Macro.MacroF1
	})

	var b strings.Builder
	b.WriteString("# OCR engine benchmark\n\n")
	b.WriteString("Engines ranked by macro F1 over the ground-truth corpus.\n\n")

	b.WriteString("| Engine | Products | Errors | Truncated | Macro P | Macro R | Macro F1 | Micro F1 | Mean latency |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range ordered {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.3f | %.3f | %.3f | %.3f | %s |\n",
			s.Engine, s.Products, s.Errors, s.Truncated,
			s.Macro.MacroPrecision, s.Macro.MacroRecall, s.Macro.MacroF1,
			s.Macro.Micro.F1(), s.MeanLatency.Round(time.Millisecond))
	}
	b.WriteString("\n")

	for _, s := range ordered {
		worst := worstScores(scores, s.Engine, BottomN)
		if len(worst) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s — worst products\n\n", s.Engine)
		b.WriteString("| Code | TP | FP | FN | F1 |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, w := range worst {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %.3f |\n", w.Code, w.TP, w.FP, w.FN, w.F1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML converts a markdown report to standalone HTML via goldmark. The table
// extension is required for the comparison tables.
func HTML(markdown string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// worstScores returns the engine's bottom n products by F1, ties broken by
// code for stable output.
func worstScores(scores []runstore.Score, engine string, n int) []runstore.Score {
	var filtered []runstore.Score
	for _, s := range scores {
		if s.Engine == engine {
			filtered = append(filtered, s)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].F1 != filtered[j].F1 {
			return filtered[i].F1 < filtered[j].F1
		}
		return filtered[i].Code < filtered[j].Code
	})
	if len(filtered) > n {
		filtered = filtered[:n]
	}
	return filtered
}
