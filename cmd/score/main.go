// Command score normalizes cached detections against ground truth, computes
// per-product precision/recall/F1, and writes the scores CSV plus the
// comparison report.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/emrusson/ocrbench/dataset"
	"github.com/emrusson/ocrbench/evaluate"
	"github.com/emrusson/ocrbench/normalize"
	"github.com/emrusson/ocrbench/observability"
	"github.com/emrusson/ocrbench/report"
	"github.com/emrusson/ocrbench/runstore"
)

type options struct {
	truthPath      string
	detectionsPath string
	scoresPath     string
	reportPath     string
	htmlPath       string
	minSimilarity  float64
	skipTruncated  bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: score [flags] <ground-truth.csv>\n")
		flag.PrintDefaults()
	}
	detections := flag.String("detections", "detections.csv", "Detections CSV produced by detect")
	scores := flag.String("scores", "scores.csv", "Per-product scores CSV to write")
	reportPath := flag.String("report", "report.md", "Markdown comparison report to write")
	htmlPath := flag.String("html", "", "Optional HTML report path")
	minSim := flag.Float64("min-similarity", 0.8, "Levenshtein similarity threshold for fuzzy token credit")
	skipTruncated := flag.Bool("skip-truncated", false, "Exclude rows the engine flagged as truncated")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing ground-truth csv path")
	}
	opts.truthPath = flag.Arg(0)
	opts.detectionsPath = *detections
	opts.scoresPath = *scores
	opts.reportPath = *reportPath
	opts.htmlPath = *htmlPath
	opts.minSimilarity = *minSim
	opts.skipTruncated = *skipTruncated
	if opts.minSimilarity < 0 || opts.minSimilarity > 1 {
		return options{}, fmt.Errorf("min-similarity must be in [0,1], got %v", opts.minSimilarity)
	}
	return opts, nil
}

// engineTally accumulates per-engine rollup state while scoring rows.
type engineTally struct {
	outcomes  []evaluate.Outcome
	errors    int
	truncated int
	latency   time.Duration
	rows      int
}

func run(opts options) error {
	logger := observability.NewSlogLogger(slog.Default())

	products, err := dataset.Load(opts.truthPath, logger)
	if err != nil {
		return err
	}
	index, err := runstore.LoadDetections(opts.detectionsPath)
	if err != nil {
		return err
	}
	if len(index) == 0 {
		return fmt.Errorf("no detections in %s; run detect first", opts.detectionsPath)
	}

	rules := normalize.DefaultRules()
	truthByCode := make(map[string][]string, len(products))
	for _, p := range products {
		truthByCode[p.Code] = dataset.TruthTokens(p, rules)
	}

	tallies := make(map[string]*engineTally)
	var scores []runstore.Score
	for _, d := range index {
		truth, ok := truthByCode[d.Code]
		if !ok {
			logger.Warn("detection without ground truth, skipping",
				observability.String("code", d.Code),
				observability.String("engine", d.Engine))
			continue
		}
		tally := tallies[d.Engine]
		if tally == nil {
			tally = &engineTally{}
			tallies[d.Engine] = tally
		}
		if d.Err != "" {
			tally.errors++
			continue
		}
		if d.Truncated {
			tally.truncated++
			if opts.skipTruncated {
				continue
			}
		}

		pred := normalize.Tokens(d.Text, rules)
		outcome := evaluate.Match(pred, truth, opts.minSimilarity)
		tally.outcomes = append(tally.outcomes, outcome)
		tally.latency += time.Duration(d.DurationMS) * time.Millisecond
		tally.rows++
		scores = append(scores, runstore.Score{
			Code:      d.Code,
			Engine:    d.Engine,
			TP:        outcome.TP,
			FP:        outcome.FP,
			FN:        outcome.FN,
			Precision: outcome.Precision(),
			Recall:    outcome.Recall(),
			F1:        outcome.F1(),
		})
	}

	summaries := make([]report.EngineSummary, 0, len(tallies))
	for engine, tally := range tallies {
		s := report.EngineSummary{
			Engine:    engine,
			Products:  tally.rows,
			Errors:    tally.errors,
			Truncated: tally.truncated,
			Macro:     evaluate.Aggregate(tally.outcomes),
		}
		if tally.rows > 0 {
			s.MeanLatency = tally.latency / time.Duration(tally.rows)
		}
		summaries = append(summaries, s)
		logger.Info("engine scored",
			observability.String("engine", engine),
			observability.Int("products", s.Products),
			observability.Int("errors", s.Errors),
			observability.Float64("macro_f1", s.Macro.MacroF1))
	}

	if err := runstore.SaveScores(opts.scoresPath, scores); err != nil {
		return err
	}
	md := report.Markdown(summaries, scores)
	if err := os.WriteFile(opts.reportPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if opts.htmlPath != "" {
		html, err := report.HTML(md)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.htmlPath, html, 0o644); err != nil {
			return fmt.Errorf("write html report: %w", err)
		}
	}
	logger.Info("score complete",
		observability.Int("scores", len(scores)),
		observability.String("report", opts.reportPath))
	return nil
}
