// Command fetch downloads ingredient-panel images for every ground-truth row
// into the local image cache. Already-cached images are skipped, so the
// command is safe to rerun after partial failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/emrusson/ocrbench/dataset"
	"github.com/emrusson/ocrbench/observability"
)

type options struct {
	truthPath string
	cacheDir  string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: fetch [flags] <ground-truth.csv>\n")
		flag.PrintDefaults()
	}
	cacheDir := flag.String("cache", "images", "Directory for downloaded product images")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing ground-truth csv path")
	}
	opts.truthPath = flag.Arg(0)
	opts.cacheDir = *cacheDir
	return opts, nil
}

func run(opts options) error {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	logger := observability.NewSlogLogger(slog.Default())

	products, err := dataset.Load(opts.truthPath, logger)
	if err != nil {
		return err
	}
	logger.Info("ground truth loaded",
		observability.Int("products", len(products)),
		observability.String("cache", opts.cacheDir))

	fetcher := dataset.NewFetcher(opts.cacheDir, logger)
	ctx := context.Background()

	fetched, failed := 0, 0
	for i := range products {
		if err := fetcher.FetchImage(ctx, &products[i]); err != nil {
			failed++
			logger.Warn("fetch failed",
				observability.String("code", products[i].Code),
				observability.Error("error", err))
			continue
		}
		fetched++
	}

	logger.Info("fetch complete",
		observability.Int("fetched", fetched),
		observability.Int("failed", failed))
	if fetched == 0 && len(products) > 0 {
		return fmt.Errorf("no images fetched out of %d products", len(products))
	}
	return nil
}
