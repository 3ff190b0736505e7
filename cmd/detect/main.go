// Command detect runs one or more OCR engines over the cached product images
// and records raw detections in the detections CSV. Rows whose image digest
// already has a successful cached detection are skipped, so interrupted runs
// resume where they stopped.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/emrusson/ocrbench/dataset"
	"github.com/emrusson/ocrbench/observability"
	"github.com/emrusson/ocrbench/ocr"
	"github.com/emrusson/ocrbench/ocr/rekognition"
	"github.com/emrusson/ocrbench/ocr/tesseract"
	"github.com/emrusson/ocrbench/ocr/vision"
	"github.com/emrusson/ocrbench/runstore"
)

type options struct {
	truthPath      string
	cacheDir       string
	detectionsPath string
	engines        []string
	languages      []string
	awsRegion      string
	googleCreds    string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: detect [flags] <ground-truth.csv>\n")
		flag.PrintDefaults()
	}
	cacheDir := flag.String("cache", "images", "Directory holding downloaded product images")
	out := flag.String("out", "detections.csv", "Detections CSV to create or update")
	engines := flag.String("engines", "tesseract", "Comma-separated engines: tesseract,vision,rekognition")
	langs := flag.String("langs", "eng", "Comma-separated language hints")
	awsRegion := flag.String("aws-region", "", "AWS region for rekognition (falls back to AWS_REGION)")
	googleCreds := flag.String("google-credentials", "", "Service account file for vision (falls back to GOOGLE_APPLICATION_CREDENTIALS)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing ground-truth csv path")
	}
	opts.truthPath = flag.Arg(0)
	opts.cacheDir = *cacheDir
	opts.detectionsPath = *out
	opts.engines = splitList(*engines)
	opts.languages = splitList(*langs)
	opts.awsRegion = *awsRegion
	opts.googleCreds = *googleCreds
	if len(opts.engines) == 0 {
		return options{}, fmt.Errorf("no engines selected")
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func run(opts options) error {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	logger := observability.NewSlogLogger(slog.Default())
	ctx := context.Background()

	engines, cleanup, err := buildEngines(ctx, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	products, err := dataset.Load(opts.truthPath, logger)
	if err != nil {
		return err
	}
	index, err := runstore.LoadDetections(opts.detectionsPath)
	if err != nil {
		return err
	}

	fetcher := dataset.NewFetcher(opts.cacheDir, logger)
	processed, skipped, failed := 0, 0, 0
	for i := range products {
		p := &products[i]
		if err := fetcher.FetchImage(ctx, p); err != nil {
			failed++
			logger.Warn("image unavailable",
				observability.String("code", p.Code),
				observability.Error("error", err))
			continue
		}
		image, err := os.ReadFile(p.ImagePath)
		if err != nil {
			return fmt.Errorf("read cached image for %s: %w", p.Code, err)
		}
		digest := sha256.Sum256(image)
		imageSHA := hex.EncodeToString(digest[:])

		for _, engine := range engines {
			if index.Fresh(p.Code, engine.Name(), imageSHA) {
				skipped++
				continue
			}
			in := ocr.NewInput(p.Code, image, formatFor(p.ImagePath),
				ocr.WithLanguages(opts.languages...))
			index.Put(detectRow(ctx, engine, in, imageSHA, logger))
			processed++
		}
	}

	if err := runstore.SaveDetections(opts.detectionsPath, index); err != nil {
		return err
	}
	logger.Info("detect complete",
		observability.Int("processed", processed),
		observability.Int("skipped", skipped),
		observability.Int("failed", failed),
		observability.String("out", opts.detectionsPath))
	return nil
}

// detectRow runs one engine over one image. Engine failures become rows with
// an error message rather than aborting the batch.
func detectRow(ctx context.Context, engine ocr.Engine, in ocr.Input, imageSHA string, logger observability.Logger) runstore.Detection {
	d := runstore.Detection{
		Code:        in.ID,
		Engine:      engine.Name(),
		ImageSHA256: imageSHA,
	}
	res, err := engine.Recognize(ctx, in)
	if err != nil {
		d.Err = err.Error()
		logger.Warn("engine error",
			observability.String("code", in.ID),
			observability.String("engine", engine.Name()),
			observability.Error("error", err))
		return d
	}
	d.Text = res.PlainText
	d.DurationMS = res.Duration.Milliseconds()
	d.Confidence = res.Confidence
	d.Truncated = res.Truncated
	logger.Info("detected",
		observability.String("code", in.ID),
		observability.String("engine", engine.Name()),
		observability.Int("chars", len(res.PlainText)),
		observability.Int64("duration_ms", d.DurationMS))
	return d
}

func buildEngines(ctx context.Context, opts options) ([]ocr.Engine, func(), error) {
	var engines []ocr.Engine
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	for _, name := range opts.engines {
		switch name {
		case "tesseract":
			engines = append(engines, tesseract.NewTesseractEngine())
		case "vision":
			var clientOpts []option.ClientOption
			if opts.googleCreds != "" {
				clientOpts = append(clientOpts, option.WithCredentialsFile(opts.googleCreds))
			}
			e, err := vision.NewVisionEngine(ctx, clientOpts...)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			closers = append(closers, e.Close)
			engines = append(engines, e)
		case "rekognition":
			region := opts.awsRegion
			if region == "" {
				region = os.Getenv("AWS_REGION")
			}
			e, err := rekognition.NewRekognitionEngine(ctx, region)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			engines = append(engines, e)
		default:
			cleanup()
			return nil, nil, fmt.Errorf("unknown engine %q", name)
		}
	}
	return engines, cleanup, nil
}

func formatFor(path string) ocr.ImageFormat {
	switch {
	case strings.HasSuffix(path, ".png"):
		return ocr.ImageFormatPNG
	case strings.HasSuffix(path, ".tif"), strings.HasSuffix(path, ".tiff"):
		return ocr.ImageFormatTIFF
	}
	return ocr.ImageFormatJPEG
}
