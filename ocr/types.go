package ocr

import (
	"context"
	"time"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result. The benchmark uses the product code.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/jpeg).
	Format ImageFormat
	// Languages is a list of language hints (e.g., "eng", "fra") that engines
	// can use to select trained data or bias detection.
	Languages []string
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode" for Tesseract) without hard-coding them into the
	// API surface.
	Metadata map[string]string
}

// WordKind distinguishes the granularity a detection was reported at. Cloud
// engines that return both line- and word-level detections tag each one so
// scoring can pick a single granularity.
type WordKind string

const (
	WordKindWord WordKind = "word"
	WordKindLine WordKind = "line"
)

// Word represents a single recognized token or line.
type Word struct {
	Text       string
	Confidence float64
	Kind       WordKind
}

// Result captures OCR output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Words carries per-detection text with confidences where the engine
	// reports them.
	Words []Word
	// Confidence is the engine's mean word confidence in [0,1]; zero when the
	// engine does not report confidences.
	Confidence float64
	// Duration is the wall-clock time the engine spent on this input.
	Duration time.Duration
	// Truncated reports that the engine hit a hard detection ceiling (e.g.,
	// Rekognition's 100-word limit) and the result is known to be incomplete.
	Truncated bool
	// Language indicates the dominant language detected, if known.
	Language string
}

// Engine is the simplest OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, enabling providers
// that amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}
