// Package vision implements the ocr.Engine contract on top of the Google
// Cloud Vision ImageAnnotator API (document text detection).
package vision

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/emrusson/ocrbench/ocr"
)

// VisionEngine calls DetectDocumentText through a shared annotator client.
type VisionEngine struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionEngine constructs a Vision-backed engine. Credentials follow the
// standard chain (GOOGLE_APPLICATION_CREDENTIALS, ADC); pass
// option.WithCredentialsFile to override.
func NewVisionEngine(ctx context.Context, opts ...option.ClientOption) (*VisionEngine, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return &VisionEngine{client: client}, nil
}

func (e *VisionEngine) Name() string { return "vision" }

// Close releases the underlying gRPC connection.
func (e *VisionEngine) Close() error { return e.client.Close() }

// Recognize performs document text detection on a single image input.
func (e *VisionEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	img, err := vision.NewImageFromReader(bytes.NewReader(in.Image))
	if err != nil {
		return ocr.Result{}, fmt.Errorf("build vision image: %w", err)
	}
	var ictx *visionpb.ImageContext
	if len(in.Languages) > 0 {
		ictx = &visionpb.ImageContext{LanguageHints: in.Languages}
	}

	start := time.Now()
	annotation, err := e.client.DetectDocumentText(ctx, img, ictx)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("detect document text: %w", err)
	}
	res := resultFromAnnotation(annotation)
	res.InputID = in.ID
	res.Duration = time.Since(start)
	return res, nil
}

// resultFromAnnotation linearizes a full-text annotation into the engine
// result shape. A nil annotation means the API found no text.
func resultFromAnnotation(annotation *visionpb.TextAnnotation) ocr.Result {
	if annotation == nil {
		return ocr.Result{}
	}
	var words []ocr.Word
	var sum float64
	var lang string
	for _, page := range annotation.GetPages() {
		if props := page.GetProperty(); lang == "" && props != nil {
			if dl := props.GetDetectedLanguages(); len(dl) > 0 {
				lang = dl[0].GetLanguageCode()
			}
		}
		for _, block := range page.GetBlocks() {
			for _, paragraph := range block.GetParagraphs() {
				for _, word := range paragraph.GetWords() {
					var sb strings.Builder
					for _, symbol := range word.GetSymbols() {
						sb.WriteString(symbol.GetText())
					}
					conf := float64(word.GetConfidence())
					sum += conf
					words = append(words, ocr.Word{
						Text:       sb.String(),
						Confidence: conf,
						Kind:       ocr.WordKindWord,
					})
				}
			}
		}
	}
	var avg float64
	if len(words) > 0 {
		avg = sum / float64(len(words))
	}
	return ocr.Result{
		PlainText:  strings.TrimSpace(annotation.GetText()),
		Words:      words,
		Confidence: avg,
		Language:   lang,
	}
}
