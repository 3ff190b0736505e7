// Package rekognition implements the ocr.Engine contract on top of the AWS
// Rekognition DetectText API.
package rekognition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/emrusson/ocrbench/imaging"
	"github.com/emrusson/ocrbench/ocr"
)

const (
	// maxImageBytes is Rekognition's request payload cap for image bytes.
	maxImageBytes = 5 * 1024 * 1024
	// maxWords is the hard ceiling DetectText enforces; results at the
	// ceiling are flagged truncated.
	maxWords = 100
)

// RekognitionEngine calls DetectText through a shared service client.
type RekognitionEngine struct {
	client *rekognition.Client
}

// NewRekognitionEngine constructs a Rekognition-backed engine using the
// default AWS credential chain for the given region.
func NewRekognitionEngine(ctx context.Context, region string) (*RekognitionEngine, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewRekognitionEngineFromConfig(cfg), nil
}

// NewRekognitionEngineFromConfig wraps an already-resolved AWS config.
func NewRekognitionEngineFromConfig(cfg aws.Config) *RekognitionEngine {
	return &RekognitionEngine{client: rekognition.NewFromConfig(cfg)}
}

func (e *RekognitionEngine) Name() string { return "rekognition" }

// Recognize performs text detection on a single image input. Images over the
// payload cap are downscaled before submission.
func (e *RekognitionEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	data, err := imaging.FitBytes(in.Image, maxImageBytes)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("fit image under payload cap: %w", err)
	}

	start := time.Now()
	out, err := e.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return ocr.Result{}, fmt.Errorf("detect text: %w", err)
	}
	res := resultFromDetections(out.TextDetections)
	res.InputID = in.ID
	res.Duration = time.Since(start)
	return res, nil
}

// resultFromDetections linearizes LINE detections in API order and keeps WORD
// detections for scoring. Rekognition reports confidence as a 0-100 percent.
func resultFromDetections(detections []types.TextDetection) ocr.Result {
	var lines []string
	var words []ocr.Word
	var sum float64
	wordCount := 0
	for _, td := range detections {
		text := aws.ToString(td.DetectedText)
		conf := float64(aws.ToFloat32(td.Confidence)) / 100.0
		switch td.Type {
		case types.TextTypesLine:
			lines = append(lines, text)
			words = append(words, ocr.Word{Text: text, Confidence: conf, Kind: ocr.WordKindLine})
		case types.TextTypesWord:
			wordCount++
			sum += conf
			words = append(words, ocr.Word{Text: text, Confidence: conf, Kind: ocr.WordKindWord})
		}
	}
	var avg float64
	if wordCount > 0 {
		avg = sum / float64(wordCount)
	}
	return ocr.Result{
		PlainText:  strings.Join(lines, "\n"),
		Words:      words,
		Confidence: avg,
		Truncated:  wordCount >= maxWords,
	}
}
