package vision

import (
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func word(conf float32, symbols ...string) *visionpb.Word {
	w := &visionpb.Word{Confidence: conf}
	for _, s := range symbols {
		w.Symbols = append(w.Symbols, &visionpb.Symbol{Text: s})
	}
	return w
}

func TestResultFromAnnotation(t *testing.T) {
	annotation := &visionpb.TextAnnotation{
		Text: "SUGAR\nSALT\n",
		Pages: []*visionpb.Page{{
			Property: &visionpb.TextAnnotation_TextProperty{
				DetectedLanguages: []*visionpb.TextAnnotation_DetectedLanguage{
					{LanguageCode: "en"},
				},
			},
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{{
					Words: []*visionpb.Word{
						word(0.9, "SU", "GAR"),
						word(0.7, "SALT"),
					},
				}},
			}},
		}},
	}

	res := resultFromAnnotation(annotation)
	if res.PlainText != "SUGAR\nSALT" {
		t.Fatalf("unexpected plain text: %q", res.PlainText)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(res.Words))
	}
	if res.Words[0].Text != "SUGAR" || res.Words[1].Text != "SALT" {
		t.Fatalf("unexpected words: %+v", res.Words)
	}
	if got, want := res.Confidence, 0.8; got < want-1e-6 || got > want+1e-6 {
		t.Fatalf("expected mean confidence %.2f, got %f", want, got)
	}
	if res.Language != "en" {
		t.Fatalf("unexpected language: %q", res.Language)
	}
}

func TestResultFromAnnotationNil(t *testing.T) {
	res := resultFromAnnotation(nil)
	if res.PlainText != "" || len(res.Words) != 0 || res.Confidence != 0 {
		t.Fatalf("nil annotation should yield empty result, got %+v", res)
	}
}
