package report

import (
	"strings"
	"testing"
	"time"

	"github.com/emrusson/ocrbench/evaluate"
	"github.com/emrusson/ocrbench/runstore"
)

func testSummaries() []EngineSummary {
	return []EngineSummary{
		{
			Engine:   "tesseract",
			Products: 10,
			Errors:   1,
			Macro: evaluate.Summary{
				Products: 10, MacroPrecision: 0.6, MacroRecall: 0.5, MacroF1: 0.54,
				Micro: evaluate.Outcome{TP: 50, FP: 30, FN: 40},
			},
			MeanLatency: 820 * time.Millisecond,
		},
		{
			Engine:    "vision",
			Products:  10,
			Truncated: 2,
			Macro: evaluate.Summary{
				Products: 10, MacroPrecision: 0.9, MacroRecall: 0.85, MacroF1: 0.87,
				Micro: evaluate.Outcome{TP: 90, FP: 10, FN: 12},
			},
			MeanLatency: 430 * time.Millisecond,
		},
	}
}

func TestMarkdownRanksByMacroF1(t *testing.T) {
	md := Markdown(testSummaries(), nil)

	if !strings.HasPrefix(md, "# OCR engine benchmark") {
		t.Fatalf("missing title:\n%s", md)
	}
	visionRow := strings.Index(md, "| vision |")
	tesseractRow := strings.Index(md, "| tesseract |")
	if visionRow < 0 || tesseractRow < 0 {
		t.Fatalf("missing engine rows:\n%s", md)
	}
	if visionRow > tesseractRow {
		t.Fatalf("engines not ranked by macro F1:\n%s", md)
	}
	if !strings.Contains(md, "0.870") {
		t.Fatalf("macro F1 not rendered:\n%s", md)
	}
}

func TestMarkdownWorstProducts(t *testing.T) {
	scores := []runstore.Score{
		{Code: "003", Engine: "vision", F1: 0.2},
		{Code: "001", Engine: "vision", F1: 0.9},
		{Code: "002", Engine: "vision", F1: 0.5},
		{Code: "009", Engine: "tesseract", F1: 0.1},
	}
	md := Markdown(testSummaries(), scores)

	section := strings.Index(md, "## vision — worst products")
	if section < 0 {
		t.Fatalf("missing worst-products section:\n%s", md)
	}
	tail := md[section:]
	worst := strings.Index(tail, "| 003 |")
	best := strings.Index(tail, "| 001 |")
	if worst < 0 || best < 0 || worst > best {
		t.Fatalf("worst products not ordered by F1:\n%s", tail)
	}
	if !strings.Contains(md, "## tesseract — worst products") {
		t.Fatalf("missing tesseract section:\n%s", md)
	}
}

func TestWorstScoresTruncatesToN(t *testing.T) {
	var scores []runstore.Score
	for i := 0; i < 10; i++ {
		scores = append(scores, runstore.Score{
			Code: string(rune('a' + i)), Engine: "vision", F1: float64(i) / 10,
		})
	}
	got := worstScores(scores, "vision", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].Code != "a" || got[2].Code != "c" {
		t.Fatalf("unexpected ordering: %+v", got)
	}
}

func TestHTML(t *testing.T) {
	md := Markdown(testSummaries(), nil)
	html, err := HTML(md)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(string(html), "<h1") {
		t.Fatalf("expected rendered heading, got:\n%s", html)
	}
}
