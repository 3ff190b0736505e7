// Package evaluate scores OCR token sets against ground truth with standard
// information-retrieval metrics.
package evaluate

import (
	"github.com/agnivade/levenshtein"
)

// Pair records a matched prediction/truth token with its similarity.
type Pair struct {
	Pred       string
	Truth      string
	Similarity float64
}

// Outcome holds the confusion counts for one product and one engine.
type Outcome struct {
	TP    int
	FP    int
	FN    int
	Pairs []Pair
}

// Similarity returns a 0.0–1.0 score between two strings using Levenshtein
// distance: 1.0 - distance/max(len(a), len(b)), rune-aware.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// Match greedily pairs predicted tokens against truth tokens. Exact matches
// claim first; the remainder pair to the most similar unclaimed truth token
// with similarity >= minSimilarity. Each truth token can be claimed once.
func Match(pred, truth []string, minSimilarity float64) Outcome {
	claimed := make([]bool, len(truth))
	var out Outcome

	truthIndex := make(map[string][]int, len(truth))
	for i, t := range truth {
		truthIndex[t] = append(truthIndex[t], i)
	}

	unmatched := make([]string, 0, len(pred))
	for _, p := range pred {
		hit := false
		for _, i := range truthIndex[p] {
			if !claimed[i] {
				claimed[i] = true
				out.TP++
				out.Pairs = append(out.Pairs, Pair{Pred: p, Truth: p, Similarity: 1.0})
				hit = true
				break
			}
		}
		if !hit {
			unmatched = append(unmatched, p)
		}
	}

	for _, p := range unmatched {
		best := -1
		bestScore := 0.0
		for i, t := range truth {
			if claimed[i] {
				continue
			}
			if s := Similarity(p, t); s > bestScore {
				bestScore = s
				best = i
			}
		}
		if best >= 0 && bestScore >= minSimilarity {
			claimed[best] = true
			out.TP++
			out.Pairs = append(out.Pairs, Pair{Pred: p, Truth: truth[best], Similarity: bestScore})
			continue
		}
		out.FP++
	}

	for _, c := range claimed {
		if !c {
			out.FN++
		}
	}
	return out
}

// Precision is TP/(TP+FP); with nothing predicted there are no false alarms,
// so the score is 1.
func (o Outcome) Precision() float64 {
	if o.TP+o.FP == 0 {
		return 1.0
	}
	return float64(o.TP) / float64(o.TP+o.FP)
}

// Recall is TP/(TP+FN); with nothing to find the score is 1.
func (o Outcome) Recall() float64 {
	if o.TP+o.FN == 0 {
		return 1.0
	}
	return float64(o.TP) / float64(o.TP+o.FN)
}

// F1 is the harmonic mean of precision and recall.
func (o Outcome) F1() float64 {
	p, r := o.Precision(), o.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Summary aggregates per-product outcomes two ways: macro (mean of
// per-product metrics, every product weighted equally) and micro (corpus-level
// confusion counts, every token weighted equally).
type Summary struct {
	Products       int
	MacroPrecision float64
	MacroRecall    float64
	MacroF1        float64
	Micro          Outcome
}

// Aggregate rolls up outcomes into a Summary. An empty input yields the zero
// Summary.
func Aggregate(outcomes []Outcome) Summary {
	var s Summary
	if len(outcomes) == 0 {
		return s
	}
	for _, o := range outcomes {
		s.Products++
		s.MacroPrecision += o.Precision()
		s.MacroRecall += o.Recall()
		s.MacroF1 += o.F1()
		s.Micro.TP += o.TP
		s.Micro.FP += o.FP
		s.Micro.FN += o.FN
	}
	n := float64(s.Products)
	s.MacroPrecision /= n
	s.MacroRecall /= n
	s.MacroF1 /= n
	return s
}
