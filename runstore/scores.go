package runstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Score is one product's confusion counts and metrics under one engine.
type Score struct {
	Code      string
	Engine    string
	TP        int
	FP        int
	FN        int
	Precision float64
	Recall    float64
	F1        float64
}

var scoreHeader = []string{
	"code", "engine", "tp", "fp", "fn", "precision", "recall", "f1",
}

// SaveScores writes per-product scores sorted by engine then code.
func SaveScores(path string, scores []Score) error {
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Engine != sorted[j].Engine {
			return sorted[i].Engine < sorted[j].Engine
		}
		return sorted[i].Code < sorted[j].Code
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scores: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(scoreHeader); err != nil {
		return fmt.Errorf("write scores header: %w", err)
	}
	for _, s := range sorted {
		rec := []string{
			s.Code, s.Engine,
			strconv.Itoa(s.TP), strconv.Itoa(s.FP), strconv.Itoa(s.FN),
			strconv.FormatFloat(s.Precision, 'f', 4, 64),
			strconv.FormatFloat(s.Recall, 'f', 4, 64),
			strconv.FormatFloat(s.F1, 'f', 4, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write scores row %s/%s: %w", s.Code, s.Engine, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush scores: %w", err)
	}
	return nil
}

// LoadScores reads a scores CSV written by SaveScores.
func LoadScores(path string) ([]Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scores: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(scoreHeader)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read scores header: %w", err)
	}
	var scores []Score
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read scores row: %w", err)
		}
		s, err := scoreFromRecord(rec)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, nil
}

func scoreFromRecord(rec []string) (Score, error) {
	ints := make([]int, 3)
	for i, idx := range []int{2, 3, 4} {
		v, err := strconv.Atoi(rec[idx])
		if err != nil {
			return Score{}, fmt.Errorf("row %s/%s: parse counts: %w", rec[0], rec[1], err)
		}
		ints[i] = v
	}
	floats := make([]float64, 3)
	for i, idx := range []int{5, 6, 7} {
		v, err := strconv.ParseFloat(rec[idx], 64)
		if err != nil {
			return Score{}, fmt.Errorf("row %s/%s: parse metrics: %w", rec[0], rec[1], err)
		}
		floats[i] = v
	}
	return Score{
		Code: rec[0], Engine: rec[1],
		TP: ints[0], FP: ints[1], FN: ints[2],
		Precision: floats[0], Recall: floats[1], F1: floats[2],
	}, nil
}
