// Package dataset loads OpenFoodFacts ground-truth rows and mirrors product
// images into a local cache directory.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/emrusson/ocrbench/normalize"
	"github.com/emrusson/ocrbench/observability"
)

// Product is one ground-truth row: a packaged food product with the
// ingredient-panel photo and the ingredient list transcribed by contributors.
type Product struct {
	// Code is the product barcode, unique per row.
	Code string
	// Name is the display name, informational only.
	Name string
	// ImageURL points at the ingredient-panel photo on the OFF CDN.
	ImageURL string
	// ImagePath is the cached local copy, set after a successful fetch.
	ImagePath string
	// IngredientsText is the contributor-transcribed ingredient list.
	IngredientsText string
}

// header is the ground-truth CSV column order.
var header = []string{"code", "product_name", "image_url", "ingredients_text"}

// Load reads a ground-truth CSV. Duplicate product codes keep the last row;
// the logger is told about every discard so the corpus size stays auditable.
func Load(path string, logger observability.Logger) ([]Product, error) {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ground truth: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	byCode := make(map[string]int)
	var products []Product
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		p := Product{
			Code:            rec[0],
			Name:            rec[1],
			ImageURL:        rec[2],
			IngredientsText: rec[3],
		}
		if p.Code == "" {
			continue
		}
		if i, ok := byCode[p.Code]; ok {
			logger.Warn("duplicate product code, keeping last",
				observability.String("code", p.Code))
			products[i] = p
			continue
		}
		byCode[p.Code] = len(products)
		products = append(products, p)
	}
	return products, nil
}

// Save writes products back out in Load's format.
func Save(path string, products []Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ground truth: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range products {
		rec := []string{p.Code, p.Name, p.ImageURL, p.IngredientsText}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", p.Code, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ground truth: %w", err)
	}
	return nil
}

// TruthTokens returns the normalized token set of the product's ground-truth
// ingredient list.
func TruthTokens(p Product, rules normalize.Rules) []string {
	return normalize.Tokens(p.IngredientsText, rules)
}
