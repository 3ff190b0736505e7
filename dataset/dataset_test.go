package dataset

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/emrusson/ocrbench/normalize"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	products := []Product{
		{Code: "001", Name: "Choco Bar", ImageURL: "http://example.com/001.jpg", IngredientsText: "sugar, cocoa"},
		{Code: "002", Name: "Crisps", ImageURL: "http://example.com/002.jpg", IngredientsText: "potatoes, oil, salt"},
	}
	path := filepath.Join(t.TempDir(), "truth.csv")
	if err := Save(path, products); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, products) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, products)
	}
}

func TestLoadDuplicateCodeKeepsLast(t *testing.T) {
	products := []Product{
		{Code: "001", Name: "First", ImageURL: "u1", IngredientsText: "sugar"},
		{Code: "001", Name: "Second", ImageURL: "u2", IngredientsText: "salt"},
	}
	path := filepath.Join(t.TempDir(), "truth.csv")
	if err := Save(path, products); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got))
	}
	if got[0].Name != "Second" {
		t.Fatalf("expected last row to win, got %+v", got[0])
	}
}

func TestLoadCommaInIngredients(t *testing.T) {
	products := []Product{
		{Code: "001", Name: "Bar", ImageURL: "u", IngredientsText: `sugar, cocoa butter, "vanilla"`},
	}
	path := filepath.Join(t.TempDir(), "truth.csv")
	if err := Save(path, products); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got[0].IngredientsText != products[0].IngredientsText {
		t.Fatalf("quoting broken: %q", got[0].IngredientsText)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTruthTokens(t *testing.T) {
	p := Product{IngredientsText: "Ingredients: Sugar, salt."}
	got := TruthTokens(p, normalize.DefaultRules())
	want := []string{"sugar", "salt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TruthTokens() = %v, want %v", got, want)
	}
}
