package ocr

import "testing"

func TestTesseractOptions(t *testing.T) {
	in := Input{}
	WithTesseractPSM(6)(&in)
	if got := in.Metadata["tessedit_pageseg_mode"]; got != "6" {
		t.Fatalf("expected PSM to be set, got %q", got)
	}
	WithTesseractWhitelist("ABC")(&in)
	if got := in.Metadata["tessedit_char_whitelist"]; got != "ABC" {
		t.Fatalf("expected whitelist to be set, got %q", got)
	}
}

func TestNewInput(t *testing.T) {
	in := NewInput("123", []byte{1, 2}, ImageFormatJPEG,
		WithLanguages("eng", "fra"),
		WithMetadata(map[string]string{"k": "v"}))
	if in.ID != "123" || in.Format != ImageFormatJPEG {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.Languages) != 2 || in.Languages[1] != "fra" {
		t.Fatalf("unexpected languages: %v", in.Languages)
	}
	if in.Metadata["k"] != "v" {
		t.Fatalf("unexpected metadata: %v", in.Metadata)
	}
}

func TestWithMetadataCopies(t *testing.T) {
	src := map[string]string{"k": "v"}
	in := Input{}
	WithMetadata(src)(&in)
	src["k"] = "changed"
	if in.Metadata["k"] != "v" {
		t.Fatalf("metadata should be copied, got %q", in.Metadata["k"])
	}
}
