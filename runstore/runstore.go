// Package runstore persists benchmark intermediates as flat CSV files:
// per-row detections from the detect stage and per-row scores from the score
// stage. CSV is the only persistence layer; reruns resume from it.
package runstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// ErrNotCached is returned by Index lookups for rows the store has never seen.
var ErrNotCached = errors.New("runstore: not cached")

// Detection is one engine's raw output for one product image.
type Detection struct {
	Code        string
	Engine      string
	ImageSHA256 string
	Text        string
	DurationMS  int64
	Confidence  float64
	Truncated   bool
	// Err holds the engine error message for failed rows; Text is empty then.
	Err string
}

// Key identifies a detection row.
type Key struct {
	Code   string
	Engine string
}

// Index is an in-memory view of a detections CSV keyed by (code, engine).
type Index map[Key]Detection

// Get returns the cached detection for the key, or ErrNotCached.
func (ix Index) Get(code, engine string) (Detection, error) {
	d, ok := ix[Key{Code: code, Engine: engine}]
	if !ok {
		return Detection{}, ErrNotCached
	}
	return d, nil
}

// Fresh reports whether the cache already holds a successful detection for
// this key produced from an image with the given digest.
func (ix Index) Fresh(code, engine, imageSHA256 string) bool {
	d, ok := ix[Key{Code: code, Engine: engine}]
	return ok && d.Err == "" && d.ImageSHA256 == imageSHA256
}

// Put inserts or replaces a row.
func (ix Index) Put(d Detection) {
	ix[Key{Code: d.Code, Engine: d.Engine}] = d
}

var detectionHeader = []string{
	"code", "engine", "image_sha256", "text",
	"duration_ms", "confidence", "truncated", "error",
}

// LoadDetections reads a detections CSV into an Index. A missing file is not
// an error: it yields an empty index so first runs need no setup.
func LoadDetections(path string) (Index, error) {
	ix := make(Index)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ix, nil
		}
		return nil, fmt.Errorf("open detections: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(detectionHeader)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return ix, nil
		}
		return nil, fmt.Errorf("read detections header: %w", err)
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read detections row: %w", err)
		}
		d, err := detectionFromRecord(rec)
		if err != nil {
			return nil, err
		}
		ix.Put(d)
	}
	return ix, nil
}

// SaveDetections writes the index back out, sorted by code then engine so
// diffs between runs stay readable.
func SaveDetections(path string, ix Index) error {
	keys := make([]Key, 0, len(ix))
	for k := range ix {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Code != keys[j].Code {
			return keys[i].Code < keys[j].Code
		}
		return keys[i].Engine < keys[j].Engine
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create detections: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(detectionHeader); err != nil {
		return fmt.Errorf("write detections header: %w", err)
	}
	for _, k := range keys {
		d := ix[k]
		rec := []string{
			d.Code, d.Engine, d.ImageSHA256, d.Text,
			strconv.FormatInt(d.DurationMS, 10),
			strconv.FormatFloat(d.Confidence, 'f', 4, 64),
			strconv.FormatBool(d.Truncated),
			d.Err,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write detections row %s/%s: %w", d.Code, d.Engine, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush detections: %w", err)
	}
	return nil
}

func detectionFromRecord(rec []string) (Detection, error) {
	durationMS, err := strconv.ParseInt(rec[4], 10, 64)
	if err != nil {
		return Detection{}, fmt.Errorf("row %s/%s: parse duration: %w", rec[0], rec[1], err)
	}
	confidence, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return Detection{}, fmt.Errorf("row %s/%s: parse confidence: %w", rec[0], rec[1], err)
	}
	truncated, err := strconv.ParseBool(rec[6])
	if err != nil {
		return Detection{}, fmt.Errorf("row %s/%s: parse truncated: %w", rec[0], rec[1], err)
	}
	return Detection{
		Code:        rec[0],
		Engine:      rec[1],
		ImageSHA256: rec[2],
		Text:        rec[3],
		DurationMS:  durationMS,
		Confidence:  confidence,
		Truncated:   truncated,
		Err:         rec[7],
	}, nil
}
