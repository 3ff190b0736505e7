package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/emrusson/ocrbench/observability"
)

// sniffLen is how many bytes http.DetectContentType needs.
const sniffLen = 512

// Fetcher downloads product images into a cache directory. Files already
// present are reused, which makes fetch runs resumable.
type Fetcher struct {
	Client   *http.Client
	CacheDir string
	Logger   observability.Logger
}

// NewFetcher constructs a Fetcher with a 30s request timeout.
func NewFetcher(cacheDir string, logger observability.Logger) *Fetcher {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: 30 * time.Second},
		CacheDir: cacheDir,
		Logger:   logger,
	}
}

// FetchImage downloads the product's ingredient-panel image and sets
// ImagePath. An existing cached file short-circuits the download. The OFF CDN
// answers some bad URLs with 200-status HTML pages, so the payload is sniffed
// and non-images rejected.
func (f *Fetcher) FetchImage(ctx context.Context, p *Product) error {
	if p.ImageURL == "" {
		return fmt.Errorf("product %s: no image url", p.Code)
	}
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	dest := filepath.Join(f.CacheDir, p.Code+urlExt(p.ImageURL))
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		p.ImagePath = dest
		f.Logger.Debug("image cached", observability.String("code", p.Code))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ImageURL, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", p.Code, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image for %s: %w", p.Code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch image for %s: status %d", p.Code, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read image for %s: %w", p.Code, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("fetch image for %s: empty body", p.Code)
	}
	if ct := sniffContentType(body); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("fetch image for %s: got %s, not an image", p.Code, ct)
	}

	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return fmt.Errorf("cache image for %s: %w", p.Code, err)
	}
	p.ImagePath = dest
	f.Logger.Info("image fetched",
		observability.String("code", p.Code),
		observability.Int("bytes", len(body)))
	return nil
}

func sniffContentType(body []byte) string {
	n := len(body)
	if n > sniffLen {
		n = sniffLen
	}
	return http.DetectContentType(body[:n])
}

// urlExt extracts a usable file extension from the image URL, defaulting to
// .jpg which is what the OFF CDN serves almost exclusively.
func urlExt(rawURL string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.Split(rawURL, "?")[0])))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
		return ext
	}
	return ".jpg"
}
