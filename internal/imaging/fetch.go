// Package imaging fetches and prepares property photos for the collage and
// flyer renderers: bounded HTTP download, decode, EXIF orientation fix,
// cover-fit cropping, and thumbnail downscaling.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// maxImageBytes caps a single photo download. Listing photos are a few MB;
// anything larger is rejected rather than buffered.
const maxImageBytes = 20 << 20

// Fetcher downloads and decodes remote property photos.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and decodes one image, correcting EXIF orientation.
// Failures here are expected (dead links, slow hosts, truncated files) and
// callers degrade to a placeholder; no retry is attempted.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (image.Image, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("no image url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(raw) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return ApplyOrientation(img, readOrientation(raw)), nil
}

// readOrientation extracts the EXIF orientation tag, defaulting to 1
// (upright) when the metadata is absent or unreadable. Phone photos from
// acquisition walk-throughs routinely carry non-trivial orientations.
func readOrientation(raw []byte) int {
	meta, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	value, err := tag.Int(0)
	if err != nil || value < 1 || value > 8 {
		return 1
	}
	return value
}
