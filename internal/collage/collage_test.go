package collage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"testing"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"
	"wholesale_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

func sampleProperties(n int) []domain.PropertyRecord {
	props := make([]domain.PropertyRecord, 0, n)
	for i := 0; i < n; i++ {
		props = append(props, domain.PropertyRecord{
			ID:           uuid.NewString(),
			Address:      fmt.Sprintf("%d Mockingbird Ln", 100+i),
			City:         "Fort Worth",
			State:        "TX",
			Zip:          "76102",
			AskingPrice:  int64(150000 + i*25000),
			Bedrooms:     3,
			Bathrooms:    2,
			PropertyType: domain.TypeSFR,
			Status:       domain.StatusAvailable,
			// No ImageURL: every tile takes the placeholder path.
		})
	}
	return props
}

func TestGenerate_RejectsInvalidCounts(t *testing.T) {
	r := NewRenderer(branding.Default(), nil, 90, nil)
	for _, n := range []int{0, 1, 5} {
		_, err := r.Generate(context.Background(), sampleProperties(n))
		if err == nil {
			t.Fatalf("expected error for %d properties", n)
		}
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Fatalf("expected validation error for %d properties, got %v", n, err)
		}
	}
}

func TestGenerate_ProducesDataURL(t *testing.T) {
	r := NewRenderer(branding.Default(), nil, 90, nil)
	for _, n := range []int{2, 3, 4} {
		dataURL, err := r.Generate(context.Background(), sampleProperties(n))
		if err != nil {
			t.Fatalf("Generate with %d properties: %v", n, err)
		}
		if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
			t.Fatalf("expected a JPEG data URL for %d properties, got prefix %q", n, dataURL[:min(len(dataURL), 40)])
		}
	}
}

type failingFetcher struct{}

func (failingFetcher) Fetch(ctx context.Context, imageURL string) (image.Image, error) {
	return nil, errors.New("upstream returned 502")
}

func TestGenerate_FetchFailureFallsBackToPlaceholder(t *testing.T) {
	props := sampleProperties(3)
	for i := range props {
		props[i].ImageURL = fmt.Sprintf("https://img.test/photo-%d.jpg", i)
	}

	r := NewRenderer(branding.Default(), failingFetcher{}, 90, nil)
	dataURL, err := r.Generate(context.Background(), props)
	if err != nil {
		t.Fatalf("fetch failures must not fail the render: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
		t.Fatalf("expected a JPEG data URL, got prefix %q", dataURL[:min(len(dataURL), 40)])
	}
}

func TestGenerate_NilFetcherWithImageURLs(t *testing.T) {
	props := sampleProperties(2)
	for i := range props {
		props[i].ImageURL = fmt.Sprintf("https://img.test/photo-%d.jpg", i)
	}

	r := NewRenderer(branding.Default(), nil, 90, nil)
	dataURL, err := r.Generate(context.Background(), props)
	if err != nil {
		t.Fatalf("Generate without a fetcher: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
		t.Fatalf("expected a JPEG data URL, got prefix %q", dataURL[:min(len(dataURL), 40)])
	}
}

func TestGenerate_ConcurrentRenders(t *testing.T) {
	r := NewRenderer(branding.Default(), nil, 90, nil)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers*3)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				dataURL, err := r.Generate(context.Background(), sampleProperties(2+n%3))
				if err != nil {
					errs <- err
					return
				}
				if !strings.HasPrefix(dataURL, "data:image/jpeg;base64,") {
					errs <- fmt.Errorf("bad data URL prefix %q", dataURL[:min(len(dataURL), 40)])
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Generate: %v", err)
	}
}

func TestLayout_TwoUp(t *testing.T) {
	rects := Layout(2)
	if len(rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(rects))
	}
	if rects[0] != image.Rect(0, 0, 598, 630) {
		t.Fatalf("unexpected left tile: %v", rects[0])
	}
	if rects[1] != image.Rect(602, 0, 1200, 630) {
		t.Fatalf("unexpected right tile: %v", rects[1])
	}
	if rects[1].Min.X-rects[0].Max.X != tileGap {
		t.Fatalf("expected %dpx gap between tiles", tileGap)
	}
}

func TestLayout_ThreeUp(t *testing.T) {
	rects := Layout(3)
	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	if rects[0] != image.Rect(0, 0, 660, 630) {
		t.Fatalf("unexpected left panel: %v", rects[0])
	}
	if rects[1].Max.Y+tileGap != rects[2].Min.Y {
		t.Fatalf("right panels should stack with a %dpx gap: %v / %v", tileGap, rects[1], rects[2])
	}
	if rects[2].Max.Y != CanvasHeight {
		t.Fatalf("bottom-right panel should reach the canvas bottom: %v", rects[2])
	}
}

func TestLayout_FourUp(t *testing.T) {
	rects := Layout(4)
	if len(rects) != 4 {
		t.Fatalf("expected 4 rects, got %d", len(rects))
	}
	for i, r := range rects {
		if r.Dx() != 598 || r.Dy() != 313 {
			t.Fatalf("quadrant %d should be 598x313, got %dx%d", i, r.Dx(), r.Dy())
		}
	}
	if rects[3].Max.X != CanvasWidth || rects[3].Max.Y != CanvasHeight {
		t.Fatalf("last quadrant should reach the canvas corner: %v", rects[3])
	}
}

func TestLayout_UnsupportedCount(t *testing.T) {
	if rects := Layout(7); rects != nil {
		t.Fatalf("expected nil layout for unsupported count, got %v", rects)
	}
}
