package imaging

import (
	"image"
	"image/color"
	"testing"
)

// gradient builds a w x h image whose pixel (x, y) encodes its coordinates,
// so transforms can be verified per-pixel.
func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	return img
}

func TestCoverCrop_ExactTargetSize(t *testing.T) {
	cases := []struct {
		srcW, srcH, dstW, dstH int
	}{
		{800, 600, 400, 400},  // landscape into square
		{600, 800, 400, 200},  // portrait into wide
		{100, 100, 598, 630},  // upscale
		{1200, 630, 1200, 630}, // already exact
	}
	for _, tc := range cases {
		out := CoverCrop(gradient(tc.srcW, tc.srcH), tc.dstW, tc.dstH)
		b := out.Bounds()
		if b.Dx() != tc.dstW || b.Dy() != tc.dstH {
			t.Fatalf("CoverCrop(%dx%d -> %dx%d) produced %dx%d",
				tc.srcW, tc.srcH, tc.dstW, tc.dstH, b.Dx(), b.Dy())
		}
	}
}

func TestCoverCrop_CropsEqually(t *testing.T) {
	// A 200x100 source into a 100x100 box scales to 200x100 and should
	// crop 50px from each horizontal side, keeping the center.
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{A: 255}
			if x >= 50 && x < 150 {
				c.G = 255 // center band
			} else {
				c.R = 255 // side bands
			}
			src.Set(x, y, c)
		}
	}

	out := CoverCrop(src, 100, 100)
	center := color.RGBAModel.Convert(out.At(50, 50)).(color.RGBA)
	if center.G < 128 {
		t.Fatalf("center of cover crop should come from the source center band, got %+v", center)
	}
}

func TestThumbnail_PreservesAspectRatio(t *testing.T) {
	out := Thumbnail(gradient(800, 600), 160, 120)
	b := out.Bounds()
	if b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("expected 160x120 thumbnail, got %dx%d", b.Dx(), b.Dy())
	}

	tall := Thumbnail(gradient(300, 600), 160, 120)
	tb := tall.Bounds()
	if tb.Dy() != 120 || tb.Dx() != 60 {
		t.Fatalf("expected 60x120 thumbnail for tall source, got %dx%d", tb.Dx(), tb.Dy())
	}
}

func TestApplyOrientation_Rotate90SwapsAxes(t *testing.T) {
	out := ApplyOrientation(gradient(4, 2), 6)
	b := out.Bounds()
	if b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("orientation 6 should swap axes, got %dx%d", b.Dx(), b.Dy())
	}

	// Source (0,0) lands in the top-right corner under a 90° CW rotation.
	corner := color.RGBAModel.Convert(out.At(1, 0)).(color.RGBA)
	if corner.R != 0 || corner.G != 0 {
		t.Fatalf("expected source origin at top-right after rotation, got %+v", corner)
	}
}

func TestApplyOrientation_Identity(t *testing.T) {
	src := gradient(4, 2)
	if out := ApplyOrientation(src, 1); out != src {
		t.Fatalf("orientation 1 must be a no-op")
	}
}
