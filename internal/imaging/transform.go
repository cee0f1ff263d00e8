package imaging

import (
	"image"

	"github.com/nfnt/resize"
)

// ApplyOrientation normalizes an image to EXIF orientation 1. Orientations
// 2-8 cover the mirror/rotate combinations a camera can record.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return flipHorizontal(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipVertical(img)
	case 5:
		return rotate90(flipHorizontal(img))
	case 6:
		return rotate90(img)
	case 7:
		return rotate270(flipHorizontal(img))
	case 8:
		return rotate270(img)
	default:
		return img
	}
}

// CoverCrop scales the image so its smaller dimension fills the target box,
// then crops the overflow equally on both sides ("cover" fit). The result
// is exactly width x height.
func CoverCrop(img image.Image, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return img
	}

	// Scale up whichever axis is proportionally smaller.
	scaleW := float64(width) / float64(srcW)
	scaleH := float64(height) / float64(srcH)
	scale := scaleW
	if scaleH > scale {
		scale = scaleH
	}

	scaledW := int(float64(srcW)*scale + 0.5)
	scaledH := int(float64(srcH)*scale + 0.5)
	if scaledW < width {
		scaledW = width
	}
	if scaledH < height {
		scaledH = height
	}

	scaled := resize.Resize(uint(scaledW), uint(scaledH), img, resize.Lanczos3)

	offsetX := (scaledW - width) / 2
	offsetY := (scaledH - height) / 2
	rect := image.Rect(offsetX, offsetY, offsetX+width, offsetY+height)

	cropped := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cropped.Set(x, y, scaled.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return cropped
}

// Thumbnail downscales to fit within the given box, preserving aspect
// ratio. Images already inside the box pass through unchanged.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Lanczos3)
}

func flipHorizontal(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Set(bounds.Dx()-1-x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out
}

func flipVertical(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Set(x, bounds.Dy()-1-y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out
}

func rotate90(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dy(), bounds.Dx()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Set(bounds.Dy()-1-y, x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out
}

func rotate180(img image.Image) image.Image {
	return rotate90(rotate90(img))
}

func rotate270(img image.Image) image.Image {
	return rotate90(rotate90(rotate90(img)))
}
