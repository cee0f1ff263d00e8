package collage

import "image"

// Canvas dimensions match the 1.91:1 aspect ratio social link-preview
// convention.
const (
	CanvasWidth  = 1200
	CanvasHeight = 630

	tileGap       = 4
	overlayHeight = 55
	footerHeight  = 28
)

// Layout returns the tile rectangles for a property count in [2,4].
// Tiles span the full canvas; the footer bar is painted over them last.
func Layout(count int) []image.Rectangle {
	switch count {
	case 2:
		// Two equal vertical halves.
		half := (CanvasWidth - tileGap) / 2
		return []image.Rectangle{
			image.Rect(0, 0, half, CanvasHeight),
			image.Rect(half+tileGap, 0, CanvasWidth, CanvasHeight),
		}
	case 3:
		// Large left panel at 55% width, two stacked right panels.
		leftW := CanvasWidth * 55 / 100
		rightX := leftW + tileGap
		halfH := (CanvasHeight - tileGap) / 2
		return []image.Rectangle{
			image.Rect(0, 0, leftW, CanvasHeight),
			image.Rect(rightX, 0, CanvasWidth, halfH),
			image.Rect(rightX, halfH+tileGap, CanvasWidth, CanvasHeight),
		}
	case 4:
		// 2x2 grid of equal quadrants.
		halfW := (CanvasWidth - tileGap) / 2
		halfH := (CanvasHeight - tileGap) / 2
		return []image.Rectangle{
			image.Rect(0, 0, halfW, halfH),
			image.Rect(halfW+tileGap, 0, CanvasWidth, halfH),
			image.Rect(0, halfH+tileGap, halfW, CanvasHeight),
			image.Rect(halfW+tileGap, halfH+tileGap, CanvasWidth, CanvasHeight),
		}
	default:
		return nil
	}
}
