// Package collage composites 2-4 property photos into a single branded
// 1200x630 raster for WhatsApp broadcasts. Each invocation owns its own
// drawing context; per-tile image failures degrade to a placeholder and
// only an invalid property count aborts the render.
package collage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"
	"wholesale_portal_backend/internal/imaging"
	"wholesale_portal_backend/platform/apperr"
	"wholesale_portal_backend/platform/logger"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ImageFetcher downloads and decodes one property photo.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (image.Image, error)
}

// Renderer draws branded collages for one brand profile.
type Renderer struct {
	brand   branding.Profile
	fetcher ImageFetcher
	quality int
	log     *logger.Logger
}

// NewRenderer creates a Renderer. Quality is the JPEG quality in [1,100];
// values outside that range fall back to 90.
func NewRenderer(brand branding.Profile, fetcher ImageFetcher, quality int, log *logger.Logger) *Renderer {
	if quality < 1 || quality > 100 {
		quality = 90
	}
	return &Renderer{brand: brand, fetcher: fetcher, quality: quality, log: log}
}

// Generate renders the collage and returns it as a base64 JPEG data URL.
// The property count must be in [2,4]; anything else is a validation error
// raised before any drawing work begins.
func (r *Renderer) Generate(ctx context.Context, props []domain.PropertyRecord) (string, error) {
	if len(props) < 2 || len(props) > 4 {
		return "", apperr.Validation(fmt.Sprintf("collage requires 2-4 properties, got %d", len(props))).
			WithOp("collage.Generate")
	}

	faces, err := newFaceSet()
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "load collage fonts", err).WithOp("collage.Generate")
	}

	dc := gg.NewContext(CanvasWidth, CanvasHeight)
	dc.SetRGB255(17, 24, 39)
	dc.Clear()

	rects := Layout(len(props))
	for i, p := range props {
		r.drawTile(ctx, dc, faces, p, rects[i])
	}

	r.drawFooter(dc, faces)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: r.quality}); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "encode collage", err).WithOp("collage.Generate")
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (r *Renderer) drawTile(ctx context.Context, dc *gg.Context, faces *faceSet, p domain.PropertyRecord, rect image.Rectangle) {
	w, h := rect.Dx(), rect.Dy()

	var photo image.Image
	if p.ImageURL != "" && r.fetcher != nil {
		fetched, err := r.fetcher.Fetch(ctx, p.ImageURL)
		if err != nil {
			if r.log != nil {
				r.log.AssetFailure("collage_tile", p.ImageURL, err)
			}
		} else {
			photo = fetched
		}
	}

	if photo != nil {
		dc.DrawImage(imaging.CoverCrop(photo, w, h), rect.Min.X, rect.Min.Y)
	} else {
		// Placeholder tile: solid dark fill with centered label.
		dc.SetRGB255(31, 41, 55)
		dc.DrawRectangle(float64(rect.Min.X), float64(rect.Min.Y), float64(w), float64(h))
		dc.Fill()
		dc.SetFontFace(faces.placeholder)
		dc.SetRGB255(156, 163, 175)
		dc.DrawStringAnchored("No Image", float64(rect.Min.X)+float64(w)/2, float64(rect.Min.Y)+float64(h)/2, 0.5, 0.5)
	}

	// Semi-transparent info band across the tile bottom.
	bandTop := float64(rect.Max.Y - overlayHeight)
	dc.SetRGBA(0, 0, 0, 0.65)
	dc.DrawRectangle(float64(rect.Min.X), bandTop, float64(w), overlayHeight)
	dc.Fill()

	green := r.brand.AccentGreen
	dc.SetFontFace(faces.price)
	dc.SetRGB255(int(green.R), int(green.G), int(green.B))
	dc.DrawString(currency(p.AskingPrice), float64(rect.Min.X)+12, bandTop+26)

	dc.SetFontFace(faces.address)
	dc.SetRGB255(229, 231, 235)
	label := truncateLabel(p.ShortAddress(), r.brand.CollageAddressWidth)
	dc.DrawString(label, float64(rect.Min.X)+12, bandTop+47)
}

func (r *Renderer) drawFooter(dc *gg.Context, faces *faceSet) {
	top := float64(CanvasHeight - footerHeight)
	dc.SetRGBA(0, 0, 0, 0.9)
	dc.DrawRectangle(0, top, CanvasWidth, footerHeight)
	dc.Fill()

	dc.SetFontFace(faces.footer)
	dc.SetRGB255(229, 231, 235)
	dc.DrawStringAnchored(r.brand.ContactLine(), CanvasWidth/2, top+footerHeight/2, 0.5, 0.35)
}

// truncateLabel cuts a label to width code points plus an ellipsis.
func truncateLabel(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width]) + "…"
}

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// currency renders whole dollars with comma grouping, e.g. $1,250,000.
func currency(dollars int64) string {
	return "$" + usPrinter.Sprintf("%d", dollars)
}

// faceSet holds the font faces for one render. A font.Face mutates its
// internal glyph buffer while drawing, so faces are never shared across
// renders; only the parsed fonts are cached.
type faceSet struct {
	price       font.Face
	address     font.Face
	placeholder font.Face
	footer      font.Face
}

var (
	fontsOnce   sync.Once
	fontBold    *truetype.Font
	fontRegular *truetype.Font
	fontsErr    error
)

func loadFonts() (*truetype.Font, *truetype.Font, error) {
	fontsOnce.Do(func() {
		fontBold, fontsErr = truetype.Parse(gobold.TTF)
		if fontsErr != nil {
			return
		}
		fontRegular, fontsErr = truetype.Parse(goregular.TTF)
	})
	return fontBold, fontRegular, fontsErr
}

func newFaceSet() (*faceSet, error) {
	bold, regular, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &faceSet{
		price:       truetype.NewFace(bold, &truetype.Options{Size: 24}),
		address:     truetype.NewFace(regular, &truetype.Options{Size: 16}),
		placeholder: truetype.NewFace(bold, &truetype.Options{Size: 28}),
		footer:      truetype.NewFace(regular, &truetype.Options{Size: 14}),
	}, nil
}
