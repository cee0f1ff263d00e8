// Package flyer produces the multi-page deal sheet PDF used when a
// selection is too large for a collage. Layout is one row per property,
// branded header and footer on every page, and a closing call-to-action
// page with a QR link to the public listings page.
package flyer

import (
	"bytes"
	"context"
	"fmt"
	gimage "image"
	"image/jpeg"
	"strings"
	"time"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"
	"wholesale_portal_backend/internal/imaging"
	"wholesale_portal_backend/platform/apperr"
	"wholesale_portal_backend/platform/logger"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	colorInk    = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorMuted  = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorFaint  = &props.Color{Red: 156, Green: 163, Blue: 175} // gray-400
	colorStripe = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
	colorRule   = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
	colorPanel  = &props.Color{Red: 31, Green: 41, Blue: 55}    // gray-800
	colorWhite  = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const (
	thumbWidth  = 160
	thumbHeight = 120

	rowHeightWithImage = 24
	rowHeightTextOnly  = 14
)

// ImageFetcher downloads and decodes one property photo.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (gimage.Image, error)
}

// LinkBuilder supplies the public listings URL encoded into the closing
// page's QR code.
type LinkBuilder interface {
	ListingsURL() string
}

// Generator renders deal sheet PDFs for one brand profile.
type Generator struct {
	brand   branding.Profile
	fetcher ImageFetcher
	links   LinkBuilder
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the timestamp source used in filenames.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator.
func NewGenerator(brand branding.Profile, fetcher ImageFetcher, links LinkBuilder, log *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		brand:   brand,
		fetcher: fetcher,
		links:   links,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the flyer for the given selection. includeImages controls
// whether thumbnails are fetched; when false every row renders text-only,
// which is also the offline export path.
func (g *Generator) Generate(ctx context.Context, properties []domain.PropertyRecord, includeImages bool) ([]byte, error) {
	if len(properties) == 0 {
		return nil, apperr.Validation("flyer requires at least one property").WithOp("flyer.Generate")
	}

	// Thumbnails are preloaded in one sequential pass so a slow or dead
	// image host cannot interleave with page layout. A nil entry renders
	// as the placeholder tile.
	thumbs := g.preloadThumbnails(ctx, properties, includeImages)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).
		WithTopMargin(10).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   colorMuted,
		}).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterHeader(g.buildHeader()...); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "register flyer header", err).WithOp("flyer.Generate")
	}
	if err := m.RegisterFooter(g.buildFooter()); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "register flyer footer", err).WithOp("flyer.Generate")
	}

	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("%d PROPERTIES AVAILABLE", len(properties)),
			props.Text{Size: 11, Style: fontstyle.Bold, Color: colorInk},
		)),
	))
	m.AddRows(row.New(3))

	for i, p := range properties {
		m.AddRows(g.buildPropertyRow(p, thumbs[i], i))
	}

	m.AddPages(g.buildClosingPage())

	doc, err := m.Generate()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "generate flyer", err).WithOp("flyer.Generate")
	}

	return doc.GetBytes(), nil
}

// Filename builds the download name for a flyer covering count properties,
// e.g. "lonestar-deal-flow-deals-7-properties-2026-08-28-151004.pdf".
func (g *Generator) Filename(count int) string {
	stamp := g.now().Format("2006-01-02-150405")
	return fmt.Sprintf("%s-deals-%d-properties-%s.pdf", g.brand.Slug(), count, stamp)
}

func (g *Generator) preloadThumbnails(ctx context.Context, properties []domain.PropertyRecord, includeImages bool) [][]byte {
	thumbs := make([][]byte, len(properties))
	if !includeImages || g.fetcher == nil {
		return thumbs
	}

	for i, p := range properties {
		if p.ImageURL == "" {
			continue
		}
		img, err := g.fetcher.Fetch(ctx, p.ImageURL)
		if err != nil {
			if g.log != nil {
				g.log.AssetFailure("flyer_thumbnail", p.ImageURL, err)
			}
			continue
		}
		var buf bytes.Buffer
		small := imaging.Thumbnail(img, thumbWidth, thumbHeight)
		if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: 85}); err != nil {
			if g.log != nil {
				g.log.AssetFailure("flyer_thumbnail", p.ImageURL, err)
			}
			continue
		}
		thumbs[i] = buf.Bytes()
	}
	return thumbs
}

func (g *Generator) buildHeader() []core.Row {
	return []core.Row{
		row.New(14).Add(
			col.New(7).Add(
				text.New(g.brand.BrandName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Color: colorInk,
				}),
				text.New(g.brand.Tagline, props.Text{
					Size:  8,
					Color: colorMuted,
					Top:   8,
				}),
			),
			col.New(5).Add(
				text.New(g.brand.ContactPhone, props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Color: colorInk,
					Align: align.Right,
				}),
				text.New(g.brand.SiteLabel, props.Text{
					Size:  8,
					Color: colorMuted,
					Align: align.Right,
					Top:   5,
				}),
			),
		),
		row.New(1).WithStyle(&props.Cell{
			BorderType:  border.Bottom,
			BorderColor: colorRule,
		}),
		row.New(3),
	}
}

func (g *Generator) buildFooter() core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(
			"Assignable contracts. Buyer to verify all figures independently. Not an offer of brokerage services.",
			props.Text{Size: 6.5, Color: colorFaint, Align: align.Center, Top: 3},
		)),
	).WithStyle(&props.Cell{
		BorderType:  border.Top,
		BorderColor: colorRule,
	})
}

func (g *Generator) buildPropertyRow(p domain.PropertyRecord, thumb []byte, idx int) core.Row {
	height := rowHeightTextOnly
	if thumb != nil {
		height = rowHeightWithImage
	}

	r := row.New(float64(height))

	imageCol := col.New(2)
	if thumb != nil {
		imageCol.Add(image.NewFromBytes(thumb, extension.Jpg, props.Rect{
			Percent: 90,
			Center:  true,
		}))
	} else {
		imageCol.Add(text.New("No Image", props.Text{
			Size:  7,
			Color: colorFaint,
			Align: align.Center,
			Top:   float64(height) / 2.5,
		}))
	}

	address := truncate(p.FullAddress(), g.brand.FlyerAddressWidth)
	price := currency(p.AskingPrice)
	if p.ARV != nil && *p.ARV > 0 {
		price += "   ARV " + currency(*p.ARV)
	}

	detailCol := col.New(8).Add(
		text.New(address, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Color: colorInk,
			Top:   1,
		}),
		text.New(price, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Color: rgbColor(g.brand.AccentGreen),
			Top:   7,
		}),
		text.New(detailsLine(p), props.Text{
			Size:  8,
			Color: colorMuted,
			Top:   12,
		}),
	)

	badgeCol := col.New(2).Add(text.New(
		strings.ToUpper(string(p.Status)),
		props.Text{Size: 7, Style: fontstyle.Bold, Color: colorWhite, Align: align.Center, Top: 1.5},
	)).WithStyle(&props.Cell{BackgroundColor: g.statusColor(p.Status)})

	r.Add(imageCol, detailCol, badgeCol)

	if idx%2 == 0 {
		r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

// buildClosingPage appends the call-to-action page: headline, subtext, a
// filled contact panel, and a QR code pointing at the public listings page.
func (g *Generator) buildClosingPage() core.Page {
	p := page.New()

	p.Add(
		row.New(40),
		row.New(12).Add(col.New(12).Add(text.New(
			"WANT FIRST LOOK AT THE NEXT DEAL?",
			props.Text{Size: 18, Style: fontstyle.Bold, Color: colorInk, Align: align.Center},
		))),
		row.New(8).Add(col.New(12).Add(text.New(
			g.brand.Tagline,
			props.Text{Size: 10, Color: colorMuted, Align: align.Center},
		))),
		row.New(6),
		row.New(16).Add(
			col.New(3),
			col.New(6).Add(
				text.New(g.brand.ContactPhone, props.Text{
					Size: 14, Style: fontstyle.Bold, Color: colorWhite, Align: align.Center, Top: 3,
				}),
				text.New(g.brand.SiteLabel, props.Text{
					Size: 9, Color: colorWhite, Align: align.Center, Top: 10,
				}),
			).WithStyle(&props.Cell{BackgroundColor: colorPanel}),
			col.New(3),
		),
		row.New(8),
	)

	if g.links != nil {
		if png, err := qrcode.Encode(g.links.ListingsURL(), qrcode.Medium, 256); err == nil {
			p.Add(
				row.New(40).Add(
					col.New(4),
					col.New(4).Add(image.NewFromBytes(png, extension.Png, props.Rect{
						Percent: 80,
						Center:  true,
					})),
					col.New(4),
				),
				row.New(6).Add(col.New(12).Add(text.New(
					"Scan to browse every active deal",
					props.Text{Size: 8, Color: colorMuted, Align: align.Center},
				))),
			)
		} else if g.log != nil {
			g.log.AssetFailure("flyer_qr", g.links.ListingsURL(), err)
		}
	}

	return p
}

func (g *Generator) statusColor(s domain.Status) *props.Color {
	switch s {
	case domain.StatusAvailable:
		return rgbColor(g.brand.AccentGreen)
	case domain.StatusPending:
		return rgbColor(g.brand.AmberBadge)
	default:
		return rgbColor(g.brand.RedBadge)
	}
}

// detailsLine joins type, beds, baths, sqft, and county, skipping absent
// fields rather than rendering zeroes.
func detailsLine(p domain.PropertyRecord) string {
	parts := make([]string, 0, 5)
	if p.PropertyType != "" {
		parts = append(parts, string(p.PropertyType))
	}
	if p.Bedrooms > 0 {
		parts = append(parts, fmt.Sprintf("%d BD", p.Bedrooms))
	}
	if p.Bathrooms > 0 {
		parts = append(parts, trimBath(p.Bathrooms)+" BA")
	}
	if p.SquareFootage != nil && *p.SquareFootage > 0 {
		parts = append(parts, fmt.Sprintf("%s sqft", usPrinter.Sprintf("%d", *p.SquareFootage)))
	}
	if p.County != "" {
		parts = append(parts, p.County+" County")
	}
	return strings.Join(parts, "  |  ")
}

func trimBath(baths float64) string {
	s := fmt.Sprintf("%.1f", baths)
	return strings.TrimSuffix(s, ".0")
}

func rgbColor(c branding.RGB) *props.Color {
	return &props.Color{Red: int(c.R), Green: int(c.G), Blue: int(c.B)}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width]) + "…"
}

var usPrinter = message.NewPrinter(language.AmericanEnglish)

func currency(dollars int64) string {
	return "$" + usPrinter.Sprintf("%d", dollars)
}
