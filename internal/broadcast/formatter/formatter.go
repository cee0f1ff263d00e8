// Package formatter turns property selections into WhatsApp-ready broadcast
// text. All functions are pure apart from the timestamp line; rendering is
// deterministic for a fixed selection and options.
package formatter

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrEmptySelection is returned when a formatting function is invoked with
// zero properties. Callers surface it as a validation error.
var ErrEmptySelection = errors.New("empty property selection")

// Divider separates property blocks inside a detailed broadcast.
var Divider = strings.Repeat("█", 21)

// LinkBuilder supplies the outbound URLs embedded in messages.
type LinkBuilder interface {
	PropertyURL(propertyID string) string
	ListingsURL() string
}

// MessageOptions controls the detailed broadcast wrapper. Each field is
// individually defaulted: a nil pointer means "use the brand default".
type MessageOptions struct {
	HeaderText       *string
	FooterText       *string
	IncludeTimestamp *bool
}

// MessageStats describes a formatted message against the messaging
// platform's 4096-character soft limit. The limit is reported, never
// enforced.
type MessageStats struct {
	CharCount   int  `json:"charCount"`
	PercentUsed int  `json:"percentUsed"`
	IsOverLimit bool `json:"isOverLimit"`
}

// StrategyType is the recommended attachment type for a selection size.
type StrategyType string

const (
	StrategySingleImage StrategyType = "single_image"
	StrategyCollage     StrategyType = "collage"
	StrategyPDF         StrategyType = "pdf"
)

// MediaStrategy pairs the strategy with a human-readable label.
type MediaStrategy struct {
	Type        StrategyType `json:"type"`
	Description string       `json:"description"`
}

// Formatter renders broadcast text for one brand profile.
type Formatter struct {
	brand   branding.Profile
	links   LinkBuilder
	printer *message.Printer
	now     func() time.Time
}

// New creates a Formatter. The clock is overridable for tests via WithClock.
func New(brand branding.Profile, links LinkBuilder, opts ...Option) *Formatter {
	f := &Formatter{
		brand:   brand,
		links:   links,
		printer: message.NewPrinter(language.AmericanEnglish),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option customizes a Formatter.
type Option func(*Formatter)

// WithClock overrides the timestamp clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// FormatPropertyBlock renders one property as a five-line block: bolded
// address, price line, bed/bath/sqft/type line, county line, and share link.
func (f *Formatter) FormatPropertyBlock(p domain.PropertyRecord) string {
	lines := make([]string, 0, 5)

	lines = append(lines, "*"+p.FullAddress()+"*")

	price := "💰 Asking: " + f.Currency(p.AskingPrice)
	if p.ARV != nil {
		price += " | ARV: " + f.Currency(*p.ARV)
	}
	lines = append(lines, price)

	details := fmt.Sprintf("🛏 %d BD | %s BA", p.Bedrooms, trimBath(p.Bathrooms))
	if p.SquareFootage != nil && *p.SquareFootage > 0 {
		details += fmt.Sprintf(" | %s sqft", f.printer.Sprintf("%d", *p.SquareFootage))
	}
	if p.PropertyType != "" {
		details += " | " + string(p.PropertyType)
	}
	lines = append(lines, details)

	if county := strings.TrimSpace(p.County); county != "" {
		lines = append(lines, "📍 "+county+" County")
	}

	lines = append(lines, "🔗 "+f.links.PropertyURL(p.ID))

	return strings.Join(lines, "\n")
}

// FormatBroadcastMessage joins one block per property with the divider,
// wrapped in the header and footer, optionally ending with a generation
// timestamp line.
func (f *Formatter) FormatBroadcastMessage(props []domain.PropertyRecord, opts MessageOptions) (string, error) {
	if len(props) == 0 {
		return "", ErrEmptySelection
	}

	header := f.brand.MessageHeader
	if opts.HeaderText != nil {
		header = *opts.HeaderText
	}
	footer := f.brand.MessageFooter
	if opts.FooterText != nil {
		footer = *opts.FooterText
	}
	includeTimestamp := true
	if opts.IncludeTimestamp != nil {
		includeTimestamp = *opts.IncludeTimestamp
	}

	blocks := make([]string, len(props))
	for i, p := range props {
		blocks[i] = f.FormatPropertyBlock(p)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(blocks, "\n\n"+Divider+"\n\n"))
	b.WriteString("\n\n")
	b.WriteString(footer)

	if includeTimestamp {
		b.WriteString("\n\n📅 ")
		b.WriteString(f.now().Format("Mon, Jan 2, 2006"))
	}

	return b.String(), nil
}

// FormatCompactBroadcast renders the dense form: a count header, one bullet
// per property, the general listings link, and the reply prompt.
func (f *Formatter) FormatCompactBroadcast(props []domain.PropertyRecord) (string, error) {
	if len(props) == 0 {
		return "", ErrEmptySelection
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏠 *%d NEW DEALS* 🏠\n\n", len(props))

	for _, p := range props {
		street := strings.TrimSpace(p.Address)
		city := strings.TrimSpace(p.City)
		fmt.Fprintf(&b, "• *%s*", street)
		if city != "" {
			b.WriteString(", " + city)
		}
		b.WriteString(" — " + f.Currency(p.AskingPrice) + "\n")
	}

	b.WriteString("\n🔗 All deals: " + f.links.ListingsURL())
	b.WriteString("\n" + f.brand.ReplyPrompt)

	return b.String(), nil
}

// Stats computes character statistics for a message. CharCount is in
// Unicode code points, matching how the messaging platform counts.
func (f *Formatter) Stats(msg string) MessageStats {
	count := utf8.RuneCountInString(msg)
	limit := f.brand.CharLimit
	return MessageStats{
		CharCount:   count,
		PercentUsed: int(math.Round(float64(count) / float64(limit) * 100)),
		IsOverLimit: count > limit,
	}
}

// StrategyFor maps a selection size to the recommended attachment type.
// single_image applies to exactly one property; a count below 1 is a caller
// bug and falls through to the PDF catch-all rather than recommending a
// photo that does not exist.
func StrategyFor(count int) MediaStrategy {
	switch {
	case count == 1:
		return MediaStrategy{Type: StrategySingleImage, Description: "Send the property photo as a single image"}
	case count >= 2 && count <= 4:
		return MediaStrategy{Type: StrategyCollage, Description: "Send a branded photo collage"}
	default:
		return MediaStrategy{Type: StrategyPDF, Description: "Send a multi-page PDF flyer"}
	}
}

// Truncate shortens a message that exceeds maxChars, preferring to cut at a
// divider boundary so no property block is split mid-way. maxChars <= 0
// falls back to the brand's truncation target.
func (f *Formatter) Truncate(msg string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = f.brand.TruncateTarget
	}

	runes := []rune(msg)
	if len(runes) <= maxChars {
		return msg
	}

	head := string(runes[:maxChars])
	if idx := strings.LastIndex(head, Divider); idx >= 0 {
		keptRunes := utf8.RuneCountInString(head[:idx])
		if keptRunes > maxChars/2 {
			// Cut just after the divider so no block is split mid-way.
			kept := head[:idx+len(Divider)]
			return kept + "\n\n✂️ More deals didn't fit — see them all at " + f.links.ListingsURL()
		}
	}

	return head + "\n✂️ Truncated — full list: " + f.links.ListingsURL()
}

// Currency renders whole dollars with US-locale grouping and no cents.
func (f *Formatter) Currency(dollars int64) string {
	return "$" + f.printer.Sprintf("%d", dollars)
}

// trimBath renders bathrooms without trailing zeros: 2 -> "2", 2.5 -> "2.5".
func trimBath(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s
}
