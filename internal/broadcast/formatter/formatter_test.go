package formatter

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"
)

type staticLinks struct{}

func (staticLinks) PropertyURL(id string) string { return "https://deals.test/property/" + id + "?v=1" }
func (staticLinks) ListingsURL() string          { return "https://deals.test/deals" }

func newTestFormatter() *Formatter {
	fixed := time.Date(2026, time.August, 27, 10, 0, 0, 0, time.UTC)
	return New(branding.Default(), staticLinks{}, WithClock(func() time.Time { return fixed }))
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func sampleProperty() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:            "prop-1",
		Address:       "123 Main St",
		City:          "Dallas",
		State:         "TX",
		Zip:           "75201",
		County:        "Dallas",
		AskingPrice:   150000,
		ARV:           int64Ptr(275000),
		Bedrooms:      3,
		Bathrooms:     2,
		SquareFootage: intPtr(1450),
		PropertyType:  domain.TypeSFR,
		Status:        domain.StatusAvailable,
	}
}

func TestFormatPropertyBlock_AllFields(t *testing.T) {
	f := newTestFormatter()
	block := f.FormatPropertyBlock(sampleProperty())

	lines := strings.Split(block, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), block)
	}
	if lines[0] != "*123 Main St, Dallas, TX 75201*" {
		t.Fatalf("unexpected address line: %q", lines[0])
	}
	if lines[1] != "💰 Asking: $150,000 | ARV: $275,000" {
		t.Fatalf("unexpected price line: %q", lines[1])
	}
	if lines[2] != "🛏 3 BD | 2 BA | 1,450 sqft | SFR" {
		t.Fatalf("unexpected details line: %q", lines[2])
	}
	if lines[3] != "📍 Dallas County" {
		t.Fatalf("unexpected county line: %q", lines[3])
	}
	if lines[4] != "🔗 https://deals.test/property/prop-1?v=1" {
		t.Fatalf("unexpected link line: %q", lines[4])
	}
}

func TestFormatPropertyBlock_OmitsAbsentSqft(t *testing.T) {
	f := newTestFormatter()
	p := sampleProperty()
	p.SquareFootage = nil

	block := f.FormatPropertyBlock(p)
	if strings.Contains(block, "sqft") {
		t.Fatalf("expected sqft segment to be omitted, got %q", block)
	}
	if !strings.Contains(block, "🛏 3 BD | 2 BA | SFR") {
		t.Fatalf("expected details line without sqft, got %q", block)
	}
}

func TestFormatPropertyBlock_HalfBath(t *testing.T) {
	f := newTestFormatter()
	p := sampleProperty()
	p.Bathrooms = 2.5

	block := f.FormatPropertyBlock(p)
	if !strings.Contains(block, "2.5 BA") {
		t.Fatalf("expected half bath to render as 2.5 BA, got %q", block)
	}
}

func TestFormatBroadcastMessage_StructureAndDividers(t *testing.T) {
	f := newTestFormatter()
	second := sampleProperty()
	second.ID = "prop-2"
	second.Address = "456 Oak Ave"
	second.AskingPrice = 275000
	props := []domain.PropertyRecord{sampleProperty(), second, sampleProperty()}

	msg, err := f.FormatBroadcastMessage(props, MessageOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(msg, branding.Default().MessageHeader) {
		t.Fatalf("message should begin with the header, got %q", msg[:40])
	}
	if !strings.HasSuffix(msg, "📅 Thu, Aug 27, 2026") {
		// 2026-08-27 is a Thursday
		t.Fatalf("message should end with the timestamp line, got %q", msg[len(msg)-40:])
	}
	if got := strings.Count(msg, Divider); got != len(props)-1 {
		t.Fatalf("expected %d dividers, got %d", len(props)-1, got)
	}
	if got := strings.Count(msg, "💰 Asking:"); got != len(props) {
		t.Fatalf("expected %d property blocks, got %d", len(props), got)
	}
}

func TestFormatBroadcastMessage_OptionOverrides(t *testing.T) {
	f := newTestFormatter()
	props := []domain.PropertyRecord{sampleProperty()}

	msg, err := f.FormatBroadcastMessage(props, MessageOptions{
		HeaderText:       strPtr("CUSTOM HEADER"),
		FooterText:       strPtr("CUSTOM FOOTER"),
		IncludeTimestamp: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(msg, "CUSTOM HEADER\n\n") {
		t.Fatalf("expected custom header, got %q", msg[:30])
	}
	if !strings.HasSuffix(msg, "CUSTOM FOOTER") {
		t.Fatalf("expected message to end with custom footer (no timestamp), got %q", msg)
	}
}

func TestFormatBroadcastMessage_EmptySelection(t *testing.T) {
	f := newTestFormatter()
	if _, err := f.FormatBroadcastMessage(nil, MessageOptions{}); err != ErrEmptySelection {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestFormatCompactBroadcast(t *testing.T) {
	f := newTestFormatter()
	second := sampleProperty()
	second.Address = "456 Oak Ave"
	second.City = "Fort Worth"
	second.AskingPrice = 275000

	msg, err := f.FormatCompactBroadcast([]domain.PropertyRecord{sampleProperty(), second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(msg, "🏠 *2 NEW DEALS* 🏠") {
		t.Fatalf("expected count header, got %q", msg)
	}
	if !strings.Contains(msg, "$150,000") || !strings.Contains(msg, "$275,000") {
		t.Fatalf("expected both grouped prices with no cents, got %q", msg)
	}
	if !strings.Contains(msg, "• *456 Oak Ave*, Fort Worth — $275,000") {
		t.Fatalf("expected bullet line, got %q", msg)
	}
	if !strings.Contains(msg, "https://deals.test/deals") {
		t.Fatalf("expected listings link, got %q", msg)
	}
}

func TestStats(t *testing.T) {
	f := newTestFormatter()

	msg := strings.Repeat("a", 2048)
	stats := f.Stats(msg)
	if stats.CharCount != 2048 {
		t.Fatalf("expected char count 2048, got %d", stats.CharCount)
	}
	if stats.IsOverLimit {
		t.Fatalf("2048 chars should not be over the 4096 limit")
	}
	if stats.PercentUsed != 50 {
		t.Fatalf("expected 50%% used, got %d", stats.PercentUsed)
	}

	over := f.Stats(strings.Repeat("b", 4097))
	if !over.IsOverLimit {
		t.Fatalf("4097 chars should be over the limit")
	}
	if exact := f.Stats(strings.Repeat("c", 4096)); exact.IsOverLimit {
		t.Fatalf("exactly 4096 chars is not over the limit")
	}

	// Counting is per code point, not per byte.
	emoji := f.Stats("🏠🏠")
	if emoji.CharCount != 2 {
		t.Fatalf("expected emoji to count as 2 chars, got %d", emoji.CharCount)
	}
}

func TestStrategyFor(t *testing.T) {
	cases := []struct {
		count int
		want  StrategyType
	}{
		{0, StrategyPDF},
		{-1, StrategyPDF},
		{1, StrategySingleImage},
		{2, StrategyCollage},
		{3, StrategyCollage},
		{4, StrategyCollage},
		{5, StrategyPDF},
		{12, StrategyPDF},
	}
	for _, tc := range cases {
		if got := StrategyFor(tc.count); got.Type != tc.want {
			t.Fatalf("StrategyFor(%d) = %s, want %s", tc.count, got.Type, tc.want)
		}
		if StrategyFor(tc.count).Description == "" {
			t.Fatalf("StrategyFor(%d) missing description", tc.count)
		}
	}
}

func TestTruncate_ShortMessageUnchanged(t *testing.T) {
	f := newTestFormatter()
	msg := "short message"
	if got := f.Truncate(msg, 4000); got != msg {
		t.Fatalf("short message must pass through unchanged, got %q", got)
	}
}

func TestTruncate_CutsAtDividerBoundary(t *testing.T) {
	f := newTestFormatter()

	// Build a message whose last complete divider falls past the halfway
	// point of the cutoff window.
	blockA := strings.Repeat("a", 80)
	blockB := strings.Repeat("b", 30)
	blockC := strings.Repeat("c", 60)
	msg := blockA + "\n\n" + Divider + "\n\n" + blockB + "\n\n" + Divider + "\n\n" + blockC

	max := 160
	got := f.Truncate(msg, max)
	if got == msg {
		t.Fatalf("expected truncation for %d-char message with max %d", utf8.RuneCountInString(msg), max)
	}
	if !strings.Contains(got, "✂️") {
		t.Fatalf("expected truncation notice, got %q", got)
	}
	kept := got[:strings.Index(got, "\n\n✂️")]
	if !strings.HasPrefix(msg, kept) {
		t.Fatalf("kept portion must be a prefix of the original")
	}
	if !strings.HasSuffix(kept, Divider) {
		t.Fatalf("kept portion should end at a divider boundary, got %q", kept)
	}
	if strings.Contains(kept, "c") {
		t.Fatalf("block after the cut divider must not leak into the output")
	}
}

func TestTruncate_HardCutWithoutLateDivider(t *testing.T) {
	f := newTestFormatter()

	// Divider only in the first half, so the fallback hard cut applies.
	msg := "x" + "\n\n" + Divider + "\n\n" + strings.Repeat("y", 500)
	max := 200
	got := f.Truncate(msg, max)

	if !strings.Contains(got, "✂️ Truncated") {
		t.Fatalf("expected short truncation notice, got %q", got)
	}
	cut := got[:strings.Index(got, "\n✂️")]
	if utf8.RuneCountInString(cut) != max {
		t.Fatalf("hard cut should keep exactly %d chars, kept %d", max, utf8.RuneCountInString(cut))
	}
	if !strings.HasPrefix(msg, cut) {
		t.Fatalf("kept portion must be a prefix of the original")
	}
}

func TestTruncate_DefaultTarget(t *testing.T) {
	f := newTestFormatter()
	msg := strings.Repeat("z", 4500)
	got := f.Truncate(msg, 0)
	if utf8.RuneCountInString(got) >= 4500 {
		t.Fatalf("expected default-target truncation to shorten the message")
	}
}
