package service

import (
	"context"
	"strings"
	"testing"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"
	"wholesale_portal_backend/internal/broadcast/formatter"
	"wholesale_portal_backend/internal/broadcast/repository"
	"wholesale_portal_backend/internal/broadcast/sharelink"
	"wholesale_portal_backend/internal/broadcast/transport"
	"wholesale_portal_backend/internal/email"
	"wholesale_portal_backend/platform/apperr"
	"wholesale_portal_backend/platform/logger"
)

type fakeCollage struct {
	calls int
	err   error
}

func (f *fakeCollage) Generate(ctx context.Context, props []domain.PropertyRecord) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "data:image/jpeg;base64,ZmFrZQ==", nil
}

type fakeFlyer struct {
	calls int
}

func (f *fakeFlyer) Generate(ctx context.Context, props []domain.PropertyRecord, includeImages bool) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.7 fake"), nil
}

func (f *fakeFlyer) Filename(count int) string {
	return "test-deals.pdf"
}

type memoryHistory struct {
	entries []repository.LogEntry
}

func (m *memoryHistory) Insert(ctx context.Context, entry repository.LogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryHistory) List(ctx context.Context, limit int) ([]repository.LogEntry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]repository.LogEntry, limit)
	copy(out, m.entries[:limit])
	return out, nil
}

type recordingMailer struct {
	to          string
	attachments []email.Attachment
}

func (r *recordingMailer) SendFlyerEmail(ctx context.Context, toEmail string, propertyCount int, listingsURL string, attachments ...email.Attachment) error {
	r.to = toEmail
	r.attachments = attachments
	return nil
}

func payloads(n int) []transport.PropertyPayload {
	out := make([]transport.PropertyPayload, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, transport.PropertyPayload{
			ID:          "p" + string(rune('1'+i)),
			Address:     "123 Main St",
			City:        "Dallas",
			AskingPrice: 150000,
			Bedrooms:    3,
			Bathrooms:   2,
			Status:      "available",
		})
	}
	return out
}

func newService(t *testing.T, history HistoryRepo, mailer email.Sender) (*Service, *fakeCollage, *fakeFlyer) {
	t.Helper()
	brand := branding.Default()
	links := sharelink.New("https://deals.test")
	fmtr := formatter.New(brand, links)
	fc := &fakeCollage{}
	ff := &fakeFlyer{}
	svc := New(fmtr, fc, ff, links, history, nil, "flyers", mailer, logger.New("development"))
	return svc, fc, ff
}

func TestPreview_ReturnsStatsAndStrategy(t *testing.T) {
	hist := &memoryHistory{}
	svc, _, _ := newService(t, hist, nil)

	resp, err := svc.Preview(context.Background(), transport.PreviewRequest{Properties: payloads(3)}, nil)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected a formatted message")
	}
	if resp.Strategy.Type != "collage" {
		t.Fatalf("expected collage strategy for 3 properties, got %q", resp.Strategy.Type)
	}
	if resp.Stats.CharCount == 0 {
		t.Fatal("expected non-zero char count")
	}
	if len(hist.entries) != 1 || hist.entries[0].Kind != "message" {
		t.Fatalf("expected one message history entry, got %+v", hist.entries)
	}
}

func TestPreview_EmptySelection(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)

	_, err := svc.Preview(context.Background(), transport.PreviewRequest{}, nil)
	if err == nil {
		t.Fatal("expected error for empty selection")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
}

func TestCompact_FormatsAndLogs(t *testing.T) {
	hist := &memoryHistory{}
	svc, _, _ := newService(t, hist, nil)

	resp, err := svc.Compact(context.Background(), transport.CompactRequest{Properties: payloads(2)}, nil)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if !strings.HasPrefix(resp.Message, "🏠 *2 NEW DEALS* 🏠") {
		t.Fatalf("unexpected compact header: %q", resp.Message)
	}
	if len(hist.entries) != 1 || hist.entries[0].Kind != "compact" {
		t.Fatalf("expected one compact history entry, got %+v", hist.entries)
	}
}

func TestTruncate_ShortMessageUnchanged(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)

	resp := svc.Truncate(transport.TruncateRequest{Message: "short", MaxChars: 100})
	if resp.Truncated {
		t.Fatal("short message should not be truncated")
	}
	if resp.Message != "short" {
		t.Fatalf("message changed: %q", resp.Message)
	}
}

func TestCollage_DelegatesAndLogs(t *testing.T) {
	hist := &memoryHistory{}
	svc, fc, _ := newService(t, hist, nil)

	resp, err := svc.Collage(context.Background(), transport.CollageRequest{Properties: payloads(3)}, nil)
	if err != nil {
		t.Fatalf("Collage: %v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("expected one renderer call, got %d", fc.calls)
	}
	if !strings.HasPrefix(resp.DataURL, "data:image/jpeg") {
		t.Fatalf("unexpected data URL: %q", resp.DataURL)
	}
	if len(hist.entries) != 1 || hist.entries[0].Kind != "collage" {
		t.Fatalf("expected one collage history entry, got %+v", hist.entries)
	}
}

func TestCollage_RendererErrorPropagates(t *testing.T) {
	hist := &memoryHistory{}
	svc, fc, _ := newService(t, hist, nil)
	fc.err = apperr.Validation("collage requires 2-4 properties, got 5")

	_, err := svc.Collage(context.Background(), transport.CollageRequest{Properties: payloads(5)}, nil)
	if err == nil {
		t.Fatal("expected renderer error to propagate")
	}
	if len(hist.entries) != 0 {
		t.Fatal("failed render must not be logged to history")
	}
}

func TestFlyer_ReturnsBytesAndFilename(t *testing.T) {
	svc, _, ff := newService(t, nil, nil)

	pdf, name, err := svc.Flyer(context.Background(), transport.FlyerRequest{Properties: payloads(6)}, nil)
	if err != nil {
		t.Fatalf("Flyer: %v", err)
	}
	if ff.calls != 1 {
		t.Fatalf("expected one generator call, got %d", ff.calls)
	}
	if len(pdf) == 0 || name != "test-deals.pdf" {
		t.Fatalf("unexpected flyer output: %d bytes, name %q", len(pdf), name)
	}
}

func TestFlyerArchive_UnavailableWithoutStorage(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)

	_, err := svc.FlyerArchive(context.Background(), transport.FlyerRequest{Properties: payloads(2)}, nil)
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestFlyerEmail_SendsAttachment(t *testing.T) {
	mailer := &recordingMailer{}
	svc, _, _ := newService(t, nil, mailer)

	err := svc.FlyerEmail(context.Background(), transport.FlyerEmailRequest{
		Properties: payloads(2),
		To:         "buyer@example.com",
	}, nil)
	if err != nil {
		t.Fatalf("FlyerEmail: %v", err)
	}
	if mailer.to != "buyer@example.com" {
		t.Fatalf("unexpected recipient %q", mailer.to)
	}
	if len(mailer.attachments) != 1 || mailer.attachments[0].FileName != "test-deals.pdf" {
		t.Fatalf("unexpected attachments %+v", mailer.attachments)
	}
}

func TestFlyerEmail_UnavailableWithoutMailer(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)

	err := svc.FlyerEmail(context.Background(), transport.FlyerEmailRequest{
		Properties: payloads(2),
		To:         "buyer@example.com",
	}, nil)
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestWhatsAppLink_EncodesMessage(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)

	resp := svc.WhatsAppLink(transport.WhatsAppLinkRequest{Message: "hello deals"})
	if !strings.HasPrefix(resp.URL, "https://wa.me/?text=") {
		t.Fatalf("unexpected deep link: %q", resp.URL)
	}
}

func TestHistory_EmptyWhenDisabled(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)

	resp, err := svc.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("expected empty history, got %d items", len(resp.Items))
	}
}

func TestHistory_ListsEntries(t *testing.T) {
	hist := &memoryHistory{}
	svc, _, _ := newService(t, hist, nil)

	if _, err := svc.Preview(context.Background(), transport.PreviewRequest{Properties: payloads(2)}, nil); err != nil {
		t.Fatalf("Preview: %v", err)
	}

	resp, err := svc.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Kind != "message" {
		t.Fatalf("unexpected history %+v", resp.Items)
	}
}
