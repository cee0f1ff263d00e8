// Package sharelink builds the outbound URLs embedded in broadcast
// messages: public property pages with a cache-busting parameter, the
// general listings page, and WhatsApp deep links with a pre-filled message.
package sharelink

import (
	"net/url"
	"strconv"
	"time"

	"wholesale_portal_backend/platform/phone"
)

// Builder constructs share URLs against one site origin. The origin is
// injected at construction so the package has no ambient state and tests
// need no environment.
type Builder struct {
	siteOrigin string
	now        func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithClock overrides the cache-buster clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder for the given site origin, e.g.
// "https://lonestardealflow.com".
func New(siteOrigin string, opts ...Option) *Builder {
	b := &Builder{
		siteOrigin: siteOrigin,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PropertyURL builds the public page URL for one property. The v parameter
// is a deliberate cache-buster: chat clients cache link previews keyed by
// URL, so a changing parameter forces each share to refetch the preview
// metadata. Two shares in the same millisecond may collide; that is
// acceptable, the parameter is a workaround rather than a correctness
// requirement.
func (b *Builder) PropertyURL(propertyID string) string {
	u := url.URL{Path: "/property/" + propertyID}
	q := url.Values{}
	q.Set("v", formatMillis(b.now()))
	u.RawQuery = q.Encode()
	return b.siteOrigin + u.String()
}

// ListingsURL builds the general deals page URL used by the compact
// broadcast form and truncation notices.
func (b *Builder) ListingsURL() string {
	return b.siteOrigin + "/deals"
}

// WhatsAppURL builds a wa.me deep link with the message URL-encoded into
// the text parameter. With a phone number the link opens a chat with that
// recipient directly; without one the client lets the user pick a
// destination from their own contacts.
func (b *Builder) WhatsAppURL(message, phoneNumber string) string {
	q := url.Values{}
	q.Set("text", message)

	digits := ""
	if phoneNumber != "" {
		digits = phone.Digits(phoneNumber)
	}

	if digits == "" {
		return "https://wa.me/?" + q.Encode()
	}
	return "https://wa.me/" + digits + "?" + q.Encode()
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
