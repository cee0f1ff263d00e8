// Package transport defines the broadcast API's request and response
// shapes. Properties always arrive in the request body; this subsystem
// never queries the back-office property store itself.
package transport

import (
	"time"

	"wholesale_portal_backend/internal/broadcast/domain"
)

// PropertyPayload is one property as submitted by the operator UI.
type PropertyPayload struct {
	ID            string  `json:"id" validate:"required"`
	Address       string  `json:"address" validate:"required"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	County        string  `json:"county"`
	AskingPrice   int64   `json:"askingPrice" validate:"gte=0"`
	ARV           *int64  `json:"arv,omitempty" validate:"omitempty,gte=0"`
	Bedrooms      int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms     float64 `json:"bathrooms" validate:"gte=0"`
	SquareFootage *int    `json:"squareFootage,omitempty" validate:"omitempty,gte=0"`
	PropertyType  string  `json:"propertyType"`
	Status        string  `json:"status"`
	ImageURL      string  `json:"imageUrl"`
}

// ToDomain converts the payload to the domain record.
func (p PropertyPayload) ToDomain() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:            p.ID,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		County:        p.County,
		AskingPrice:   p.AskingPrice,
		ARV:           p.ARV,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		SquareFootage: p.SquareFootage,
		PropertyType:  domain.PropertyType(p.PropertyType),
		Status:        domain.Status(p.Status),
		ImageURL:      p.ImageURL,
	}
}

// ToDomainList converts a payload slice.
func ToDomainList(payloads []PropertyPayload) []domain.PropertyRecord {
	out := make([]domain.PropertyRecord, len(payloads))
	for i, p := range payloads {
		out[i] = p.ToDomain()
	}
	return out
}

// MessageOptionsPayload carries the optional overrides for the detailed
// broadcast. Nil fields keep the brand defaults.
type MessageOptionsPayload struct {
	HeaderText       *string `json:"headerText,omitempty"`
	FooterText       *string `json:"footerText,omitempty"`
	IncludeTimestamp *bool   `json:"includeTimestamp,omitempty"`
}

// PreviewRequest asks for the detailed broadcast text plus derived stats.
type PreviewRequest struct {
	Properties []PropertyPayload      `json:"properties" validate:"required,min=1,dive"`
	Options    *MessageOptionsPayload `json:"options,omitempty"`
}

// StatsPayload mirrors formatter.MessageStats.
type StatsPayload struct {
	CharCount   int  `json:"charCount"`
	PercentUsed int  `json:"percentUsed"`
	IsOverLimit bool `json:"isOverLimit"`
}

// StrategyPayload mirrors formatter.MediaStrategy.
type StrategyPayload struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// PreviewResponse returns the message with its stats and the recommended
// attachment strategy for the selection size.
type PreviewResponse struct {
	Message  string          `json:"message"`
	Stats    StatsPayload    `json:"stats"`
	Strategy StrategyPayload `json:"strategy"`
}

// CompactRequest asks for the dense one-line-per-deal form.
type CompactRequest struct {
	Properties []PropertyPayload `json:"properties" validate:"required,min=1,dive"`
}

// CompactResponse carries the compact message and its stats.
type CompactResponse struct {
	Message string       `json:"message"`
	Stats   StatsPayload `json:"stats"`
}

// TruncateRequest trims an already-formatted message at a block boundary.
type TruncateRequest struct {
	Message  string `json:"message" validate:"required"`
	MaxChars int    `json:"maxChars" validate:"omitempty,gt=0"`
}

// TruncateResponse returns the possibly shortened message.
type TruncateResponse struct {
	Message   string `json:"message"`
	Truncated bool   `json:"truncated"`
	CharCount int    `json:"charCount"`
}

// CollageRequest renders the 2-4 tile collage image.
type CollageRequest struct {
	Properties []PropertyPayload `json:"properties" validate:"required,min=1,dive"`
}

// CollageResponse carries the rendered image as a data URL.
type CollageResponse struct {
	DataURL string `json:"dataUrl"`
}

// FlyerRequest renders the deal sheet PDF.
type FlyerRequest struct {
	Properties    []PropertyPayload `json:"properties" validate:"required,min=1,dive"`
	IncludeImages bool              `json:"includeImages"`
}

// FlyerArchiveResponse returns the presigned download link for an archived
// flyer.
type FlyerArchiveResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FlyerEmailRequest renders the flyer and emails it to one recipient.
type FlyerEmailRequest struct {
	Properties    []PropertyPayload `json:"properties" validate:"required,min=1,dive"`
	IncludeImages bool              `json:"includeImages"`
	To            string            `json:"to" validate:"required,email"`
}

// WhatsAppLinkRequest builds the chat deep link for a formatted message.
type WhatsAppLinkRequest struct {
	Message string `json:"message" validate:"required"`
	Phone   string `json:"phone"`
}

// LinkResponse carries a single outbound URL.
type LinkResponse struct {
	URL string `json:"url"`
}

// HistoryEntry is one logged broadcast.
type HistoryEntry struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	PropertyCount int       `json:"propertyCount"`
	CharCount     int       `json:"charCount"`
	MediaStrategy string    `json:"mediaStrategy"`
	CreatedBy     *string   `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HistoryResponse lists recent broadcasts, newest first.
type HistoryResponse struct {
	Items []HistoryEntry `json:"items"`
}
