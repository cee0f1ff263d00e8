// Package branding holds the brand profile applied to every outbound
// artifact: broadcast text, collages, and flyers. Defaults describe the
// wholesale desk's house brand; an optional YAML file overrides individual
// fields so the marketing team can retheme without a deploy.
package branding

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGB is a simple color triple shared by the collage and flyer renderers.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Profile is the complete brand profile.
type Profile struct {
	// Identity
	BrandName    string `yaml:"brandName"`
	Tagline      string `yaml:"tagline"`
	ContactPhone string `yaml:"contactPhone"`
	ContactEmail string `yaml:"contactEmail"`
	SiteLabel    string `yaml:"siteLabel"`

	// Broadcast text
	MessageHeader string `yaml:"messageHeader"`
	MessageFooter string `yaml:"messageFooter"`
	ReplyPrompt   string `yaml:"replyPrompt"`

	// Colors
	AccentGreen RGB `yaml:"accentGreen"`
	AmberBadge  RGB `yaml:"amberBadge"`
	RedBadge    RGB `yaml:"redBadge"`

	// Character thresholds. The overlay and flyer truncation widths are
	// tuned to the rendered font; they are profile fields rather than
	// constants so a retheme can adjust them alongside the fonts.
	CharLimit           int `yaml:"charLimit"`
	TruncateTarget      int `yaml:"truncateTarget"`
	CollageAddressWidth int `yaml:"collageAddressWidth"`
	FlyerAddressWidth   int `yaml:"flyerAddressWidth"`
}

// Default returns the house brand profile.
func Default() Profile {
	return Profile{
		BrandName:     "Lonestar Deal Flow",
		Tagline:       "Off-market wholesale deals, direct to your phone",
		ContactPhone:  "(817) 555-0139",
		ContactEmail:  "deals@lonestardealflow.com",
		SiteLabel:     "lonestardealflow.com",
		MessageHeader: "🔥 *LONESTAR DEAL FLOW* 🔥",
		MessageFooter: "📲 Reply FAST — these move in hours, not days.",
		ReplyPrompt:   "💬 Reply with an address for the full deal sheet.",
		AccentGreen:   RGB{R: 34, G: 197, B: 94},
		AmberBadge:    RGB{R: 245, G: 158, B: 11},
		RedBadge:      RGB{R: 220, G: 38, B: 38},

		CharLimit:           4096,
		TruncateTarget:      4000,
		CollageAddressWidth: 26,
		FlyerAddressWidth:   50,
	}
}

// Load returns the default profile overlaid with any fields present in the
// YAML file at path. An empty path returns the defaults unchanged.
func Load(path string) (Profile, error) {
	profile := Default()
	if strings.TrimSpace(path) == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read branding file: %w", err)
	}

	// Unmarshal over the defaults so absent keys keep their values.
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return profile, fmt.Errorf("parse branding file: %w", err)
	}

	if err := profile.validate(); err != nil {
		return profile, err
	}

	return profile, nil
}

func (p Profile) validate() error {
	if strings.TrimSpace(p.BrandName) == "" {
		return fmt.Errorf("branding: brandName must not be empty")
	}
	if p.CharLimit <= 0 {
		return fmt.Errorf("branding: charLimit must be positive")
	}
	if p.TruncateTarget <= 0 || p.TruncateTarget > p.CharLimit {
		return fmt.Errorf("branding: truncateTarget must be in (0, charLimit]")
	}
	if p.CollageAddressWidth <= 1 || p.FlyerAddressWidth <= 1 {
		return fmt.Errorf("branding: address widths must be greater than 1")
	}
	return nil
}

// Slug returns the brand name lowercased with spaces collapsed to dashes,
// used in generated filenames.
func (p Profile) Slug() string {
	slug := strings.ToLower(strings.TrimSpace(p.BrandName))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

// ContactLine renders the single-line contact string used in collage and
// flyer footers.
func (p Profile) ContactLine() string {
	parts := make([]string, 0, 3)
	if p.ContactPhone != "" {
		parts = append(parts, p.ContactPhone)
	}
	if p.ContactEmail != "" {
		parts = append(parts, p.ContactEmail)
	}
	if p.SiteLabel != "" {
		parts = append(parts, p.SiteLabel)
	}
	return p.BrandName + "  ·  " + strings.Join(parts, "  ·  ")
}
