package email

import (
	"strings"
	"testing"
)

func TestRenderFlyerTemplate(t *testing.T) {
	content, err := renderEmailTemplate("flyer.html", flyerEmailData{
		baseEmailData: baseEmailData{
			Title:    "New off-market deals",
			Heading:  "8 deals just hit the list",
			CTALabel: "Browse all deals",
			CTAURL:   "https://deals.test/deals",
		},
		PropertyCount: 8,
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate: %v", err)
	}

	for _, want := range []string{
		"8 deals just hit the list",
		"<strong>8</strong>",
		`href="https://deals.test/deals"`,
		"Browse all deals",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("rendered email missing %q", want)
		}
	}
}

func TestRenderTemplate_UnknownName(t *testing.T) {
	if _, err := renderEmailTemplate("missing.html", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
