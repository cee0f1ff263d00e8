package branding

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	profile, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.BrandName != "Lonestar Deal Flow" {
		t.Fatalf("expected default brand name, got %q", profile.BrandName)
	}
	if profile.CharLimit != 4096 {
		t.Fatalf("expected char limit 4096, got %d", profile.CharLimit)
	}
	if profile.CollageAddressWidth != 26 {
		t.Fatalf("expected collage address width 26, got %d", profile.CollageAddressWidth)
	}
}

func TestLoad_PartialOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "branding.yaml")
	content := "brandName: Metro Deals\ncontactPhone: \"(214) 555-0100\"\nflyerAddressWidth: 60\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write branding file: %v", err)
	}

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.BrandName != "Metro Deals" {
		t.Fatalf("expected overridden brand name, got %q", profile.BrandName)
	}
	if profile.ContactPhone != "(214) 555-0100" {
		t.Fatalf("expected overridden phone, got %q", profile.ContactPhone)
	}
	if profile.FlyerAddressWidth != 60 {
		t.Fatalf("expected overridden flyer width 60, got %d", profile.FlyerAddressWidth)
	}
	if profile.TruncateTarget != 4000 {
		t.Fatalf("expected default truncate target, got %d", profile.TruncateTarget)
	}
	if profile.MessageHeader == "" {
		t.Fatalf("expected default message header to survive override")
	}
}

func TestLoad_RejectsInvalidThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "branding.yaml")
	if err := os.WriteFile(path, []byte("truncateTarget: 9000\n"), 0o644); err != nil {
		t.Fatalf("write branding file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for truncateTarget above charLimit")
	}
}

func TestSlug(t *testing.T) {
	p := Default()
	if p.Slug() != "lonestar-deal-flow" {
		t.Fatalf("expected slug lonestar-deal-flow, got %q", p.Slug())
	}
}
