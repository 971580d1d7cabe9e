package domain

import "testing"

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(cats))
	}
	if cats[0] != CategoryWira || cats[1] != CategoryMadya {
		t.Errorf("Unexpected category set: %v", cats)
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("wira"); err != nil {
		t.Errorf("Expected wira to parse, got %v", err)
	}
	if _, err := ParseCategory("senior"); err == nil {
		t.Error("Expected unknown category to be rejected")
	}
}

func TestEventDisplayName(t *testing.T) {
	if got := EventDisplayName("pp"); got != "Pertolongan Pertama" {
		t.Errorf("Expected display name for pp, got %q", got)
	}
	// Unknown keys fall back to the raw key so stale entries still render.
	if got := EventDisplayName("lomba_lama"); got != "lomba_lama" {
		t.Errorf("Expected raw-key fallback, got %q", got)
	}
}
