package domain

import "testing"

func TestNewSiteID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSiteID()
		if len(id) != 12 {
			t.Fatalf("NewSiteID length = %d, want 12", len(id))
		}
		if seen[id] {
			t.Fatalf("NewSiteID returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestDraft_IsEmpty(t *testing.T) {
	var d *Draft
	if !d.IsEmpty() {
		t.Error("nil draft should be empty")
	}
	if !(&Draft{}).IsEmpty() {
		t.Error("zero draft should be empty")
	}
	if (&Draft{CustomFonts: []string{"Brand"}}).IsEmpty() {
		t.Error("draft with fonts should not be empty")
	}
}

func TestEditorMode_Valid(t *testing.T) {
	if !ModeCode.Valid() || !ModePreview.Valid() {
		t.Error("known modes should be valid")
	}
	if EditorMode("split").Valid() {
		t.Error("unknown mode should be invalid")
	}
}

func TestDefaultSiteMeta(t *testing.T) {
	m := DefaultSiteMeta()
	if !m.IsPublic || !m.AllowSourceDownload {
		t.Errorf("DefaultSiteMeta() = %+v, want public with source download", m)
	}
}
