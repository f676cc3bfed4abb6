package service

import (
	"testing"
)

func TestGetOrCreateByNamesDisambiguatesSlugs(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewTagService(gdb)

	tags, err := svc.GetOrCreateByNames(nil, []string{"News", "news", " ", "News"})
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "News" || tags[0].Slug != "news" {
		t.Fatalf("first tag: %q/%q", tags[0].Name, tags[0].Slug)
	}
	if tags[1].Name != "news" || tags[1].Slug != "news-2" {
		t.Fatalf("second tag: %q/%q", tags[1].Name, tags[1].Slug)
	}

	// Resolving the same names again reuses the existing records.
	again, err := svc.GetOrCreateByNames(nil, []string{"news", "News"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("expected 2 tags on reuse, got %d", len(again))
	}
	if again[0].ID != tags[1].ID || again[1].ID != tags[0].ID {
		t.Fatalf("existing tags not reused: %+v vs %+v", again, tags)
	}
}

func TestGetOrCreateByNamesExtendsSuffix(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewTagService(gdb)

	tags, err := svc.GetOrCreateByNames(nil, []string{"Budget", "budget", "BUDGET"})
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	want := []string{"budget", "budget-2", "budget-3"}
	for i, slug := range want {
		if tags[i].Slug != slug {
			t.Fatalf("tag %d slug %q, want %q", i, tags[i].Slug, slug)
		}
	}
}
