package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLunchTiers(t *testing.T) {
	cat := Default()

	cases := []struct {
		choice string
		tier   Tier
	}{
		{"2 slices of pepperoni", TierFull},
		{"2 slices of cheese", TierFull},
		{"1 slice of pepperoni and 1 slice of cheese", TierFull},
		{"1 slice of pepperoni", TierHalf},
		{"1 slice of vegetarian", TierHalf},
	}

	for _, c := range cases {
		opt, ok := cat.LunchOption(c.choice)
		if !ok {
			t.Errorf("expected %q in the default catalog", c.choice)
			continue
		}
		if opt.Tier != c.tier {
			t.Errorf("%q: got tier %q, want %q", c.choice, opt.Tier, c.tier)
		}
	}
}

func TestUnrecognizedChoiceIsNotAnError(t *testing.T) {
	cat := Default()

	for _, choice := range []string{"", "3 slices of anchovy", "2 slices of Pepperoni"} {
		if _, ok := cat.LunchOption(choice); ok {
			t.Errorf("choice %q should not be recognized", choice)
		}
	}
}

func TestDefaultCategories(t *testing.T) {
	cat := Default()

	got := cat.Categories()
	want := []string{"pepperoni", "cheese", "vegetarian"}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsFemale(t *testing.T) {
	cat := Default()

	if !cat.IsFemale("Female") {
		t.Error("expected Female to match")
	}
	if !cat.IsFemale("  Female | Féminin  ") {
		t.Error("expected bilingual label to match after trimming")
	}
	if cat.IsFemale("Male") || cat.IsFemale("") {
		t.Error("non-female answers should not match")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  a@x.com "); got != "A@X.COM" {
		t.Errorf("got %q, want A@X.COM", got)
	}
	if got := NormalizeEmail(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
lunch_options:
  - choice: "1 slice of hawaiian"
    slices:
      hawaiian: 1
    tier: half
  - choice: "2 slices of hawaiian"
    slices:
      hawaiian: 2
    tier: full
apparel_sizes: [S, M, L]
female_labels: ["Female"]
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	opt, ok := cat.LunchOption("2 slices of hawaiian")
	if !ok || opt.Tier != TierFull || opt.Slices["hawaiian"] != 2 {
		t.Errorf("unexpected option: %+v (ok=%v)", opt, ok)
	}
	if len(cat.ApparelSizes()) != 3 {
		t.Errorf("got %d sizes, want 3", len(cat.ApparelSizes()))
	}
}

func TestLoadFileRejectsBadTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
lunch_options:
  - choice: "1 slice of cheese"
    slices:
      cheese: 1
    tier: jumbo
apparel_sizes: [S]
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected an error for an invalid tier tag")
	}
}
