package locales

import (
	"slices"
	"testing"
)

func TestBundleLoadsEmbeddedCatalogs(t *testing.T) {
	b, err := Bundle("")
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}
	if got := b.Locales(); !slices.Equal(got, []string{"en", "th"}) {
		t.Errorf("Locales() = %v, want [en th]", got)
	}
	if got := b.Translator("en").T("nav.login"); got != "Login" {
		t.Errorf("nav.login = %q", got)
	}
	if got := b.Translator("th").T("nav.login"); got != "เข้าสู่ระบบ" {
		t.Errorf("th nav.login = %q", got)
	}
}

func TestSupportedPutsDefaultFirst(t *testing.T) {
	got := Supported()
	if len(got) == 0 || got[0] != Default {
		t.Fatalf("Supported() = %v", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	b := MustBundle()
	en := b.Keys("en")
	th := b.Keys("th")

	for _, k := range en {
		if !slices.Contains(th, k) {
			t.Errorf("th catalog is missing %q", k)
		}
	}
	for _, k := range th {
		if !slices.Contains(en, k) {
			t.Errorf("en catalog is missing %q", k)
		}
	}
}

func TestListsArePaired(t *testing.T) {
	b := MustBundle()
	// Lists rendered as title/description pairs.
	paired := []string{
		"landing.stats", "landing.cards", "landing.features.items",
		"landing.how.steps", "login.side.stats", "register.complete.stats",
		"register.complete.next",
	}
	for _, loc := range b.Locales() {
		tr := b.Translator(loc)
		for _, key := range paired {
			items := tr.TList(key)
			if len(items) == 0 || len(items)%2 != 0 {
				t.Errorf("%s %s has %d items, want an even non-zero count", loc, key, len(items))
			}
		}
	}
}

func TestBundleUnknownDefault(t *testing.T) {
	if _, err := Bundle("fr"); err == nil {
		t.Fatal("Bundle(fr) should fail without a fr catalog")
	}
}
