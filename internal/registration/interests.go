package registration

import (
	"slices"
	"strings"
)

// PresetInterests is the selectable interest catalogue.
var PresetInterests = []string{
	"Food & Beverages",
	"Fashion & Clothing",
	"Tech & Gadgets",
	"Beauty & Cosmetics",
	"Home & Living",
	"Gaming",
	"Books & Education",
	"Automotive",
	"Travel",
	"Health & Fitness",
	"Music & Entertainment",
	"Art & Crafts",
}

// HasInterest reports whether tag is selected.
func (f *Form) HasInterest(tag string) bool {
	return slices.Contains(f.Interests, tag)
}

// ToggleInterest adds tag when absent and removes it when present.
func (f *Form) ToggleInterest(tag string) {
	if i := slices.Index(f.Interests, tag); i >= 0 {
		f.Interests = slices.Delete(f.Interests, i, i+1)
		return
	}
	f.Interests = append(f.Interests, tag)
}

// AddCustomInterest appends the trimmed custom text and clears the input.
// Blank or duplicate text leaves the form untouched.
func (f *Form) AddCustomInterest() bool {
	tag := strings.TrimSpace(f.CustomInterest)
	if tag == "" || f.HasInterest(tag) {
		return false
	}
	f.Interests = append(f.Interests, tag)
	f.CustomInterest = ""
	return true
}
