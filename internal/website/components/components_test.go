package components

import (
	"strings"
	"testing"

	"github.com/hexagonlabs/hexagon/internal/website"
)

func TestRenderButton(t *testing.T) {
	tests := []struct {
		name string
		opts ButtonOptions
		want []string
		not  []string
	}{
		{
			name: "defaults",
			opts: ButtonOptions{Label: "Go"},
			want: []string{`<button type="button"`, `class="btn btn-primary btn-md"`, `>Go</button>`},
		},
		{
			name: "link",
			opts: ButtonOptions{Label: "Join", Href: "/register", Variant: VariantSecondary, Size: SizeLg},
			want: []string{`<a href="/register"`, `btn-secondary btn-lg`},
			not:  []string{"<button"},
		},
		{
			name: "click with values",
			opts: ButtonOptions{Label: "x", Click: Click("remove_card", "index", "2")},
			want: []string{`lv-click="remove_card" lv-value-index="2"`},
		},
		{
			name: "disabled submit full width",
			opts: ButtonOptions{Label: "Send", Type: "submit", Disabled: true, FullWidth: true},
			want: []string{`type="submit"`, `btn-full`, ` disabled>`},
		},
		{
			name: "escapes label",
			opts: ButtonOptions{Label: "<b>"},
			want: []string{"&lt;b&gt;"},
		},
		{
			name: "pressed",
			opts: ButtonOptions{Label: "EN", Pressed: "true"},
			want: []string{`aria-pressed="true"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderButton(tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in %s", w, got)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("unexpected %q in %s", n, got)
				}
			}
		})
	}
}

func TestActionAttrsSorted(t *testing.T) {
	a := Action{Event: "card_change", Values: map[string]string{"index": "1", "b": "2", "a": "3"}}
	got := a.attrs("lv-change")
	want := ` lv-change="card_change" lv-value-a="3" lv-value-b="2" lv-value-index="1"`
	if got != want {
		t.Errorf("attrs = %q, want %q", got, want)
	}
	if (Action{}).attrs("lv-click") != "" {
		t.Error("empty action should render nothing")
	}
}

func TestRenderInput(t *testing.T) {
	got := RenderInput(InputOptions{
		Name: "email", Type: "email", Label: "Email", Value: `a"b`,
		Error: "Email is required", Change: Action{Event: "change"},
	})
	for _, w := range []string{
		`<label class="field-label" for="email">Email</label>`,
		`class="input input-error"`,
		`value="a&#34;b"`,
		`lv-change="change"`,
		`aria-invalid="true" aria-describedby="email-error"`,
		`<p id="email-error" class="field-error" role="alert">Email is required</p>`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in %s", w, got)
		}
	}

	plain := RenderInput(InputOptions{ID: "x", Name: "x"})
	if strings.Contains(plain, "field-error") || strings.Contains(plain, "aria-invalid") {
		t.Errorf("no error expected: %s", plain)
	}
}

func TestRenderSelect(t *testing.T) {
	got := RenderSelect(SelectOptions{
		Name: "platform", Placeholder: "Pick", Value: "blog",
		Options: []Option{{"tiktok", "TikTok"}, {"blog", "Blog"}},
	})
	if !strings.Contains(got, `<option value="blog" selected>Blog</option>`) {
		t.Errorf("selected option missing: %s", got)
	}
	if strings.Contains(got, `<option value="" selected>`) {
		t.Errorf("placeholder should not be selected: %s", got)
	}
}

func TestRenderCheckbox(t *testing.T) {
	got := RenderCheckbox(CheckboxOptions{Name: "remember", Label: "Remember me", Checked: true})
	if !strings.Contains(got, `type="checkbox" checked>`) {
		t.Errorf("checked missing: %s", got)
	}
}

func TestRenderNavbar(t *testing.T) {
	opts := NavbarOptions{
		Brand: "HEXAGON", Labs: "LABS",
		Links:       []website.NavLink{{Label: "Features", URL: "#features"}},
		LoginLabel:  "Login", LoginURL: "/auth",
		SignUpLabel: "Sign Up", SignUpURL: "/register",
		Locales:     []LocaleOption{{"en", "EN"}, {"th", "TH"}},
		Locale:      "th",
	}

	closed := RenderNavbar(opts)
	if strings.Contains(closed, `id="nav-mobile"`) {
		t.Error("mobile menu rendered while closed")
	}
	for _, w := range []string{
		`lv-value-locale="th" aria-pressed="true">TH`,
		`lv-value-locale="en" aria-pressed="false">EN`,
		`href="/auth"`,
		`aria-expanded="false"`,
	} {
		if !strings.Contains(closed, w) {
			t.Errorf("missing %q", w)
		}
	}

	opts.MenuOpen = true
	open := RenderNavbar(opts)
	if !strings.Contains(open, `lv-click="close_menu">Features`) {
		t.Errorf("mobile links should close the menu: %s", open)
	}
}

func TestLocaleSwitchNeedsTwoLocales(t *testing.T) {
	if got := renderLocaleSwitch([]LocaleOption{{"en", "EN"}}, "en"); got != "" {
		t.Errorf("single locale should hide the switch, got %s", got)
	}
}

func TestPairsHelpers(t *testing.T) {
	stats := StatsFromPairs([]string{"10K+", "Influencers", "500+", "Brands", "dangling"})
	if len(stats) != 2 || stats[1].Value != "500+" {
		t.Errorf("stats = %+v", stats)
	}

	features := FeaturesFromPairs([]string{"A", "a", "B", "b"}, "1")
	if features[0].Icon != "1" || features[1].Icon != "" {
		t.Errorf("features = %+v", features)
	}

	steps := StepsFromPairs([]string{"A", "a", "B", "b", "C", "c"})
	if len(steps) != 3 || steps[2].Number != 3 {
		t.Errorf("steps = %+v", steps)
	}
}

func TestRenderFooter(t *testing.T) {
	got := RenderFooter(FooterOptions{
		Brand: "HEXAGON", Labs: "LABS", Year: 2024, Rights: "All rights reserved.",
		Columns: []FooterColumn{{Title: "Support", Links: []website.NavLink{{Label: "Help", URL: "#help"}}}},
		Social:  []website.NavLink{{Label: "LinkedIn", URL: "#in"}},
	})
	for _, w := range []string{"&copy; 2024", `<a href="#help">Help</a>`, `aria-label="LinkedIn">in</a>`} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q", w)
		}
	}
}
