// Package components renders the stateless building blocks of the site:
// form primitives, navigation, footer and the landing sections.
package components

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// Action wires an element to a server event. Values travel in the event
// payload as lv-value-* attributes.
type Action struct {
	Event  string
	Values map[string]string
}

// attrs renders kind="event" plus the sorted lv-value-* attributes.
func (a Action) attrs(kind string) string {
	if a.Event == "" {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, ` %s="%s"`, kind, html.EscapeString(a.Event))

	keys := make([]string, 0, len(a.Values))
	for k := range a.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, ` lv-value-%s="%s"`, html.EscapeString(k), html.EscapeString(a.Values[k]))
	}
	return sb.String()
}

// Click is an Action fired by lv-click.
func Click(event string, kv ...string) Action {
	return Action{Event: event, Values: pairs(kv)}
}

func pairs(kv []string) map[string]string {
	if len(kv) < 2 {
		return nil
	}
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// Button variants and sizes.
const (
	VariantPrimary   = "primary"
	VariantSecondary = "secondary"
	VariantOutline   = "outline"

	SizeSm = "sm"
	SizeMd = "md"
	SizeLg = "lg"
)

// ButtonOptions configures a button, or a link styled as one when Href is
// set.
type ButtonOptions struct {
	Label string
	// LabelHTML is trusted markup used instead of Label.
	LabelHTML string
	Variant   string
	Size      string
	FullWidth bool
	Href      string
	Type      string // button (default) or submit
	Click     Action
	Disabled  bool
	// Pressed renders aria-pressed for toggle buttons when non-empty.
	Pressed   string
	AriaLabel string
	Class     string
}

// RenderButton renders a button or link with the brand variants.
func RenderButton(opts ButtonOptions) string {
	variant := opts.Variant
	if variant == "" {
		variant = VariantPrimary
	}
	size := opts.Size
	if size == "" {
		size = SizeMd
	}

	classes := []string{"btn", "btn-" + variant, "btn-" + size}
	if opts.FullWidth {
		classes = append(classes, "btn-full")
	}
	if opts.Class != "" {
		classes = append(classes, opts.Class)
	}
	class := html.EscapeString(strings.Join(classes, " "))

	label := html.EscapeString(opts.Label)
	if opts.LabelHTML != "" {
		label = opts.LabelHTML
	}

	var extra strings.Builder
	if opts.AriaLabel != "" {
		fmt.Fprintf(&extra, ` aria-label="%s"`, html.EscapeString(opts.AriaLabel))
	}
	if opts.Pressed != "" {
		fmt.Fprintf(&extra, ` aria-pressed="%s"`, html.EscapeString(opts.Pressed))
	}

	if opts.Href != "" {
		if opts.Disabled {
			extra.WriteString(` aria-disabled="true" tabindex="-1"`)
		}
		return fmt.Sprintf(`<a href="%s" class="%s"%s>%s</a>`,
			html.EscapeString(opts.Href), class, extra.String(), label)
	}

	typ := opts.Type
	if typ == "" {
		typ = "button"
	}
	if opts.Disabled {
		extra.WriteString(" disabled")
	}
	return fmt.Sprintf(`<button type="%s" class="%s"%s%s>%s</button>`,
		html.EscapeString(typ), class, opts.Click.attrs("lv-click"), extra.String(), label)
}

// InputOptions configures a labelled input with an optional error line and
// trailing control.
type InputOptions struct {
	ID          string
	Name        string
	Type        string
	Label       string
	Value       string
	Placeholder string
	Error       string
	// Change is the event sent with {field: Name, value} on edit.
	Change       Action
	Disabled     bool
	Required     bool
	Autocomplete string
	InputMode    string
	// RightHTML is trusted markup placed inside the input's right edge.
	RightHTML string
}

// RenderInput renders the input with its label and error.
func RenderInput(opts InputOptions) string {
	typ := opts.Type
	if typ == "" {
		typ = "text"
	}
	id := opts.ID
	if id == "" {
		id = opts.Name
	}

	var sb strings.Builder
	sb.WriteString(`<div class="field">`)
	if opts.Label != "" {
		fmt.Fprintf(&sb, `<label class="field-label" for="%s">%s</label>`,
			html.EscapeString(id), html.EscapeString(opts.Label))
	}

	control := "field-control"
	if opts.RightHTML != "" {
		control += " has-right-icon"
	}
	fmt.Fprintf(&sb, `<div class="%s">`, control)

	inputClass := "input"
	if opts.Error != "" {
		inputClass += " input-error"
	}
	fmt.Fprintf(&sb, `<input id="%s" name="%s" type="%s" class="%s" value="%s"`,
		html.EscapeString(id), html.EscapeString(opts.Name), html.EscapeString(typ),
		inputClass, html.EscapeString(opts.Value))
	if opts.Placeholder != "" {
		fmt.Fprintf(&sb, ` placeholder="%s"`, html.EscapeString(opts.Placeholder))
	}
	if opts.Autocomplete != "" {
		fmt.Fprintf(&sb, ` autocomplete="%s"`, html.EscapeString(opts.Autocomplete))
	}
	if opts.InputMode != "" {
		fmt.Fprintf(&sb, ` inputmode="%s"`, html.EscapeString(opts.InputMode))
	}
	sb.WriteString(opts.Change.attrs("lv-change"))
	if opts.Required {
		sb.WriteString(" required")
	}
	if opts.Disabled {
		sb.WriteString(" disabled")
	}
	if opts.Error != "" {
		fmt.Fprintf(&sb, ` aria-invalid="true" aria-describedby="%s-error"`, html.EscapeString(id))
	}
	sb.WriteString(">")

	if opts.RightHTML != "" {
		fmt.Fprintf(&sb, `<div class="field-icon">%s</div>`, opts.RightHTML)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(renderFieldError(id, opts.Error))
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderFieldError(id, msg string) string {
	if msg == "" {
		return ""
	}
	return fmt.Sprintf(`<p id="%s-error" class="field-error" role="alert">%s</p>`,
		html.EscapeString(id), html.EscapeString(msg))
}

// Option is one choice of a select.
type Option struct {
	Value string
	Label string
}

// SelectOptions configures a labelled select.
type SelectOptions struct {
	ID          string
	Name        string
	Label       string
	Value       string
	Placeholder string
	Options     []Option
	Error       string
	Change      Action
	Disabled    bool
}

// RenderSelect renders the select with a placeholder option first.
func RenderSelect(opts SelectOptions) string {
	id := opts.ID
	if id == "" {
		id = opts.Name
	}

	var sb strings.Builder
	sb.WriteString(`<div class="field">`)
	if opts.Label != "" {
		fmt.Fprintf(&sb, `<label class="field-label" for="%s">%s</label>`,
			html.EscapeString(id), html.EscapeString(opts.Label))
	}

	class := "input"
	if opts.Error != "" {
		class += " input-error"
	}
	fmt.Fprintf(&sb, `<select id="%s" name="%s" class="%s"%s`,
		html.EscapeString(id), html.EscapeString(opts.Name), class, opts.Change.attrs("lv-change"))
	if opts.Disabled {
		sb.WriteString(" disabled")
	}
	sb.WriteString(">")

	if opts.Placeholder != "" {
		selected := ""
		if opts.Value == "" {
			selected = " selected"
		}
		fmt.Fprintf(&sb, `<option value=""%s>%s</option>`, selected, html.EscapeString(opts.Placeholder))
	}
	for _, o := range opts.Options {
		selected := ""
		if o.Value == opts.Value {
			selected = " selected"
		}
		fmt.Fprintf(&sb, `<option value="%s"%s>%s</option>`,
			html.EscapeString(o.Value), selected, html.EscapeString(o.Label))
	}
	sb.WriteString(`</select>`)
	sb.WriteString(renderFieldError(id, opts.Error))
	sb.WriteString(`</div>`)
	return sb.String()
}

// CheckboxOptions configures a labelled checkbox.
type CheckboxOptions struct {
	ID       string
	Name     string
	Label    string
	Checked  bool
	Change   Action
	Disabled bool
}

// RenderCheckbox renders a checkbox inside its label.
func RenderCheckbox(opts CheckboxOptions) string {
	id := opts.ID
	if id == "" {
		id = opts.Name
	}
	var flags string
	if opts.Checked {
		flags += " checked"
	}
	if opts.Disabled {
		flags += " disabled"
	}
	return fmt.Sprintf(`<label class="checkbox" for="%s"><input id="%s" name="%s" type="checkbox"%s%s><span>%s</span></label>`,
		html.EscapeString(id), html.EscapeString(id), html.EscapeString(opts.Name),
		opts.Change.attrs("lv-change"), flags, html.EscapeString(opts.Label))
}

// RenderCard wraps trusted body markup in a card.
func RenderCard(body string, hover bool, class string) string {
	classes := "card"
	if hover {
		classes += " card-hover"
	}
	if class != "" {
		classes += " " + class
	}
	return fmt.Sprintf(`<div class="%s">%s</div>`, html.EscapeString(classes), body)
}
