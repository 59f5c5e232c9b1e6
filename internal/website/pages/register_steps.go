package pages

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/registration"
	"github.com/hexagonlabs/hexagon/internal/website"
	"github.com/hexagonlabs/hexagon/internal/website/components"
)

func (p *Register) progress() string {
	t := p.tr
	step := p.wizard.Step
	labels := t.TList("register.steps")

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="wizard-header"><h1 style="font-size:2rem">%s</h1><p>%s</p></div>`,
		html.EscapeString(t.T("register.title")), html.EscapeString(t.T("register.subtitle")))

	sb.WriteString(`<ol class="progress">`)
	for i := registration.FirstStep; i <= registration.LastStep; i++ {
		class := "progress-step"
		mark := strconv.Itoa(i)
		current := ""
		switch {
		case i == step:
			class += " is-active"
			current = ` aria-current="step"`
		case i < step:
			class += " is-done"
			mark = "✓"
		}
		label := ""
		if i-1 < len(labels) {
			label = labels[i-1]
		}
		fmt.Fprintf(&sb, `<li class="%s"%s><span class="progress-dot">%s</span>%s</li>`,
			class, current, mark, html.EscapeString(label))
	}
	sb.WriteString(`</ol>`)

	fmt.Fprintf(&sb, `<div class="progress-bar" role="progressbar" aria-valuemin="1" aria-valuemax="%d" aria-valuenow="%d" aria-label="%s"><div class="progress-fill" style="width:%d%%"></div></div>`,
		registration.LastStep, step, html.EscapeString(t.T("register.stepOf", step, registration.LastStep)),
		step*100/registration.LastStep)
	fmt.Fprintf(&sb, `<p class="muted text-center" style="margin-top:0.5rem">%s</p>`,
		html.EscapeString(t.T("register.stepOf", step, registration.LastStep)))
	return sb.String()
}

func (p *Register) step() string {
	var body string
	switch p.wizard.Step {
	case registration.StepAccount:
		body = p.accountStep()
	case registration.StepInterests:
		body = p.interestsStep()
	case registration.StepRateCards:
		body = p.rateCardsStep()
	case registration.StepReview:
		body = p.reviewStep()
	default:
		return components.RenderCard(p.completeStep(), false, "complete animate-fade-in")
	}
	return components.RenderCard(body+p.actions(), false, "animate-fade-in")
}

func (p *Register) actions() string {
	t := p.tr
	step := p.wizard.Step

	next := t.T("register.next")
	switch step {
	case registration.StepRateCards:
		next = t.T("register.review_submit")
	case registration.StepReview:
		next = t.T("register.finish")
	}

	return `<div class="step-actions">` +
		components.RenderButton(components.ButtonOptions{
			Label: t.T("register.back"), Variant: components.VariantOutline,
			Click: components.Click(EventBack), Disabled: step == registration.FirstStep,
		}) +
		components.RenderButton(components.ButtonOptions{
			Label: next, Click: components.Click(EventNext),
		}) +
		`</div>`
}

func (p *Register) accountStep() string {
	t := p.tr
	w := p.wizard
	f := w.Form
	change := components.Action{Event: EventChange}

	var sb strings.Builder
	sb.WriteString(`<div class="stack">`)

	sb.WriteString(`<div class="grid grid-2">`)
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "reg-firstName", Name: registration.FieldFirstName, Label: t.T("register.firstName"),
		Placeholder: t.T("register.firstNamePlaceholder"), Value: f.FirstName,
		Error: w.Errors.Get(registration.FieldFirstName), Change: change, Autocomplete: "given-name",
	}))
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "reg-lastName", Name: registration.FieldLastName, Label: t.T("register.lastName"),
		Placeholder: t.T("register.lastNamePlaceholder"), Value: f.LastName,
		Error: w.Errors.Get(registration.FieldLastName), Change: change, Autocomplete: "family-name",
	}))
	sb.WriteString(`</div>`)

	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "reg-email", Name: registration.FieldEmail, Type: "email", Label: t.T("register.email"),
		Placeholder: t.T("register.emailPlaceholder"), Value: f.Email,
		Error: w.Errors.Get(registration.FieldEmail), Change: change, Autocomplete: "email",
	}))

	passType, toggle := "password", t.T("register.showPassword")
	if w.ShowPassword {
		passType, toggle = "text", t.T("register.hidePassword")
	}
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "reg-password", Name: registration.FieldPassword, Type: passType, Label: t.T("register.password"),
		Placeholder: t.T("register.passwordPlaceholder"), Value: f.Password,
		Error: w.Errors.Get(registration.FieldPassword), Change: change, Autocomplete: "new-password",
		RightHTML: fmt.Sprintf(`<button type="button" lv-click="%s" aria-pressed="%t">%s</button>`,
			EventTogglePassword, w.ShowPassword, html.EscapeString(toggle)),
	}))
	if f.Password != "" {
		s := w.Strength()
		fmt.Fprintf(&sb, `<div class="strength" aria-live="polite"><div class="strength-bar"><div class="strength-fill tone-%s" style="width:%s"></div></div><p class="muted">%s</p></div>`,
			s.Tone, s.Width, html.EscapeString(t.T("register.strength", t.T("register.strengthLabels."+s.Label))))
	}

	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "reg-confirmPassword", Name: registration.FieldConfirmPassword, Type: passType,
		Label: t.T("register.confirmPassword"), Placeholder: t.T("register.confirmPasswordPlaceholder"),
		Value: f.ConfirmPassword, Error: w.Errors.Get(registration.FieldConfirmPassword),
		Change: change, Autocomplete: "new-password",
	}))

	fmt.Fprintf(&sb, `<div class="field" role="group" aria-labelledby="reg-role-label"><span id="reg-role-label" class="field-label">%s</span><div class="role-grid">`,
		html.EscapeString(t.T("register.role")))
	for _, r := range registration.Roles {
		sb.WriteString(components.RenderButton(components.ButtonOptions{
			Label:   t.T("register.roles." + string(r)),
			Variant: components.VariantOutline,
			Class:   "choice",
			Pressed: strconv.FormatBool(f.Role == r),
			Click:   components.Click(EventChange, "field", registration.FieldRole, "value", string(r)),
		}))
	}
	sb.WriteString(`</div>`)
	if msg := w.Errors.Get(registration.FieldRole); msg != "" {
		fmt.Fprintf(&sb, `<p class="field-error" role="alert">%s</p>`, html.EscapeString(msg))
	}
	sb.WriteString(`</div>`)

	fmt.Fprintf(&sb, `<p class="text-center muted">%s <a href="%s" class="link">%s</a></p>`,
		html.EscapeString(t.T("register.haveAccount")), PathLogin, html.EscapeString(t.T("register.signInHere")))
	sb.WriteString(`</div>`)
	return sb.String()
}

// interestLabel shows presets with their catalog label and custom tags as
// typed.
func (p *Register) interestLabel(tag string) string {
	key := "register.presets." + tag
	if label := p.tr.T(key); label != key {
		return label
	}
	return tag
}

func (p *Register) interestsStep() string {
	t := p.tr
	w := p.wizard
	f := w.Form

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="stack"><div class="text-center"><h2>%s</h2><p>%s</p></div>`,
		html.EscapeString(t.T("register.interests.title")), html.EscapeString(t.T("register.interests.subtitle")))
	fmt.Fprintf(&sb, `<h3>%s</h3><div class="tag-grid" role="group">`, html.EscapeString(t.T("register.interests.question")))
	for _, tag := range registration.PresetInterests {
		fmt.Fprintf(&sb, `<button type="button" class="tag" lv-click="%s" lv-value-tag="%s" aria-pressed="%t">%s</button>`,
			EventToggleInterest, html.EscapeString(tag), f.HasInterest(tag), html.EscapeString(p.interestLabel(tag)))
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="custom-row">`)
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "reg-customInterest", Name: registration.FieldCustomInterest,
		Placeholder: t.T("register.interests.customPlaceholder"), Value: f.CustomInterest,
		Error: w.Errors.Get(registration.FieldCustomInterest), Change: components.Action{Event: EventChange},
	}))
	sb.WriteString(components.RenderButton(components.ButtonOptions{
		Label: t.T("register.interests.add"), Variant: components.VariantSecondary,
		Click: components.Click(EventAddInterest),
	}))
	sb.WriteString(`</div>`)

	if len(f.Interests) > 0 {
		fmt.Fprintf(&sb, `<div><h3>%s</h3><ul class="chips">`, html.EscapeString(t.T("register.interests.selected")))
		for _, tag := range f.Interests {
			label := p.interestLabel(tag)
			fmt.Fprintf(&sb, `<li class="chip">%s<button type="button" lv-click="%s" lv-value-tag="%s" aria-label="%s">×</button></li>`,
				html.EscapeString(label), EventToggleInterest, html.EscapeString(tag),
				html.EscapeString(t.T("register.interests.remove", label)))
		}
		sb.WriteString(`</ul></div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// advancedField describes one input of the advanced terms panel.
type advancedField struct {
	key  string
	kind string // number, text or checkbox
}

var advancedFields = []advancedField{
	{registration.CardRevisions, "number"},
	{registration.CardExtraRevisionPrice, "number"},
	{registration.CardDeliveryDays, "number"},
	{registration.CardRushDelivery, "checkbox"},
	{registration.CardRushFeePercent, "number"},
	{registration.CardUsageRightsDays, "number"},
	{registration.CardExclusivityDays, "number"},
	{registration.CardRawFootage, "checkbox"},
	{registration.CardWhitelisting, "checkbox"},
	{registration.CardLatePenalty, "text"},
	{registration.CardCancellationPolicy, "text"},
	{registration.CardDepositRequired, "checkbox"},
	{registration.CardDepositPercent, "number"},
	{registration.CardPaymentOnDelivery, "checkbox"},
	{registration.CardPaymentNet30, "checkbox"},
}

func (p *Register) rateCardsStep() string {
	t := p.tr
	f := p.wizard.Form

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="stack"><div class="text-center"><h2>%s</h2><p>%s</p></div>`,
		html.EscapeString(t.T("register.rates.title")), html.EscapeString(t.T("register.rates.subtitle")))

	for i := range f.RateCards {
		sb.WriteString(p.rateCard(i))
	}

	sb.WriteString(components.RenderButton(components.ButtonOptions{
		Label: t.T("register.rates.add"), Variant: components.VariantSecondary, FullWidth: true,
		Click: components.Click(EventAddCard),
	}))

	fmt.Fprintf(&sb, `<div class="tips"><strong>%s</strong><ul>`, html.EscapeString(t.T("register.rates.tipsTitle")))
	for _, tip := range t.TList("register.rates.tips") {
		fmt.Fprintf(&sb, `<li>%s</li>`, html.EscapeString(tip))
	}
	sb.WriteString(`</ul></div></div>`)
	return sb.String()
}

func (p *Register) rateCard(i int) string {
	t := p.tr
	w := p.wizard
	card := w.Form.RateCards[i]
	index := strconv.Itoa(i)
	change := components.Action{Event: EventCardChange, Values: map[string]string{"index": index}}
	id := func(field string) string { return "card-" + index + "-" + field }
	errFor := func(field string) string { return w.Errors.Get(registration.CardFieldKey(i, field)) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<section class="rate-card" aria-label="%s"><div class="rate-card-head"><h3>%s</h3>`,
		html.EscapeString(t.T("register.rates.card", i+1)), html.EscapeString(t.T("register.rates.card", i+1)))
	if i > 0 {
		sb.WriteString(components.RenderButton(components.ButtonOptions{
			Label: t.T("register.rates.remove"), Variant: components.VariantOutline, Size: components.SizeSm,
			Click: components.Click(EventRemoveCard, "index", index),
		}))
	}
	sb.WriteString(`</div><div class="stack">`)

	platforms := make([]components.Option, 0, len(registration.Platforms))
	for _, pl := range registration.Platforms {
		platforms = append(platforms, components.Option{Value: string(pl), Label: t.T("register.rates.platforms." + string(pl))})
	}
	contentTypes := make([]components.Option, 0, len(registration.ContentTypes))
	for _, ct := range registration.ContentTypes {
		contentTypes = append(contentTypes, components.Option{Value: string(ct), Label: t.T("register.rates.contentTypes." + string(ct))})
	}

	sb.WriteString(`<div class="grid grid-2">`)
	sb.WriteString(components.RenderSelect(components.SelectOptions{
		ID: id(registration.CardPlatform), Name: registration.CardPlatform,
		Label: t.T("register.rates.platform"), Placeholder: t.T("register.rates.platformPlaceholder"),
		Value: string(card.Platform), Options: platforms, Error: errFor(registration.CardPlatform), Change: change,
	}))
	sb.WriteString(components.RenderSelect(components.SelectOptions{
		ID: id(registration.CardContentType), Name: registration.CardContentType,
		Label: t.T("register.rates.contentType"), Placeholder: t.T("register.rates.contentTypePlaceholder"),
		Value: string(card.ContentType), Options: contentTypes, Error: errFor(registration.CardContentType), Change: change,
	}))
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: id(registration.CardBasePrice), Name: registration.CardBasePrice, Type: "number", InputMode: "decimal",
		Label: t.T("register.rates.basePrice") + " (" + t.T("register.rates.currency") + ")",
		Placeholder: t.T("register.rates.basePricePlaceholder"), Value: formatFloat(card.BasePrice),
		Error: errFor(registration.CardBasePrice), Change: change,
	}))
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: id(registration.CardDuration), Name: registration.CardDuration, Type: "number", InputMode: "numeric",
		Label: t.T("register.rates.duration"), Value: formatInt(card.Duration),
		Error: errFor(registration.CardDuration), Change: change,
	}))
	sb.WriteString(`</div>`)

	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: id(registration.CardNote), Name: registration.CardNote, Label: t.T("register.rates.note"),
		Placeholder: t.T("register.rates.notePlaceholder"), Value: card.Note,
		Error: errFor(registration.CardNote), Change: change,
	}))

	toggle := t.T("register.rates.showAdvanced")
	if card.ShowAdvanced {
		toggle = t.T("register.rates.hideAdvanced")
	}
	fmt.Fprintf(&sb, `<button type="button" class="link" style="border:none;background:none;cursor:pointer" lv-click="%s" lv-value-index="%s" aria-expanded="%t" aria-controls="%s">%s</button>`,
		EventToggleAdvanced, index, card.ShowAdvanced, id("advanced"), html.EscapeString(toggle))

	if card.ShowAdvanced {
		fmt.Fprintf(&sb, `<div id="%s" class="advanced grid grid-2">`, id("advanced"))
		for _, af := range advancedFields {
			sb.WriteString(p.advancedInput(i, af, card, change))
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div></section>`)
	return sb.String()
}

func (p *Register) advancedInput(i int, af advancedField, card registration.RateCard, change components.Action) string {
	id := "card-" + strconv.Itoa(i) + "-" + af.key
	label := p.tr.T("register.rates.advanced." + af.key)
	value := advancedValue(card.Advanced, af.key)

	if af.kind == "checkbox" {
		return components.RenderCheckbox(components.CheckboxOptions{
			ID: id, Name: af.key, Label: label, Checked: value == "true", Change: change,
		})
	}
	opts := components.InputOptions{
		ID: id, Name: af.key, Label: label, Value: value,
		Error: p.wizard.Errors.Get(registration.CardFieldKey(i, af.key)), Change: change,
	}
	if af.kind == "number" {
		opts.Type = "number"
		opts.InputMode = "decimal"
	}
	return components.RenderInput(opts)
}

func advancedValue(a registration.AdvancedTerms, key string) string {
	switch key {
	case registration.CardRevisions:
		return formatInt(a.Revisions)
	case registration.CardExtraRevisionPrice:
		return formatFloat(a.ExtraRevisionPrice)
	case registration.CardDeliveryDays:
		return formatInt(a.DeliveryDays)
	case registration.CardRushDelivery:
		return strconv.FormatBool(a.RushDelivery)
	case registration.CardRushFeePercent:
		return formatFloat(a.RushFeePercent)
	case registration.CardUsageRightsDays:
		return formatInt(a.UsageRightsDays)
	case registration.CardExclusivityDays:
		return formatInt(a.ExclusivityDays)
	case registration.CardRawFootage:
		return strconv.FormatBool(a.RawFootage)
	case registration.CardWhitelisting:
		return strconv.FormatBool(a.Whitelisting)
	case registration.CardLatePenalty:
		return a.LatePenalty
	case registration.CardCancellationPolicy:
		return a.CancellationPolicy
	case registration.CardDepositRequired:
		return strconv.FormatBool(a.DepositRequired)
	case registration.CardDepositPercent:
		return formatFloat(a.DepositPercent)
	case registration.CardPaymentOnDelivery:
		return strconv.FormatBool(a.PaymentOnDelivery)
	case registration.CardPaymentNet30:
		return strconv.FormatBool(a.PaymentNet30)
	}
	return ""
}

// Zero renders as an empty input so the placeholder shows.
func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func (p *Register) reviewStep() string {
	t := p.tr
	f := p.wizard.Form
	none := t.T("register.review.none")

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="stack review"><div class="text-center"><h2>%s</h2><p>%s</p></div>`,
		html.EscapeString(t.T("register.review.title")), html.EscapeString(t.T("register.review.subtitle")))

	role := none
	if f.Role != "" {
		role = t.T("register.roles." + string(f.Role))
	}
	fmt.Fprintf(&sb, `<section><h3>%s</h3><dl>`, html.EscapeString(t.T("register.review.account")))
	reviewItem(&sb, t.T("register.review.name"), strings.TrimSpace(f.FirstName+" "+f.LastName))
	reviewItem(&sb, t.T("register.review.email"), f.Email)
	reviewItem(&sb, t.T("register.review.role"), role)
	sb.WriteString(`</dl></section>`)

	fmt.Fprintf(&sb, `<section><h3>%s</h3>`, html.EscapeString(t.T("register.review.interests")))
	interests := f.Interests
	if custom := strings.TrimSpace(f.CustomInterest); custom != "" && !f.HasInterest(custom) {
		interests = append(append([]string(nil), interests...), custom)
	}
	if len(interests) == 0 {
		fmt.Fprintf(&sb, `<p>%s</p>`, html.EscapeString(none))
	} else {
		sb.WriteString(`<ul class="chips">`)
		for _, tag := range interests {
			fmt.Fprintf(&sb, `<li class="chip">%s</li>`, html.EscapeString(p.interestLabel(tag)))
		}
		sb.WriteString(`</ul>`)
	}
	sb.WriteString(`</section>`)

	fmt.Fprintf(&sb, `<section><h3>%s</h3><ol class="stack">`, html.EscapeString(t.T("register.review.rateCards")))
	for i, card := range f.RateCards {
		platform, content := none, none
		if card.Platform != "" {
			platform = t.T("register.rates.platforms." + string(card.Platform))
		}
		if card.ContentType != "" {
			content = t.T("register.rates.contentTypes." + string(card.ContentType))
		}
		decimals := 0
		if card.BasePrice != float64(int64(card.BasePrice)) {
			decimals = 2
		}
		fmt.Fprintf(&sb, `<li class="rate-card"><strong>%s</strong><dl>`, html.EscapeString(t.T("register.rates.card", i+1)))
		reviewItem(&sb, t.T("register.rates.platform"), platform)
		reviewItem(&sb, t.T("register.rates.contentType"), content)
		reviewItem(&sb, t.T("register.rates.basePrice"),
			t.T("register.review.price", t.T("register.rates.currency"), t.Number(card.BasePrice, decimals)))
		if card.Duration > 0 {
			reviewItem(&sb, t.T("register.rates.duration"), t.T("register.review.duration", card.Duration))
		}
		if card.Note != "" {
			reviewItem(&sb, t.T("register.rates.note"), card.Note)
		}
		sb.WriteString(`</dl></li>`)
	}
	sb.WriteString(`</ol></section></div>`)
	return sb.String()
}

func reviewItem(sb *strings.Builder, term, value string) {
	fmt.Fprintf(sb, `<dt>%s</dt><dd>%s</dd>`, html.EscapeString(term), html.EscapeString(value))
}

func (p *Register) completeStep() string {
	t := p.tr

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="stack"><div class="complete-icon" aria-hidden="true">✓</div><h2>%s</h2><p><strong>%s</strong></p><p>%s</p>`,
		html.EscapeString(t.T("register.complete.title")), html.EscapeString(t.T("register.complete.subtitle")),
		html.EscapeString(t.T("register.complete.message")))

	sb.WriteString(`<div class="stats-grid">`)
	for _, s := range components.StatsFromPairs(t.TList("register.complete.stats")) {
		fmt.Fprintf(&sb, `<div><div class="stat-value text-gradient">%s</div><div class="stat-label">%s</div></div>`,
			html.EscapeString(s.Value), html.EscapeString(s.Label))
	}
	sb.WriteString(`</div>`)

	fmt.Fprintf(&sb, `<div class="tips" style="text-align:left"><strong>%s</strong><ol>`, html.EscapeString(t.T("register.complete.nextTitle")))
	for _, item := range website.Pairs(t.TList("register.complete.next")) {
		fmt.Fprintf(&sb, `<li><strong>%s</strong> %s</li>`, html.EscapeString(item[0]), html.EscapeString(item[1]))
	}
	sb.WriteString(`</ol></div>`)

	sb.WriteString(components.RenderButton(components.ButtonOptions{
		Label: t.T("register.complete.goToLogin"), Size: components.SizeLg,
		Click: components.Click(EventFinish),
	}))
	sb.WriteString(`</div>`)
	return sb.String()
}
