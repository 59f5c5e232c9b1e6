// Package i18n provides message catalogs and locale negotiation.
package i18n

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Bundle holds the messages and list messages of every loaded locale.
type Bundle struct {
	defaultLoc string
	messages   map[string]map[string]string   // locale -> key -> value
	lists      map[string]map[string][]string // locale -> key -> values
	mu         sync.RWMutex
}

// NewBundle creates a new translation bundle.
func NewBundle(defaultLocale string) *Bundle {
	return &Bundle{
		defaultLoc: defaultLocale,
		messages:   make(map[string]map[string]string),
		lists:      make(map[string]map[string][]string),
	}
}

// DefaultLocale returns the fallback locale.
func (b *Bundle) DefaultLocale() string {
	return b.defaultLoc
}

// AddTranslations adds translations for a locale.
func (b *Bundle) AddTranslations(locale string, translations map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.messages[locale] == nil {
		b.messages[locale] = make(map[string]string)
	}
	for key, value := range translations {
		b.messages[locale][key] = value
	}
}

// AddLists adds list-valued translations for a locale.
func (b *Bundle) AddLists(locale string, lists map[string][]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lists[locale] == nil {
		b.lists[locale] = make(map[string][]string)
	}
	for key, values := range lists {
		b.lists[locale][key] = append([]string(nil), values...)
	}
}

// LoadYAML loads a nested YAML catalog. Nested maps become dotted keys,
// sequences become list messages.
func (b *Bundle) LoadYAML(locale string, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s catalog: %w", locale, err)
	}

	msgs := make(map[string]string)
	lists := make(map[string][]string)
	flatten("", raw, msgs, lists)

	b.AddTranslations(locale, msgs)
	b.AddLists(locale, lists)
	return nil
}

func flatten(prefix string, node map[string]any, msgs map[string]string, lists map[string][]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, msgs, lists)
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				items = append(items, fmt.Sprint(item))
			}
			lists[key] = items
		case nil:
			msgs[key] = ""
		default:
			msgs[key] = fmt.Sprint(val)
		}
	}
}

// Locales returns all loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[string]bool)
	for l := range b.messages {
		seen[l] = true
	}
	for l := range b.lists {
		seen[l] = true
	}
	locales := make([]string, 0, len(seen))
	for l := range seen {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Has reports whether locale has any messages loaded.
func (b *Bundle) Has(locale string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.messages[locale]
	if !ok {
		_, ok = b.lists[locale]
	}
	return ok
}

// Keys returns the sorted message and list keys of locale.
func (b *Bundle) Keys(locale string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.messages[locale])+len(b.lists[locale]))
	for k := range b.messages[locale] {
		keys = append(keys, k)
	}
	for k := range b.lists[locale] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Translator returns a translator for locale. Unknown locales resolve to
// the default locale.
func (b *Bundle) Translator(locale string) *Translator {
	if !b.Has(locale) {
		locale = b.defaultLoc
	}
	return &Translator{bundle: b, locale: locale}
}

func (b *Bundle) message(locale, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.messages[locale][key]
	return v, ok
}

func (b *Bundle) list(locale, key string) ([]string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.lists[locale][key]
	return v, ok
}

// Translator resolves keys for one locale, falling back to the bundle's
// default locale and finally to the key itself.
type Translator struct {
	bundle *Bundle
	locale string

	printerOnce sync.Once
	printer     *message.Printer
}

// Locale returns the translator's locale. A nil translator reports "en".
func (t *Translator) Locale() string {
	if t == nil {
		return "en"
	}
	return t.locale
}

// T translates key, replacing %1, %2, ... with args.
func (t *Translator) T(key string, args ...any) string {
	if t == nil || t.bundle == nil {
		return interpolate(key, args...)
	}
	if v, ok := t.bundle.message(t.locale, key); ok {
		return interpolate(v, args...)
	}
	if t.locale != t.bundle.defaultLoc {
		if v, ok := t.bundle.message(t.bundle.defaultLoc, key); ok {
			return interpolate(v, args...)
		}
	}
	return key
}

// TList translates a list-valued key. Missing keys yield nil.
func (t *Translator) TList(key string) []string {
	if t == nil || t.bundle == nil {
		return nil
	}
	if v, ok := t.bundle.list(t.locale, key); ok {
		return append([]string(nil), v...)
	}
	if t.locale != t.bundle.defaultLoc {
		if v, ok := t.bundle.list(t.bundle.defaultLoc, key); ok {
			return append([]string(nil), v...)
		}
	}
	return nil
}

// Number formats v with the locale's digit grouping.
func (t *Translator) Number(v float64, decimals int) string {
	if t == nil {
		return message.NewPrinter(language.English).Sprintf("%.*f", decimals, v)
	}
	t.printerOnce.Do(func() {
		tag, err := language.Parse(t.Locale())
		if err != nil {
			tag = language.English
		}
		t.printer = message.NewPrinter(tag)
	})
	return t.printer.Sprintf("%.*f", decimals, v)
}

func interpolate(template string, args ...any) string {
	if len(args) == 0 {
		return template
	}

	result := template
	// Highest index first so %1 does not clobber %10.
	for i := len(args) - 1; i >= 0; i-- {
		placeholder := fmt.Sprintf("%%%d", i+1)
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(args[i]))
	}
	return result
}

type i18nContextKey struct{}

// WithTranslator adds a translator to context.
func WithTranslator(ctx context.Context, t *Translator) context.Context {
	return context.WithValue(ctx, i18nContextKey{}, t)
}

// TranslatorFromContext retrieves a translator from context.
func TranslatorFromContext(ctx context.Context) *Translator {
	t, _ := ctx.Value(i18nContextKey{}).(*Translator)
	return t
}

// T translates using the translator from context.
func T(ctx context.Context, key string, args ...any) string {
	return TranslatorFromContext(ctx).T(key, args...)
}

// LocaleFromContext extracts locale from context.
func LocaleFromContext(ctx context.Context) string {
	return TranslatorFromContext(ctx).Locale()
}
