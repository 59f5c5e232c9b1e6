// Package locales embeds the site's message catalogs.
package locales

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/hexagonlabs/hexagon/pkg/i18n"
)

// Default is the fallback locale.
const Default = "en"

//go:embed *.yaml
var catalogs embed.FS

// Supported returns the embedded locales with the default first.
func Supported() []string {
	entries, err := catalogs.ReadDir(".")
	if err != nil {
		return []string{Default}
	}
	out := []string{Default}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if name != Default {
			out = append(out, name)
		}
	}
	return out
}

// Bundle loads every embedded catalog into a new bundle.
func Bundle(defaultLocale string) (*i18n.Bundle, error) {
	if defaultLocale == "" {
		defaultLocale = Default
	}
	b := i18n.NewBundle(defaultLocale)
	for _, loc := range Supported() {
		data, err := catalogs.ReadFile(loc + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s catalog: %w", loc, err)
		}
		if err := b.LoadYAML(loc, data); err != nil {
			return nil, err
		}
	}
	if !b.Has(defaultLocale) {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}
	return b, nil
}

// MustBundle is Bundle for the default locale; it panics on a broken catalog.
func MustBundle() *i18n.Bundle {
	b, err := Bundle(Default)
	if err != nil {
		panic(err)
	}
	return b
}
