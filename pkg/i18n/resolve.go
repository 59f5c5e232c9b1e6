package i18n

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "hx_lang"
)

// ErrNoLocales is returned when a resolver is built without locales.
var ErrNoLocales = errors.New("i18n: no supported locales")

// Resolver picks the best supported locale for a request.
type Resolver struct {
	supported []language.Tag
	names     []string
	matcher   language.Matcher
}

// NewResolver builds a resolver. The default locale is preferred when
// nothing else matches.
func NewResolver(defaultLocale string, locales ...string) (*Resolver, error) {
	ordered := []string{defaultLocale}
	for _, l := range locales {
		if l != defaultLocale {
			ordered = append(ordered, l)
		}
	}

	r := &Resolver{}
	for _, l := range ordered {
		if l == "" {
			continue
		}
		tag, err := language.Parse(l)
		if err != nil {
			return nil, err
		}
		r.supported = append(r.supported, tag)
		r.names = append(r.names, l)
	}
	if len(r.supported) == 0 {
		return nil, ErrNoLocales
	}
	r.matcher = language.NewMatcher(r.supported)
	return r, nil
}

// Default returns the fallback locale.
func (r *Resolver) Default() string {
	return r.names[0]
}

// Supported returns the supported locale names, default first.
func (r *Resolver) Supported() []string {
	return append([]string(nil), r.names...)
}

// Match maps a user supplied value to a supported locale.
func (r *Resolver) Match(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	_, idx, conf := r.matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return r.names[idx], true
}

// Resolve determines the locale for a request from the lang query
// parameter, the language cookie, then Accept-Language. The bool reports
// whether the query choice should be persisted as a cookie.
func (r *Resolver) Resolve(req *http.Request) (string, bool) {
	if req == nil {
		return r.Default(), false
	}

	if locale, ok := r.Match(req.URL.Query().Get(LangParam)); ok {
		return locale, true
	}

	if cookie, err := req.Cookie(LangCookieName); err == nil {
		if locale, ok := r.Match(cookie.Value); ok {
			return locale, false
		}
	}

	if accept := strings.TrimSpace(req.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, _ := r.matcher.Match(tags...)
			return r.names[idx], false
		}
	}

	return r.Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, locale string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
