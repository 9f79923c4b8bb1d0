// Package i18n holds the two user-facing locales of the client.
package i18n

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/uk"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Locale names a supported language.
type Locale string

const (
	Ukrainian Locale = "uk"
	English   Locale = "en"
)

// DefaultLocale is the language of the original interface.
const DefaultLocale = Ukrainian

// ParseLocale accepts "uk", "en" and region forms like "en_US"; empty means the default.
func ParseLocale(s string) (Locale, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLocale, nil
	}
	if i := strings.IndexAny(s, "_-."); i > 0 {
		s = s[:i]
	}
	switch Locale(s) {
	case Ukrainian, English:
		return Locale(s), nil
	}
	return "", fmt.Errorf("unsupported locale %q", s)
}

// Catalog translates message keys and validation errors for one locale.
type Catalog struct {
	locale   Locale
	trans    ut.Translator
	validate *validator.Validate
}

// New builds the catalog for locale.
func New(locale Locale) (*Catalog, error) {
	var lt locales.Translator
	switch locale {
	case Ukrainian:
		lt = uk.New()
	case English:
		lt = en.New()
	default:
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	uni := ut.New(lt, lt)
	trans, ok := uni.GetTranslator(lt.Locale())
	if !ok {
		return nil, fmt.Errorf("no translator for %q", lt.Locale())
	}

	table := messages[locale]
	for k, text := range table {
		if err := trans.Add(string(k), text, true); err != nil {
			return nil, fmt.Errorf("add %s: %w", k, err)
		}
	}

	c := &Catalog{locale: locale, trans: trans, validate: validator.New()}
	if err := c.initValidator(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New for fixed, known locales.
func MustNew(locale Locale) *Catalog {
	c, err := New(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// Locale returns the catalog language.
func (c *Catalog) Locale() Locale { return c.locale }

// T returns the localized text of key; unknown keys come back unchanged.
func (c *Catalog) T(key Key, params ...string) string {
	s, err := c.trans.T(string(key), params...)
	if err != nil || s == "" {
		return string(key)
	}
	return s
}
