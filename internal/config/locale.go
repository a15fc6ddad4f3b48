package config

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when i18n is empty or unparseable.
const DefaultLocale = "en"

// CanonicalLocale returns the BCP 47 form of tag ("pt_br" -> "pt-BR").
func CanonicalLocale(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return DefaultLocale
	}
	t, err := language.Parse(tag)
	if err != nil || t == language.Und {
		return DefaultLocale
	}
	return t.String()
}

// LocaleChanged reports whether the effective locale differs between
// old and new. A nil old counts as DefaultLocale.
func LocaleChanged(old, new *Settings) bool {
	before := DefaultLocale
	if old != nil {
		before = old.Locale()
	}
	after := DefaultLocale
	if new != nil {
		after = new.Locale()
	}
	return before != after
}
