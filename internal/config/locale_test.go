package config

import "testing"

func TestCanonicalLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, expected string
	}{
		{"", "en"},
		{"  ", "en"},
		{"en", "en"},
		{"EN", "en"},
		{"pt_br", "pt-BR"},
		{"zh-hans", "zh-Hans"},
		{"de", "de"},
		{"not a locale!!", "en"},
	}
	for _, tt := range tests {
		if got := CanonicalLocale(tt.in); got != tt.expected {
			t.Fatalf("CanonicalLocale(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestLocaleChanged(t *testing.T) {
	t.Parallel()

	if LocaleChanged(nil, &Settings{}) {
		t.Fatal("empty i18n equals the default locale")
	}
	if !LocaleChanged(&Settings{I18n: "en"}, &Settings{I18n: "de"}) {
		t.Fatal("en -> de is a change")
	}
	if LocaleChanged(&Settings{I18n: "pt_br"}, &Settings{I18n: "pt-BR"}) {
		t.Fatal("spelling variants are the same locale")
	}
}
