// internal/models/locale.go
package models

import "encoding/json"

// Locale identifies one of the three supported content locales.
type Locale string

const (
	LocaleKK Locale = "kk"
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
)

// DefaultLocale is used when a requested locale has no content.
const DefaultLocale = LocaleRU

// SupportedLocales lists the canonical locale keys, in display order.
var SupportedLocales = []Locale{LocaleKK, LocaleRU, LocaleEN}

// ParseLocale maps a request-supplied locale string to a canonical Locale.
// The legacy "kz" spelling means Kazakh; anything unknown falls back to the
// default locale.
func ParseLocale(s string) Locale {
	switch Locale(s) {
	case LocaleKK, LocaleRU, LocaleEN:
		return Locale(s)
	}
	if s == "kz" {
		return LocaleKK
	}
	return DefaultLocale
}

// LocalizedText is a fixed three-locale text record. Upstream content uses
// "kk" and "kz" interchangeably for Kazakh; normalization happens here, at
// the unmarshal boundary, so nothing downstream ever sees "kz".
type LocalizedText struct {
	KK string `json:"kk"`
	RU string `json:"ru"`
	EN string `json:"en"`
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.KK = raw["kk"]
	if t.KK == "" {
		t.KK = raw["kz"] // legacy key used by parts of the seed data
	}
	t.RU = raw["ru"]
	t.EN = raw["en"]
	return nil
}

// In returns the text for the given locale, falling back to the default
// locale and then to any non-empty variant.
func (t LocalizedText) In(locale Locale) string {
	switch locale {
	case LocaleKK:
		if t.KK != "" {
			return t.KK
		}
	case LocaleRU:
		if t.RU != "" {
			return t.RU
		}
	case LocaleEN:
		if t.EN != "" {
			return t.EN
		}
	}
	if t.RU != "" {
		return t.RU
	}
	if t.KK != "" {
		return t.KK
	}
	return t.EN
}
