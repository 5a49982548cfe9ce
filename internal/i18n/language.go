// Package i18n resolves the display language, keeps the layout direction in
// step with it and serves translated strings from the embedded catalogs.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported language codes.
const (
	Arabic  = "ar"
	English = "en"
	Kurdish = "ku"
)

// DefaultLanguage is used when neither a stored selection nor the device
// locale yields a supported code.
const DefaultLanguage = Arabic

// Supported lists every language the catalogs ship, in menu order.
var Supported = []string{Arabic, English, Kurdish}

var nativeNames = map[string]string{
	Arabic:  "العربية",
	English: "English",
	Kurdish: "کوردی",
}

// IsSupported reports whether code has a catalog.
func IsSupported(code string) bool {
	_, ok := nativeNames[code]
	return ok
}

// IsRTL reports whether code is written right to left.
func IsRTL(code string) bool {
	return code == Arabic || code == Kurdish
}

// NativeName returns the language's own name for itself, or code if unknown.
func NativeName(code string) string {
	if n, ok := nativeNames[code]; ok {
		return n
	}
	return code
}

// PrimarySubtag extracts the language part of a locale string such as
// "ku-IQ" or "ar_IQ.UTF-8". It returns "" when nothing usable is found.
func PrimarySubtag(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i != -1 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" {
		return ""
	}
	if tag, err := language.Parse(locale); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	// Fall back to the raw text before the first separator.
	head, _, _ := strings.Cut(locale, "-")
	return strings.ToLower(head)
}
