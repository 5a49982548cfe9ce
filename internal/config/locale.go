package config

import (
	"os"
	"strings"

	"github.com/Xuanwo/go-locale"
)

// detect is swapped in tests.
var detect = func() (string, error) {
	tag, err := locale.Detect()
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

// DetectLocale returns the device locale as a BCP 47-ish string such as
// "ar-IQ". It asks the OS first and falls back to the POSIX environment
// variables. Returns "" when nothing is set.
func DetectLocale() string {
	if tag, err := detect(); err == nil && tag != "" && tag != "und" {
		return tag
	}
	for _, env := range []string{"LC_ALL", "LANG", "LANGUAGE"} {
		if v := os.Getenv(env); v != "" {
			return normalizeLocale(v)
		}
	}
	return ""
}

// normalizeLocale turns "ku_IQ.UTF-8" into "ku-IQ". "C" and "POSIX" carry
// no language and become "".
func normalizeLocale(v string) string {
	// Strip encoding (e.g., ".UTF-8") and modifier (e.g., "@latin")
	if idx := strings.IndexAny(v, ".@"); idx != -1 {
		v = v[:idx]
	}
	// LANGUAGE may hold a colon-separated priority list
	if idx := strings.Index(v, ":"); idx != -1 {
		v = v[:idx]
	}
	v = strings.TrimSpace(strings.ReplaceAll(v, "_", "-"))
	if v == "C" || v == "POSIX" {
		return ""
	}
	return v
}
