package i18n

import (
	"fmt"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translation is the outcome of one lookup.
type Translation struct {
	Text     string
	Missing  bool   // no language defines the key; Text echoes the key
	Fallback bool   // found only in English
	Language string // language the text came from
}

// MissingKeyError is returned by Lookup when no catalog defines the key.
type MissingKeyError struct {
	Key      string
	Language string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("i18n: no translation for %q in %s", e.Key, e.Language)
}

// Option adjusts a single lookup.
type Option func(*lookup)

type lookup struct {
	ns   string
	data map[string]any
}

// WithNamespace looks the key up in ns instead of the default namespace.
// A "ns:key" prefix on the key itself takes precedence.
func WithNamespace(ns string) Option {
	return func(l *lookup) { l.ns = ns }
}

// WithData supplies template data for messages such as "Hello {{.Name}}".
func WithData(data map[string]any) Option {
	return func(l *lookup) { l.data = data }
}

// Translator serves one language's strings. It is safe for concurrent use.
type Translator struct {
	lang      string
	catalog   *Catalog
	localizer *goi18n.Localizer
}

// Language returns the translator's language code.
func (t *Translator) Language() string { return t.lang }

// Translate resolves key. It never fails: a missing key is echoed back with
// Missing set.
func (t *Translator) Translate(key string, opts ...Option) Translation {
	l := lookup{ns: DefaultNamespace}
	for _, o := range opts {
		o(&l)
	}
	id := messageID(key, l.ns)

	text, tag, err := t.localizer.LocalizeWithTag(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: l.data,
	})
	if err != nil || text == "" {
		return Translation{Text: key, Missing: true, Language: t.lang}
	}

	from := baseOf(tag)
	return Translation{
		Text:     text,
		Fallback: from != t.lang,
		Language: from,
	}
}

// T returns the translated text, or key itself when missing.
func (t *Translator) T(key string, opts ...Option) string {
	return t.Translate(key, opts...).Text
}

// Lookup is Translate with an explicit error for missing keys.
func (t *Translator) Lookup(key string, opts ...Option) (string, error) {
	tr := t.Translate(key, opts...)
	if tr.Missing {
		return "", &MissingKeyError{Key: key, Language: t.lang}
	}
	return tr.Text, nil
}

// messageID turns "auth:login" or ("login", "auth") into "auth:login".
func messageID(key, ns string) string {
	if prefix, rest, ok := strings.Cut(key, ":"); ok && isNamespace(prefix) {
		return prefix + ":" + rest
	}
	if ns == "" {
		ns = DefaultNamespace
	}
	return ns + ":" + key
}

func isNamespace(s string) bool {
	for _, ns := range Namespaces {
		if ns == s {
			return true
		}
	}
	return false
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
