package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed translations
var translationsFS embed.FS

// Namespaces.
const (
	NSCommon   = "common"
	NSAuth     = "auth"
	NSAds      = "ads"
	NSSettings = "settings"
	NSErrors   = "errors"
)

// DefaultNamespace is consulted when a key names no namespace.
const DefaultNamespace = NSCommon

// Namespaces lists every catalog namespace.
var Namespaces = []string{NSCommon, NSAuth, NSAds, NSSettings, NSErrors}

// Catalog holds every language's messages in one go-i18n bundle. Message
// IDs are "namespace:key". A Catalog is immutable once loaded.
type Catalog struct {
	bundle *goi18n.Bundle
	ids    map[string]map[string]struct{} // language -> message IDs
}

// LoadCatalog reads <lang>/<namespace>.yaml files from fsys. Each file is a
// flat map of key to message text.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		bundle: goi18n.NewBundle(language.English),
		ids:    make(map[string]map[string]struct{}),
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}
		lang := path.Base(path.Dir(p))
		ns := strings.TrimSuffix(path.Base(p), ".yaml")
		if !IsSupported(lang) {
			return fmt.Errorf("%s: unsupported language %q", p, lang)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		var entries map[string]string
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}
		return c.add(lang, ns, entries)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) add(lang, ns string, entries map[string]string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return err
	}
	msgs := make([]*goi18n.Message, 0, len(entries))
	if c.ids[lang] == nil {
		c.ids[lang] = make(map[string]struct{})
	}
	for key, text := range entries {
		id := ns + ":" + key
		msgs = append(msgs, &goi18n.Message{ID: id, Other: text})
		c.ids[lang][id] = struct{}{}
	}
	return c.bundle.AddMessages(tag, msgs...)
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(translationsFS, "translations")
	if err != nil {
		panic(err)
	}
	c, err := LoadCatalog(sub)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded catalogs: %v", err))
	}
	return c
})

// DefaultCatalog returns the catalogs compiled into the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Has reports whether lang defines the message ID "ns:key".
func (c *Catalog) Has(lang, id string) bool {
	_, ok := c.ids[lang][id]
	return ok
}

// IDs returns lang's message IDs, sorted.
func (c *Catalog) IDs(lang string) []string {
	out := make([]string, 0, len(c.ids[lang]))
	for id := range c.ids[lang] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Translator returns a Translator for lang. Unsupported codes get English.
func (c *Catalog) Translator(lang string) *Translator {
	if !IsSupported(lang) {
		lang = English
	}
	return &Translator{
		lang:      lang,
		catalog:   c,
		localizer: goi18n.NewLocalizer(c.bundle, lang),
	}
}
