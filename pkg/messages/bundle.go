package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Bundle stores catalog overrides per locale and resolves the closest match
// for a requested language. Every resolved catalog is the defaults with the
// locale overrides merged on top. It is safe for concurrent use.
type Bundle struct {
	mu       sync.RWMutex
	fallback language.Tag
	tags     []language.Tag
	catalogs map[language.Tag]Catalog
	matcher  language.Matcher
}

// NewBundle creates an empty bundle whose fallback locale is fallback.
// An unparsable fallback falls back to English.
func NewBundle(fallback string) *Bundle {
	tag, err := language.Parse(fallback)
	if err != nil {
		tag = language.English
	}
	return &Bundle{
		fallback: tag,
		catalogs: make(map[language.Tag]Catalog),
	}
}

// Add registers overrides for locale, merging with any overrides already
// registered for the same locale.
func (b *Bundle) Add(locale string, overrides Catalog) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLocale, locale, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.catalogs[tag]; ok {
		b.catalogs[tag] = existing.Merge(overrides)
		return nil
	}
	b.catalogs[tag] = Catalog(nil).Merge(overrides)
	b.tags = append(b.tags, tag)
	b.matcher = nil
	return nil
}

// Locales returns the registered locales in registration order.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.tags))
	for _, tag := range b.tags {
		out = append(out, tag.String())
	}
	return out
}

// Catalog resolves the catalog for locale. When nothing matches, the
// fallback locale overrides are used; when the fallback is not registered
// either, the built-in defaults are returned.
func (b *Bundle) Catalog(locale string) Catalog {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.tags) == 0 {
		return Defaults()
	}
	if b.matcher == nil {
		b.matcher = language.NewMatcher(b.tags)
	}

	if tag, err := language.Parse(locale); err == nil {
		_, idx, conf := b.matcher.Match(tag)
		if conf != language.No && idx >= 0 && idx < len(b.tags) {
			return Defaults().Merge(b.catalogs[b.tags[idx]])
		}
	}
	if overrides, ok := b.catalogs[b.fallback]; ok {
		return Defaults().Merge(overrides)
	}
	return Defaults()
}

// LoadYAML reads a {locale: {key: template}} YAML document into the bundle.
func (b *Bundle) LoadYAML(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return errors.Join(ErrFailedToParse, err)
	}
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return errors.Join(ErrFailedToParse, err)
	}
	return b.addDocument(doc)
}

// LoadJSON reads a {locale: {key: template}} JSON document into the bundle.
func (b *Bundle) LoadJSON(r io.Reader) error {
	var doc map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return errors.Join(ErrFailedToParse, err)
	}
	return b.addDocument(doc)
}

// LoadFile loads a YAML (.yaml, .yml) or JSON (.json) document from path.
func (b *Bundle) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		return b.LoadYAML(f)
	case "json":
		return b.LoadJSON(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (b *Bundle) addDocument(doc map[string]map[string]string) error {
	if len(doc) == 0 {
		return ErrEmptyDocument
	}
	for locale, entries := range doc {
		overrides := make(Catalog, len(entries))
		for k, v := range entries {
			overrides[Key(k)] = v
		}
		if err := b.Add(locale, overrides); err != nil {
			return err
		}
	}
	return nil
}
