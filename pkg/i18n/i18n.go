// Package i18n holds the message catalog shared by the guard, the submission
// validator, and the renderers. Catalogs are plain YAML documents keyed by
// locale, then by message key.
package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a caller does not specify one. The original
// application shipped with Korean copy only.
const DefaultLocale = "ko"

// ErrMissingTranslation signals that neither the requested locale nor the
// fallback locale carries the key.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator resolves a message key for a locale. Params are applied with
// fmt.Sprintf when the resolved message contains format verbs.
type Translator interface {
	Translate(locale, key string, params ...any) (string, error)
}

// Catalog is a Translator backed by a locale -> key -> message table.
type Catalog struct {
	locales  map[string]map[string]string
	fallback string
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(raw []byte) (*Catalog, error) {
	locales := make(map[string]map[string]string)
	if err := yaml.Unmarshal(raw, &locales); err != nil {
		return nil, fmt.Errorf("i18n: parse catalog: %w", err)
	}
	if len(locales) == 0 {
		return nil, errors.New("i18n: catalog has no locales")
	}
	return &Catalog{locales: locales, fallback: DefaultLocale}, nil
}

// WithFallback sets the locale consulted when the requested one misses.
func (c *Catalog) WithFallback(locale string) *Catalog {
	locale = normalizeLocale(locale)
	if locale != "" {
		c.fallback = locale
	}
	return c
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, params ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrMissingTranslation)
	}

	locale = normalizeLocale(locale)
	if locale == "" {
		locale = c.fallback
	}

	msg, ok := c.lookup(locale, key)
	if !ok && locale != c.fallback {
		msg, ok = c.lookup(c.fallback, key)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
	}
	if len(params) > 0 {
		return fmt.Sprintf(msg, params...), nil
	}
	return msg, nil
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	messages, ok := c.locales[locale]
	if !ok {
		// Tolerate region-qualified locales such as ko-KR.
		if base, _, found := strings.Cut(locale, "-"); found {
			messages, ok = c.locales[base]
		}
		if !ok {
			return "", false
		}
	}
	msg, ok := messages[key]
	return msg, ok
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

//go:embed messages.yaml
var embeddedMessages []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded messages document.
func Default() *Catalog {
	defaultOnce.Do(func() {
		catalog, err := LoadCatalog(embeddedMessages)
		if err != nil {
			// The embedded document is part of the build; failing to parse it
			// is a programmer error.
			panic(err)
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}
