// Package catalog provides a form.Translator backed by YAML message files,
// one top-level key per locale:
//
//	cs:
//	  Account: Účet
//	  "%d items": "%d položek"
//
// Locales are negotiated with golang.org/x/text/language, so "cs-CZ" finds
// the "cs" messages.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrender/pkg/form"
)

// ErrMissingMessage is returned when no locale provides the key.
var ErrMissingMessage = errors.New("catalog: missing message")

// Catalog translates keys per locale. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	fallback language.Tag
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

var _ form.Translator = (*Catalog)(nil)

// New returns an empty catalog. fallback is used when no locale matches;
// an empty fallback means English.
func New(fallback string) (*Catalog, error) {
	tag := language.English
	if strings.TrimSpace(fallback) != "" {
		parsed, err := language.Parse(fallback)
		if err != nil {
			return nil, fmt.Errorf("catalog: fallback locale %q: %w", fallback, err)
		}
		tag = parsed
	}
	return &Catalog{
		fallback: tag,
		messages: make(map[language.Tag]map[string]string),
	}, nil
}

// Add registers messages for locale, replacing existing keys.
func (c *Catalog) Add(locale string, messages map[string]string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog: locale %q: %w", locale, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.messages[tag]
	if !ok {
		bucket = make(map[string]string, len(messages))
		c.messages[tag] = bucket
		c.tags = append(c.tags, tag)
		c.matcher = nil
	}
	for key, msg := range messages {
		bucket[key] = msg
	}
	return nil
}

// Parse adds the locales of a YAML document.
func (c *Catalog) Parse(data []byte) error {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("catalog: parse: %w", err)
	}
	locales := make([]string, 0, len(doc))
	for locale := range doc {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		if err := c.Add(locale, doc[locale]); err != nil {
			return err
		}
	}
	return nil
}

// Load reads catalog files from fsys. Each file may hold several locales.
func Load(fsys fs.FS, fallback string, names ...string) (*Catalog, error) {
	c, err := New(fallback)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		if err := c.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return c, nil
}

// Locales lists the registered locales in registration order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	return out
}

// Translate implements form.Translator. Messages containing verbs are
// formatted with args.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	bucket, tag := c.bucket(locale)
	msg, ok := bucket[key]
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingMessage, key, tag)
	}
	if len(args) > 0 && strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

func (c *Catalog) bucket(locale string) (map[string]string, language.Tag) {
	c.mu.RLock()
	matcher := c.matcher
	c.mu.RUnlock()

	if matcher == nil {
		c.mu.Lock()
		if c.matcher == nil && len(c.tags) > 0 {
			c.matcher = language.NewMatcher(c.tags)
		}
		matcher = c.matcher
		c.mu.Unlock()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if matcher == nil {
		return nil, c.fallback
	}

	desired := c.fallback
	if parsed, err := language.Parse(locale); err == nil {
		desired = parsed
	}
	_, index, confidence := matcher.Match(desired)
	if confidence == language.No {
		if bucket, ok := c.messages[c.fallback]; ok {
			return bucket, c.fallback
		}
		return nil, c.fallback
	}
	tag := c.tags[index]
	return c.messages[tag], tag
}
