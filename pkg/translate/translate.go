// Package translate defines the translator function consumed when building
// localized default content, plus a catalog-backed implementation on top of
// golang.org/x/text.
package translate

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message identifies one translatable string and its source-locale default.
type Message struct {
	ID          string
	Default     string
	Description string
}

// Translator maps a message to a localized string. A nil Translator means no
// translation is active and defaults are used.
type Translator func(Message) string

// Translate applies t to msg, falling back to msg.Default when t is nil or
// yields an empty string.
func (t Translator) Translate(msg Message) string {
	if t == nil {
		return msg.Default
	}
	if out := t(msg); out != "" {
		return out
	}
	return msg.Default
}

// Catalog holds messages for several locales.
type Catalog struct {
	builder  *catalog.Builder
	messages map[language.Tag]map[string]struct{}
	tags     []language.Tag
}

// NewCatalog builds a catalog from locale -> (message id -> text).
func NewCatalog(locales map[string]map[string]string) (*Catalog, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("translate: at least one locale is required")
	}
	c := &Catalog{
		builder:  catalog.NewBuilder(),
		messages: map[language.Tag]map[string]struct{}{},
	}

	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tag, err := language.Parse(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("translate: parse locale %q: %w", name, err)
		}
		known := map[string]struct{}{}
		for id, text := range locales[name] {
			id = strings.TrimSpace(id)
			if id == "" {
				return nil, fmt.Errorf("translate: locale %q: message id cannot be blank", name)
			}
			if err := c.builder.SetString(tag, id, text); err != nil {
				return nil, fmt.Errorf("translate: locale %q message %q: %w", name, id, err)
			}
			known[id] = struct{}{}
		}
		c.messages[tag] = known
		c.tags = append(c.tags, tag)
	}
	return c, nil
}

// Locales returns the catalog's locales in load order.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	return out
}

// Translator returns a Translator for the best catalog match of locale, which
// may be an Accept-Language style list ("fr-CA,fr;q=0.9").
func (c *Catalog) Translator(locale string) Translator {
	tag := c.match(locale)
	printer := message.NewPrinter(tag, message.Catalog(c.builder))
	known := c.messages[tag]
	return func(msg Message) string {
		if _, ok := known[msg.ID]; !ok {
			return msg.Default
		}
		return printer.Sprintf(msg.ID)
	}
}

func (c *Catalog) match(locale string) language.Tag {
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return c.tags[0]
	}
	matcher := language.NewMatcher(c.tags)
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return c.tags[0]
	}
	return c.tags[index]
}
