// Package urltemplate renders product and image link templates such as
// "https://shop.example/{category_slug}/{id_product}-{link_rewrite}.html".
//
// A placeholder is a name in single braces. "{{" and "}}" produce literal
// braces. Rendering fails when a placeholder has no value, so a typo in a
// configured template surfaces as an error instead of a broken link.
package urltemplate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
	ErrMalformedTemplate  = errors.New("malformed template")
)

// Placeholders recognized in product link templates.
var ProductPlaceholders = []string{"id_product", "id_product_attribute", "link_rewrite", "category_slug"}

// Placeholders recognized in image link templates.
var ImagePlaceholders = []string{"id_image", "link_rewrite"}

type UnknownPlaceholderError struct {
	Name string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("%s: {%s}", ErrUnknownPlaceholder, e.Name)
}

func (e *UnknownPlaceholderError) Unwrap() error { return ErrUnknownPlaceholder }

type segment struct {
	literal string
	name    string // non-empty for placeholders
}

// Render substitutes every placeholder in tmpl with its value.
func Render(tmpl string, values map[string]string) (string, error) {
	segs, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	for _, s := range segs {
		if s.name == "" {
			b.WriteString(s.literal)
			continue
		}
		v, ok := values[s.name]
		if !ok {
			return "", &UnknownPlaceholderError{Name: s.name}
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Validate checks that tmpl parses and only references names from allowed.
func Validate(tmpl string, allowed ...string) error {
	segs, err := parse(tmpl)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}
	for _, s := range segs {
		if s.name == "" {
			continue
		}
		if _, ok := known[s.name]; !ok {
			return &UnknownPlaceholderError{Name: s.name}
		}
	}
	return nil
}

func parse(tmpl string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := tmpl[i+1 : i+1+end]
			if name == "" || strings.ContainsAny(name, "{ ") {
				return nil, fmt.Errorf("%w: invalid placeholder %q at offset %d", ErrMalformedTemplate, name, i)
			}
			flush()
			segs = append(segs, segment{name: name})
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return segs, nil
}
