package form

import (
	"fmt"
	"strings"
)

// Selector is a parsed comma-separated list of compound selectors.
type Selector struct {
	raw   string
	parts []compound
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

// ParseSelector parses a selector such as `#send`, `.btn.primary`,
// `button[type=submit], input[type="submit"]`.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Selector{}, ErrEmptySelector
	}

	sel := Selector{raw: raw}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Selector{}, fmt.Errorf("%w: %q", ErrUnsupportedSelector, raw)
		}
		c, err := parseCompound(part)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: %q", err, raw)
		}
		sel.parts = append(sel.parts, c)
	}
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(raw string) Selector {
	sel, err := ParseSelector(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// String returns the selector source.
func (s Selector) String() string {
	return s.raw
}

// Match reports whether c matches any compound of the selector.
func (s Selector) Match(c *Control) bool {
	if c == nil {
		return false
	}
	for _, part := range s.parts {
		if part.match(c) {
			return true
		}
	}
	return false
}

// Filter returns the controls matching the selector, preserving order.
func (s Selector) Filter(controls []*Control) []*Control {
	var out []*Control
	for _, c := range controls {
		if s.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func (c compound) match(ctrl *Control) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, ctrl.Tag) {
		return false
	}
	if c.id != "" && c.id != ctrl.ID {
		return false
	}
	for _, class := range c.classes {
		if !ctrl.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := ctrl.Attr(a.name)
		if !ok {
			return false
		}
		if a.hasValue && v != a.value {
			return false
		}
	}
	return true
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && s[i] == '*' {
		c.tag = "*"
		i++
	} else {
		c.tag = strings.ToLower(readIdent())
	}

	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			id := readIdent()
			if id == "" {
				return compound{}, ErrUnsupportedSelector
			}
			c.id = id
		case '.':
			i++
			class := readIdent()
			if class == "" {
				return compound{}, ErrUnsupportedSelector
			}
			c.classes = append(c.classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return compound{}, ErrUnsupportedSelector
			}
			a, err := parseAttr(s[i+1 : i+end])
			if err != nil {
				return compound{}, err
			}
			c.attrs = append(c.attrs, a)
			i += end + 1
		default:
			return compound{}, ErrUnsupportedSelector
		}
	}
	return c, nil
}

func parseAttr(body string) (attrMatch, error) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return attrMatch{}, ErrUnsupportedSelector
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return attrMatch{name: strings.ToLower(name), value: value, hasValue: hasValue}, nil
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
