package form

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a Document from HTML markup. Forms become Form values, and
// every input, textarea, select and button becomes a Control attached either
// to its enclosing form or to the document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseHTML, err)
	}

	doc := NewDocument()
	var walk func(n *html.Node, current *Form)
	walk = func(n *html.Node, current *Form) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Form:
				// Nested forms are invalid HTML; the parser already flattens
				// them, so a form element always starts a new scope.
				f := formFromNode(n)
				doc.AddForm(f)
				for child := n.FirstChild; child != nil; child = child.NextSibling {
					walk(child, f)
				}
				return
			case atom.Input, atom.Textarea, atom.Select, atom.Button:
				c := controlFromNode(n)
				if current != nil {
					current.Add(c)
				} else {
					doc.AddControl(c)
				}
				if n.DataAtom != atom.Input {
					// Option and text children are consumed by controlFromNode.
					return
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child, current)
		}
	}
	walk(root, nil)

	return doc, nil
}

func formFromNode(n *html.Node) *Form {
	f := &Form{}
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "id":
			f.ID = a.Val
		case "action":
			f.Action = a.Val
		case "method":
			f.Method = a.Val
		case "enctype":
			f.Enctype = a.Val
		case "novalidate":
			f.NoValidate = true
		case "class":
			f.Classes = strings.Fields(a.Val)
		}
	}
	return f
}

func controlFromNode(n *html.Node) *Control {
	c := &Control{
		Tag:       n.Data,
		MinLength: -1,
		MaxLength: -1,
	}

	var typ string
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		switch key {
		case "id":
			c.ID = a.Val
		case "name":
			c.Name = a.Val
		case "type":
			typ = strings.ToLower(strings.TrimSpace(a.Val))
		case "value":
			c.Value = a.Val
		case "checked":
			c.Checked = true
		case "required":
			c.Required = true
		case "disabled":
			c.Disabled = true
		case "multiple":
			c.Multiple = true
		case "min":
			c.Min = a.Val
		case "max":
			c.Max = a.Val
		case "minlength":
			c.MinLength = parseLength(a.Val)
		case "maxlength":
			c.MaxLength = parseLength(a.Val)
		case "pattern":
			c.Pattern = a.Val
		case "accept":
			c.Accept = a.Val
		case "form":
			c.FormAttr = a.Val
		case "class":
			c.Classes = strings.Fields(a.Val)
		default:
			c.SetAttr(key, a.Val)
		}
	}

	switch n.DataAtom {
	case atom.Input:
		if typ == "" {
			typ = string(KindText)
		}
		c.Kind = Kind(typ)
		if c.Kind == KindSubmit || c.Kind == KindButton || c.Kind == KindReset {
			c.Label = c.Value
		}
	case atom.Textarea:
		c.Kind = KindTextarea
		c.Value = textContent(n)
	case atom.Select:
		c.Kind = KindSelect
		c.Value = selectedOption(n)
	case atom.Button:
		// A button without a type attribute is a submit button.
		if typ == "" {
			typ = string(KindSubmit)
		}
		c.Kind = Kind(typ)
		c.Label = strings.TrimSpace(textContent(n))
	}

	c.DefaultValue = c.Value
	c.DefaultChecked = c.Checked
	return c
}

func parseLength(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// selectedOption returns the value of the selected option, or of the first
// option when none is marked selected.
func selectedOption(n *html.Node) string {
	var first, selected *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Option {
			if first == nil {
				first = n
			}
			if selected == nil && hasAttr(n, "selected") {
				selected = n
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	opt := selected
	if opt == nil {
		opt = first
	}
	if opt == nil {
		return ""
	}
	if v, ok := attrValue(opt, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(opt))
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attrValue(n, key)
	return ok
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
