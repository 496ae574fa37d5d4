package table

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/JonMunkholm/easyfin/internal/format"
)

// Element is a framework-neutral render tree node returned by column
// renderers, e.g. a badge with a label or a link wrapping a document number.
type Element struct {
	Tag      string
	Props    map[string]any
	Children any // a plain value, an *Element, or []any
}

// El builds an element with children.
func El(tag string, props map[string]any, children ...any) *Element {
	e := &Element{Tag: tag, Props: props}
	switch len(children) {
	case 0:
	case 1:
		e.Children = children[0]
	default:
		e.Children = children
	}
	return e
}

// ExtractValue pulls a plain value out of a renderer's output.
//
// Plain values come back unchanged (nil included). Elements yield their
// "value" prop when present, otherwise their children; child lists are
// extracted one by one and joined with a single space, skipping falsy
// results. templ components are rendered and reduced to their text.
func ExtractValue(r any) any {
	switch v := r.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case *Element:
		if v == nil {
			return nil
		}
		return extractElement(*v)
	case Element:
		return extractElement(v)
	case []any:
		return joinChildren(v)
	case templ.Component:
		return componentText(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func extractElement(e Element) any {
	if val, ok := e.Props["value"]; ok && val != nil {
		return val
	}
	if e.Children == nil {
		return nil
	}
	return ExtractValue(e.Children)
}

func joinChildren(children []any) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		v := ExtractValue(child)
		if falsy(v) {
			continue
		}
		parts = append(parts, format.Text(v))
	}
	return strings.Join(parts, " ")
}

// falsy mirrors the values a UI layer would skip when concatenating text.
func falsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	}
	f, ok := format.Float(v)
	return ok && f == 0
}

// componentText renders a templ component and returns its visible text with
// whitespace collapsed.
func componentText(c templ.Component) string {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return ""
	}
	return htmlText(buf.String())
}

func htmlText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var words []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(words, " ")
		case html.TextToken:
			words = append(words, strings.Fields(string(z.Text()))...)
		}
	}
}

// DisplayValue is what a cell shows on screen: the renderer's output when
// there is one, otherwise the resolved value as text.
func DisplayValue(c Column, row Row, dateLayout string) string {
	value := ResolveValue(c, row)
	if c.Render != nil {
		if out, ok := safeRender(c.Render, row, value); ok {
			return displayText(ExtractValue(out), dateLayout)
		}
	}
	return displayText(value, dateLayout)
}

func displayText(v any, dateLayout string) string {
	switch val := v.(type) {
	case string:
		return val
	case time.Time, *time.Time:
		return format.Date(val, dateLayout)
	}
	return format.Text(v)
}

func safeRender(fn func(Row, any) any, row Row, value any) (out any, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = nil, false
		}
	}()
	return fn(row, value), true
}
