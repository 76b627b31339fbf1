package theme

import (
	"html/template"
	"maps"
	"sort"
	"strings"
	"sync"
)

// Document receives presentation attributes for the root element.
type Document interface {
	SetAttribute(name, value string)
}

// RootElement is the server-side projection of the document root. Pages
// render its attributes onto <html>; nothing reads them back as state.
type RootElement struct {
	mu    sync.RWMutex
	attrs map[string]string
}

// NewRootElement creates an element without attributes.
func NewRootElement() *RootElement {
	return &RootElement{attrs: map[string]string{}}
}

// SetAttribute sets or replaces one attribute.
func (e *RootElement) SetAttribute(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
}

// Attribute returns the attribute value and whether it is present.
func (e *RootElement) Attribute(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, ok := e.attrs[name]
	return value, ok
}

// Attributes returns a copy of every attribute.
func (e *RootElement) Attributes() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.attrs)
}

// HTMLAttributes renders the attributes in name order, escaped for HTML.
func (e *RootElement) HTMLAttributes() template.HTMLAttr {
	attrs := e.Attributes()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(template.HTMLEscapeString(name))
		b.WriteString(`="`)
		b.WriteString(template.HTMLEscapeString(attrs[name]))
		b.WriteByte('"')
	}
	return template.HTMLAttr(b.String())
}

type noopDocument struct{}

func (noopDocument) SetAttribute(string, string) {}
