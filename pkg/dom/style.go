package dom

import "strings"

// declaration is a single property/value pair from an inline style attribute.
type declaration struct {
	property string
	value    string
}

// Style returns the value of an inline style property, or "" when unset.
func (e *Element) Style(property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	for _, decl := range parseStyle(e.Attr("style")) {
		if decl.property == property {
			return decl.value
		}
	}
	return ""
}

// SetStyle sets an inline style property, preserving unrelated declarations
// and their order.
func (e *Element) SetStyle(property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	if property == "" {
		return
	}
	decls := parseStyle(e.Attr("style"))
	replaced := false
	for i := range decls {
		if decls[i].property == property {
			decls[i].value = value
			replaced = true
			break
		}
	}
	if !replaced {
		decls = append(decls, declaration{property: property, value: value})
	}
	e.writeStyle(decls)
}

// RemoveStyle clears an inline style property. Clearing the last declaration
// removes the style attribute entirely, restoring the default presentation.
func (e *Element) RemoveStyle(property string) {
	property = strings.ToLower(strings.TrimSpace(property))
	decls := parseStyle(e.Attr("style"))
	kept := decls[:0]
	for _, decl := range decls {
		if decl.property != property {
			kept = append(kept, decl)
		}
	}
	e.writeStyle(kept)
}

func (e *Element) writeStyle(decls []declaration) {
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.property+": "+decl.value)
	}
	e.SetAttr("style", strings.Join(parts, "; "))
}

func parseStyle(raw string) []declaration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []declaration
	for _, chunk := range strings.Split(raw, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		property, value, ok := strings.Cut(chunk, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if property == "" {
			continue
		}
		out = append(out, declaration{property: property, value: value})
	}
	return out
}
