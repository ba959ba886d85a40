// Package render turns form models into HTML markup. Invalid fields receive
// the same inline border-color marker the client-side guard applies, so
// server-side validation failures are indistinguishable from client-side
// ones.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formguard/pkg/i18n"
	"github.com/goliatone/go-formguard/pkg/model"
)

const defaultMarkColor = "red"

// Options describe per-request data renderers use to customise output
// without mutating the form model.
type Options struct {
	// Values pre-populates controls by field name.
	Values map[string]string
	// Errors surfaces validation feedback by field name; affected controls
	// are marked and messages rendered inline.
	Errors map[string][]string
	// FormError is a form-level banner shown above the fields, typically the
	// guard's blocking alert message.
	FormError string
	// MarkColor overrides the invalid border color.
	MarkColor string
	// Locale and Translator localize field labels declared as catalog keys in
	// field metadata ("labelKey"). Optional.
	Locale     string
	Translator i18n.Translator
	// SubmitLabel names the submit button. Defaults to the form summary.
	SubmitLabel string
}

// HTML renders the form model to markup.
func HTML(form model.FormModel, opts Options) ([]byte, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	markColor := strings.TrimSpace(opts.MarkColor)
	if markColor == "" {
		markColor = defaultMarkColor
	}

	var buf strings.Builder
	method, methodOverride := browserMethod(form.Method)

	buf.WriteString("<form")
	attr(&buf, "id", "fg-"+form.OperationID)
	attr(&buf, "action", form.Endpoint)
	attr(&buf, "method", method)
	attr(&buf, "data-formguard", "true")
	buf.WriteString(">\n")

	if banner := strings.TrimSpace(opts.FormError); banner != "" {
		fmt.Fprintf(&buf, "  <div class=\"fg-alert\" role=\"alert\">%s</div>\n", html.EscapeString(banner))
	}
	if methodOverride != "" {
		buf.WriteString(`  <input type="hidden" name="_method"`)
		attr(&buf, "value", methodOverride)
		buf.WriteString(">\n")
	}

	for _, field := range form.Fields {
		renderField(&buf, field, opts, markColor)
	}

	label := strings.TrimSpace(opts.SubmitLabel)
	if label == "" {
		label = form.Summary
	}
	if label == "" {
		label = "Submit"
	}
	fmt.Fprintf(&buf, "  <button type=\"submit\" class=\"fg-submit\">%s</button>\n", html.EscapeString(label))
	buf.WriteString("</form>\n")

	return []byte(buf.String()), nil
}

func renderField(buf *strings.Builder, field model.Field, opts Options, markColor string) {
	errors := opts.Errors[field.Name]
	invalid := len(errors) > 0

	wrapperClass := "fg-field"
	if invalid {
		wrapperClass += " fg-field--invalid"
	}
	fmt.Fprintf(buf, "  <div class=%q>\n", wrapperClass)

	controlID := "fg-" + field.Name
	label := fieldLabel(field, opts)
	if label != "" {
		buf.WriteString(`    <label class="fg-label"`)
		attr(buf, "for", controlID)
		fmt.Fprintf(buf, ">%s", html.EscapeString(label))
		if field.Required {
			buf.WriteString(`<span class="fg-required" aria-hidden="true">*</span>`)
		}
		buf.WriteString("</label>\n")
	}

	value := opts.Values[field.Name]
	buf.WriteString("    ")
	writeControl(buf, field, controlID, value, invalid, markColor)
	buf.WriteString("\n")

	if desc := strings.TrimSpace(field.Description); desc != "" {
		fmt.Fprintf(buf, "    <p class=\"fg-description\">%s</p>\n", html.EscapeString(desc))
	}
	if invalid {
		buf.WriteString("    <ul class=\"fg-errors\">\n")
		for _, message := range errors {
			fmt.Fprintf(buf, "      <li>%s</li>\n", html.EscapeString(message))
		}
		buf.WriteString("    </ul>\n")
	}
	buf.WriteString("  </div>\n")
}

func writeControl(buf *strings.Builder, field model.Field, controlID, value string, invalid bool, markColor string) {
	var attrs strings.Builder
	attr(&attrs, "id", controlID)
	attr(&attrs, "name", field.Name)
	if field.Required {
		attrs.WriteString(" required")
	}
	if field.Placeholder != "" {
		attr(&attrs, "placeholder", field.Placeholder)
	}
	if invalid {
		attr(&attrs, "style", "border-color: "+markColor)
	}

	switch {
	case len(field.Enum) > 0:
		fmt.Fprintf(buf, "<select class=\"fg-control\"%s>", attrs.String())
		for _, option := range field.Enum {
			text := fmt.Sprint(option)
			buf.WriteString("<option")
			attr(buf, "value", text)
			if text == value {
				buf.WriteString(" selected")
			}
			fmt.Fprintf(buf, ">%s</option>", html.EscapeString(text))
		}
		buf.WriteString("</select>")
	case field.Format == "textarea":
		fmt.Fprintf(buf, "<textarea class=\"fg-control\"%s>%s</textarea>", attrs.String(), html.EscapeString(value))
	case field.Type == model.FieldTypeBoolean:
		checked := ""
		if value == "true" || value == "on" {
			checked = " checked"
		}
		fmt.Fprintf(buf, "<input class=\"fg-control\" type=\"checkbox\"%s%s>", attrs.String(), checked)
	default:
		buf.WriteString(`<input class="fg-control"`)
		attr(buf, "type", inputType(field))
		buf.WriteString(attrs.String())
		attr(buf, "value", value)
		buf.WriteString(">")
	}
}

// attr writes a name="value" attribute with the value HTML-escaped. Every
// dynamic attribute goes through here; raw user input must never reach an
// attribute position unescaped.
func attr(buf *strings.Builder, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteByte('"')
}

func inputType(field model.Field) string {
	switch {
	case field.Format == "password":
		return "password"
	case field.Format == "email":
		return "email"
	case field.Type == model.FieldTypeInteger, field.Type == model.FieldTypeNumber:
		return "number"
	default:
		return "text"
	}
}

func fieldLabel(field model.Field, opts Options) string {
	if key := field.Metadata["labelKey"]; key != "" && opts.Translator != nil {
		if msg, err := opts.Translator.Translate(opts.Locale, key); err == nil {
			return msg
		}
	}
	if field.Label != "" {
		return field.Label
	}
	return model.HumanizeLabel(field.Name)
}

// browserMethod translates non-browser verbs into POST plus a hidden _method
// input renderers emit alongside the visible fields.
func browserMethod(method string) (string, string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "", "GET", "POST":
		if method == "" {
			method = "POST"
		}
		return strings.ToLower(method), ""
	default:
		return "post", method
	}
}
