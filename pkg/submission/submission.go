// Package submission validates posted form values against a form model with
// the same semantics the client-side guard applies: required fields must have
// a non-empty trimmed value, every failing field is reported (no
// short-circuit), and the summary message matches the guard alert text.
// Declared length and pattern rules are enforced on non-empty values.
package submission

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/i18n"
	"github.com/goliatone/go-formguard/pkg/model"
)

// Result is the outcome of validating one submit attempt.
type Result struct {
	Valid bool
	// FieldErrors is keyed by field name; absent when Valid.
	FieldErrors map[string][]string
	// Message is the blocking summary, localized; empty when Valid.
	Message string
}

type config struct {
	translator i18n.Translator
	locale     string
}

// Option customises validation.
type Option func(*config)

// WithTranslator overrides the message catalog.
func WithTranslator(translator i18n.Translator) Option {
	return func(cfg *config) {
		if translator != nil {
			cfg.translator = translator
		}
	}
}

// WithLocale selects the error message locale.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			cfg.locale = trimmed
		}
	}
}

// Validate checks values against the form model. Every field is evaluated;
// all failures are reported together.
func Validate(form model.FormModel, values url.Values, opts ...Option) Result {
	cfg := config{translator: i18n.Default(), locale: i18n.DefaultLocale}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	fieldErrors := make(map[string][]string)
	for _, field := range form.Fields {
		value := values.Get(field.Name)
		trimmed := strings.TrimSpace(value)

		if trimmed == "" {
			if field.Required {
				fieldErrors[field.Name] = append(fieldErrors[field.Name], cfg.message("form.error.required"))
			}
			continue
		}

		for _, rule := range field.Validations {
			if msg, ok := cfg.ruleError(rule, trimmed); !ok {
				fieldErrors[field.Name] = append(fieldErrors[field.Name], msg)
			}
		}
	}

	if len(fieldErrors) == 0 {
		return Result{Valid: true}
	}
	return Result{
		FieldErrors: fieldErrors,
		Message:     cfg.message(guard.MessageKey),
	}
}

// ruleError reports whether value satisfies the rule; when it does not, the
// localized message is returned.
func (cfg config) ruleError(rule model.ValidationRule, value string) (string, bool) {
	switch rule.Kind {
	case model.ValidationRuleMinLength:
		limit, err := strconv.Atoi(rule.Params["value"])
		if err != nil || utf8.RuneCountInString(value) >= limit {
			return "", true
		}
		return cfg.message("form.error.min_length", limit), false
	case model.ValidationRuleMaxLength:
		limit, err := strconv.Atoi(rule.Params["value"])
		if err != nil || utf8.RuneCountInString(value) <= limit {
			return "", true
		}
		return cfg.message("form.error.max_length", limit), false
	case model.ValidationRulePattern:
		re, err := regexp.Compile(rule.Params["pattern"])
		// Unparseable patterns never reject user input.
		if err != nil || re.MatchString(value) {
			return "", true
		}
		return cfg.message("form.error.pattern"), false
	default:
		return "", true
	}
}

func (cfg config) message(key string, params ...any) string {
	if msg, err := cfg.translator.Translate(cfg.locale, key, params...); err == nil {
		return msg
	}
	return key
}
