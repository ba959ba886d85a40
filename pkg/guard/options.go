package guard

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/i18n"
)

// InvalidBorderToken is the theme token consulted for the marker color when a
// theme selector is configured.
const InvalidBorderToken = "field.invalidBorder"

const defaultMarkColor = "red"

type config struct {
	alerter    Alerter
	translator i18n.Translator
	locale     string
	markColor  string

	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string
}

// Option customises guard attachment.
type Option func(*config)

// WithAlerter routes blocking alerts to the provided sink. The default sink
// discards alerts; applications embedding the guard supply their own.
func WithAlerter(alerter Alerter) Option {
	return func(cfg *config) {
		if alerter != nil {
			cfg.alerter = alerter
		}
	}
}

// WithTranslator overrides the message catalog used for the alert text.
func WithTranslator(translator i18n.Translator) Option {
	return func(cfg *config) {
		if translator != nil {
			cfg.translator = translator
		}
	}
}

// WithLocale selects the alert locale. Defaults to the catalog default (ko).
func WithLocale(locale string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			cfg.locale = trimmed
		}
	}
}

// WithMarkColor overrides the border color applied to failing controls.
func WithMarkColor(color string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(color); trimmed != "" {
			cfg.markColor = trimmed
		}
	}
}

// WithTheme resolves the marker color from a go-theme selection. The selected
// manifest's tokens (variant tokens winning) are consulted for
// InvalidBorderToken; when the token is absent the default color stands.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

func newConfig(opts ...Option) (config, error) {
	cfg := config{
		alerter:    NopAlerter(),
		translator: i18n.Default(),
		locale:     i18n.DefaultLocale,
		markColor:  defaultMarkColor,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.themeSelector != nil {
		color, err := resolveMarkColor(cfg.themeSelector, cfg.themeName, cfg.themeVariant)
		if err != nil {
			return config{}, err
		}
		if color != "" {
			cfg.markColor = color
		}
	}
	return cfg, nil
}

func resolveMarkColor(selector theme.ThemeSelector, name, variant string) (string, error) {
	selection, err := selector.Select(name, variant)
	if err != nil {
		return "", fmt.Errorf("guard: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return "", nil
	}

	manifest := selection.Manifest
	color := strings.TrimSpace(manifest.Tokens[InvalidBorderToken])
	if v, ok := manifest.Variants[selection.Variant]; ok {
		if override := strings.TrimSpace(v.Tokens[InvalidBorderToken]); override != "" {
			color = override
		}
	}
	return color, nil
}
