package guard

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// MessageKey is the catalog key for the blocking alert shown when a required
// field is left empty.
const MessageKey = "guard.required"

const borderProperty = "border-color"

// Attach wires the submission guard and the input-clear watcher into the
// document. Only forms and controls present at attach time are covered,
// matching the page-load registration of the original script.
func Attach(doc *dom.Document, opts ...Option) error {
	if doc == nil {
		return errors.New("guard: document is nil")
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	for _, form := range doc.Forms() {
		form := form
		form.On(dom.EventSubmit, func(ev *dom.Event) {
			guardSubmit(form, ev, cfg)
		})
	}

	for _, control := range doc.Controls() {
		control := control
		control.On(dom.EventInput, func(*dom.Event) {
			control.RemoveStyle(borderProperty)
		})
	}

	return nil
}

// guardSubmit validates every required control in the form. All controls are
// evaluated and marked; there is no short-circuit on the first failure.
func guardSubmit(form *dom.Element, ev *dom.Event, cfg config) {
	valid := true
	for _, control := range form.RequiredControls() {
		if strings.TrimSpace(control.Value()) == "" {
			control.SetStyle(borderProperty, cfg.markColor)
			valid = false
		} else {
			control.RemoveStyle(borderProperty)
		}
	}
	if valid {
		return
	}
	ev.PreventDefault()
	cfg.alerter.Alert(cfg.message())
}

func (cfg config) message() string {
	if cfg.translator != nil {
		if msg, err := cfg.translator.Translate(cfg.locale, MessageKey); err == nil {
			return msg
		}
	}
	return fallbackMessage
}

// fallbackMessage matches the catalog's Korean default so a broken translator
// never silences the alert.
const fallbackMessage = "모든 필수 항목을 입력해주세요."
