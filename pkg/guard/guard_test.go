package guard_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/guard"
)

const alertKorean = "모든 필수 항목을 입력해주세요."

func mustAttach(t *testing.T, markup string, opts ...guard.Option) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := guard.Attach(doc, opts...); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return doc
}

func TestSubmit_BlankRequiredFieldBlocksSubmission(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form><input name="name" required></form>`, guard.WithAlerter(alerts))
	form := doc.Forms()[0]

	if form.Submit() {
		t.Fatalf("submission should be cancelled")
	}
	if got := doc.Controls()[0].Style("border-color"); got != "red" {
		t.Fatalf("field should be marked red, got %q", got)
	}
	if diff := cmp.Diff([]string{alertKorean}, alerts.Messages); diff != "" {
		t.Fatalf("alert mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_FilledFormProceeds(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form><input name="name" value="Alice" required></form>`, guard.WithAlerter(alerts))

	if !doc.Forms()[0].Submit() {
		t.Fatalf("submission should proceed")
	}
	if len(alerts.Messages) != 0 {
		t.Fatalf("no alert expected, got %v", alerts.Messages)
	}
	if doc.Controls()[0].HasAttr("style") {
		t.Fatalf("passing field should keep its default border")
	}
}

func TestSubmit_WhitespaceOnlyValueFails(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form><input name="name" value="   " required></form>`, guard.WithAlerter(alerts))

	if doc.Forms()[0].Submit() {
		t.Fatalf("whitespace-only value should not pass")
	}
	if len(alerts.Messages) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts.Messages))
	}
}

func TestSubmit_MarkingIsExhaustive(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form>
		<input name="a" required>
		<input name="b" value="filled" required>
		<textarea name="c" required></textarea>
	</form>`, guard.WithAlerter(alerts))

	if doc.Forms()[0].Submit() {
		t.Fatalf("submission should be cancelled")
	}

	controls := doc.Forms()[0].Controls()
	if got := controls[0].Style("border-color"); got != "red" {
		t.Fatalf("field a should be marked, got %q", got)
	}
	if got := controls[1].Style("border-color"); got != "" {
		t.Fatalf("field b should not be marked, got %q", got)
	}
	if got := controls[2].Style("border-color"); got != "red" {
		t.Fatalf("field c should be marked, got %q", got)
	}
	if len(alerts.Messages) != 1 {
		t.Fatalf("exactly one alert per attempt, got %d", len(alerts.Messages))
	}
}

func TestSubmit_RevalidatesFreshEachAttempt(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form><input name="title" required></form>`, guard.WithAlerter(alerts))
	form := doc.Forms()[0]
	title := form.Controls()[0]

	if form.Submit() {
		t.Fatalf("first attempt should be cancelled")
	}
	if form.Submit() {
		t.Fatalf("second attempt should still be cancelled")
	}
	if got := title.Style("border-color"); got != "red" {
		t.Fatalf("marking should be stable across attempts, got %q", got)
	}
	if len(alerts.Messages) != 2 {
		t.Fatalf("one alert per attempt, got %d", len(alerts.Messages))
	}

	// A later passing attempt clears the marker during validation.
	title.SetValue("done")
	if !form.Submit() {
		t.Fatalf("filled form should proceed")
	}
	if got := title.Style("border-color"); got != "" {
		t.Fatalf("passing field should be cleared, got %q", got)
	}
	if len(alerts.Messages) != 2 {
		t.Fatalf("no extra alert on success, got %d", len(alerts.Messages))
	}
}

func TestInput_ClearsMarkerRegardlessOfValidity(t *testing.T) {
	doc := mustAttach(t, `<form><input name="title" required></form>`)
	form := doc.Forms()[0]
	title := form.Controls()[0]

	form.Submit()
	if got := title.Style("border-color"); got != "red" {
		t.Fatalf("field should be marked before the edit, got %q", got)
	}

	// Editing back to an empty value still clears the marker; the watcher
	// never revalidates.
	title.Input("")
	if got := title.Style("border-color"); got != "" {
		t.Fatalf("marker should be cleared on input, got %q", got)
	}
}

func TestSetValue_DoesNotClearMarker(t *testing.T) {
	doc := mustAttach(t, `<form><input name="title" required></form>`)
	form := doc.Forms()[0]
	title := form.Controls()[0]

	form.Submit()
	title.SetValue("programmatic")
	if got := title.Style("border-color"); got != "red" {
		t.Fatalf("programmatic changes must not clear the marker, got %q", got)
	}
}

func TestGuard_IgnoresFormsWithoutRequiredFields(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form><input name="q"></form>`, guard.WithAlerter(alerts))

	if !doc.Forms()[0].Submit() {
		t.Fatalf("form without required fields should submit")
	}
	if len(alerts.Messages) != 0 {
		t.Fatalf("no alert expected, got %v", alerts.Messages)
	}
}

func TestWithLocale_EnglishAlert(t *testing.T) {
	alerts := &guard.Recorder{}
	doc := mustAttach(t, `<form><input name="name" required></form>`,
		guard.WithAlerter(alerts), guard.WithLocale("en"))

	doc.Forms()[0].Submit()
	if diff := cmp.Diff([]string{"Please fill in all required fields."}, alerts.Messages); diff != "" {
		t.Fatalf("alert mismatch (-want +got):\n%s", diff)
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
}

func (s *stubThemeSelector) Select(_, _ string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, nil
}

func TestWithTheme_MarkerColorFromTokens(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "board",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "board",
			Version: "1.0.0",
			Tokens: map[string]string{
				guard.InvalidBorderToken: "#cc0000",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						guard.InvalidBorderToken: "#ff6666",
					},
				},
			},
		},
	}}

	doc := mustAttach(t, `<form><input name="name" required></form>`,
		guard.WithTheme(selector, "board", "dark"))

	doc.Forms()[0].Submit()
	if got := doc.Controls()[0].Style("border-color"); got != "#ff6666" {
		t.Fatalf("marker should use the variant token, got %q", got)
	}
}
