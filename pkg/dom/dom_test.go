package dom_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
  <form action="/posts/new" method="post">
    <input type="text" name="title" required>
    <textarea name="content" required>draft body</textarea>
    <input type="checkbox" name="notify">
  </form>
  <form action="/search">
    <input type="text" name="q">
  </form>
  <textarea name="scratch"></textarea>
</body>
</html>`

func TestParse_FormsAndControls(t *testing.T) {
	doc, err := dom.ParseString(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	forms := doc.Forms()
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}

	names := make([]string, 0, 4)
	for _, control := range doc.Controls() {
		names = append(names, control.Name())
	}
	want := []string{"title", "content", "notify", "q", "scratch"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("control names mismatch (-want +got):\n%s", diff)
	}

	required := forms[0].RequiredControls()
	if len(required) != 2 {
		t.Fatalf("expected 2 required controls, got %d", len(required))
	}
	if required[0].Name() != "title" || required[1].Name() != "content" {
		t.Fatalf("unexpected required controls: %s, %s", required[0].Name(), required[1].Name())
	}
	if len(forms[1].RequiredControls()) != 0 {
		t.Fatalf("search form should have no required controls")
	}
}

func TestElement_Values(t *testing.T) {
	doc, err := dom.ParseString(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	controls := doc.Forms()[0].Controls()
	title, content := controls[0], controls[1]

	if got := title.Value(); got != "" {
		t.Fatalf("expected empty input value, got %q", got)
	}
	title.SetValue("hello")
	if got := title.Value(); got != "hello" {
		t.Fatalf("input value = %q, want hello", got)
	}

	if got := content.Value(); got != "draft body" {
		t.Fatalf("textarea value = %q, want draft body", got)
	}
	content.SetValue("replaced")
	if got := content.Value(); got != "replaced" {
		t.Fatalf("textarea value after set = %q, want replaced", got)
	}
	content.SetValue("")
	if got := content.Value(); got != "" {
		t.Fatalf("textarea value after clear = %q, want empty", got)
	}
}

func TestElement_StableWrappers(t *testing.T) {
	doc, err := dom.ParseString(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first := doc.Controls()[0]
	again := doc.Forms()[0].Controls()[0]
	if first != again {
		t.Fatalf("expected the same wrapper for the same node")
	}
}

func TestDocument_HTMLRoundTrip(t *testing.T) {
	doc, err := dom.ParseString(samplePage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	doc.Controls()[0].SetAttr("value", "persisted")

	markup, err := doc.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(markup, `value="persisted"`) {
		t.Fatalf("expected attribute mutation in rendered markup:\n%s", markup)
	}
}
