package dom_test

import (
	"testing"

	"github.com/goliatone/go-formguard/pkg/dom"
)

func TestDispatch_HandlersRunInOrder(t *testing.T) {
	doc, err := dom.ParseString(`<form><input name="a"></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := doc.Forms()[0]

	var order []string
	form.On(dom.EventSubmit, func(*dom.Event) { order = append(order, "first") })
	form.On(dom.EventSubmit, func(*dom.Event) { order = append(order, "second") })

	ev := form.Dispatch(dom.EventSubmit)
	if ev.DefaultPrevented() {
		t.Fatalf("no handler prevented default")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handlers ran out of order: %v", order)
	}
}

func TestSubmit_PreventDefault(t *testing.T) {
	doc, err := dom.ParseString(`<form><input name="a"></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := doc.Forms()[0]
	form.On(dom.EventSubmit, func(ev *dom.Event) { ev.PreventDefault() })

	if form.Submit() {
		t.Fatalf("expected submission to be cancelled")
	}
}

func TestInput_FiresListeners_SetValueDoesNot(t *testing.T) {
	doc, err := dom.ParseString(`<form><input name="a"></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	control := doc.Controls()[0]

	fired := 0
	control.On(dom.EventInput, func(*dom.Event) { fired++ })

	control.SetValue("programmatic")
	if fired != 0 {
		t.Fatalf("SetValue must not fire input events, fired %d", fired)
	}

	control.Input("typed")
	if fired != 1 {
		t.Fatalf("Input should fire exactly once, fired %d", fired)
	}
	if got := control.Value(); got != "typed" {
		t.Fatalf("value = %q, want typed", got)
	}
}

func TestDispatch_TargetIsElement(t *testing.T) {
	doc, err := dom.ParseString(`<textarea name="memo"></textarea>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	memo := doc.Controls()[0]

	var target *dom.Element
	memo.On(dom.EventInput, func(ev *dom.Event) { target = ev.Target })
	memo.Dispatch(dom.EventInput)

	if target != memo {
		t.Fatalf("event target should be the dispatching element")
	}
}
