// Package formguard validates required form fields the way a browser page
// script would: a submission guard that marks empty required controls and
// blocks the submit with a localized alert, plus an input watcher that clears
// the marker as soon as the user edits a field. The same semantics are
// available for live documents (pkg/guard), posted values (pkg/submission),
// and as an embedded browser runtime (RuntimeAssetsFS).
package formguard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/model"
	"github.com/goliatone/go-formguard/pkg/openapi"
	"github.com/goliatone/go-formguard/pkg/render"
)

// Options re-exports render.Options for callers that only need the root
// package.
type Options = render.Options

// Attach wires the submission guard and input-clear watcher into a parsed
// document.
func Attach(doc *dom.Document, opts ...guard.Option) error {
	return guard.Attach(doc, opts...)
}

// LoadForms loads an OpenAPI source and builds a form model for every
// form-bearing operation it declares.
func LoadForms(ctx context.Context, src openapi.Source, loaderOpts ...openapi.LoaderOption) (map[string]model.FormModel, error) {
	doc, err := openapi.NewLoader(loaderOpts...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	operations, err := openapi.NewParser().Operations(ctx, doc)
	if err != nil {
		return nil, err
	}

	forms := make(map[string]model.FormModel, len(operations))
	for id, op := range operations {
		form, err := openapi.BuildForm(op)
		if err != nil {
			return nil, err
		}
		forms[id] = form
	}
	return forms, nil
}

// GenerateHTML loads the OpenAPI source, builds the requested operation's
// form model, and renders it. It is the simplest entry point for callers
// that just want markup.
func GenerateHTML(ctx context.Context, src openapi.Source, operationID string, opts Options, loaderOpts ...openapi.LoaderOption) ([]byte, error) {
	forms, err := LoadForms(ctx, src, loaderOpts...)
	if err != nil {
		return nil, err
	}
	form, ok := forms[operationID]
	if !ok {
		return nil, fmt.Errorf("formguard: operation %q not found", operationID)
	}
	return render.HTML(form, opts)
}
