package web

import (
	"context"
	"embed"
	"fmt"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/model"
	"github.com/goliatone/go-formguard/pkg/openapi"
)

//go:embed openapi.yaml
var apiSpecFS embed.FS

// Forms holds the board's form models, built once at startup from the
// embedded API document.
type Forms struct {
	Register model.FormModel
	Login    model.FormModel
	NewPost  model.FormModel
	EditPost model.FormModel
}

// LoadForms builds every page form from the embedded OpenAPI document.
func LoadForms(ctx context.Context) (*Forms, error) {
	forms, err := formguard.LoadForms(ctx,
		openapi.SourceFromFS("openapi.yaml"),
		openapi.WithFS(apiSpecFS))
	if err != nil {
		return nil, fmt.Errorf("web: load forms: %w", err)
	}

	out := &Forms{}
	for id, dst := range map[string]*model.FormModel{
		"registerUser": &out.Register,
		"loginUser":    &out.Login,
		"createPost":   &out.NewPost,
		"updatePost":   &out.EditPost,
	} {
		form, ok := forms[id]
		if !ok {
			return nil, fmt.Errorf("web: operation %q missing from api document", id)
		}
		*dst = form
	}
	return out, nil
}
