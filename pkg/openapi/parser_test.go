package openapi_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/model"
	"github.com/goliatone/go-formguard/pkg/openapi"
)

const boardDocument = `openapi: 3.0.3
info:
  title: Board
  version: 1.0.0
paths:
  /register:
    post:
      operationId: registerUser
      summary: Register
      requestBody:
        required: true
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              required: [username, password]
              properties:
                username:
                  type: string
                  minLength: 3
                  maxLength: 50
                  x-order: 1
                password:
                  type: string
                  format: password
                  minLength: 4
                  x-order: 2
                password_confirm:
                  type: string
                  format: password
                  x-order: 3
  /posts/new:
    post:
      operationId: createPost
      summary: New Post
      requestBody:
        required: true
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              required: [title, content]
              properties:
                title:
                  type: string
                  minLength: 1
                  maxLength: 255
                  x-order: 1
                content:
                  type: string
                  format: textarea
                  minLength: 1
                  x-order: 2
  /health:
    get:
      operationId: health
      responses:
        "200":
          description: OK
`

func parseOperations(t *testing.T) map[string]openapi.Operation {
	t.Helper()
	doc, err := openapi.NewDocument(openapi.SourceFromFS("board.yaml"), []byte(boardDocument))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	ops, err := openapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	return ops
}

func TestParser_ExtractsFormOperationsOnly(t *testing.T) {
	ops := parseOperations(t)

	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}
	if _, ok := ops["health"]; ok {
		t.Fatalf("bodyless operations must be skipped")
	}
	register, ok := ops["registerUser"]
	if !ok {
		t.Fatalf("registerUser operation missing")
	}
	if register.Method != "POST" || register.Path != "/register" {
		t.Fatalf("unexpected endpoint: %s %s", register.Method, register.Path)
	}
}

func TestBuildForm_FieldsOrderedAndValidated(t *testing.T) {
	ops := parseOperations(t)

	form, err := openapi.BuildForm(ops["registerUser"])
	if err != nil {
		t.Fatalf("build form: %v", err)
	}

	names := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"username", "password", "password_confirm"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	username, ok := form.Field("username")
	if !ok {
		t.Fatalf("username field missing")
	}
	if !username.Required {
		t.Fatalf("username should be required")
	}
	if username.Label != "Username" {
		t.Fatalf("label = %q, want Username", username.Label)
	}
	wantRules := []model.ValidationRule{
		{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3"}},
		{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "50"}},
	}
	if diff := cmp.Diff(wantRules, username.Validations); diff != "" {
		t.Fatalf("validations mismatch (-want +got):\n%s", diff)
	}

	confirm, _ := form.Field("password_confirm")
	if confirm.Required {
		t.Fatalf("password_confirm should not be required")
	}
}

func TestBuildForm_TextareaFormatSurvives(t *testing.T) {
	ops := parseOperations(t)

	form, err := openapi.BuildForm(ops["createPost"])
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	content, ok := form.Field("content")
	if !ok {
		t.Fatalf("content field missing")
	}
	if content.Format != "textarea" {
		t.Fatalf("format = %q, want textarea", content.Format)
	}
	if len(form.RequiredFields()) != 2 {
		t.Fatalf("expected 2 required fields")
	}
}
