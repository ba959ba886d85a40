package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation is a single form-bearing endpoint extracted from a document.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Schema      *openapi3.Schema
}

// Parser extracts operations from OpenAPI documents using kin-openapi.
type Parser struct {
	allowPartial bool
}

// ParserOption customises a Parser.
type ParserOption func(*Parser)

// AllowPartialDocuments tolerates documents without paths or operations.
func AllowPartialDocuments() ParserOption {
	return func(p *Parser) {
		p.allowPartial = true
	}
}

// NewParser builds a Parser from options.
func NewParser(opts ...ParserOption) *Parser {
	parser := &Parser{}
	for _, opt := range opts {
		if opt != nil {
			opt(parser)
		}
	}
	return parser
}

// Operations converts a document into a map keyed by operation id. Operations
// without a request body schema are skipped: they carry no form to render.
func (p *Parser) Operations(ctx context.Context, doc Document) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if (spec.Paths == nil || spec.Paths.Len() == 0) && !p.allowPartial {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			p.collect(operations, "POST", path, item.Post)
			p.collect(operations, "PUT", path, item.Put)
			p.collect(operations, "PATCH", path, item.Patch)
		}
	}

	if len(operations) == 0 && !p.allowPartial {
		return nil, errors.New("openapi parser: no form operations extracted")
	}
	return operations, nil
}

func (p *Parser) collect(target map[string]Operation, method, path string, op *openapi3.Operation) {
	if op == nil {
		return
	}
	schema := requestSchema(op)
	if schema == nil {
		return
	}

	id := strings.TrimSpace(op.OperationID)
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	target[id] = Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
		Schema:      schema,
	}
}

// requestSchema prefers the urlencoded body browsers actually post, falling
// back to JSON for API-first documents.
func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, contentType := range []string{
		"application/x-www-form-urlencoded",
		"multipart/form-data",
		"application/json",
	} {
		media := content.Get(contentType)
		if media == nil || media.Schema == nil || media.Schema.Value == nil {
			continue
		}
		return media.Schema.Value
	}
	return nil
}
