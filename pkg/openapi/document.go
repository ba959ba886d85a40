package openapi

import "errors"

// Document pairs a raw OpenAPI payload with the source it came from.
type Document struct {
	src Source
	raw []byte
}

// NewDocument wraps a payload. The payload must be non-empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: document payload is empty")
	}
	return Document{src: src, raw: raw}, nil
}

// Raw returns the document bytes.
func (d Document) Raw() []byte { return d.raw }

// Source returns the origin of the document, which may be nil for documents
// constructed directly from bytes.
func (d Document) Source() Source { return d.src }
