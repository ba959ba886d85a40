package model

import (
	"errors"
	"fmt"
)

var (
	errOperationIDMissing     = errors.New("model: operation id is required")
	errOperationPathMissing   = errors.New("model: operation endpoint is required")
	errOperationMethodMissing = errors.New("model: operation method is required")
)

// Validate checks that a form model carries enough metadata to be rendered
// and submitted.
func (m FormModel) Validate() error {
	if m.OperationID == "" {
		return errOperationIDMissing
	}
	if m.Endpoint == "" {
		return errOperationPathMissing
	}
	if m.Method == "" {
		return errOperationMethodMissing
	}
	for _, field := range m.Fields {
		if field.Name == "" {
			return fmt.Errorf("model: form %s has a field without a name", m.OperationID)
		}
	}
	return nil
}
