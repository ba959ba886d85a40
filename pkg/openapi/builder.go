package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formguard/pkg/model"
)

// orderExtension pins a property's position inside the rendered form. Lower
// values render first; properties without it sort after ordered ones,
// alphabetically.
const orderExtension = "x-order"

// BuildForm converts an extracted operation into a renderable form model.
func BuildForm(op Operation) (model.FormModel, error) {
	if op.Schema == nil {
		return model.FormModel{}, fmt.Errorf("openapi builder: operation %s has no schema", op.ID)
	}
	if op.Schema.Type != nil && !op.Schema.Type.Is(openapi3.TypeObject) {
		return model.FormModel{}, fmt.Errorf("openapi builder: operation %s body is not an object", op.ID)
	}

	required := make(map[string]bool, len(op.Schema.Required))
	for _, name := range op.Schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(op.Schema.Properties))
	for name := range op.Schema.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iok := propertyOrder(op.Schema.Properties[names[i]])
		oj, jok := propertyOrder(op.Schema.Properties[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		ref := op.Schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := buildField(name, ref.Value, required[name])
		if err != nil {
			return model.FormModel{}, fmt.Errorf("openapi builder: operation %s: %w", op.ID, err)
		}
		fields = append(fields, field)
	}

	form := model.FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      op.Method,
		Summary:     op.Summary,
		Description: op.Description,
		Fields:      fields,
	}
	if err := form.Validate(); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

func buildField(name string, schema *openapi3.Schema, required bool) (model.Field, error) {
	fieldType, err := fieldType(schema)
	if err != nil {
		return model.Field{}, fmt.Errorf("property %s: %w", name, err)
	}

	label := strings.TrimSpace(schema.Title)
	if label == "" {
		label = model.HumanizeLabel(name)
	}

	field := model.Field{
		Name:        name,
		Type:        fieldType,
		Format:      schema.Format,
		Required:    required,
		Label:       label,
		Description: strings.TrimSpace(schema.Description),
		Default:     schema.Default,
		Enum:        schema.Enum,
	}

	if schema.MinLength > 0 {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)},
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*schema.MaxLength, 10)},
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}

	return field, nil
}

func fieldType(schema *openapi3.Schema) (model.FieldType, error) {
	types := schema.Type
	switch {
	case types == nil, types.Is(openapi3.TypeString):
		return model.FieldTypeString, nil
	case types.Is(openapi3.TypeInteger):
		return model.FieldTypeInteger, nil
	case types.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber, nil
	case types.Is(openapi3.TypeBoolean):
		return model.FieldTypeBoolean, nil
	default:
		return "", errors.New("unsupported schema type for a form control")
	}
}

func propertyOrder(ref *openapi3.SchemaRef) (float64, bool) {
	if ref == nil || ref.Value == nil || len(ref.Value.Extensions) == 0 {
		return 0, false
	}
	raw, ok := ref.Value.Extensions[orderExtension]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
