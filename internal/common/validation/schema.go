package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for request payload schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Format      string              `json:"format,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates a decoded JSON document against schema.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		field := re.Field()
		// required errors report the parent; the missing key lives in details.
		if prop, ok := re.Details()["property"].(string); ok && re.Type() == "required" {
			field = prop
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out
}

// ValidateJSON decodes raw and validates it, returning the decoded map.
func ValidateJSON(raw []byte, schema JSONSchema) (map[string]interface{}, *ValidationResult) {
	var input map[string]interface{}
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: fmt.Sprintf("invalid JSON: %v", err),
				Code:    "INVALID_JSON",
			}},
		}
	}
	return input, ValidateInput(input, schema)
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func IntPtr(i int) *int {
	return &i
}
