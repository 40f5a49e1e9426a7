// Package validator checks the input envelope that carries a reqline statement.
package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// EnvelopeSchema is the JSON schema every input envelope must satisfy.
const EnvelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "reqline": {
      "type": "string",
      "pattern": "\\S"
    }
  },
  "required": ["reqline"]
}`

// Input is the envelope shape accepted by Validate.
type Input struct {
	Reqline string `json:"reqline"`
}

// ValidationError describes why an envelope was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator holds a compiled envelope schema. It is safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles EnvelopeSchema.
func New() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(EnvelopeSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile envelope schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// MustNew is like New but panics if the schema does not compile.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks payload, which is typically a decoded JSON document, and
// returns the reqline statement with surrounding whitespace removed.
func (v *Validator) Validate(payload any) (string, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return "", &ValidationError{Field: "(root)", Message: "request body must be a JSON object"}
	}

	if !result.Valid() {
		return "", toValidationError(result.Errors()[0])
	}

	// The schema guarantees an object holding a string under reqline.
	var in Input
	data, err := json.Marshal(payload)
	if err != nil {
		return "", &ValidationError{Field: "(root)", Message: "request body must be a JSON object"}
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return "", &ValidationError{Field: "reqline", Message: "reqline must be a string"}
	}
	return strings.TrimSpace(in.Reqline), nil
}

func toValidationError(re gojsonschema.ResultError) *ValidationError {
	field := re.Field()
	switch re.Type() {
	case "required":
		if name, ok := re.Details()["property"].(string); ok {
			field = name
		}
		return &ValidationError{Field: field, Message: field + " is required"}
	case "invalid_type":
		if field == "(root)" {
			return &ValidationError{Field: field, Message: "request body must be a JSON object"}
		}
		return &ValidationError{Field: field, Message: field + " must be a string"}
	case "pattern":
		return &ValidationError{Field: field, Message: field + " must not be empty"}
	default:
		return &ValidationError{Field: field, Message: re.Description()}
	}
}
