package api

import (
	"embed"
	"fmt"
	"strings"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/xeipuuv/gojsonschema"
)

const (
	schemaBloodPressure = "blood_pressure"
	schemaBloodSugar    = "blood_sugar"
	schemaRegister      = "register"
	schemaLogin         = "login"
	schemaConsent       = "consent"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	errInvalidPayload = apperrors.NewValidationError("", "invalid_payload", "request body does not match the expected shape")
	errFieldRequired  = apperrors.NewValidationError("", "field_required", "a required field is missing")
)

type payloadSchemas map[string]*gojsonschema.Schema

func loadPayloadSchemas() (payloadSchemas, error) {
	names := []string{schemaBloodPressure, schemaBloodSugar, schemaRegister, schemaLogin, schemaConsent}
	schemas := make(payloadSchemas, len(names))
	for _, name := range names {
		raw, err := schemaFiles.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}
	return schemas, nil
}

// validate checks the body shape only. Range and format rules belong to the
// services so that each violation gets its own message.
func (schemas payloadSchemas) validate(name string, body []byte) error {
	schema, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if len(body) == 0 {
		return errInvalidPayload
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return withField(errInvalidPayload, "")
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	if first.Type() == "required" {
		property, _ := first.Details()["property"].(string)
		return withField(errFieldRequired, property)
	}
	field := first.Field()
	if field == "(root)" {
		field = ""
	}
	return withField(errInvalidPayload, strings.TrimPrefix(field, "(root)."))
}

func withField(base *apperrors.AppError, field string) *apperrors.AppError {
	return apperrors.NewValidationError(field, base.Code, base.Message)
}
