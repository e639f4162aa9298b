package manifest

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"

	"github.com/invopop/jsonschema"
	schemavalidator "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/zendwasm/zendini/domain/entities"
)

const schemaURL = "manifest.schema.json"

// Schema returns the JSON Schema (Draft 2020-12) of the manifest format.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		Anonymous:      true,
	}
	schema := reflector.Reflect(&entities.Manifest{})

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}

// ValidateDocument checks the JSON form of m against Schema.
func ValidateDocument(m *entities.Manifest) error {
	raw, err := Schema()
	if err != nil {
		return err
	}

	compiler := schemavalidator.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("invalid manifest schema: %w", err)
	}

	doc := *m
	if doc.Entries == nil {
		doc.Entries = []entities.EntrySpec{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to prepare validation object: %w", err)
	}

	if err := sch.Validate(obj); err != nil {
		var ve *schemavalidator.ValidationError
		if stdErrors.As(err, &ve) {
			return fmt.Errorf("manifest does not match schema: %w", ve)
		}
		return err
	}
	return nil
}
