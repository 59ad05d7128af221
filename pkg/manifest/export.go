package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the generated manifest schema.
const SchemaID = "https://github.com/ormasoftchile/extel/schemas/suite-v0.json"

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from the
// Manifest struct using invopop/jsonschema.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Manifest{})
	s.ID = SchemaID
	s.Title = "extel suite manifest v0"
	s.Description = "Schema for extel suite manifest YAML documents"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
