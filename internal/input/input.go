// Package input loads and validates match request payloads. A payload
// names the PDF to open and lists the entities to locate in it.
package input

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	bmerrors "github.com/docparse/bounds-matcher/internal/errors"
	"github.com/docparse/bounds-matcher/model"
)

// Request is the match request payload.
type Request struct {
	PDFFile  string         `json:"pdf_file"`
	Entities []model.Entity `json:"entities"`
}

const requestSchema = `{
	"type": "object",
	"required": ["pdf_file", "entities"],
	"properties": {
		"pdf_file": { "type": "string", "minLength": 1 },
		"entities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "type"],
				"properties": {
					"name": { "type": "string", "minLength": 1 },
					"type": { "type": "string" }
				}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("request.json", requestSchema)

// Load reads and validates the request at path.
func Load(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	req, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// Parse validates the payload bytes and decodes them. Validation failures
// are reported as malformed input with the offending entity's position,
// or position -1 when the payload as a whole is unusable.
func Parse(data []byte) (*Request, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, bmerrors.NewMalformedInputError(-1, fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return nil, bmerrors.NewMalformedInputError(offendingEntity(raw), reason(err))
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, bmerrors.NewMalformedInputError(-1, fmt.Sprintf("decoding payload: %v", err))
	}
	if req.Entities == nil {
		req.Entities = make([]model.Entity, 0)
	}
	return &req, nil
}

// offendingEntity pins a schema violation to an entity index when the
// violation lives inside the entities array.
func offendingEntity(raw any) int {
	obj, ok := raw.(map[string]any)
	if !ok {
		return -1
	}
	entities, ok := obj["entities"].([]any)
	if !ok {
		return -1
	}
	for i, item := range entities {
		entity, ok := item.(map[string]any)
		if !ok {
			return i
		}
		if !hasNonEmptyString(entity, "name") || !hasString(entity, "type") {
			return i
		}
	}
	return -1
}

func hasString(obj map[string]any, key string) bool {
	_, ok := obj[key].(string)
	return ok
}

func hasNonEmptyString(obj map[string]any, key string) bool {
	s, ok := obj[key].(string)
	return ok && s != ""
}

// reason flattens a jsonschema validation error to its most specific cause.
func reason(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation != "" {
		return fmt.Sprintf("%s: %s", ve.InstanceLocation, ve.Message)
	}
	return ve.Message
}
