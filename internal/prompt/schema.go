package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// templatesSchemaJSON validates the persisted template collection before it
// is trusted. A file that fails validation is treated like a parse failure.
const templatesSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name", "content"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"description": {"type": "string"},
			"content": {"type": "string"},
			"systemPrompt": {"type": "string"}
		}
	}
}`

var templatesSchema = jsonschema.MustCompileString("prompt-templates.json", templatesSchemaJSON)

// decodeTemplates parses and validates a persisted template collection.
func decodeTemplates(data []byte) ([]Template, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template collection: %w", err)
	}
	if err := templatesSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("template collection failed validation: %w", err)
	}

	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode template collection: %w", err)
	}
	return templates, nil
}
