package history

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// historySchemaJSON guards the persisted collection. Validation failure is
// handled like a parse failure: the store starts empty instead of trusting a
// mangled file.
const historySchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "timestamp", "content"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"timestamp": {"type": "string"},
			"projectId": {"type": "string"},
			"projectTitle": {"type": "string"},
			"modelProvider": {"type": "string"},
			"modelId": {"type": "string"},
			"content": {"type": "string"},
			"promptTemplate": {"type": "string"},
			"actualPrompt": {"type": "string"},
			"promptTokens": {"type": "integer"},
			"completionTokens": {"type": "integer"},
			"totalTokens": {"type": "integer"},
			"estimatedCost": {"type": "number"}
		}
	}
}`

var historySchema = jsonschema.MustCompileString("generation-history.json", historySchemaJSON)

// decodeRecords parses and validates a persisted history collection.
func decodeRecords(data []byte) ([]Record, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse history collection: %w", err)
	}
	if err := historySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("history collection failed validation: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history collection: %w", err)
	}
	return records, nil
}
