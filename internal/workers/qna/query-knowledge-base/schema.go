package queryknowledgebase

import "fleet-chatbot/internal/common/validation"

// responseSchema accepts metadata either as a flat object or as a list of
// key/value pairs.
var responseSchema = validation.MustCompile("knowledge-base-response", `{
	"type": "object",
	"properties": {
		"answers": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"answer": {"type": ["string", "null"]},
					"confidenceScore": {"type": "number"},
					"metadata": {
						"oneOf": [
							{"type": "null"},
							{"type": "object", "additionalProperties": {"type": ["string", "number", "boolean", "null"]}},
							{
								"type": "array",
								"items": {
									"type": "object",
									"required": ["key"],
									"properties": {
										"key": {"type": "string"},
										"value": {"type": ["string", "number", "boolean", "null"]}
									}
								}
							}
						]
					}
				}
			}
		}
	}
}`)
