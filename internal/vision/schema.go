package vision

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// verdictSchema is the contract for the vision model's verdict. The
// model emits free-form JSON; anything that doesn't conform is
// quarantined rather than trusted.
const verdictSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["location_confirmed", "place_name", "story", "points_earned", "next_quest_hint"],
	"properties": {
		"location_confirmed": {"type": "boolean"},
		"place_name": {"type": "string"},
		"story": {"type": "string"},
		"points_earned": {"type": "integer", "minimum": 0},
		"next_quest_hint": {"type": "string"},
		"reward_icon": {"type": "string"}
	}
}`

func compileVerdictSchema() *jsonschema.Schema {
	return jsonschema.MustCompileString("verdict.json", verdictSchema)
}
