package blueprint

import (
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed blueprint.schema.json
var schemaJSON string

// Compiled once at init; the schema is part of the binary, so a compile
// failure is a programming error.
var payloadSchema = jsonschema.MustCompileString("blueprint.schema.json", schemaJSON)
