package tool

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/harunnryd/pace/internal/apispec"
)

// ParametersSchema renders the parameter list of spec as a JSON Schema object.
// Every parameter is a string and none is required.
func ParametersSchema(spec apispec.ToolSpec) map[string]interface{} {
	props := jsonschema.NewProperties()
	for _, p := range spec.Parameters {
		props.Set(p.Name, &jsonschema.Schema{
			Type:        "string",
			Description: p.Description,
		})
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: props,
	}

	out := map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	raw, err := json.Marshal(schema)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	}
	if _, ok := out["properties"]; !ok {
		out["properties"] = map[string]interface{}{}
	}
	return out
}
