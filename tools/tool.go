// Package tools talks to the remote tool-execution (MCP) server and keeps the
// snapshot of the tools it declares.
package tools

// Schema describes the arguments a tool accepts.
type Schema struct {
	Type       string
	Properties map[string]any
	Required   []string
}

// Descriptor is an immutable description of one remote tool.
type Descriptor struct {
	// Name is the unique identifier the model uses to call the tool.
	Name string

	// Description is shown to the model.
	Description string

	// Parameters is the tool's argument schema.
	Parameters Schema
}

// ParametersJSONSchema renders the schema as a JSON-schema object.
func (d Descriptor) ParametersJSONSchema() map[string]any {
	typ := d.Parameters.Type
	if typ == "" {
		typ = "object"
	}
	props := d.Parameters.Properties
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{
		"type":       typ,
		"properties": props,
	}
	if len(d.Parameters.Required) > 0 {
		schema["required"] = d.Parameters.Required
	}
	return schema
}
