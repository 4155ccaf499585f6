package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/markis/gh-coach/internal/response"
)

var reflector = jsonschema.Reflector{
	DoNotReference: true,
	Anonymous:      true,
}

// schemaFor reflects the JSON Schema of T.
func schemaFor[T any]() *jsonschema.Schema {
	var v T
	return reflector.Reflect(&v)
}

// schemaInstructions tells the model to answer with JSON matching schema.
func schemaInstructions(schema *jsonschema.Schema) (string, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	return "Reply with a single JSON object that validates against the following JSON Schema. " +
		"Do not add any text before or after the object.\n\n" + string(data), nil
}

// decodeReply pulls a JSON object out of raw, checks the schema's required
// properties are present and decodes it into T.
func decodeReply[T any](raw string, schema *jsonschema.Schema) (T, error) {
	var out T

	payload, ok := jsonPayload(raw)
	if !ok {
		return out, fmt.Errorf("%w: no JSON object found", ErrInvalidReply)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidReply, err)
	}
	var missing []string
	for _, name := range schema.Required {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return out, fmt.Errorf("%w: missing %s", ErrInvalidReply, strings.Join(missing, ", "))
	}

	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidReply, err)
	}
	return out, nil
}

// jsonPayload finds the JSON object in a reply: the reply itself, the first
// fenced block holding an object, or the outermost braces.
func jsonPayload(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	for _, block := range response.Parse(raw).Blocks {
		content := strings.TrimSpace(block.Content)
		if strings.HasPrefix(content, "{") && json.Valid([]byte(content)) {
			return content, true
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}
