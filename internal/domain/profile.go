package domain

import (
	"encoding/json"
	"strings"
)

// CharacterProfile is the immutable persona snapshot handed to a generator.
type CharacterProfile struct {
	ID          string
	Name        string
	Description string
	// Fields holds the persona payload with id, name and description
	// defaulted from the stored row.
	Fields map[string]any
}

// Profile builds the generation profile for the character. A persona
// payload that is not a JSON object is kept verbatim under "persona".
func (c *Character) Profile() CharacterProfile {
	fields := map[string]any{}
	raw := strings.TrimSpace(string(c.PersonaData))
	if raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
			fields = map[string]any{"persona": personaFallback(raw)}
		}
	}
	setDefault(fields, "name", c.Name)
	setDefault(fields, "description", c.Description)
	setDefault(fields, "id", c.ID)

	return CharacterProfile{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Fields:      fields,
	}
}

// personaFallback unwraps a JSON string payload, otherwise returns the raw text.
func personaFallback(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func setDefault(m map[string]any, key string, val any) {
	if _, ok := m[key]; !ok {
		m[key] = val
	}
}
