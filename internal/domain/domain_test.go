package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRole(t *testing.T) {
	cases := []struct {
		stored       string
		hasCharacter bool
		want         Role
	}{
		{"user", true, RoleUser},
		{"assistant", false, RoleAssistant},
		{" Assistant ", false, RoleAssistant},
		{"", true, RoleAssistant},
		{"", false, RoleUser},
		{"system", false, RoleUser},
		{"system", true, RoleAssistant},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveRole(tc.stored, tc.hasCharacter), "stored=%q hasCharacter=%v", tc.stored, tc.hasCharacter)
	}
}

func TestModeFromStyle(t *testing.T) {
	assert.Equal(t, ModeHot, ModeFromStyle("spicy"))
	assert.Equal(t, ModeHot, ModeFromStyle("SPICY"))
	assert.Equal(t, ModeCold, ModeFromStyle("cold"))
	assert.Equal(t, ModeCold, ModeFromStyle(""))
	assert.Equal(t, ModeCold, ModeFromStyle("mild"))
}

func TestCharacterProfileFromObject(t *testing.T) {
	c := &Character{
		ID:          "sage",
		Name:        "Sage",
		Description: "An old sage",
		PersonaData: json.RawMessage(`{"tone":"calm","name":"The Sage"}`),
	}
	p := c.Profile()
	assert.Equal(t, "sage", p.ID)
	assert.Equal(t, "Sage", p.Name)
	assert.Equal(t, "calm", p.Fields["tone"])
	// persona values win over row defaults
	assert.Equal(t, "The Sage", p.Fields["name"])
	assert.Equal(t, "An old sage", p.Fields["description"])
	assert.Equal(t, "sage", p.Fields["id"])
}

func TestCharacterProfileMalformedPersona(t *testing.T) {
	c := &Character{ID: "x", Name: "X", PersonaData: json.RawMessage(`not json at all`)}
	p := c.Profile()
	assert.Equal(t, "not json at all", p.Fields["persona"])
	assert.Equal(t, "X", p.Fields["name"])

	c.PersonaData = json.RawMessage(`"a plain persona"`)
	p = c.Profile()
	assert.Equal(t, "a plain persona", p.Fields["persona"])

	c.PersonaData = nil
	p = c.Profile()
	assert.NotContains(t, p.Fields, "persona")
	assert.Equal(t, "x", p.Fields["id"])
}

func TestTurnMarkerEncoding(t *testing.T) {
	data, err := json.Marshal(TurnMarker())
	assert.NoError(t, err)
	assert.JSONEq(t, `{"content":" "}`, string(data))
	assert.True(t, TurnMarker().IsTurnMarker())

	data, err = json.Marshal(StreamEvent{CharacterID: "a", Name: "A", Content: "hi"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"character_id":"a","name":"A","content":"hi"}`, string(data))
}
