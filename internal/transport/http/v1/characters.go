package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListCharacters lists the character catalog.
// GET /api/characters
func (h *Handler) ListCharacters(c echo.Context) error {
	characters, err := h.service.ListCharacters(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, characters)
}

// GetCharacter returns one character with its persona.
// GET /api/characters/:character_id
func (h *Handler) GetCharacter(c echo.Context) error {
	character, err := h.service.GetCharacter(c.Request().Context(), c.Param("character_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, character)
}
