package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

var (
	nameColors = []lipgloss.Color{
		lipgloss.Color("#F780FF"), // pink
		lipgloss.Color("#8BE9FD"), // cyan
		lipgloss.Color("#50FA7B"), // green
		lipgloss.Color("#FFB86C"), // orange
		lipgloss.Color("#BD93F9"), // purple
	}

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true)
)

// turnRenderer prints streamed records grouped into character turns.
type turnRenderer struct {
	out     io.Writer
	current string
	colors  map[string]lipgloss.Color
}

func newTurnRenderer(out io.Writer) *turnRenderer {
	return &turnRenderer{out: out, colors: map[string]lipgloss.Color{}}
}

func (r *turnRenderer) style(characterID string) lipgloss.Style {
	color, ok := r.colors[characterID]
	if !ok {
		color = nameColors[len(r.colors)%len(nameColors)]
		r.colors[characterID] = color
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// Render writes one record.
func (r *turnRenderer) Render(event domain.StreamEvent) error {
	if event.IsTurnMarker() {
		if r.current != "" {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out)
		}
		r.current = ""
		return nil
	}

	if event.CharacterID != r.current {
		r.current = event.CharacterID
		fmt.Fprintln(r.out, r.style(event.CharacterID).Render(event.Name+":"))
	}
	if strings.HasPrefix(event.Content, domain.SystemErrorPrefix) {
		_, err := fmt.Fprint(r.out, errorStyle.Render(event.Content))
		return err
	}
	_, err := fmt.Fprint(r.out, event.Content)
	return err
}
