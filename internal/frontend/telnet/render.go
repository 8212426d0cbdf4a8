package telnet

import (
	"strings"

	"github.com/saltmarsh/adventure/internal/game/engine"
)

// RenderNarration converts one narration into styled output lines.
//
// Postcondition: Returns at least one line per non-empty narration.
func RenderNarration(n engine.Narration) []string {
	if n.Room != nil {
		return renderRoom(*n.Room)
	}

	switch n.Kind {
	case engine.KindError:
		return []string{Colorize(Red, n.Text)}
	case engine.KindWarning:
		return []string{Colorize(Yellow, n.Text)}
	case engine.KindSuccess:
		return []string{Colorize(Green, n.Text)}
	case engine.KindSystem:
		return []string{Colorize(Cyan, n.Text)}
	case engine.KindDialogue:
		return []string{Colorize(Bold, n.Speaker+": ") + n.Text}
	default:
		return []string{n.Text}
	}
}

func renderRoom(view engine.RoomView) []string {
	lines := []string{
		Colorize(Bold+Cyan, view.Name),
		view.Description,
	}
	if len(view.Items) > 0 {
		lines = append(lines, "You see: "+strings.Join(view.Items, ", ")+".")
	}
	if len(view.Characters) > 0 {
		lines = append(lines, "Here: "+strings.Join(view.Characters, ", ")+".")
	}
	if len(view.Exits) > 0 {
		lines = append(lines, Colorize(Dim, "Exits: "+strings.Join(view.Exits, ", ")+"."))
	}
	return lines
}
