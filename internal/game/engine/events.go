package engine

import (
	"fmt"

	"github.com/saltmarsh/adventure/internal/game/world"
)

// applyEvent is the one shared effect routine used by on-take events,
// use-actions, and dialogue grants. Each present field applies
// independently and unconditionally; an absent field is no effect for
// that aspect, never an error.
func (e *Engine) applyEvent(event world.Event) []Narration {
	var out []Narration

	if event.Message != "" {
		out = append(out, plain(event.Message))
	}
	if event.SetFlag != "" {
		e.state.SetFlag(event.SetFlag, true)
	}
	if event.GiveItem != "" {
		if item := e.game.Items[event.GiveItem]; item != nil {
			e.state.AddToInventory(item.ID)
			out = append(out, success(fmt.Sprintf("You obtained: %s", item.Name)))
		}
	}
	return out
}
