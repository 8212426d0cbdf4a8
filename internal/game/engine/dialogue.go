package engine

import (
	"fmt"
	"strings"

	"github.com/saltmarsh/adventure/internal/game/world"
)

// handleTalk resolves a character in the current room and advances their
// dialogue state machine by one node.
func (e *Engine) handleTalk(term string) []Narration {
	room := e.currentRoom()

	if term == "" {
		if len(room.Characters) == 0 {
			return []Narration{plain("There's nobody here to talk to.")}
		}
		names := make([]string, 0, len(room.Characters))
		for _, id := range room.Characters {
			if ch := e.game.Characters[id]; ch != nil {
				names = append(names, ch.Name)
			}
		}
		return []Narration{plain("You could talk to: " + strings.Join(names, ", ") + ".")}
	}

	ch, ok := e.findCharacter(term, room.Characters)
	if !ok {
		return []Narration{errorf(fmt.Sprintf("There's no %s here.", term))}
	}
	return e.advanceDialogue(ch)
}

// advanceDialogue plays one dialogue node and moves the character's
// stored pointer. States are node IDs; absence means not yet started.
//
// A stale stored pointer falls back to the first node: this silent
// restart is the documented recovery path for missing or corrupted
// pointers, not an error.
func (e *Engine) advanceDialogue(ch *world.Character) []Narration {
	if len(ch.Dialogue) == 0 {
		if ch.Greeting != "" {
			return []Narration{dialogue(ch.Name, ch.Greeting)}
		}
		return []Narration{plain(fmt.Sprintf("%s has nothing to say.", ch.Name))}
	}

	node := ch.Dialogue[0]
	if stored := e.state.DialogueNode(ch.ID); stored != "" {
		if found, ok := ch.Node(stored); ok {
			node = found
		}
	}

	out := []Narration{dialogue(ch.Name, node.Text)}

	if node.SetFlag != "" {
		e.state.SetFlag(node.SetFlag, true)
	}
	if node.GiveItem != "" {
		if item := e.game.Items[node.GiveItem]; item != nil {
			e.state.AddToInventory(item.ID)
			out = append(out, success(fmt.Sprintf("%s gives you: %s", ch.Name, item.Name)))
		}
	}

	// Next is what plays on the following talk; Loop repeats a terminal
	// node indefinitely; neither set leaves the pointer unchanged, so
	// the same node replays verbatim.
	switch {
	case node.Next != "":
		e.state.SetDialogueNode(ch.ID, node.Next)
	case node.Loop != "":
		e.state.SetDialogueNode(ch.ID, node.Loop)
	}

	return out
}
