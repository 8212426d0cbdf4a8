package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saltmarsh/adventure/internal/game/command"
	"github.com/saltmarsh/adventure/internal/game/world"
)

// handleExamine resolves the term through each scope in fallback order:
// inventory, room items, room characters, room features.
func (e *Engine) handleExamine(term string) []Narration {
	if term == "" {
		return []Narration{errorf("Examine what?")}
	}

	if item, ok := e.findItem(term, e.state.Inventory); ok {
		return e.describeItem(item)
	}
	if item, ok := e.findItem(term, e.visibleRoomItems()); ok {
		return e.describeItem(item)
	}
	if ch, ok := e.findCharacter(term, e.currentRoom().Characters); ok {
		return []Narration{plain(ch.Description)}
	}
	if text, ok := e.findRoomFeature(term); ok {
		return []Narration{plain(text)}
	}
	return []Narration{errorf(fmt.Sprintf("You see no %s here.", term))}
}

// describeItem emits an item's description followed by any
// state-conditioned overlay whose triggering flag is currently true,
// each on its own line, in stable flag-name order.
func (e *Engine) describeItem(item *world.Item) []Narration {
	out := []Narration{plain(item.Description)}

	flags := make([]string, 0, len(item.StateDescriptions))
	for flag := range item.StateDescriptions {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	for _, flag := range flags {
		if e.state.FlagTruthy(flag) {
			out = append(out, plain(item.StateDescriptions[flag]))
		}
	}
	return out
}

// handleTake resolves in the current room only. An item already carried
// is reported as such; a non-takeable item refuses without mutation.
func (e *Engine) handleTake(term string) []Narration {
	if term == "" {
		return []Narration{errorf("Take what?")}
	}

	item, ok := e.findItem(term, e.visibleRoomItems())
	if !ok {
		if carried, held := e.findItem(term, e.state.Inventory); held {
			return []Narration{plain(fmt.Sprintf("You're already carrying the %s.", carried.Name))}
		}
		return []Narration{errorf(fmt.Sprintf("There's no %s here to take.", term))}
	}

	if !item.Takeable {
		if item.TakeFailMessage != "" {
			return []Narration{plain(item.TakeFailMessage)}
		}
		return []Narration{plain(fmt.Sprintf("You can't take the %s.", item.Name))}
	}

	e.state.AddToInventory(item.ID)
	out := []Narration{success(fmt.Sprintf("You take the %s.", item.Name))}
	if item.OnTake != nil {
		out = append(out, e.applyEvent(*item.OnTake)...)
	}
	return out
}

// handleDrop resolves in the inventory only and relocates the item to
// the current room. Nothing triggers on drop.
func (e *Engine) handleDrop(term string) []Narration {
	if term == "" {
		return []Narration{errorf("Drop what?")}
	}

	item, ok := e.findItem(term, e.state.Inventory)
	if !ok {
		return []Narration{errorf(fmt.Sprintf("You're not carrying a %s.", term))}
	}

	e.state.DropInRoom(item.ID, e.state.CurrentRoom)
	return []Narration{success(fmt.Sprintf("You drop the %s.", item.Name))}
}

// handleUse resolves the acted-upon item in the inventory, then matches
// the intent's target against the item's use-actions in declaration
// order. A use with no matching action is a neutral outcome, not an
// error.
func (e *Engine) handleUse(intent command.Intent) []Narration {
	if intent.Noun == "" {
		return []Narration{errorf("Use what?")}
	}

	item, ok := e.findItem(intent.Noun, e.state.Inventory)
	if !ok {
		// Visible in the room instead: a deliberate hint, distinct from
		// not-found.
		if roomItem, inRoom := e.findItem(intent.Noun, e.visibleRoomItems()); inRoom {
			return []Narration{plain(fmt.Sprintf("You'll need to pick up the %s first.", roomItem.Name))}
		}
		return []Narration{errorf(fmt.Sprintf("You don't have a %s.", intent.Noun))}
	}

	if len(item.UseActions) == 0 {
		if item.UseFailMessage != "" {
			return []Narration{plain(item.UseFailMessage)}
		}
		return []Narration{plain(fmt.Sprintf("You can't think of a way to use the %s.", item.Name))}
	}

	if intent.Target == "" {
		// First structurally-default entry wins, regardless of where
		// targeted entries sit in the list.
		for _, action := range item.UseActions {
			if action.Target == "" {
				return e.executeUseAction(item, action)
			}
		}
		return []Narration{errorf(fmt.Sprintf("What do you want to use the %s on?", item.Name))}
	}

	for _, action := range item.UseActions {
		if action.Target == "" {
			continue
		}
		if e.targetMatches(action.Target, intent.Target) {
			return e.executeUseAction(item, action)
		}
	}
	return []Narration{plain("Nothing happens.")}
}

// targetMatches reports whether the typed target selects the configured
// action target, either literally or through entity resolution against
// items and characters in reach.
func (e *Engine) targetMatches(configured, typed string) bool {
	if strings.EqualFold(configured, typed) {
		return true
	}
	scope := append(append([]string{}, e.state.Inventory...), e.visibleRoomItems()...)
	if item, ok := e.findItem(typed, scope); ok && item.ID == configured {
		return true
	}
	if ch, ok := e.findCharacter(typed, e.currentRoom().Characters); ok && ch.ID == configured {
		return true
	}
	return false
}

// executeUseAction applies a matched use-action. All four effects are
// independent and may co-occur: message, flag, granted item, and
// consumption of the acting item.
func (e *Engine) executeUseAction(item *world.Item, action world.UseAction) []Narration {
	out := e.applyEvent(action.Event())
	if action.Consume {
		e.state.RemoveFromPlay(item.ID)
	}
	out = append(out, e.runHook(func(h Hooks) []string { return h.UseItem(item.ID) })...)
	return out
}
