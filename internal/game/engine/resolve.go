package engine

import (
	"strings"

	"github.com/saltmarsh/adventure/internal/game/world"
)

// Entity resolution maps a typed search term to a concrete item or
// character. Each candidate is tested four ways, in priority order,
// first match wins:
//
//	(a) exact case-insensitive match of primary name
//	(b) exact case-insensitive match of identifier
//	(c) case-insensitive substring containment within the primary name
//	(d) exact case-insensitive match against any alias
//
// Search scope differs per verb; callers pass the candidate ID lists.

func matchName(term, name, id string, aliases []string) bool {
	if strings.EqualFold(term, name) {
		return true
	}
	if strings.EqualFold(term, id) {
		return true
	}
	if strings.Contains(strings.ToLower(name), strings.ToLower(term)) {
		return true
	}
	for _, alias := range aliases {
		if strings.EqualFold(term, alias) {
			return true
		}
	}
	return false
}

// findItem resolves term against the given item IDs, in order.
func (e *Engine) findItem(term string, ids []string) (*world.Item, bool) {
	if term == "" {
		return nil, false
	}
	for _, id := range ids {
		item := e.game.Items[id]
		if item == nil {
			continue
		}
		if matchName(term, item.Name, item.ID, item.Aliases) {
			return item, true
		}
	}
	return nil, false
}

// findCharacter resolves term against the given character IDs, in order.
func (e *Engine) findCharacter(term string, ids []string) (*world.Character, bool) {
	if term == "" {
		return nil, false
	}
	for _, id := range ids {
		ch := e.game.Characters[id]
		if ch == nil {
			continue
		}
		if matchName(term, ch.Name, ch.ID, ch.Aliases) {
			return ch, true
		}
	}
	return nil, false
}

// visibleRoomItems returns the IDs of items in the current room that
// entity resolution may see. Items flagged invisible stay hidden from
// name matching until content makes them visible.
func (e *Engine) visibleRoomItems() []string {
	var ids []string
	for _, id := range e.state.ItemsInRoom(e.currentRoom()) {
		if item := e.game.Items[id]; item != nil && item.Visible {
			ids = append(ids, id)
		}
	}
	return ids
}

// findRoomFeature resolves term against the current room's named
// features by exact case-insensitive name match, then substring.
func (e *Engine) findRoomFeature(term string) (string, bool) {
	room := e.currentRoom()
	for name, text := range room.Features {
		if strings.EqualFold(term, name) {
			return text, true
		}
	}
	for name, text := range room.Features {
		if strings.Contains(strings.ToLower(name), strings.ToLower(term)) {
			return text, true
		}
	}
	return "", false
}
