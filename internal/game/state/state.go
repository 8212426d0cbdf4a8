// Package state holds the mutable player/world state for one session:
// location, inventory, progress flags, item placement, dialogue cursors,
// and the input history buffer. Content tables stay immutable in the
// world package; everything that changes during play lives here.
package state

import "github.com/saltmarsh/adventure/internal/game/world"

// Sentinel item locations. Any other value is a room ID.
const (
	// LocationCarried marks an item held in the player's inventory.
	LocationCarried = "__carried__"
	// LocationRemoved marks an item removed from play (consumed).
	LocationRemoved = "__removed__"
)

// State is the mutable session state. It is created once per session at
// the configured starting room and mutated exclusively by the rule engine.
// It is not safe for concurrent use; each session owns its own instance.
type State struct {
	// CurrentRoom is the ID of the room the player occupies.
	CurrentRoom string
	// Inventory is the ordered sequence of carried item IDs. Membership
	// is unique.
	Inventory []string
	// Flags records quest/progress/puzzle state by name.
	Flags map[string]any
	// Visited is the set of room IDs the player has entered.
	Visited map[string]bool
	// ItemLocations maps every item ID to a room ID, LocationCarried, or
	// LocationRemoved.
	ItemLocations map[string]string
	// DialogueNodes maps character IDs to their current dialogue node.
	DialogueNodes map[string]string
	// Completed is set once the one-time victory narration has fired.
	Completed bool
	// History is the input history buffer with a navigation cursor.
	History *History
}

// New creates session state positioned at the game's starting room, with
// item locations seeded from room membership.
//
// Precondition: game must have passed Validate.
// Postcondition: Returns a State with the start room marked visited.
func New(game *world.Game, historySize int) *State {
	s := &State{
		CurrentRoom:   game.StartRoom,
		Flags:         make(map[string]any),
		Visited:       map[string]bool{game.StartRoom: true},
		ItemLocations: make(map[string]string, len(game.Items)),
		DialogueNodes: make(map[string]string),
		History:       NewHistory(historySize),
	}
	for _, room := range game.Rooms {
		for _, itemID := range room.Items {
			s.ItemLocations[itemID] = room.ID
		}
	}
	return s
}

// MoveTo sets the current room and marks it visited. Visited is a set:
// re-entering a room does not change it.
func (s *State) MoveTo(roomID string) {
	s.CurrentRoom = roomID
	s.Visited[roomID] = true
}

// Carrying reports whether the item is in the player's inventory.
func (s *State) Carrying(itemID string) bool {
	for _, id := range s.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// AddToInventory appends the item to the inventory and records it as
// carried. Adding an item already carried is a no-op, preserving order.
func (s *State) AddToInventory(itemID string) {
	if s.Carrying(itemID) {
		return
	}
	s.Inventory = append(s.Inventory, itemID)
	s.ItemLocations[itemID] = LocationCarried
}

// DropInRoom removes the item from the inventory and places it in the
// given room. Returns false if the item was not carried.
func (s *State) DropInRoom(itemID, roomID string) bool {
	if !s.removeFromInventory(itemID) {
		return false
	}
	s.ItemLocations[itemID] = roomID
	return true
}

// RemoveFromPlay removes the item from the inventory (if carried) and
// marks it removed from play.
func (s *State) RemoveFromPlay(itemID string) {
	s.removeFromInventory(itemID)
	s.ItemLocations[itemID] = LocationRemoved
}

func (s *State) removeFromInventory(itemID string) bool {
	for i, id := range s.Inventory {
		if id == itemID {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// ItemsInRoom returns the IDs of items currently located in the room,
// in the stable order given by the content's room item list followed by
// any items dropped there later.
func (s *State) ItemsInRoom(room *world.Room) []string {
	var ids []string
	for _, id := range room.Items {
		if s.ItemLocations[id] == room.ID {
			ids = append(ids, id)
		}
	}
	for id, loc := range s.ItemLocations {
		if loc == room.ID && !containsString(room.Items, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetFlag records a progress flag.
func (s *State) SetFlag(name string, value any) {
	s.Flags[name] = value
}

// FlagTruthy reports whether the named flag holds a truthy value.
// Absent flags, nil, false, zero, and the empty string are falsy.
func (s *State) FlagTruthy(name string) bool {
	return Truthy(s.Flags[name])
}

// Truthy reports whether an arbitrary flag value counts as set.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// DialogueNode returns the stored dialogue pointer for a character,
// or "" if the conversation has not started.
func (s *State) DialogueNode(charID string) string {
	return s.DialogueNodes[charID]
}

// SetDialogueNode stores a character's current dialogue pointer.
func (s *State) SetDialogueNode(charID, nodeID string) {
	s.DialogueNodes[charID] = nodeID
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
