// Package world provides the immutable game content model: rooms, items,
// characters, synonym tables, and the session configuration.
package world

import "fmt"

// Direction represents a compass direction or vertical movement.
type Direction string

// Standard compass directions and vertical movements.
const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
	Up    Direction = "up"
	Down  Direction = "down"
)

// StandardDirections contains all standard directions in display order.
var StandardDirections = []Direction{North, South, East, West, Up, Down}

// IsStandard reports whether d is one of the six standard directions.
func (d Direction) IsStandard() bool {
	for _, sd := range StandardDirections {
		if d == sd {
			return true
		}
	}
	return false
}

// Opposite returns the opposite of a standard direction.
// For custom directions, it returns an empty string.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	case Down:
		return Up
	default:
		return ""
	}
}

// DefaultDirectionSynonyms maps common abbreviations to canonical directions.
// Content files may extend or override these entries.
func DefaultDirectionSynonyms() map[string]string {
	return map[string]string{
		"n": "north",
		"s": "south",
		"e": "east",
		"w": "west",
		"u": "up",
		"d": "down",
	}
}

// Event is the shared effect record applied when an item is acquired,
// a use-action fires, or a dialogue node is reached. Every field is
// optional; an absent field means no effect for that aspect.
type Event struct {
	// Message is narration emitted when the event fires.
	Message string
	// SetFlag is a progress flag set to true when the event fires.
	SetFlag string
	// GiveItem is an item ID granted to the player when the event fires.
	GiveItem string
}

// Empty reports whether the event has no effects at all.
func (e Event) Empty() bool {
	return e.Message == "" && e.SetFlag == "" && e.GiveItem == ""
}

// LockRequirement guards a room exit. Both conditions are optional and
// independently checked; a locked exit opens only when every specified
// condition is met.
type LockRequirement struct {
	// RequiresItem is an item ID that must be in the player's inventory.
	RequiresItem string
	// RequiresFlag is a flag name that must be truthy in the player state.
	RequiresFlag string
	// FailureMessage is shown when the lock holds. Empty uses a generic message.
	FailureMessage string
}

// Room represents a location in the game world.
type Room struct {
	// ID uniquely identifies this room.
	ID string
	// Name is the short display name of the room.
	Name string
	// Description is the room description shown to the player.
	Description string
	// Exits maps directions to destination room IDs.
	Exits map[Direction]string
	// LockedExits maps directions to their unlock requirements.
	// A direction present here must also be present in Exits.
	LockedExits map[Direction]LockRequirement
	// Items lists the IDs of items initially present in the room.
	Items []string
	// Characters lists the IDs of characters present in the room.
	Characters []string
	// Features maps examinable feature names to their descriptions.
	Features map[string]string
}

// ExitDirections returns the room's exit directions, standard directions
// first in display order, then any custom directions sorted by name.
func (r *Room) ExitDirections() []Direction {
	var dirs []Direction
	for _, sd := range StandardDirections {
		if _, ok := r.Exits[sd]; ok {
			dirs = append(dirs, sd)
		}
	}
	var custom []Direction
	for d := range r.Exits {
		if !d.IsStandard() {
			custom = append(custom, d)
		}
	}
	for i := 0; i < len(custom); i++ {
		for j := i + 1; j < len(custom); j++ {
			if custom[j] < custom[i] {
				custom[i], custom[j] = custom[j], custom[i]
			}
		}
	}
	return append(dirs, custom...)
}

// UseAction is a configured effect triggered by applying an item,
// optionally against a target.
type UseAction struct {
	// Target is the item or character ID this action applies to.
	// Empty means the action fires when no target is given.
	Target string
	// Message is narration emitted when the action fires.
	Message string
	// SetFlag is a progress flag set to true when the action fires.
	SetFlag string
	// GiveItem is an item ID granted when the action fires.
	GiveItem string
	// Consume removes the acting item from play after the action fires.
	Consume bool
}

// Event returns the action's effects as the shared event record.
func (a UseAction) Event() Event {
	return Event{Message: a.Message, SetFlag: a.SetFlag, GiveItem: a.GiveItem}
}

// Item represents an object the player can examine, carry, and use.
type Item struct {
	// ID uniquely identifies this item.
	ID string
	// Name is the display name.
	Name string
	// Description is the long description shown on examine.
	Description string
	// ShortDescription is the brief listing text. Empty falls back to Name.
	ShortDescription string
	// Aliases are alternate names accepted by entity resolution.
	Aliases []string
	// Takeable reports whether the player may pick the item up.
	Takeable bool
	// Visible reports whether the item appears in room listings.
	Visible bool
	// TakeFailMessage is shown when taking a non-takeable item.
	// Empty uses a generic message.
	TakeFailMessage string
	// OnTake fires each time the item is picked up.
	OnTake *Event
	// UseActions are checked in declaration order when the item is used.
	UseActions []UseAction
	// UseFailMessage is shown when the item has no use-actions at all.
	// Empty uses a generic message.
	UseFailMessage string
	// StateDescriptions appends extra description lines keyed by flag name;
	// a line is shown while its flag is truthy.
	StateDescriptions map[string]string
}

// ListName returns the item's short listing text.
func (i *Item) ListName() string {
	if i.ShortDescription != "" {
		return i.ShortDescription
	}
	return i.Name
}

// DialogueNode is one step in a character's conversation tree.
type DialogueNode struct {
	// ID identifies the node within the character's dialogue list.
	ID string
	// Text is the line spoken by the character.
	Text string
	// SetFlag is a progress flag set to true when the node plays.
	SetFlag string
	// GiveItem is an item ID granted when the node plays.
	GiveItem string
	// Next is the node played on the following talk. Empty checks Loop.
	Next string
	// Loop is the node replayed indefinitely once the tree dead-ends.
	Loop string
}

// Character represents a person the player can talk to.
type Character struct {
	// ID uniquely identifies this character.
	ID string
	// Name is the display name.
	Name string
	// Description is shown on examine.
	Description string
	// Aliases are alternate names accepted by entity resolution.
	Aliases []string
	// Greeting is spoken when the character has no dialogue tree.
	Greeting string
	// Dialogue is the ordered conversation tree.
	Dialogue []DialogueNode
}

// Node returns the dialogue node with the given ID.
func (c *Character) Node(id string) (DialogueNode, bool) {
	for _, n := range c.Dialogue {
		if n.ID == id {
			return n, true
		}
	}
	return DialogueNode{}, false
}

// Objective is a completion condition: the game is won once every
// objective's flag is truthy.
type Objective struct {
	// Flag is the state flag that marks this objective complete.
	Flag string
	// Description is the human-readable goal text.
	Description string
}

// Game is the complete immutable content for one adventure.
type Game struct {
	// Title is the adventure's display title.
	Title string
	// Intro is the text shown at session start.
	Intro string
	// StartRoom is the room ID where a new session begins.
	StartRoom string
	// Objectives lists completion conditions in display order.
	Objectives []Objective
	// Rooms contains all rooms, keyed by room ID.
	Rooms map[string]*Room
	// Items contains all items, keyed by item ID.
	Items map[string]*Item
	// Characters contains all characters, keyed by character ID.
	Characters map[string]*Character
	// VerbSynonyms maps typed verbs to canonical verbs.
	VerbSynonyms map[string]string
	// DirectionSynonyms maps abbreviations to canonical directions.
	DirectionSynonyms map[string]string
	// ScriptDir is the path to Lua hook scripts. Empty = no scripts.
	ScriptDir string
}

// CanonicalDirection resolves a typed direction word through the game's
// direction-synonym table. Unknown words pass through unchanged.
func (g *Game) CanonicalDirection(word string) Direction {
	if canonical, ok := g.DirectionSynonyms[word]; ok {
		return Direction(canonical)
	}
	return Direction(word)
}

// IsDirectionWord reports whether the word names a direction, either
// canonically or through the synonym table.
func (g *Game) IsDirectionWord(word string) bool {
	if _, ok := g.DirectionSynonyms[word]; ok {
		return true
	}
	return Direction(word).IsStandard()
}

// Validate checks content invariants. Dangling references are load-time
// errors; the engine never runs against invalid content.
func (g *Game) Validate() error {
	if g.Title == "" {
		return fmt.Errorf("game: title must not be empty")
	}
	if g.StartRoom == "" {
		return fmt.Errorf("game: start_room must not be empty")
	}
	if len(g.Rooms) == 0 {
		return fmt.Errorf("game: must contain at least one room")
	}
	if _, ok := g.Rooms[g.StartRoom]; !ok {
		return fmt.Errorf("game: start_room %q not found in rooms", g.StartRoom)
	}

	for id, room := range g.Rooms {
		if err := g.validateRoom(id, room); err != nil {
			return err
		}
	}
	for id, item := range g.Items {
		if err := g.validateItem(id, item); err != nil {
			return err
		}
	}
	for id, ch := range g.Characters {
		if err := g.validateCharacter(id, ch); err != nil {
			return err
		}
	}
	for i, obj := range g.Objectives {
		if obj.Flag == "" {
			return fmt.Errorf("game: objective %d: flag must not be empty", i)
		}
	}
	return nil
}

func (g *Game) validateRoom(id string, room *Room) error {
	if room.ID != id {
		return fmt.Errorf("game: room key %q does not match room ID %q", id, room.ID)
	}
	if room.Name == "" {
		return fmt.Errorf("room %q: name must not be empty", id)
	}
	if room.Description == "" {
		return fmt.Errorf("room %q: description must not be empty", id)
	}
	for dir, target := range room.Exits {
		if target == "" {
			return fmt.Errorf("room %q: exit %q has empty target", id, dir)
		}
		if _, ok := g.Rooms[target]; !ok {
			return fmt.Errorf("room %q: exit %q targets unknown room %q", id, dir, target)
		}
	}
	for dir, lock := range room.LockedExits {
		if _, ok := room.Exits[dir]; !ok {
			return fmt.Errorf("room %q: locked exit %q has no matching exit", id, dir)
		}
		if lock.RequiresItem != "" {
			if _, ok := g.Items[lock.RequiresItem]; !ok {
				return fmt.Errorf("room %q: locked exit %q requires unknown item %q", id, dir, lock.RequiresItem)
			}
		}
	}
	for _, itemID := range room.Items {
		if _, ok := g.Items[itemID]; !ok {
			return fmt.Errorf("room %q: references unknown item %q", id, itemID)
		}
	}
	for _, charID := range room.Characters {
		if _, ok := g.Characters[charID]; !ok {
			return fmt.Errorf("room %q: references unknown character %q", id, charID)
		}
	}
	return nil
}

func (g *Game) validateItem(id string, item *Item) error {
	if item.ID != id {
		return fmt.Errorf("game: item key %q does not match item ID %q", id, item.ID)
	}
	if item.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", id)
	}
	if item.OnTake != nil && item.OnTake.GiveItem != "" {
		if _, ok := g.Items[item.OnTake.GiveItem]; !ok {
			return fmt.Errorf("item %q: on_take gives unknown item %q", id, item.OnTake.GiveItem)
		}
	}
	for i, action := range item.UseActions {
		if action.GiveItem != "" {
			if _, ok := g.Items[action.GiveItem]; !ok {
				return fmt.Errorf("item %q: use action %d gives unknown item %q", id, i, action.GiveItem)
			}
		}
	}
	return nil
}

func (g *Game) validateCharacter(id string, ch *Character) error {
	if ch.ID != id {
		return fmt.Errorf("game: character key %q does not match character ID %q", id, ch.ID)
	}
	if ch.Name == "" {
		return fmt.Errorf("character %q: name must not be empty", id)
	}
	seen := make(map[string]bool, len(ch.Dialogue))
	for i, node := range ch.Dialogue {
		if node.ID == "" {
			return fmt.Errorf("character %q: dialogue node %d: id must not be empty", id, i)
		}
		if seen[node.ID] {
			return fmt.Errorf("character %q: duplicate dialogue node %q", id, node.ID)
		}
		seen[node.ID] = true
		if node.GiveItem != "" {
			if _, ok := g.Items[node.GiveItem]; !ok {
				return fmt.Errorf("character %q: dialogue node %q gives unknown item %q", id, node.ID, node.GiveItem)
			}
		}
	}
	for _, node := range ch.Dialogue {
		if node.Next != "" && !seen[node.Next] {
			return fmt.Errorf("character %q: dialogue node %q links to unknown node %q", id, node.ID, node.Next)
		}
		if node.Loop != "" && !seen[node.Loop] {
			return fmt.Errorf("character %q: dialogue node %q loops to unknown node %q", id, node.ID, node.Loop)
		}
	}
	return nil
}
