// Package engine implements the rule engine: it validates intents against
// the world model, executes state transitions, and emits narration.
package engine

// Kind tags a narration line so presentation sinks can style it.
type Kind int

// Narration kinds.
const (
	KindPlain Kind = iota
	KindError
	KindWarning
	KindSuccess
	KindSystem
	KindDialogue
	KindRoom
)

// RoomView is the structured room description emitted on look and on
// successful movement.
type RoomView struct {
	// Name is the room's display name.
	Name string
	// Description is the room's description text.
	Description string
	// Items lists the visible items present, by listing name.
	Items []string
	// Characters lists the characters present, by display name.
	Characters []string
	// Exits lists the exit directions in display order.
	Exits []string
}

// Narration is one tagged output line produced while handling a command.
// Ordering within one command's narration is significant and must be
// preserved by the presentation sink.
type Narration struct {
	// Kind selects the styling for this line.
	Kind Kind
	// Text is the narration text. Unset for KindRoom.
	Text string
	// Speaker is the character name for KindDialogue lines.
	Speaker string
	// Room is the structured view for KindRoom lines.
	Room *RoomView
}

// Convenience constructors keep handler code short.

func plain(text string) Narration   { return Narration{Kind: KindPlain, Text: text} }
func errorf(text string) Narration  { return Narration{Kind: KindError, Text: text} }
func warning(text string) Narration { return Narration{Kind: KindWarning, Text: text} }
func success(text string) Narration { return Narration{Kind: KindSuccess, Text: text} }
func system(text string) Narration  { return Narration{Kind: KindSystem, Text: text} }

func dialogue(speaker, text string) Narration {
	return Narration{Kind: KindDialogue, Speaker: speaker, Text: text}
}

func roomNarration(view RoomView) Narration {
	return Narration{Kind: KindRoom, Room: &view}
}
