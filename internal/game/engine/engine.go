package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/saltmarsh/adventure/internal/game/command"
	"github.com/saltmarsh/adventure/internal/game/state"
	"github.com/saltmarsh/adventure/internal/game/world"
)

// Hooks is the optional scripting extension point. Implementations may
// emit extra narration lines after a room is entered or an item is used.
// A nil Hooks is a no-op.
type Hooks interface {
	// EnterRoom fires after a successful move into roomID.
	EnterRoom(roomID string) []string
	// UseItem fires after a use-action on itemID executes.
	UseItem(itemID string) []string
}

// Engine resolves intents against the world model and owns all mutation
// of the session state. One Engine serves exactly one session; it is not
// safe for concurrent use.
type Engine struct {
	game     *world.Game
	state    *state.State
	registry *command.Registry
	verbSyn  map[string]string
	hooks    Hooks
	logger   *zap.Logger
	done     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithHooks attaches a scripting hook runtime.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine for one session.
//
// Precondition: game must have passed Validate; st must be non-nil.
// Postcondition: Returns an Engine ready to handle commands.
func New(game *world.Game, st *state.State, opts ...Option) *Engine {
	e := &Engine{
		game:     game,
		state:    st,
		registry: command.DefaultRegistry(),
		logger:   zap.NewNop(),
	}
	e.verbSyn = e.registry.SynonymTable(game.VerbSynonyms)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State exposes the session state for snapshotting. Callers must not
// mutate it.
func (e *Engine) State() *state.State {
	return e.state
}

// Game returns the immutable content the engine runs against.
func (e *Engine) Game() *world.Game {
	return e.game
}

// Done reports whether the player has quit the session.
func (e *Engine) Done() bool {
	return e.done
}

// Intro returns the narration shown at session start: title, intro text,
// objectives, and the starting room view.
func (e *Engine) Intro() []Narration {
	out := []Narration{system(e.game.Title)}
	if e.game.Intro != "" {
		out = append(out, plain(e.game.Intro))
	}
	for _, obj := range e.game.Objectives {
		out = append(out, system(fmt.Sprintf("Objective: %s", obj.Description)))
	}
	out = append(out, roomNarration(e.roomView(e.currentRoom())))
	return out
}

// Handle processes one line of player input: it records history, parses
// the line into an intent, dispatches to the matching handler, and runs
// the objective completion check. Exactly one of a state mutation with
// success narration, a validation failure narration, or an unrecognized
// narration happens per command.
//
// Postcondition: Returns at least one narration line.
func (e *Engine) Handle(input string) []Narration {
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		e.state.History.Record(trimmed)
	}

	intent := command.Parse(input, e.verbSyn, e.game.DirectionSynonyms)
	out := e.dispatch(intent)
	out = append(out, e.checkObjectives()...)

	e.logger.Debug("handled command",
		zap.String("verb", intent.Verb),
		zap.String("noun", intent.Noun),
		zap.String("room", e.state.CurrentRoom),
	)
	return out
}

// dispatch routes an intent to its handler. A raw verb that is itself a
// direction word acts as an implicit "go <direction>" before the verb
// table is consulted, so a bare "north" or "n" moves the player.
func (e *Engine) dispatch(intent command.Intent) []Narration {
	if intent.Empty() {
		return []Narration{plain("What would you like to do?")}
	}

	if e.game.IsDirectionWord(intent.Verb) {
		return e.handleGo(string(e.game.CanonicalDirection(intent.Verb)))
	}

	switch intent.Verb {
	case command.VerbGo:
		return e.handleGo(intent.Noun)
	case command.VerbLook:
		return e.handleLook(intent)
	case command.VerbExamine:
		return e.handleExamine(nounOrTarget(intent))
	case command.VerbTake:
		return e.handleTake(intent.Noun)
	case command.VerbDrop:
		return e.handleDrop(intent.Noun)
	case command.VerbUse:
		return e.handleUse(intent)
	case command.VerbTalk:
		return e.handleTalk(nounOrTarget(intent))
	case command.VerbInventory:
		return e.handleInventory()
	case command.VerbHistory:
		return e.handleHistory()
	case command.VerbHelp:
		return e.handleHelp()
	case command.VerbQuit:
		return e.handleQuit()
	default:
		return []Narration{errorf(fmt.Sprintf("I don't know how to %q.", intent.Verb))}
	}
}

// nounOrTarget returns the intent's noun, falling back to its target so
// phrasings like "look at console" and "talk to engineer" work.
func nounOrTarget(intent command.Intent) string {
	if intent.Noun != "" {
		return intent.Noun
	}
	return intent.Target
}

func (e *Engine) currentRoom() *world.Room {
	return e.game.Rooms[e.state.CurrentRoom]
}

// roomView builds the structured description of a room: name, text,
// visible items, characters, and exits.
func (e *Engine) roomView(room *world.Room) RoomView {
	view := RoomView{
		Name:        room.Name,
		Description: room.Description,
	}
	for _, itemID := range e.state.ItemsInRoom(room) {
		item := e.game.Items[itemID]
		if item != nil && item.Visible {
			view.Items = append(view.Items, item.ListName())
		}
	}
	for _, charID := range room.Characters {
		if ch := e.game.Characters[charID]; ch != nil {
			view.Characters = append(view.Characters, ch.Name)
		}
	}
	for _, dir := range room.ExitDirections() {
		view.Exits = append(view.Exits, string(dir))
	}
	return view
}

// checkObjectives emits the one-time victory narration once every
// configured objective's flag is truthy. The Completed flag guarantees
// the check never re-fires.
func (e *Engine) checkObjectives() []Narration {
	if e.state.Completed || len(e.game.Objectives) == 0 {
		return nil
	}
	for _, obj := range e.game.Objectives {
		if !e.state.FlagTruthy(obj.Flag) {
			return nil
		}
	}
	e.state.Completed = true
	return []Narration{
		success(fmt.Sprintf("*** You have completed %s! ***", e.game.Title)),
	}
}
