package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltmarsh/adventure/internal/game/state"
	"github.com/saltmarsh/adventure/internal/game/world"
)

// shipGame builds a small adventure exercising locked exits, use-actions,
// dialogue, consumables, and objectives.
func shipGame() *world.Game {
	g := &world.Game{
		Title:     "Derelict",
		Intro:     "The airlock seals behind you.",
		StartRoom: "bridge",
		Objectives: []world.Objective{
			{Flag: "foundKey", Description: "Find the key"},
		},
		Rooms: map[string]*world.Room{
			"bridge": {
				ID: "bridge", Name: "The Bridge",
				Description: "Consoles blink in the dark.",
				Exits:       map[world.Direction]string{world.East: "corridor"},
				Items:       []string{"keycard", "anchor", "ration", "hidden_chip"},
				Characters:  []string{"engineer"},
				Features:    map[string]string{"console": "Rows of dead switches."},
			},
			"corridor": {
				ID: "corridor", Name: "Main Corridor",
				Description: "A long steel corridor.",
				Exits: map[world.Direction]string{
					world.West:  "bridge",
					world.North: "vault",
				},
				LockedExits: map[world.Direction]world.LockRequirement{
					world.North: {
						RequiresItem:   "keycard",
						FailureMessage: "The vault door needs a keycard.",
					},
				},
			},
			"vault": {
				ID: "vault", Name: "The Vault",
				Description: "Crates of salvage.",
				Exits:       map[world.Direction]string{world.South: "corridor"},
			},
		},
		Items: map[string]*world.Item{
			"keycard": {
				ID: "keycard", Name: "Keycard", Takeable: true, Visible: true,
				Description: "A dented maintenance keycard.",
				Aliases:     []string{"card", "pass"},
				OnTake:      &world.Event{Message: "It hums faintly.", SetFlag: "hasCard"},
			},
			"anchor": {
				ID: "anchor", Name: "Mooring Anchor", Takeable: false, Visible: true,
				Description:     "Far too heavy.",
				TakeFailMessage: "It must weigh a ton.",
			},
			"ration": {
				ID: "ration", Name: "Emergency Ration", Takeable: true, Visible: true,
				Description: "Self-heating, allegedly edible.",
				UseActions: []world.UseAction{
					{Target: "engineer", Message: "The engineer waves it away."},
					{Message: "You choke it down.", SetFlag: "fed", Consume: true},
				},
				StateDescriptions: map[string]string{
					"fed": "The wrapper is empty now.",
				},
			},
			"hidden_chip": {
				ID: "hidden_chip", Name: "Data Chip", Takeable: true, Visible: false,
				Description: "A sliver of crystal.",
			},
			"multitool": {
				ID: "multitool", Name: "Multitool", Takeable: true, Visible: true,
				Description: "Every head except the one you need.",
				UseActions: []world.UseAction{
					{Target: "keycard", Message: "You pry the casing open.", SetFlag: "foundKey", GiveItem: "spare_fuse"},
				},
			},
			"spare_fuse": {
				ID: "spare_fuse", Name: "Spare Fuse", Takeable: true, Visible: true,
				Description: "Rated for more amps than anything aboard.",
			},
			"dull_rock": {
				ID: "dull_rock", Name: "Dull Rock", Takeable: true, Visible: true,
				Description:    "Just a rock.",
				UseFailMessage: "It remains a rock.",
			},
		},
		Characters: map[string]*world.Character{
			"engineer": {
				ID: "engineer", Name: "Chief Engineer",
				Description: "Grease up to the elbows.",
				Aliases:     []string{"chief"},
				Dialogue: []world.DialogueNode{
					{ID: "intro", Text: "You made it.", Next: "ask"},
					{ID: "ask", Text: "Fetch my multitool, would you?", SetFlag: "asked", GiveItem: "multitool", Next: "ready"},
					{ID: "ready", Text: "Well? Get to it.", Loop: "ready"},
				},
			},
			"ghost": {
				ID: "ghost", Name: "Pale Ghost",
				Description: "Translucent and bored.",
				Greeting:    "The ghost stares through you.",
			},
		},
		VerbSynonyms:      map[string]string{},
		DirectionSynonyms: world.DefaultDirectionSynonyms(),
	}
	return g
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	g := shipGame()
	require.NoError(t, g.Validate())
	return New(g, state.New(g, 0), opts...)
}

// narrationText flattens narration into one string for Contains checks.
func narrationText(ns []Narration) string {
	var b strings.Builder
	for _, n := range ns {
		if n.Room != nil {
			b.WriteString(n.Room.Name + "\n" + n.Room.Description + "\n")
			b.WriteString(strings.Join(n.Room.Items, ", ") + "\n")
			b.WriteString(strings.Join(n.Room.Exits, ", ") + "\n")
		}
		b.WriteString(n.Text + "\n")
	}
	return b.String()
}

func hasKind(ns []Narration, k Kind) bool {
	for _, n := range ns {
		if n.Kind == k {
			return true
		}
	}
	return false
}

func TestHandle_EmptyInputPrompts(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("   ")
	require.Len(t, out, 1)
	assert.Equal(t, KindPlain, out[0].Kind)
	assert.Contains(t, out[0].Text, "What")
}

func TestHandle_UnknownVerbNamesIt(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("juggle the keycard")
	require.Len(t, out, 1)
	assert.Equal(t, KindError, out[0].Kind)
	assert.Contains(t, out[0].Text, "juggle")
}

func TestHandle_SynonymsProduceIdenticalState(t *testing.T) {
	for _, cmd := range []string{"take keycard", "get the keycard", "grab keycard", "TAKE KEYCARD"} {
		e := newTestEngine(t)
		out := e.Handle(cmd)
		assert.True(t, e.State().Carrying("keycard"), "command %q should pick up the keycard", cmd)
		assert.Contains(t, narrationText(out), "You take the Keycard.", "command %q", cmd)
	}
}

func TestExamine_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	first := e.Handle("examine keycard")
	before := e.State().Snapshot()
	second := e.Handle("examine keycard")
	assert.Equal(t, first, second)
	assert.Equal(t, before, e.State().Snapshot())
}

func TestExamine_FallbackOrder(t *testing.T) {
	e := newTestEngine(t)

	// Room item.
	out := e.Handle("examine anchor")
	assert.Contains(t, narrationText(out), "Far too heavy.")

	// Character.
	out = e.Handle("examine chief")
	assert.Contains(t, narrationText(out), "Grease up to the elbows.")

	// Room feature.
	out = e.Handle("examine console")
	assert.Contains(t, narrationText(out), "Rows of dead switches.")

	// Not found.
	out = e.Handle("examine warp core")
	assert.True(t, hasKind(out, KindError))
}

func TestExamine_LookAtPhrasing(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("look at the console")
	assert.Contains(t, narrationText(out), "Rows of dead switches.")
}

func TestExamine_InvisibleItemHidden(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("examine data chip")
	assert.True(t, hasKind(out, KindError))
}

func TestExamine_StateOverlays(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take ration")

	out := e.Handle("examine ration")
	assert.NotContains(t, narrationText(out), "wrapper is empty")

	e.State().SetFlag("fed", true)
	out = e.Handle("examine ration")
	text := narrationText(out)
	assert.Contains(t, text, "allegedly edible")
	assert.Contains(t, text, "The wrapper is empty now.")
}

func TestMove_UpdatesRoomAndVisited(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("go east")
	assert.Equal(t, "corridor", e.State().CurrentRoom)
	assert.True(t, e.State().Visited["corridor"])
	require.True(t, hasKind(out, KindRoom))
	assert.Contains(t, narrationText(out), "Main Corridor")
}

func TestMove_BareDirectionWord(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("east")
	assert.Equal(t, "corridor", e.State().CurrentRoom)

	e.Handle("w")
	assert.Equal(t, "bridge", e.State().CurrentRoom)
}

func TestMove_NoExitListsAvailable(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("go north")
	assert.Equal(t, "bridge", e.State().CurrentRoom)
	text := narrationText(out)
	assert.Contains(t, text, "can't go north")
	assert.Contains(t, text, "east")
}

func TestMove_RoundTripNoStateDrift(t *testing.T) {
	e := newTestEngine(t)
	first := e.Handle("look")

	e.Handle("go east")
	e.Handle("go west")
	assert.Equal(t, "bridge", e.State().CurrentRoom)
	assert.True(t, e.State().Visited["bridge"])
	assert.True(t, e.State().Visited["corridor"])

	second := e.Handle("look")
	assert.Equal(t, first, second, "room narration identical after a round trip")
}

func TestLockedExit_Gating(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("go east")

	out := e.Handle("go north")
	assert.Equal(t, "corridor", e.State().CurrentRoom, "locked exit must not move the player")
	assert.False(t, e.State().Visited["vault"], "target room must not be marked visited")
	assert.Contains(t, narrationText(out), "The vault door needs a keycard.")

	e.Handle("go west")
	e.Handle("take keycard")
	e.Handle("go east")

	out = e.Handle("go north")
	assert.Equal(t, "vault", e.State().CurrentRoom)
	assert.True(t, e.State().Visited["vault"])
	assert.NotContains(t, narrationText(out), "needs a keycard")
}

func TestLockedExit_FlagCondition(t *testing.T) {
	g := shipGame()
	g.Rooms["corridor"].LockedExits[world.North] = world.LockRequirement{
		RequiresItem: "keycard",
		RequiresFlag: "powerOn",
	}
	require.NoError(t, g.Validate())
	e := New(g, state.New(g, 0))

	e.Handle("take keycard")
	e.Handle("go east")

	out := e.Handle("go north")
	assert.Equal(t, "corridor", e.State().CurrentRoom, "flag condition unmet")
	assert.Contains(t, narrationText(out), "locked")

	e.State().SetFlag("powerOn", true)
	e.Handle("go north")
	assert.Equal(t, "vault", e.State().CurrentRoom)
}

func TestTake_NotTakeable(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("take anchor")
	assert.Contains(t, narrationText(out), "It must weigh a ton.")
	assert.False(t, e.State().Carrying("anchor"))
}

func TestTake_AlreadyCarrying(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take keycard")
	out := e.Handle("take keycard")
	assert.Contains(t, narrationText(out), "already carrying")
}

func TestTake_OnTakeEvent(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("take keycard")
	assert.Contains(t, narrationText(out), "It hums faintly.")
	assert.True(t, e.State().FlagTruthy("hasCard"))
}

func TestDrop_RelocatesToRoom(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take keycard")
	e.Handle("go east")

	out := e.Handle("drop keycard")
	assert.Contains(t, narrationText(out), "You drop the Keycard.")
	assert.False(t, e.State().Carrying("keycard"))
	assert.Equal(t, "corridor", e.State().ItemLocations["keycard"])

	out = e.Handle("drop keycard")
	assert.True(t, hasKind(out, KindError))
}

func TestUse_RoomVisibleHint(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("use ration")
	assert.Contains(t, narrationText(out), "pick up the Emergency Ration first")
	assert.False(t, hasKind(out, KindError), "the hint is not a not-found error")
}

func TestUse_NotFound(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("use warp core")
	assert.True(t, hasKind(out, KindError))
	assert.Contains(t, narrationText(out), "don't have")
}

func TestUse_NoActionsFailMessage(t *testing.T) {
	g := shipGame()
	g.Rooms["bridge"].Items = append(g.Rooms["bridge"].Items, "dull_rock")
	e := New(g, state.New(g, 0))
	e.Handle("take dull rock")
	out := e.Handle("use dull rock")
	assert.Contains(t, narrationText(out), "It remains a rock.")
}

func TestUse_DefaultActionSelectedEvenWhenDeclaredLater(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take ration")

	// The ration declares the engineer-targeted action first; "use
	// ration" with no target must skip it and pick the structural
	// default.
	out := e.Handle("use ration")
	text := narrationText(out)
	assert.Contains(t, text, "You choke it down.")
	assert.NotContains(t, text, "waves it away")
	assert.True(t, e.State().FlagTruthy("fed"))
}

func TestUse_TargetedActionByEntityResolution(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take ration")
	out := e.Handle("use ration on chief")
	assert.Contains(t, narrationText(out), "waves it away")
}

func TestUse_UnmatchedTargetIsNeutral(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take ration")
	out := e.Handle("use ration on console")
	require.Len(t, out, 1)
	assert.Equal(t, KindPlain, out[0].Kind, "nothing-happens is neutral, not an error")
	assert.Equal(t, "Nothing happens.", out[0].Text)
}

func TestUse_ConsumableRemovedFromPlay(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("take ration")
	e.Handle("use ration")

	assert.False(t, e.State().Carrying("ration"))
	assert.Equal(t, state.LocationRemoved, e.State().ItemLocations["ration"])

	inv := narrationText(e.Handle("inventory"))
	assert.NotContains(t, inv, "Ration")

	look := e.Handle("look")
	require.True(t, hasKind(look, KindRoom))
	assert.NotContains(t, narrationText(look), "Ration")

	out := e.Handle("use ration")
	assert.True(t, hasKind(out, KindError))
	assert.Contains(t, narrationText(out), "don't have")
}

func TestUse_GiveItemAndFlagCoOccur(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("talk engineer") // intro
	e.Handle("talk engineer") // ask: grants multitool
	require.True(t, e.State().Carrying("multitool"))
	e.Handle("take keycard")

	out := e.Handle("use multitool on keycard")
	text := narrationText(out)
	assert.Contains(t, text, "You pry the casing open.")
	assert.Contains(t, text, "You obtained: Spare Fuse")
	assert.True(t, e.State().Carrying("spare_fuse"))
	assert.True(t, e.State().FlagTruthy("foundKey"))
}

func TestTalk_NoTargetListsCharacters(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("talk")
	assert.Contains(t, narrationText(out), "Chief Engineer")

	e.Handle("go east")
	out = e.Handle("talk")
	assert.Contains(t, narrationText(out), "nobody here")
}

func TestTalk_GreetingWhenNoDialogue(t *testing.T) {
	g := shipGame()
	g.Rooms["bridge"].Characters = append(g.Rooms["bridge"].Characters, "ghost")
	e := New(g, state.New(g, 0))
	out := e.Handle("talk to ghost")
	require.True(t, hasKind(out, KindDialogue))
	assert.Contains(t, narrationText(out), "stares through you")
}

func TestTalk_DialogueAdvancesAndLoops(t *testing.T) {
	e := newTestEngine(t)

	out := e.Handle("talk to engineer")
	assert.Contains(t, narrationText(out), "You made it.")

	out = e.Handle("talk engineer")
	text := narrationText(out)
	assert.Contains(t, text, "Fetch my multitool")
	assert.Contains(t, text, "Chief Engineer gives you: Multitool")
	assert.True(t, e.State().FlagTruthy("asked"))
	assert.True(t, e.State().Carrying("multitool"))

	// The terminal node loops to itself forever.
	for i := 0; i < 3; i++ {
		out = e.Handle("talk engineer")
		assert.Contains(t, narrationText(out), "Well? Get to it.")
	}
	assert.Equal(t, "ready", e.State().DialogueNode("engineer"))
}

func TestTalk_StalePointerRestartsAtFirstNode(t *testing.T) {
	e := newTestEngine(t)
	e.State().SetDialogueNode("engineer", "no_such_node")
	out := e.Handle("talk engineer")
	assert.Contains(t, narrationText(out), "You made it.")
}

func TestObjectives_VictoryFiresExactlyOnce(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("talk engineer")
	e.Handle("talk engineer")
	e.Handle("take keycard")

	out := e.Handle("use multitool on keycard")
	assert.Contains(t, narrationText(out), "You have completed Derelict")
	assert.True(t, e.State().Completed)

	for _, cmd := range []string{"look", "inventory", "go east"} {
		out = e.Handle(cmd)
		assert.NotContains(t, narrationText(out), "You have completed", "command %q", cmd)
	}
}

func TestInventoryListing(t *testing.T) {
	e := newTestEngine(t)
	out := e.Handle("inventory")
	assert.Contains(t, narrationText(out), "aren't carrying")

	e.Handle("take keycard")
	out = e.Handle("i")
	assert.Contains(t, narrationText(out), "Keycard")
}

func TestHelp_ListsVerbs(t *testing.T) {
	e := newTestEngine(t)
	text := narrationText(e.Handle("help"))
	for _, verb := range []string{"go", "look", "examine", "take", "drop", "use", "talk", "quit"} {
		assert.Contains(t, text, verb)
	}
}

func TestQuit_SetsDone(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.Done())
	out := e.Handle("quit")
	assert.True(t, e.Done())
	assert.Contains(t, narrationText(out), "Goodbye")
}

func TestHistoryCommand(t *testing.T) {
	e := newTestEngine(t)
	e.Handle("look")
	e.Handle("go east")
	text := narrationText(e.Handle("history"))
	assert.Contains(t, text, "look")
	assert.Contains(t, text, "go east")
}

func TestIntro_ShowsTitleObjectivesAndRoom(t *testing.T) {
	e := newTestEngine(t)
	out := e.Intro()
	text := narrationText(out)
	assert.Contains(t, text, "Derelict")
	assert.Contains(t, text, "airlock seals")
	assert.Contains(t, text, "Find the key")
	assert.True(t, hasKind(out, KindRoom))
}

type stubHooks struct {
	entered []string
	used    []string
}

func (s *stubHooks) EnterRoom(roomID string) []string {
	s.entered = append(s.entered, roomID)
	return []string{"A draft stirs."}
}

func (s *stubHooks) UseItem(itemID string) []string {
	s.used = append(s.used, itemID)
	return nil
}

func TestHooks_FireOnMoveAndUse(t *testing.T) {
	hooks := &stubHooks{}
	e := newTestEngine(t, WithHooks(hooks))

	out := e.Handle("go east")
	assert.Equal(t, []string{"corridor"}, hooks.entered)
	assert.Contains(t, narrationText(out), "A draft stirs.")

	e.Handle("go west")
	e.Handle("take ration")
	e.Handle("use ration")
	assert.Equal(t, []string{"ration"}, hooks.used)
}

func TestHooks_FailedMoveDoesNotFire(t *testing.T) {
	hooks := &stubHooks{}
	e := newTestEngine(t, WithHooks(hooks))
	e.Handle("go north")
	assert.Empty(t, hooks.entered)
}
