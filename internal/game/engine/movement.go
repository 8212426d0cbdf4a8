package engine

import (
	"fmt"
	"strings"

	"github.com/saltmarsh/adventure/internal/game/command"
	"github.com/saltmarsh/adventure/internal/game/world"
)

// handleGo moves the player in the given direction word, enforcing
// locked-exit conditions. A failed move leaves the state untouched.
func (e *Engine) handleGo(word string) []Narration {
	if word == "" {
		return []Narration{errorf("Go where?")}
	}

	dir := e.game.CanonicalDirection(word)
	room := e.currentRoom()

	target, ok := room.Exits[dir]
	if !ok {
		out := []Narration{errorf(fmt.Sprintf("You can't go %s.", dir))}
		if exits := room.ExitDirections(); len(exits) > 0 {
			out = append(out, plain("Exits: "+joinDirections(exits)+"."))
		}
		return out
	}

	if lock, locked := room.LockedExits[dir]; locked {
		if msg, held := e.lockHolds(lock); held {
			return []Narration{errorf(msg)}
		}
	}

	e.state.MoveTo(target)
	out := []Narration{roomNarration(e.roomView(e.currentRoom()))}
	out = append(out, e.runHook(func(h Hooks) []string { return h.EnterRoom(target) })...)
	return out
}

// lockHolds evaluates a locked exit. Both conditions are optional and
// independently checked; the lock holds if any specified condition is
// unmet. Returns the message to show while the lock holds.
func (e *Engine) lockHolds(lock world.LockRequirement) (string, bool) {
	unmet := false
	if lock.RequiresItem != "" && !e.state.Carrying(lock.RequiresItem) {
		unmet = true
	}
	if lock.RequiresFlag != "" && !e.state.FlagTruthy(lock.RequiresFlag) {
		unmet = true
	}
	if !unmet {
		return "", false
	}
	if lock.FailureMessage != "" {
		return lock.FailureMessage, true
	}
	return "The way is locked.", true
}

// handleLook shows the current room. With a noun or target it behaves
// like examine, so "look at console" works.
func (e *Engine) handleLook(intent command.Intent) []Narration {
	if term := nounOrTarget(intent); term != "" {
		return e.handleExamine(term)
	}
	return []Narration{roomNarration(e.roomView(e.currentRoom()))}
}

func (e *Engine) runHook(call func(Hooks) []string) []Narration {
	if e.hooks == nil {
		return nil
	}
	var out []Narration
	for _, line := range call(e.hooks) {
		out = append(out, plain(line))
	}
	return out
}

func joinDirections(dirs []world.Direction) string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
