// Package console provides the stdin/stdout front end for the
// adventure interpreter.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/saltmarsh/adventure/internal/game/engine"
	"github.com/saltmarsh/adventure/internal/game/state"
)

// SaveStore persists session snapshots under named slots. A nil store
// disables the save and load commands.
type SaveStore interface {
	Save(ctx context.Context, slot string, snap state.Snapshot) error
	Load(ctx context.Context, slot string) (state.Snapshot, error)
}

// Runner drives one interpreter session over a reader/writer pair.
type Runner struct {
	eng    *engine.Engine
	in     io.Reader
	out    io.Writer
	saves  SaveStore
	logger *zap.Logger
}

// New creates a Runner.
//
// Precondition: eng, in, out, and logger must be non-nil; saves may be nil.
func New(eng *engine.Engine, in io.Reader, out io.Writer, saves SaveStore, logger *zap.Logger) *Runner {
	return &Runner{
		eng:    eng,
		in:     in,
		out:    out,
		saves:  saves,
		logger: logger,
	}
}

// Run plays the session: intro, then a prompt/read/handle loop until
// the player quits or input ends.
//
// Postcondition: Returns nil on quit or end of input.
func (r *Runner) Run(ctx context.Context) error {
	r.write(r.eng.Intro())

	scanner := bufio.NewScanner(r.in)
	for !r.eng.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading command: %w", err)
			}
			fmt.Fprintln(r.out)
			return nil
		}
		line := scanner.Text()

		if out, handled := r.metaCommand(ctx, line); handled {
			r.write(out)
			continue
		}
		r.write(r.eng.Handle(line))
	}
	return nil
}

// metaCommand intercepts save and load before the engine sees the line.
func (r *Runner) metaCommand(ctx context.Context, line string) ([]engine.Narration, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 || (fields[0] != "save" && fields[0] != "load") {
		return nil, false
	}

	if r.saves == nil {
		return []engine.Narration{
			{Kind: engine.KindError, Text: "Saving is not available."},
		}, true
	}

	slot := "default"
	if len(fields) > 1 {
		slot = fields[1]
	}

	switch fields[0] {
	case "save":
		if err := r.saves.Save(ctx, slot, r.eng.State().Snapshot()); err != nil {
			r.logger.Error("saving game", zap.String("slot", slot), zap.Error(err))
			return []engine.Narration{
				{Kind: engine.KindError, Text: "Save failed."},
			}, true
		}
		return []engine.Narration{
			{Kind: engine.KindSystem, Text: fmt.Sprintf("Game saved to slot %q.", slot)},
		}, true
	default:
		snap, err := r.saves.Load(ctx, slot)
		if err != nil {
			r.logger.Error("loading game", zap.String("slot", slot), zap.Error(err))
			return []engine.Narration{
				{Kind: engine.KindError, Text: fmt.Sprintf("No saved game in slot %q.", slot)},
			}, true
		}
		r.eng.State().Restore(snap)
		return []engine.Narration{
			{Kind: engine.KindSystem, Text: fmt.Sprintf("Game loaded from slot %q.", slot)},
		}, true
	}
}

func (r *Runner) write(ns []engine.Narration) {
	for _, n := range ns {
		for _, line := range Render(n) {
			fmt.Fprintln(r.out, line)
		}
	}
}

// Render converts one narration into plain output lines.
//
// Postcondition: Returns at least one line per non-empty narration.
func Render(n engine.Narration) []string {
	if n.Room != nil {
		view := *n.Room
		lines := []string{
			view.Name,
			view.Description,
		}
		if len(view.Items) > 0 {
			lines = append(lines, "You see: "+strings.Join(view.Items, ", ")+".")
		}
		if len(view.Characters) > 0 {
			lines = append(lines, "Here: "+strings.Join(view.Characters, ", ")+".")
		}
		if len(view.Exits) > 0 {
			lines = append(lines, "Exits: "+strings.Join(view.Exits, ", ")+".")
		}
		return lines
	}

	if n.Kind == engine.KindDialogue {
		return []string{n.Speaker + ": " + n.Text}
	}
	return []string{n.Text}
}
