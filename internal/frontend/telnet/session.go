package telnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/google/uuid"
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

// EngineFactory builds a fresh engine for one connection. Each session
// plays its own copy of the game from the start.
type EngineFactory func(sessionID string) (*engine.Engine, error)

// GameHandler runs the interpreter loop over a Telnet connection.
type GameHandler struct {
	newEngine EngineFactory
	saves     SaveStore
	logger    *zap.Logger
}

// NewGameHandler creates a session handler.
//
// Precondition: newEngine and logger must be non-nil; saves may be nil.
func NewGameHandler(newEngine EngineFactory, saves SaveStore, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		newEngine: newEngine,
		saves:     saves,
		logger:    logger,
	}
}

// HandleSession drives one client: intro, then a prompt/read/handle
// loop until the player quits or the connection drops.
//
// Postcondition: Returns nil on clean disconnect or quit.
func (h *GameHandler) HandleSession(ctx context.Context, conn *Conn) error {
	sessionID := uuid.NewString()
	log := h.logger.With(
		zap.String("session_id", sessionID),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	eng, err := h.newEngine(sessionID)
	if err != nil {
		return fmt.Errorf("creating session engine: %w", err)
	}
	log.Info("session started")

	if err := writeNarrations(conn, eng.Intro()); err != nil {
		return err
	}

	for !eng.Done() {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine("Server shutting down. Goodbye.")
			return nil
		default:
		}

		if err := conn.WritePrompt("> "); err != nil {
			return err
		}

		line, err := conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("client disconnected")
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				_ = conn.WriteLine("Idle too long. Goodbye.")
				log.Info("session timed out")
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		if out, handled := h.metaCommand(ctx, eng, line); handled {
			if err := writeNarrations(conn, out); err != nil {
				return err
			}
			continue
		}

		if err := writeNarrations(conn, eng.Handle(line)); err != nil {
			return err
		}
	}

	log.Info("session ended")
	return nil
}

// metaCommand intercepts save and load before the engine sees the
// line. These are front-end concerns: the interpreter itself has no
// notion of persistence.
func (h *GameHandler) metaCommand(ctx context.Context, eng *engine.Engine, line string) ([]engine.Narration, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 || (fields[0] != "save" && fields[0] != "load") {
		return nil, false
	}

	if h.saves == nil {
		return []engine.Narration{
			{Kind: engine.KindError, Text: "Saving is not available on this server."},
		}, true
	}

	slot := "default"
	if len(fields) > 1 {
		slot = fields[1]
	}

	switch fields[0] {
	case "save":
		if err := h.saves.Save(ctx, slot, eng.State().Snapshot()); err != nil {
			h.logger.Error("saving session", zap.String("slot", slot), zap.Error(err))
			return []engine.Narration{
				{Kind: engine.KindError, Text: "Save failed."},
			}, true
		}
		return []engine.Narration{
			{Kind: engine.KindSystem, Text: fmt.Sprintf("Game saved to slot %q.", slot)},
		}, true
	default:
		snap, err := h.saves.Load(ctx, slot)
		if err != nil {
			h.logger.Error("loading session", zap.String("slot", slot), zap.Error(err))
			return []engine.Narration{
				{Kind: engine.KindError, Text: fmt.Sprintf("No saved game in slot %q.", slot)},
			}, true
		}
		eng.State().Restore(snap)
		return []engine.Narration{
			{Kind: engine.KindSystem, Text: fmt.Sprintf("Game loaded from slot %q.", slot)},
		}, true
	}
}

func writeNarrations(conn *Conn, ns []engine.Narration) error {
	for _, n := range ns {
		for _, line := range RenderNarration(n) {
			if err := conn.WriteLine(line); err != nil {
				return err
			}
		}
	}
	return nil
}
