package telnet_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/saltmarsh/adventure/internal/config"
	"github.com/saltmarsh/adventure/internal/frontend/telnet"
	"github.com/saltmarsh/adventure/internal/game/engine"
	"github.com/saltmarsh/adventure/internal/game/state"
	"github.com/saltmarsh/adventure/internal/game/world"
	"github.com/saltmarsh/adventure/internal/testutil"
)

func sessionGame() *world.Game {
	return &world.Game{
		Title:     "Cellar",
		Intro:     "Stairs creak above you.",
		StartRoom: "cellar",
		Rooms: map[string]*world.Room{
			"cellar": {
				ID: "cellar", Name: "The Cellar",
				Description: "Cobwebs everywhere.",
				Items:       []string{"lamp"},
			},
		},
		Items: map[string]*world.Item{
			"lamp": {
				ID: "lamp", Name: "Oil Lamp", Takeable: true, Visible: true,
				Description: "It still holds oil.",
			},
		},
		DirectionSynonyms: world.DefaultDirectionSynonyms(),
	}
}

type memSaveStore struct {
	mu    sync.Mutex
	slots map[string]state.Snapshot
}

func newMemSaveStore() *memSaveStore {
	return &memSaveStore{slots: make(map[string]state.Snapshot)}
}

func (m *memSaveStore) Save(_ context.Context, slot string, snap state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = snap
	return nil
}

func (m *memSaveStore) Load(_ context.Context, slot string) (state.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.slots[slot]
	if !ok {
		return state.Snapshot{}, errors.New("no such slot")
	}
	return snap, nil
}

func startGameServer(t *testing.T, saves telnet.SaveStore) string {
	t.Helper()
	logger := zaptest.NewLogger(t)

	g := sessionGame()
	require.NoError(t, g.Validate())
	factory := func(sessionID string) (*engine.Engine, error) {
		return engine.New(g, state.New(g, 0), engine.WithLogger(logger)), nil
	}

	handler := telnet.NewGameHandler(factory, saves, logger)
	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	acc := telnet.NewAcceptor(cfg, handler, logger)

	go func() {
		_ = acc.ListenAndServe()
	}()
	t.Cleanup(acc.Stop)

	deadline := time.After(2 * time.Second)
	for {
		if acc.IsRunning() && acc.Addr() != "" {
			return acc.Addr()
		}
		select {
		case <-deadline:
			t.Fatal("acceptor did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestGameSession_IntroAndCommands(t *testing.T) {
	addr := startGameServer(t, nil)
	client := testutil.NewTelnetClient(t, addr)

	intro := client.ReadUntil("> ", 2*time.Second)
	assert.Contains(t, intro, "Cellar")
	assert.Contains(t, intro, "Stairs creak above you.")
	assert.Contains(t, intro, "Cobwebs everywhere.")

	client.Send("take lamp")
	assert.Contains(t, client.ReadUntil("> ", 2*time.Second), "You take the Oil Lamp.")

	client.Send("inventory")
	assert.Contains(t, client.ReadUntil("> ", 2*time.Second), "Oil Lamp")

	client.Send("quit")
	assert.Contains(t, client.ReadUntil("Goodbye", 2*time.Second), "Goodbye.")
}

func TestGameSession_SessionsAreIsolated(t *testing.T) {
	addr := startGameServer(t, nil)

	first := testutil.NewTelnetClient(t, addr)
	first.ReadUntil("> ", 2*time.Second)
	first.Send("take lamp")
	first.ReadUntil("> ", 2*time.Second)

	// A second session starts fresh: the lamp is still in its room.
	second := testutil.NewTelnetClient(t, addr)
	second.ReadUntil("> ", 2*time.Second)
	second.Send("take lamp")
	assert.Contains(t, second.ReadUntil("> ", 2*time.Second), "You take the Oil Lamp.")
}

func TestGameSession_SaveWithoutStore(t *testing.T) {
	addr := startGameServer(t, nil)
	client := testutil.NewTelnetClient(t, addr)
	client.ReadUntil("> ", 2*time.Second)

	client.Send("save")
	assert.Contains(t, client.ReadUntil("> ", 2*time.Second), "Saving is not available on this server.")
}

func TestGameSession_SaveAndLoad(t *testing.T) {
	saves := newMemSaveStore()
	addr := startGameServer(t, saves)

	client := testutil.NewTelnetClient(t, addr)
	client.ReadUntil("> ", 2*time.Second)
	client.Send("take lamp")
	client.ReadUntil("> ", 2*time.Second)
	client.Send("save den")
	assert.Contains(t, client.ReadUntil("> ", 2*time.Second), `Game saved to slot "den".`)

	saves.mu.Lock()
	snap := saves.slots["den"]
	saves.mu.Unlock()
	assert.Equal(t, []string{"lamp"}, snap.Inventory)

	// A fresh session restores the saved inventory.
	restored := testutil.NewTelnetClient(t, addr)
	restored.ReadUntil("> ", 2*time.Second)
	restored.Send("load den")
	assert.Contains(t, restored.ReadUntil("> ", 2*time.Second), `Game loaded from slot "den".`)
	restored.Send("inventory")
	assert.Contains(t, restored.ReadUntil("> ", 2*time.Second), "Oil Lamp")
}

func TestGameSession_LoadMissingSlot(t *testing.T) {
	addr := startGameServer(t, newMemSaveStore())
	client := testutil.NewTelnetClient(t, addr)
	client.ReadUntil("> ", 2*time.Second)

	client.Send("load nowhere")
	assert.Contains(t, client.ReadUntil("> ", 2*time.Second), `No saved game in slot "nowhere".`)
}
