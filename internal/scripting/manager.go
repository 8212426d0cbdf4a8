package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hook function names looked up in loaded scripts. Each takes the
// entity ID as its single argument and may return a narration string.
const (
	HookEnterRoom = "on_enter_room"
	HookUseItem   = "on_use_item"
)

// Manager owns one sandboxed LState for a game's hook scripts and
// dispatches hook calls into it. It satisfies the engine's Hooks
// interface.
//
// The LState is single-threaded; the mutex serializes hook calls.
type Manager struct {
	mu          sync.Mutex
	state       *lua.LState
	instLimit   int
	callTimeout time.Duration
	logger      *zap.Logger

	// pending accumulates narration emitted via game.narrate during
	// the current hook call.
	pending []string

	// Injected after construction. nil = no-op in game.* modules.
	SetFlag  func(name string, value bool)
	GetFlag  func(name string) bool
	GiveItem func(itemID string)
}

// NewManager creates a Manager with the given execution limits.
//
// Precondition: logger must be non-nil; instLimit <= 0 selects
// DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(instLimit int, callTimeout time.Duration, logger *zap.Logger) *Manager {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{
		instLimit:   instLimit,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// LoadDir creates a sandboxed VM, registers the game.* module, then
// executes every *.lua file in scriptDir in lexicographic order.
// Loading replaces any previously loaded VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: The VM is ready for hook dispatch; returns error on
// Lua load failure.
func (m *Manager) LoadDir(scriptDir string) error {
	L := NewSandboxedState()
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		ctx, cancel := newCountingContext(m.instLimit, m.callTimeout)
		L.SetContext(ctx)
		err := L.DoFile(path)
		cancel()
		L.RemoveContext()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.mu.Unlock()

	m.logger.Info("scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Close releases the Lua VM. The Manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// EnterRoom dispatches the on_enter_room hook.
func (m *Manager) EnterRoom(roomID string) []string {
	return m.call(HookEnterRoom, lua.LString(roomID))
}

// UseItem dispatches the on_use_item hook.
func (m *Manager) UseItem(itemID string) []string {
	return m.call(HookUseItem, lua.LString(itemID))
}

// call invokes the named Lua global function with a fresh execution
// limit. Returns the narration lines emitted via game.narrate plus the
// hook's string return value, if any. A missing hook or empty VM is a
// no-op. Lua runtime errors are logged at Warn level and never
// propagated.
//
// Postcondition: Returns zero or more narration lines.
func (m *Manager) call(hook string, args ...lua.LValue) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil
	}

	fn := m.state.GetGlobal(hook)
	if fn == lua.LNil {
		return nil
	}

	m.pending = nil
	ctx, cancel := newCountingContext(m.instLimit, m.callTimeout)
	m.state.SetContext(ctx)
	err := m.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...)
	cancel()
	m.state.RemoveContext()

	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return m.pending
	}

	ret := m.state.Get(-1)
	m.state.Pop(1)

	lines := m.pending
	if s, ok := ret.(lua.LString); ok && string(s) != "" {
		lines = append(lines, string(s))
	}
	return lines
}
