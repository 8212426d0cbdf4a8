package scripting

import lua "github.com/yuin/gopher-lua"

// RegisterModules registers the game.* Lua table into L. Each function
// delegates to the Manager's injected callbacks; a nil callback makes
// the function a safe no-op so scripts load before wiring completes.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: The game global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	game := L.NewTable()

	L.SetField(game, "narrate", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if msg != "" {
			m.pending = append(m.pending, msg)
		}
		return 0
	}))

	L.SetField(game, "set_flag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := true
		if L.GetTop() >= 2 {
			value = L.ToBool(2)
		}
		if m.SetFlag != nil {
			m.SetFlag(name, value)
		}
		return 0
	}))

	L.SetField(game, "get_flag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		truthy := false
		if m.GetFlag != nil {
			truthy = m.GetFlag(name)
		}
		L.Push(lua.LBool(truthy))
		return 1
	}))

	L.SetField(game, "give_item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.GiveItem != nil {
			m.GiveItem(id)
		}
		return 0
	}))

	L.SetGlobal("game", game)
}
