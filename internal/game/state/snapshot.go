package state

// Snapshot is the serializable form of a session's mutable state. It
// deliberately excludes the input history, which is presentation state.
type Snapshot struct {
	CurrentRoom   string            `json:"current_room"`
	Inventory     []string          `json:"inventory"`
	Flags         map[string]any    `json:"flags"`
	Visited       []string          `json:"visited"`
	ItemLocations map[string]string `json:"item_locations"`
	DialogueNodes map[string]string `json:"dialogue_nodes"`
	Completed     bool              `json:"completed"`
}

// Snapshot captures the current state as a serializable record.
//
// Postcondition: The returned snapshot shares no mutable data with s.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentRoom:   s.CurrentRoom,
		Inventory:     append([]string(nil), s.Inventory...),
		Flags:         make(map[string]any, len(s.Flags)),
		ItemLocations: make(map[string]string, len(s.ItemLocations)),
		DialogueNodes: make(map[string]string, len(s.DialogueNodes)),
		Completed:     s.Completed,
	}
	for k, v := range s.Flags {
		snap.Flags[k] = v
	}
	for room := range s.Visited {
		snap.Visited = append(snap.Visited, room)
	}
	for k, v := range s.ItemLocations {
		snap.ItemLocations[k] = v
	}
	for k, v := range s.DialogueNodes {
		snap.DialogueNodes[k] = v
	}
	return snap
}

// Restore overwrites the state from a snapshot, keeping the existing
// history buffer. A stale dialogue pointer in the snapshot is harmless:
// the engine falls back to the first node when it cannot resolve one.
func (s *State) Restore(snap Snapshot) {
	s.CurrentRoom = snap.CurrentRoom
	s.Inventory = append([]string(nil), snap.Inventory...)
	s.Completed = snap.Completed

	s.Flags = make(map[string]any, len(snap.Flags))
	for k, v := range snap.Flags {
		s.Flags[k] = v
	}
	s.Visited = make(map[string]bool, len(snap.Visited))
	for _, room := range snap.Visited {
		s.Visited[room] = true
	}
	s.ItemLocations = make(map[string]string, len(snap.ItemLocations))
	for k, v := range snap.ItemLocations {
		s.ItemLocations[k] = v
	}
	s.DialogueNodes = make(map[string]string, len(snap.DialogueNodes))
	for k, v := range snap.DialogueNodes {
		s.DialogueNodes[k] = v
	}
}
