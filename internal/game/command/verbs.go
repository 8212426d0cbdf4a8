// Package command provides the command interpreter: it turns one line of
// player text into a structured intent, plus the built-in verb registry.
package command

import "fmt"

// Categories for organizing verbs in help output.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategorySocial   = "social"
	CategorySystem   = "system"
)

// Canonical verbs understood by the rule engine.
const (
	VerbGo        = "go"
	VerbLook      = "look"
	VerbExamine   = "examine"
	VerbTake      = "take"
	VerbDrop      = "drop"
	VerbUse       = "use"
	VerbTalk      = "talk"
	VerbInventory = "inventory"
	VerbHistory   = "history"
	VerbHelp      = "help"
	VerbQuit      = "quit"
)

// Verb defines a player-invocable canonical verb.
type Verb struct {
	// Name is the canonical verb name.
	Name string
	// Synonyms are alternate words resolving to this verb.
	Synonyms []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the verb (movement, world, social, system).
	Category string
}

// BuiltinVerbs returns all built-in verbs for the interpreter.
func BuiltinVerbs() []Verb {
	return []Verb{
		{Name: VerbGo, Synonyms: []string{"walk", "move"}, Help: "Move in a direction (go north)", Category: CategoryMovement},
		{Name: VerbLook, Synonyms: []string{"l"}, Help: "Look around the current room", Category: CategoryWorld},
		{Name: VerbExamine, Synonyms: []string{"x", "inspect", "read"}, Help: "Examine an item, character, or feature", Category: CategoryWorld},
		{Name: VerbTake, Synonyms: []string{"get", "grab", "pick"}, Help: "Pick up an item", Category: CategoryWorld},
		{Name: VerbDrop, Synonyms: nil, Help: "Drop a carried item", Category: CategoryWorld},
		{Name: VerbUse, Synonyms: []string{"apply"}, Help: "Use an item (use card on door)", Category: CategoryWorld},
		{Name: VerbTalk, Synonyms: []string{"speak"}, Help: "Talk to a character", Category: CategorySocial},
		{Name: VerbInventory, Synonyms: []string{"inv", "i"}, Help: "Show carried items", Category: CategoryWorld},
		{Name: VerbHistory, Synonyms: nil, Help: "Show recent commands", Category: CategorySystem},
		{Name: VerbHelp, Synonyms: []string{"?"}, Help: "Show available commands", Category: CategorySystem},
		{Name: VerbQuit, Synonyms: []string{"exit"}, Help: "End the session", Category: CategorySystem},
	}
}

// MovementVerbs are the canonical verbs whose noun is a direction.
var MovementVerbs = map[string]bool{
	VerbGo: true, "walk": true, "move": true,
}

// Registry maps verb names and synonyms to Verb definitions.
type Registry struct {
	verbs    map[string]*Verb  // canonical name → verb
	synonyms map[string]string // synonym → canonical name
}

// NewRegistry creates a Registry populated with the given verbs.
//
// Precondition: No two verbs may share a canonical name or synonym.
// Postcondition: Returns a Registry or an error on name/synonym collisions.
func NewRegistry(verbs []Verb) (*Registry, error) {
	r := &Registry{
		verbs:    make(map[string]*Verb, len(verbs)),
		synonyms: make(map[string]string),
	}

	for i := range verbs {
		verb := &verbs[i]
		if _, exists := r.verbs[verb.Name]; exists {
			return nil, fmt.Errorf("duplicate verb name: %q", verb.Name)
		}
		if _, exists := r.synonyms[verb.Name]; exists {
			return nil, fmt.Errorf("verb name %q conflicts with an existing synonym", verb.Name)
		}
		r.verbs[verb.Name] = verb

		for _, syn := range verb.Synonyms {
			if _, exists := r.verbs[syn]; exists {
				return nil, fmt.Errorf("synonym %q conflicts with verb name %q", syn, syn)
			}
			if existing, exists := r.synonyms[syn]; exists {
				return nil, fmt.Errorf("duplicate synonym %q: used by %q and %q", syn, existing, verb.Name)
			}
			r.synonyms[syn] = verb.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in verbs.
//
// Postcondition: Returns a Registry with all built-in verbs registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinVerbs())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// SynonymTable returns the registry's synonym → canonical verb mapping,
// merged with the given content-supplied overrides. Content entries win.
//
// Postcondition: Returns a new map; the registry is not modified.
func (r *Registry) SynonymTable(overrides map[string]string) map[string]string {
	table := make(map[string]string, len(r.synonyms)+len(overrides))
	for syn, canonical := range r.synonyms {
		table[syn] = canonical
	}
	for syn, canonical := range overrides {
		table[syn] = canonical
	}
	return table
}

// Resolve looks up a verb by canonical name or synonym.
//
// Postcondition: Returns (verb, true) if found, or (nil, false).
func (r *Registry) Resolve(word string) (*Verb, bool) {
	if verb, ok := r.verbs[word]; ok {
		return verb, true
	}
	if canonical, ok := r.synonyms[word]; ok {
		return r.verbs[canonical], true
	}
	return nil, false
}

// Verbs returns all registered verbs in no particular order.
func (r *Registry) Verbs() []*Verb {
	result := make([]*Verb, 0, len(r.verbs))
	for _, verb := range r.verbs {
		result = append(result, verb)
	}
	return result
}

// VerbsByCategory returns verbs grouped by category.
func (r *Registry) VerbsByCategory() map[string][]*Verb {
	categories := make(map[string][]*Verb)
	for _, verb := range r.verbs {
		categories[verb.Category] = append(categories[verb.Category], verb)
	}
	return categories
}
