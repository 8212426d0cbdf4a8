package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Read-only narration handlers: no state mutation.

func (e *Engine) handleInventory() []Narration {
	if len(e.state.Inventory) == 0 {
		return []Narration{plain("You aren't carrying anything.")}
	}
	out := []Narration{system("You are carrying:")}
	for _, id := range e.state.Inventory {
		if item := e.game.Items[id]; item != nil {
			out = append(out, plain("  " + item.ListName()))
		}
	}
	return out
}

func (e *Engine) handleHistory() []Narration {
	entries := e.state.History.Entries()
	if len(entries) == 0 {
		return []Narration{plain("No commands yet.")}
	}
	out := []Narration{system("Recent commands:")}
	for i, line := range entries {
		out = append(out, plain(fmt.Sprintf("  %d. %s", i+1, line)))
	}
	return out
}

func (e *Engine) handleHelp() []Narration {
	out := []Narration{system("Available commands:")}

	byCat := e.registry.VerbsByCategory()
	categories := make([]string, 0, len(byCat))
	for cat := range byCat {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		verbs := byCat[cat]
		sort.Slice(verbs, func(i, j int) bool { return verbs[i].Name < verbs[j].Name })
		out = append(out, system(capitalize(cat)+":"))
		for _, verb := range verbs {
			label := verb.Name
			if len(verb.Synonyms) > 0 {
				label += " (" + strings.Join(verb.Synonyms, ", ") + ")"
			}
			out = append(out, plain(fmt.Sprintf("  %-24s %s", label, verb.Help)))
		}
	}
	return out
}

func (e *Engine) handleQuit() []Narration {
	e.done = true
	return []Narration{system("Goodbye.")}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
