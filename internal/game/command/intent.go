package command

import "strings"

// Intent is the structured result of parsing one line of player input.
// Absent fields are empty strings.
type Intent struct {
	// Verb is the canonical verb, resolved through the synonym table.
	// Empty means the input contained no tokens (a valid no-op intent).
	Verb string
	// Noun is the object phrase. For movement verbs it is the canonical
	// direction word.
	Noun string
	// Preposition is the connecting word from the closed preposition set.
	Preposition string
	// Target is the phrase after the preposition.
	Target string
	// Raw is the original input line.
	Raw string
}

// Empty reports whether the intent carries no verb at all.
func (i Intent) Empty() bool {
	return i.Verb == ""
}

// articles are stripped from the token stream wherever they appear.
var articles = map[string]bool{"the": true, "a": true, "an": true}

// prepositions is the closed set recognized as noun/target separators.
var prepositions = map[string]bool{
	"on": true, "with": true, "to": true, "in": true,
	"at": true, "from": true, "into": true,
}

// Parse converts one line of free text into an Intent using the given
// verb-synonym and direction-synonym tables. Words absent from a table
// pass through unchanged.
//
// Parse is pure: no mutation, no I/O, deterministic for the same input
// and tables.
//
// Postcondition: Returns an Intent. Empty or all-article input yields an
// empty intent, not an error.
func Parse(line string, verbSynonyms, directionSynonyms map[string]string) Intent {
	intent := Intent{Raw: line}

	tokens := tokenize(line)
	if len(tokens) == 0 {
		return intent
	}

	rawVerb := tokens[0]
	intent.Verb = canonical(rawVerb, verbSynonyms)
	rest := tokens[1:]

	if MovementVerbs[intent.Verb] {
		// The whole first remaining token is a direction; no preposition
		// scanning happens on movement commands.
		if len(rest) > 0 {
			intent.Noun = canonical(rest[0], directionSynonyms)
		}
		return intent
	}

	for k, tok := range rest {
		if prepositions[tok] {
			intent.Noun = strings.Join(rest[:k], " ")
			intent.Preposition = tok
			intent.Target = strings.Join(rest[k+1:], " ")
			return intent
		}
	}

	intent.Noun = strings.Join(rest, " ")
	return intent
}

// tokenize normalizes the line (lowercase, trimmed, collapsed whitespace),
// splits on whitespace, and strips articles from anywhere in the sequence.
func tokenize(line string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	tokens := fields[:0]
	for _, f := range fields {
		if !articles[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// canonical resolves a word through a synonym table, identity if absent.
func canonical(word string, synonyms map[string]string) string {
	if mapped, ok := synonyms[word]; ok {
		return mapped
	}
	return word
}
