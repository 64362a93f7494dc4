// Package keyword evaluates the small boolean language used to filter apartment names.
//
//	query := group { ("or" | "|") group }
//	group := term { ["and" | "&"] term }
//	term  := ["-" | "!" | "not"] text
//	text  := word | '"' phrase '"'
//
// Matching is case-insensitive substring containment. Operator words are only
// recognised as whole tokens, so names like "Grandor" are never split. Syntax slips
// are read literally rather than rejected.
package keyword

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Term is one substring test; Exclude inverts it.
type Term struct {
	Text    string `json:"text"`
	Exclude bool   `json:"exclude"`
}

// Group is a conjunction of terms
type Group struct {
	Terms []Term `json:"terms"`
}

// Query is a disjunction of groups. The zero Query matches everything.
type Query struct {
	Groups []Group `json:"groups"`
}

// Empty reports whether the query filters nothing.
func (q Query) Empty() bool {
	return len(q.Groups) == 0
}

// Match reports whether s satisfies at least one group.
func (q Query) Match(s string) bool {
	if q.Empty() {
		return true
	}
	folded := fold(s)
	for _, g := range q.Groups {
		if g.match(folded) {
			return true
		}
	}
	return false
}

func (g Group) match(folded string) bool {
	for _, t := range g.Terms {
		if strings.Contains(folded, t.Text) == t.Exclude {
			return false
		}
	}
	return true
}

// Evaluate parses expr once and reports, per value, whether it matches.
func Evaluate(expr string, values []string) []bool {
	q := Parse(expr)
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = q.Match(v)
	}
	return out
}

// Parse builds a Query from a user-typed expression. It never fails.
func Parse(expr string) Query {
	var (
		q          Query
		current    Group
		pendingNot bool
	)

	closeGroup := func() {
		if pendingNot {
			current.Terms = append(current.Terms, Term{Text: "not"})
			pendingNot = false
		}
		if len(current.Terms) > 0 {
			q.Groups = append(q.Groups, current)
		}
		current = Group{}
	}

	tokens := tokenize(expr)
	for _, tok := range tokens {
		switch tok.kind {
		case tokOr:
			closeGroup()
		case tokAnd:
			// adjacency already joins terms
		case tokNot:
			if pendingNot {
				current.Terms = append(current.Terms, Term{Text: "not"})
			}
			pendingNot = true
		case tokText:
			text := fold(tok.text)
			if text == "" {
				continue
			}
			current.Terms = append(current.Terms, Term{Text: text, Exclude: tok.negated || pendingNot})
			pendingNot = false
		}
	}
	closeGroup()

	if q.Empty() {
		return literal(tokens)
	}
	return q
}

// literal reads an operator-only expression as plain substrings, so "or" looks for
// names containing "or" instead of matching everything.
func literal(tokens []token) Query {
	var g Group
	for _, tok := range tokens {
		if text := fold(tok.text); text != "" {
			g.Terms = append(g.Terms, Term{Text: text})
		}
	}
	if len(g.Terms) == 0 {
		return Query{}
	}
	return Query{Groups: []Group{g}}
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
