// Package competence resolves competence names against a hierarchical
// taxonomy and matches participants by the competences they hold.
package competence

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/freeslot/internal/meeting"
)

// ErrNotFound indicates the searched competence exists nowhere in the
// taxonomy, neither as a name nor as a synonym.
var ErrNotFound = errors.New("competence not found")

// Node is one competence in the taxonomy tree.
type Node struct {
	Name          string   `toml:"name"`
	Synonyms      []string `toml:"synonyms"`
	Subcategories []Node   `toml:"subcategories"`
}

// Taxonomy is a forest of competence trees.
type Taxonomy struct {
	Competences []Node `toml:"competence"`
}

// Load reads a taxonomy from a TOML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a taxonomy from TOML.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	return &t, nil
}

// FindPath returns the path from the matched competence up to its most
// general ancestor, leaf first. The search name matches a node's name or
// any of its synonyms, case-insensitively.
func (t *Taxonomy) FindPath(search string) ([]string, error) {
	search = normalize(search)

	type frame struct {
		node      Node
		ancestors []string // root..parent
	}

	// Depth-first, explicit stack. Pushing in reverse keeps sibling order.
	var stack []frame
	for i := len(t.Competences) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: t.Competences[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if matches(f.node, search) {
			path := make([]string, 0, len(f.ancestors)+1)
			path = append(path, f.node.Name)
			for i := len(f.ancestors) - 1; i >= 0; i-- {
				path = append(path, f.ancestors[i])
			}
			return path, nil
		}

		ancestors := append(append([]string(nil), f.ancestors...), f.node.Name)
		for i := len(f.node.Subcategories) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Subcategories[i], ancestors: ancestors})
		}
	}

	return nil, fmt.Errorf("%q: %w", search, ErrNotFound)
}

// All returns every competence name and synonym in the taxonomy, flattened.
func (t *Taxonomy) All() []string {
	var all []string

	var stack []Node
	for i := len(t.Competences) - 1; i >= 0; i-- {
		stack = append(stack, t.Competences[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		all = append(all, n.Name)
		all = append(all, n.Synonyms...)
		for i := len(n.Subcategories) - 1; i >= 0; i-- {
			stack = append(stack, n.Subcategories[i])
		}
	}

	return all
}

// Match returns the taxonomy competences mentioned in a free-form message,
// in the order they appear.
func (t *Taxonomy) Match(text string) []string {
	known := make(map[string]bool)
	for _, c := range t.All() {
		known[normalize(c)] = true
	}

	var found []string
	for _, word := range strings.FieldsFunc(text, isWordBoundary) {
		w := normalize(word)
		if known[w] {
			found = append(found, w)
		}
	}
	return found
}

// ExpertsForMessage resolves every competence mentioned in a free-form
// message against the participants, walking up the taxonomy toward more
// general competences when nobody holds the exact one. Repeated mentions
// resolve once; mentions nobody can serve are dropped.
func (t *Taxonomy) ExpertsForMessage(text string, participants []*meeting.Participant) []*Experts {
	seen := make(map[string]bool)

	var results []*Experts
	for _, name := range t.Match(text) {
		if seen[name] {
			continue
		}
		seen[name] = true

		path, err := t.FindPath(name)
		if err != nil {
			continue
		}
		if e := UsersWith(path, participants); e != nil {
			results = append(results, e)
		}
	}
	return results
}

// Experts holds the participants matching a competence lookup.
type Experts struct {
	Competence   string
	Participants []*meeting.Participant
}

// UsersWith resolves a leaf-to-root competence path against participants'
// held competences, most specific first. Returns nil if no participant
// holds any competence on the path.
func UsersWith(path []string, participants []*meeting.Participant) *Experts {
	byCompetence := make(map[string][]*meeting.Participant)
	for _, p := range participants {
		for _, c := range p.Competences {
			c = normalize(c)
			byCompetence[c] = append(byCompetence[c], p)
		}
	}

	for _, c := range path {
		if matched := byCompetence[normalize(c)]; len(matched) > 0 {
			return &Experts{Competence: c, Participants: matched}
		}
	}
	return nil
}

// matches reports whether a node's name or any synonym equals the
// normalized search term.
func matches(n Node, search string) bool {
	if normalize(n.Name) == search {
		return true
	}
	for _, syn := range n.Synonyms {
		if normalize(syn) == search {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '.', '!', '?', ',', ';', ':', '\n', '\t':
		return true
	}
	return false
}
