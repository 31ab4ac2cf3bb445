package automaton

import (
	"errors"
	"strings"
)

// ErrEmptyWord is returned by New when the word list contains an empty or
// whitespace-only word. An empty word would match at every position.
var ErrEmptyWord = errors.New("automaton: empty word")

// node is one trie node. A node is terminal when the path from the root to
// it spells a complete word.
type node struct {
	children map[rune]*node
	terminal bool
}

// Automaton is an immutable prefix trie over the characters of a word list.
type Automaton struct {
	root  *node
	words int
	nodes int
}

// Hit is a single occurrence reported by Scan.
// Start and End are character offsets; End is exclusive.
type Hit struct {
	Start int
	End   int
	Word  string
}

// New builds an Automaton from words. Words are inserted verbatim, except
// that surrounding whitespace is trimmed. Duplicate words are harmless.
func New(words []string) (*Automaton, error) {
	a := &Automaton{root: &node{}, nodes: 1}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return nil, ErrEmptyWord
		}
		a.insert(w)
	}
	return a, nil
}

// MustNew is like New but panics on error.
// It is intended for static word lists.
func MustNew(words []string) *Automaton {
	a, err := New(words)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Automaton) insert(word string) {
	n := a.root
	for _, r := range word {
		if n.children == nil {
			n.children = make(map[rune]*node)
		}
		child, ok := n.children[r]
		if !ok {
			child = &node{}
			n.children[r] = child
			a.nodes++
		}
		n = child
	}
	if !n.terminal {
		n.terminal = true
		a.words++
	}
}

// Len returns the number of distinct words in the automaton.
func (a *Automaton) Len() int {
	return a.words
}

// Nodes returns the number of trie nodes, root included.
func (a *Automaton) Nodes() int {
	return a.nodes
}

// Scan returns all non-overlapping, longest-from-each-start occurrences of
// the automaton's words in text, in order of appearance.
func (a *Automaton) Scan(text string) []Hit {
	if text == "" || a.words == 0 {
		return nil
	}
	runes := []rune(text)
	n := len(runes)

	var hits []Hit
	for i := 0; i < n; {
		end := a.longestAt(runes, i)
		if end < 0 {
			i++
			continue
		}
		hits = append(hits, Hit{Start: i, End: end, Word: string(runes[i:end])})
		i = end
	}
	return hits
}

// Contains reports whether text contains at least one word.
func (a *Automaton) Contains(text string) bool {
	if text == "" || a.words == 0 {
		return false
	}
	runes := []rune(text)
	for i := range runes {
		if a.longestAt(runes, i) >= 0 {
			return true
		}
	}
	return false
}

// longestAt walks the trie from runes[i] and returns the end offset of the
// longest word starting at i, or -1 when no word starts there.
func (a *Automaton) longestAt(runes []rune, i int) int {
	last := -1
	n := a.root
	for j := i; j < len(runes); j++ {
		child, ok := n.children[runes[j]]
		if !ok {
			break
		}
		n = child
		if n.terminal {
			last = j + 1
		}
	}
	return last
}
