// Package trie matches segmented names, such as qualified method names or
// slash-separated paths, against a set of patterns.
//
// A "*" segment matches exactly one segment. A trailing "**" matches any
// remainder, including none; elsewhere "**" is an ordinary segment.
//
// Nodes live in an arena and are referenced by index, so a trie with many
// patterns is a single allocation that the garbage collector never scans
// pointer by pointer.
package trie

import (
	"sort"
	"strings"
)

const (
	anySegment = "*"
	anySuffix  = "**"
)

// NodeIndex represents the index of a trie node.
type NodeIndex int

// arena stores all trie nodes.
type arena struct {
	nodes []arenaNode
}

type arenaNode struct {
	// children maps a segment to the index of its node.
	children map[string]NodeIndex
	// isEnd marks the end of an inserted pattern.
	isEnd bool
}

func newArena() *arena {
	a := &arena{nodes: make([]arenaNode, 0, 64)}
	a.newNode() // root
	return a
}

func (a *arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return idx
}

// insert adds a sequence and reports whether it was new.
func (a *arena) insert(sequence []string) bool {
	current := NodeIndex(0)
	for _, part := range sequence {
		child, exists := a.nodes[current].children[part]
		if !exists {
			child = a.newNode()
			a.nodes[current].children[part] = child
		}
		current = child
	}
	added := !a.nodes[current].isEnd
	a.nodes[current].isEnd = true
	return added
}

func (a *arena) match(idx NodeIndex, sequence []string) bool {
	node := &a.nodes[idx]
	if c, ok := node.children[anySuffix]; ok && a.nodes[c].isEnd {
		return true
	}
	if len(sequence) == 0 {
		return node.isEnd
	}
	if c, ok := node.children[sequence[0]]; ok && a.match(c, sequence[1:]) {
		return true
	}
	if c, ok := node.children[anySegment]; ok && a.match(c, sequence[1:]) {
		return true
	}
	return false
}

func (a *arena) eq(b *arena) bool {
	if len(a.nodes) != len(b.nodes) {
		return false
	}
	return a.eqNodes(0, b, 0)
}

func (a *arena) eqNodes(aIdx NodeIndex, b *arena, bIdx NodeIndex) bool {
	nodeA, nodeB := a.nodes[aIdx], b.nodes[bIdx]
	if nodeA.isEnd != nodeB.isEnd || len(nodeA.children) != len(nodeB.children) {
		return false
	}
	for key, childA := range nodeA.children {
		childB, exists := nodeB.children[key]
		if !exists || !a.eqNodes(childA, b, childB) {
			return false
		}
	}
	return true
}

func (a *arena) string() string {
	return a.stringNode(0)
}

func (a *arena) stringNode(idx NodeIndex) string {
	node := a.nodes[idx]
	var sb strings.Builder
	if node.isEnd {
		sb.WriteString("*")
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(a.stringNode(node.children[key]))
		sb.WriteString(")")
	}
	return sb.String()
}

// Trie is a set of patterns.
type Trie struct {
	arena *arena
	size  int
}

func New() *Trie {
	return &Trie{arena: newArena()}
}

// FromPatterns splits every non-empty pattern on sep and inserts it.
func FromPatterns(sep string, patterns ...string) *Trie {
	t := New()
	for _, p := range patterns {
		if p = strings.Trim(strings.TrimSpace(p), sep); p != "" {
			t.Insert(strings.Split(p, sep))
		}
	}
	return t
}

// Insert adds a pattern.
func (t *Trie) Insert(sequence []string) {
	if t.arena.insert(sequence) {
		t.size++
	}
}

// Len returns the number of distinct patterns.
func (t *Trie) Len() int {
	return t.size
}

// Match reports whether sequence matches any pattern.
func (t *Trie) Match(sequence []string) bool {
	if t == nil || t.size == 0 {
		return false
	}
	return t.arena.match(0, sequence)
}

// MatchString splits s on sep and matches the segments.
func (t *Trie) MatchString(s, sep string) bool {
	if t == nil || t.size == 0 {
		return false
	}
	return t.Match(strings.Split(strings.Trim(s, sep), sep))
}

// Eq reports whether both tries hold the same patterns.
func (t *Trie) Eq(other *Trie) bool {
	return t.arena.eq(other.arena)
}

// String renders the trie for debugging, such as "a(b(*)c(*))".
func (t *Trie) String() string {
	return t.arena.string()
}
