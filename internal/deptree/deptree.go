// Package deptree assembles normalized dependency edges into one rooted tree
// per sentence.
package deptree

import (
	"strings"

	"github.com/dgallion1/estsyntax/internal/document"
)

// Tree is one word of a sentence and the words that depend on it.
type Tree struct {
	WordID    int      `json:"word_id"`     // position in the sentence
	GenWordID int      `json:"gen_word_id"` // position in the whole text
	Labels    []string `json:"labels"`
	Head      int      `json:"head"` // head of the first edge; -1 for the root

	Token        document.Token `json:"token"`
	Parser       string         `json:"parser"`
	ParserOutput []string       `json:"parser_output,omitempty"`

	Parent   *Tree   `json:"-"`
	Children []*Tree `json:"children,omitempty"`
}

// AddChild attaches c directly below t.
func (t *Tree) AddChild(c *Tree) {
	c.Parent = t
	t.Children = append(t.Children, c)
}

// AddChildToSubtree attaches c below the node of t's subtree with the given
// word id. It reports whether such a node was found.
func (t *Tree) AddChildToSubtree(wordID int, c *Tree) bool {
	n := t.Find(wordID)
	if n == nil {
		return false
	}
	n.AddChild(c)
	return true
}

// Root follows parent links up to the sentence root.
func (t *Tree) Root() *Tree {
	n := t
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Descendants returns the direct dependents of t, or every descendant in
// pre-order when all is set.
func (t *Tree) Descendants(all bool) []*Tree {
	if !all {
		return append([]*Tree(nil), t.Children...)
	}
	var out []*Tree
	for _, c := range t.Children {
		c.Walk(func(n *Tree) bool {
			out = append(out, n)
			return true
		})
	}
	return out
}

// Find returns the node of t's subtree with the given word id, or nil.
func (t *Tree) Find(wordID int) *Tree {
	var found *Tree
	t.Walk(func(n *Tree) bool {
		if n.WordID == wordID {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits t and its descendants in pre-order until fn returns false.
func (t *Tree) Walk(fn func(*Tree) bool) {
	t.walk(fn)
}

func (t *Tree) walk(fn func(*Tree) bool) bool {
	if !fn(t) {
		return false
	}
	for _, c := range t.Children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// Size returns the number of nodes in t's subtree.
func (t *Tree) Size() int {
	n := 0
	t.Walk(func(*Tree) bool {
		n++
		return true
	})
	return n
}

// String renders the subtree in bracketed form, e.g. "(oli Auhinnaks (tekk ilus valge .))".
func (t *Tree) String() string {
	var b strings.Builder
	t.bracket(&b)
	return b.String()
}

func (t *Tree) bracket(b *strings.Builder) {
	if len(t.Children) == 0 {
		b.WriteString(t.Token.Text)
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Token.Text)
	for _, c := range t.Children {
		b.WriteByte(' ')
		c.bracket(b)
	}
	b.WriteByte(')')
}
