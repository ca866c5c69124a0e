package deptree

import (
	"errors"
	"fmt"

	"github.com/dgallion1/estsyntax/internal/document"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

var (
	ErrNoRoot         = errors.New("sentence has no root")
	ErrMultipleRoots  = errors.New("sentence has more than one root")
	ErrHeadOutOfRange = errors.New("head outside sentence")
	ErrCycle          = errors.New("words not connected to the root")
)

// RootError reports a sentence whose edges do not form a single rooted tree.
type RootError struct {
	SentID int
	WordID int // offending word, -1 when the whole sentence is at fault
	Err    error
}

func (e *RootError) Error() string {
	if e.WordID < 0 {
		return fmt.Sprintf("sentence %d: %v", e.SentID, e.Err)
	}
	return fmt.Sprintf("sentence %d word %d: %v", e.SentID, e.WordID, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }

// Entry is the input for one word of a sentence.
type Entry struct {
	Token     document.Token
	Edges     []syntax.Edge
	WordID    int // position in the sentence; must equal the entry's index
	GenWordID int
	Original  []string
}

// BuildSentence links the entries of one sentence into a tree and returns its
// root. Each node keeps every edge label; the head of the first edge decides
// its parent.
func BuildSentence(entries []Entry, parser string) (*Tree, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty sentence", syntax.ErrInvalidInput)
	}
	sentID := entries[0].Token.SentID

	nodes := make([]*Tree, len(entries))
	for i, e := range entries {
		if e.WordID != i {
			return nil, fmt.Errorf("%w: entry %d has word id %d", syntax.ErrInvalidInput, i, e.WordID)
		}
		if len(e.Edges) == 0 {
			return nil, fmt.Errorf("%w: sentence %d word %d has no edges", syntax.ErrInvalidInput, sentID, i)
		}
		labels := make([]string, len(e.Edges))
		for j, edge := range e.Edges {
			labels[j] = edge.Label
		}
		nodes[i] = &Tree{
			WordID:       e.WordID,
			GenWordID:    e.GenWordID,
			Labels:       labels,
			Head:         e.Edges[0].Head,
			Token:        e.Token,
			Parser:       parser,
			ParserOutput: e.Original,
		}
	}

	var root *Tree
	for i, n := range nodes {
		switch {
		case n.Head == syntax.RootHead:
			if root != nil {
				return nil, &RootError{SentID: sentID, WordID: i, Err: ErrMultipleRoots}
			}
			root = n
		case n.Head < 0 || n.Head >= len(nodes):
			return nil, &RootError{SentID: sentID, WordID: i, Err: ErrHeadOutOfRange}
		}
	}
	if root == nil {
		return nil, &RootError{SentID: sentID, WordID: -1, Err: ErrNoRoot}
	}

	for _, n := range nodes {
		if n != root {
			nodes[n.Head].AddChild(n)
		}
	}
	if root.Size() != len(nodes) {
		return nil, &RootError{SentID: sentID, WordID: -1, Err: ErrCycle}
	}
	return root, nil
}

// Build returns one tree per sentence of doc from records normalized for it,
// in document order. records must hold exactly one entry per word.
func Build(doc *document.Document, records []syntax.Record, parser string) ([]*Tree, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", syntax.ErrInvalidInput)
	}
	if len(records) != doc.WordCount() {
		return nil, fmt.Errorf("%w: %d records for %d words", syntax.ErrInvalidInput, len(records), doc.WordCount())
	}

	trees := make([]*Tree, 0, len(doc.Sentences()))
	gen := 0
	for _, words := range doc.Sentences() {
		entries := make([]Entry, len(words))
		for i, w := range words {
			r := records[gen]
			if r.Start != w.Start || r.End != w.End {
				return nil, fmt.Errorf("%w: record %d spans [%d:%d], word spans [%d:%d]",
					syntax.ErrMisalignment, gen, r.Start, r.End, w.Start, w.End)
			}
			entries[i] = Entry{
				Token:     w,
				Edges:     r.ParserOut,
				WordID:    i,
				GenWordID: gen,
				Original:  r.Original,
			}
			gen++
		}
		root, err := BuildSentence(entries, parser)
		if err != nil {
			return nil, err
		}
		trees = append(trees, root)
	}
	return trees, nil
}
