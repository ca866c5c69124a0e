// Package normalize rewrites aligned parser output into canonical
// (label, head) edges.
package normalize

import (
	"fmt"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

// extractor turns the raw lines of one token into candidate edges.
type extractor func(lines []string) ([]syntax.Edge, error)

// Normalize converts alignments produced for format f into records holding
// canonical edges. The input is not modified. Any malformed line aborts the
// whole document.
func Normalize(f syntax.Format, alignments []syntax.Alignment, opts syntax.Options) ([]syntax.Record, error) {
	switch f {
	case syntax.FormatCG3:
		return NormalizeCG3(alignments, opts, DefaultCG3Matcher)
	case syntax.FormatCONLL:
		return NormalizeCONLL(alignments, opts)
	default:
		return nil, fmt.Errorf("%w: %v", syntax.ErrUnknownFormat, f)
	}
}

// NormalizeCG3 normalizes VISL-CG3 alignments using matcher m (nil for the default).
func NormalizeCG3(alignments []syntax.Alignment, opts syntax.Options, m *CG3Matcher) ([]syntax.Record, error) {
	return normalize(alignments, opts, func(lines []string) ([]syntax.Edge, error) {
		return ExtractCG3(lines, m)
	})
}

// NormalizeCONLL normalizes CONLL alignments.
func NormalizeCONLL(alignments []syntax.Alignment, opts syntax.Options) ([]syntax.Record, error) {
	return normalize(alignments, opts, ExtractCONLL)
}

func normalize(alignments []syntax.Alignment, opts syntax.Options, extract extractor) ([]syntax.Record, error) {
	sizes := sentenceSizes(alignments)
	records := make([]syntax.Record, 0, len(alignments))

	prevSentID := -1
	wordID := 0
	for i, a := range alignments {
		if i > 0 && a.SentID != prevSentID {
			wordID = 0
		}
		size := sizes[i]

		edges, err := extract(a.ParserOut)
		if err != nil {
			return nil, fmt.Errorf("sentence %d word %d: %w", a.SentID, wordID, err)
		}

		if len(edges) == 0 {
			if !opts.ReplaceMissing {
				return nil, fmt.Errorf("%w: sentence %d word %d (span %d-%d)",
					syntax.ErrMissingAnalysis, a.SentID, wordID, a.Start, a.End)
			}
			edges = []syntax.Edge{{Label: syntax.DummyLabel, Head: wordID}}
		}

		for _, e := range edges {
			if e.Head != syntax.RootHead && (e.Head < 0 || e.Head >= size) {
				return nil, &syntax.FormatError{
					Line:   -1,
					Text:   fmt.Sprint(a.ParserOut),
					Reason: fmt.Sprintf("head %d outside sentence %d of %d words", e.Head, a.SentID, size),
				}
			}
		}

		if opts.FixSelfRefs {
			fixSelfRefs(edges, wordID, size)
		}
		if opts.MarkRoot {
			markRoot(edges)
		}

		rec := syntax.Record{
			Start:      a.Start,
			End:        a.End,
			SentID:     a.SentID,
			ParserOut:  edges,
			TextWordID: copyInt(a.TextWordID),
			SentWordID: copyInt(a.SentWordID),
		}
		if opts.KeepOriginal {
			rec.Original = append([]string{}, a.ParserOut...)
		}
		records = append(records, rec)

		prevSentID = a.SentID
		wordID++
	}
	return records, nil
}

// fixSelfRefs redirects edges pointing at their own word to the previous word,
// or to the next one for the first word. The only word of a sentence becomes
// its root.
func fixSelfRefs(edges []syntax.Edge, wordID, sentenceSize int) {
	for i := range edges {
		if edges[i].Head != wordID {
			continue
		}
		switch {
		case wordID > 0:
			edges[i].Head = wordID - 1
		case sentenceSize > 1:
			edges[i].Head = wordID + 1
		default:
			edges[i].Head = syntax.RootHead
		}
	}
}

func markRoot(edges []syntax.Edge) {
	for i := range edges {
		if edges[i].Head == syntax.RootHead {
			edges[i].Label = syntax.RootLabel
		}
	}
}

// MarkRoots returns a copy of records where every root edge is labelled
// syntax.RootLabel. Applying it repeatedly gives the same result.
func MarkRoots(records []syntax.Record) []syntax.Record {
	out := make([]syntax.Record, len(records))
	for i, r := range records {
		r.ParserOut = append([]syntax.Edge(nil), r.ParserOut...)
		markRoot(r.ParserOut)
		out[i] = r
	}
	return out
}

// sentenceSizes returns, for every alignment, the number of alignments in the
// run of equal sentence ids it belongs to.
func sentenceSizes(alignments []syntax.Alignment) []int {
	sizes := make([]int, len(alignments))
	start := 0
	for i := 1; i <= len(alignments); i++ {
		if i < len(alignments) && alignments[i].SentID == alignments[start].SentID {
			continue
		}
		for j := start; j < i; j++ {
			sizes[j] = i - start
		}
		start = i
	}
	return sizes
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
