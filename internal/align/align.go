// Package align binds the words of a tokenized document to the raw parser
// output lines that analyse them.
package align

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/estsyntax/internal/document"
	"github.com/dgallion1/estsyntax/internal/parser"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

// Align walks the document words and the raw lines of format f in lock-step
// and returns one alignment per word, in document order.
//
// Only Options.CheckTokens and Options.AddWordIDs are consulted.
func Align(f syntax.Format, lines []string, doc *document.Document, opts syntax.Options, log *slog.Logger) ([]syntax.Alignment, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", syntax.ErrInvalidInput)
	}
	r, err := parser.ForFormat(f, log)
	if err != nil {
		return nil, err
	}
	sentences, err := r.Read(lines)
	if err != nil {
		return nil, err
	}
	return AlignSentences(sentences, doc, opts)
}

// AlignCG3 aligns VISL-CG3 output. Each alignment carries the token's readings.
func AlignCG3(lines []string, doc *document.Document, opts syntax.Options, log *slog.Logger) ([]syntax.Alignment, error) {
	return Align(syntax.FormatCG3, lines, doc, opts, log)
}

// AlignCONLL aligns CONLL output. Each alignment carries the token's row.
func AlignCONLL(lines []string, doc *document.Document, opts syntax.Options) ([]syntax.Alignment, error) {
	return Align(syntax.FormatCONLL, lines, doc, opts, nil)
}

// AlignSentences aligns sentences already read from parser output, so a
// caller that reconstructed doc from them does not read the lines twice.
func AlignSentences(sentences []parser.Sentence, doc *document.Document, opts syntax.Options) ([]syntax.Alignment, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", syntax.ErrInvalidInput)
	}
	docSents := doc.Sentences()
	if len(docSents) != len(sentences) {
		return nil, fmt.Errorf("%w: document has %d sentences, parser output has %d",
			syntax.ErrMisalignment, len(docSents), len(sentences))
	}

	results := make([]syntax.Alignment, 0, doc.WordCount())
	textWordID := 0
	for sentID, words := range docSents {
		tokens := sentences[sentID]
		if len(words) != len(tokens) {
			return nil, fmt.Errorf("%w: sentence %d has %d words in the document, %d in parser output",
				syntax.ErrMisalignment, sentID, len(words), len(tokens))
		}
		for i, w := range words {
			tok := tokens[i]
			if opts.CheckTokens && w.Text != tok.Form {
				return nil, &syntax.MisalignmentError{SentID: sentID, WordID: i, Document: w.Text, Parser: tok.Form}
			}
			a := syntax.Alignment{
				Start:     w.Start,
				End:       w.End,
				SentID:    sentID,
				ParserOut: append([]string(nil), tok.Lines...),
			}
			if opts.AddWordIDs {
				tw, sw := textWordID, i
				a.TextWordID = &tw
				a.SentWordID = &sw
			}
			results = append(results, a)
			textWordID++
		}
	}
	return results, nil
}
