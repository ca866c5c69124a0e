package document

import "strings"

const (
	// WordDelimiter separates tokens of a reconstructed sentence. A single
	// space stays inside multiword tokens such as "Rio de Janeiro".
	WordDelimiter = "  "
	// SentenceDelimiter separates reconstructed sentences.
	SentenceDelimiter = "\n"
)

var (
	reconstructWords     = MustGapSplitter(WordDelimiter)
	reconstructSentences = LineSplitter{}
)

// Reconstruct joins recovered tokens into one string: tokens with
// WordDelimiter, sentences with SentenceDelimiter.
func Reconstruct(sentences [][]string) string {
	lines := make([]string, 0, len(sentences))
	for _, s := range sentences {
		lines = append(lines, strings.Join(s, WordDelimiter))
	}
	return strings.Join(lines, SentenceDelimiter)
}

// FromSentences reconstructs the text and tokenizes it with the matching
// rules, so the resulting words are exactly the given tokens.
func FromSentences(sentences [][]string) *Document {
	return New(Reconstruct(sentences), reconstructWords, reconstructSentences)
}

// SurfaceForms returns the token strings of d grouped by sentence.
func SurfaceForms(d *Document) [][]string {
	out := make([][]string, 0, len(d.sentences))
	for _, s := range d.sentences {
		words := make([]string, len(s))
		for i, t := range s {
			words[i] = t.Text
		}
		out = append(out, words)
	}
	return out
}
