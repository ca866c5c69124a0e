// Package document holds a tokenized text: sentence and word spans over one
// string, plus named annotation layers attached by later processing steps.
package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Span is a half-open byte range [Start, End) in the document text.
type Span struct {
	Start int
	End   int
}

// Splitter cuts a string into spans. Offsets are relative to the input.
type Splitter interface {
	Split(text string) []Span
}

// GapSplitter splits on every match of a pattern; the matches themselves are
// discarded, as are empty pieces between adjacent matches.
type GapSplitter struct {
	re *regexp.Regexp
}

// NewGapSplitter compiles pattern into a GapSplitter.
func NewGapSplitter(pattern string) (*GapSplitter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("gap pattern: %w", err)
	}
	return &GapSplitter{re: re}, nil
}

// MustGapSplitter is like NewGapSplitter but panics on a bad pattern.
func MustGapSplitter(pattern string) *GapSplitter {
	g, err := NewGapSplitter(pattern)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *GapSplitter) Split(text string) []Span {
	var spans []Span
	prev := 0
	for _, m := range g.re.FindAllStringIndex(text, -1) {
		if m[0] > prev {
			spans = append(spans, Span{Start: prev, End: m[0]})
		}
		prev = m[1]
	}
	if prev < len(text) {
		spans = append(spans, Span{Start: prev, End: len(text)})
	}
	return spans
}

// LineSplitter treats each non-blank line as one span.
type LineSplitter struct{}

func (LineSplitter) Split(text string) []Span {
	var spans []Span
	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		if strings.TrimSpace(text[start:end]) != "" {
			spans = append(spans, Span{Start: start, End: end})
		}
		start = end + 1
	}
	return spans
}

// Token is one word of the document.
type Token struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	SentID int    `json:"sent_id"`
	Index  int    `json:"index"` // position within the sentence
	Text   string `json:"text"`
}

// Document is a tokenized text with named annotation layers.
type Document struct {
	text      string
	sentences [][]Token
	layers    map[string]any
}

// New tokenizes text: sentences first, then words inside each sentence.
func New(text string, words, sentences Splitter) *Document {
	d := &Document{
		text:   text,
		layers: make(map[string]any),
	}
	for _, ss := range sentences.Split(text) {
		sentID := len(d.sentences)
		var sent []Token
		for _, ws := range words.Split(text[ss.Start:ss.End]) {
			start, end := ss.Start+ws.Start, ss.Start+ws.End
			sent = append(sent, Token{
				Start:  start,
				End:    end,
				SentID: sentID,
				Index:  len(sent),
				Text:   text[start:end],
			})
		}
		if len(sent) > 0 {
			d.sentences = append(d.sentences, sent)
		}
	}
	return d
}

// Text returns the underlying string.
func (d *Document) Text() string { return d.text }

// Sentences returns the words grouped by sentence, in document order.
func (d *Document) Sentences() [][]Token { return d.sentences }

// Words returns all words in document order.
func (d *Document) Words() []Token {
	var out []Token
	for _, s := range d.sentences {
		out = append(out, s...)
	}
	return out
}

// WordCount returns the number of words in the document.
func (d *Document) WordCount() int {
	n := 0
	for _, s := range d.sentences {
		n += len(s)
	}
	return n
}

// SetLayer attaches an annotation payload under name, replacing any previous one.
func (d *Document) SetLayer(name string, v any) {
	d.layers[name] = v
}

// Layer returns the payload stored under name.
func (d *Document) Layer(name string) (any, bool) {
	v, ok := d.layers[name]
	return v, ok
}

// LayerNames returns the attached layer names in sorted order.
func (d *Document) LayerNames() []string {
	names := make([]string, 0, len(d.layers))
	for n := range d.layers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
