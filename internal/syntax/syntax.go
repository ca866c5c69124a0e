package syntax

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format identifies which external parser produced the raw analysis lines.
type Format int

const (
	FormatCG3   Format = iota + 1 // VISL-CG3 constraint-grammar output
	FormatCONLL                   // MaltParser CONLL output
)

// String returns the canonical name of the format.
func (f Format) String() string {
	switch f {
	case FormatCG3:
		return "vislcg3"
	case FormatCONLL:
		return "conll"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// DefaultLayer is the layer name the normalized records are attached under.
func (f Format) DefaultLayer() string {
	switch f {
	case FormatCG3:
		return "vislcg3_syntax"
	case FormatCONLL:
		return "conll_syntax"
	default:
		return ""
	}
}

// ParseFormat resolves a format name. Names are case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vislcg3", "cg3":
		return FormatCG3, nil
	case "conll", "malt", "maltparser":
		return FormatCONLL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if f != FormatCG3 && f != FormatCONLL {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// RootHead is the head index of a sentence root.
const RootHead = -1

// RootLabel replaces the label of root edges when Options.MarkRoot is set.
const RootLabel = "ROOT"

// DummyLabel is used for tokens without a surface label or without any analysis.
const DummyLabel = "xxx"

// Edge is one dependency relation candidate: a label and the sentence-relative
// index of the head (RootHead for the root).
type Edge struct {
	Label string
	Head  int
}

// MarshalJSON encodes the edge as a two element array: ["@SUBJ", 1].
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Label, e.Head})
}

// UnmarshalJSON decodes the two element array form.
func (e *Edge) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("edge: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Label); err != nil {
		return fmt.Errorf("edge label: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Head); err != nil {
		return fmt.Errorf("edge head: %w", err)
	}
	return nil
}

// Alignment binds one token of the tokenized document to the raw parser
// output line(s) describing it.
type Alignment struct {
	Start     int      `json:"start"`
	End       int      `json:"end"`
	SentID    int      `json:"sent_id"`
	ParserOut []string `json:"parser_out"`

	// Set only when Options.AddWordIDs is on.
	TextWordID *int `json:"text_word_id,omitempty"`
	SentWordID *int `json:"sent_word_id,omitempty"`
}

// Record is a normalized alignment: the raw lines replaced by canonical edges.
type Record struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	SentID     int    `json:"sent_id"`
	ParserOut  []Edge `json:"parser_out"`
	TextWordID *int   `json:"text_word_id,omitempty"`
	SentWordID *int   `json:"sent_word_id,omitempty"`

	// Original holds the raw lines when Options.KeepOriginal is on.
	Original []string `json:"init_parser_out,omitempty"`
}

// Heads returns the head index of every edge of the record.
func (r Record) Heads() []int {
	out := make([]int, len(r.ParserOut))
	for i, e := range r.ParserOut {
		out[i] = e.Head
	}
	return out
}

// Labels returns the label of every edge of the record.
func (r Record) Labels() []string {
	out := make([]string, len(r.ParserOut))
	for i, e := range r.ParserOut {
		out[i] = e.Label
	}
	return out
}
