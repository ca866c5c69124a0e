package parser

import (
	"fmt"
	"strings"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

const (
	conllFieldSeparator = "\t"
	conllNumFields      = 10

	conllFormField = 1
)

// CONLLReader reads CONLL output: one token per line with ten tab-separated
// fields, sentences separated by empty or whitespace-only lines.
type CONLLReader struct{}

func (p *CONLLReader) Read(lines []string) ([]Sentence, error) {
	var sentences []Sentence
	var current Sentence

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				sentences = append(sentences, current)
			}
			current = nil
			continue
		}
		fields, err := SplitCONLL(line)
		if err != nil {
			return nil, &syntax.FormatError{Line: i, Text: line, Reason: err.Error()}
		}
		current = append(current, Token{
			Form:  fields[conllFormField],
			Line:  i,
			Lines: []string{line},
		})
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences, nil
}

// SplitCONLL splits a token row into its ten fields.
func SplitCONLL(line string) ([]string, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), conllFieldSeparator)
	if len(fields) != conllNumFields {
		return nil, fmt.Errorf("expected %d tab-separated fields, got %d", conllNumFields, len(fields))
	}
	return fields, nil
}
