package parser

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

const (
	cg3SentenceStart = `"<s>"`
	cg3SentenceEnd   = `"</s>"`
)

var (
	cg3DoubleQuoted = regexp.MustCompile(`^".*"$`)
	cg3WordToken    = regexp.MustCompile(`^"<(.+)>"$`)
)

// CG3Reader reads VISL-CG3 output: "<s>" / "</s>" sentence markers, "<word>"
// token lines, and indented reading lines following each token line.
type CG3Reader struct {
	Log *slog.Logger
}

func (p *CG3Reader) Read(lines []string) ([]Sentence, error) {
	log := discardIfNil(p.Log)

	var sentences []Sentence
	var current Sentence

	for i, raw := range lines {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		switch {
		case line == cg3SentenceStart:
			if len(current) > 0 {
				log.Warn("sentence begins before previous ends", "line", i, "dropped_tokens", len(current))
			}
			current = nil

		case line == cg3SentenceEnd:
			if len(current) == 0 {
				log.Warn("empty sentence", "line", i)
			} else {
				sentences = append(sentences, current)
			}
			current = nil

		case cg3DoubleQuoted.MatchString(line):
			m := cg3WordToken.FindStringSubmatch(line)
			if m == nil {
				return nil, &syntax.FormatError{Line: i, Text: raw, Reason: "unexpected token format"}
			}
			current = append(current, Token{Form: m[1], Line: i})

		case strings.HasPrefix(line, `"`):
			return nil, &syntax.FormatError{Line: i, Text: raw, Reason: "unterminated quoted line"}

		case len(current) > 0 && isReading(line):
			last := &current[len(current)-1]
			last.Lines = append(last.Lines, raw)
		}
	}

	if len(current) > 0 {
		log.Warn("sentence not terminated at end of input", "dropped_tokens", len(current))
	}
	return sentences, nil
}

// isReading reports whether line is an indented analysis line.
func isReading(line string) bool {
	if line == "" || strings.TrimSpace(line) == "" {
		return false
	}
	r := rune(line[0])
	return unicode.IsSpace(r)
}
