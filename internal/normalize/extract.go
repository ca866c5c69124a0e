package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/estsyntax/internal/parser"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

// CG3Matcher holds the patterns used to pull relations out of VISL-CG3 readings.
type CG3Matcher struct {
	Label   *regexp.Regexp // surface syntactic label, e.g. @SUBJ
	Link    *regexp.Regexp // dependency link #src->dst, both 1-based
	Reading *regexp.Regexp // well-formed reading: quoted lemma first
}

// DefaultCG3Matcher is shared and must not be modified.
var DefaultCG3Matcher = &CG3Matcher{
	Label:   regexp.MustCompile(`(@\S+)`),
	Link:    regexp.MustCompile(`#(\d+)\s*->\s*(\d+)`),
	Reading: regexp.MustCompile(`^\s*".*"(\s|$)`),
}

// ExtractCG3 returns the candidate edges of one token. Every label found on a
// reading is paired with every dependency link on the same reading; readings
// without a label use syntax.DummyLabel. Heads are converted to 0-based.
func ExtractCG3(lines []string, m *CG3Matcher) ([]syntax.Edge, error) {
	if m == nil {
		m = DefaultCG3Matcher
	}
	var edges []syntax.Edge
	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if !m.Reading.MatchString(line) {
			return nil, &syntax.FormatError{Line: -1, Text: line, Reason: "reading does not start with a quoted lemma"}
		}
		labels := m.Label.FindAllString(line, -1)
		if len(labels) == 0 {
			labels = []string{syntax.DummyLabel}
		}
		links := m.Link.FindAllStringSubmatch(line, -1)
		for _, label := range labels {
			for _, link := range links {
				dst, err := strconv.Atoi(link[2])
				if err != nil {
					return nil, &syntax.FormatError{Line: -1, Text: line, Reason: "bad dependency link " + link[0]}
				}
				edges = append(edges, syntax.Edge{Label: label, Head: dst - 1})
			}
		}
	}
	return edges, nil
}

const (
	conllHeadField   = 6
	conllDepRelField = 7
)

// ExtractCONLL returns the edge of a CONLL row: HEAD (1-based, 0 for root)
// converted to 0-based, and DEPREL as the label.
func ExtractCONLL(lines []string) ([]syntax.Edge, error) {
	edges := make([]syntax.Edge, 0, len(lines))
	for _, line := range lines {
		fields, err := parser.SplitCONLL(line)
		if err != nil {
			return nil, &syntax.FormatError{Line: -1, Text: line, Reason: err.Error()}
		}
		head, err := strconv.Atoi(strings.TrimSpace(fields[conllHeadField]))
		if err != nil {
			return nil, &syntax.FormatError{Line: -1, Text: line, Reason: fmt.Sprintf("bad HEAD field %q", fields[conllHeadField])}
		}
		edges = append(edges, syntax.Edge{
			Label: strings.TrimSpace(fields[conllDepRelField]),
			Head:  head - 1,
		})
	}
	return edges, nil
}
