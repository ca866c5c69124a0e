// Package render formats normalized syntax layers and dependency trees for
// people: bracketed text, a markdown report and HTML views.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/estsyntax/internal/deptree"
	"github.com/dgallion1/estsyntax/internal/document"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

// Input is everything a report is built from. Doc and Trees may be nil.
type Input struct {
	Title   string
	Format  syntax.Format
	Doc     *document.Document
	Records []syntax.Record
	Trees   []*deptree.Tree
}

// Summary holds the counts shown at the top of a report.
type Summary struct {
	Sentences int            `json:"sentences"`
	Words     int            `json:"words"`
	Ambiguous int            `json:"ambiguous"` // words with more than one edge
	Dummies   int            `json:"dummies"`   // edges labelled syntax.DummyLabel
	Roots     int            `json:"roots"`     // edges pointing at syntax.RootHead
	Labels    map[string]int `json:"labels"`
}

// Summarize counts words, edges and labels of records.
func Summarize(records []syntax.Record) Summary {
	s := Summary{Words: len(records), Labels: make(map[string]int)}
	prev := -1
	for i, r := range records {
		if i == 0 || r.SentID != prev {
			s.Sentences++
		}
		prev = r.SentID
		if len(r.ParserOut) > 1 {
			s.Ambiguous++
		}
		for _, e := range r.ParserOut {
			s.Labels[e.Label]++
			if e.Label == syntax.DummyLabel {
				s.Dummies++
			}
			if e.Head == syntax.RootHead {
				s.Roots++
			}
		}
	}
	return s
}

// Bracketed renders each tree on its own line.
func Bracketed(trees []*deptree.Tree) string {
	var b strings.Builder
	for _, t := range trees {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Report returns a markdown summary of a processed document.
func Report(in Input) string {
	s := Summarize(in.Records)
	var b strings.Builder

	title := in.Title
	if title == "" {
		title = "Syntax layer"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Format: %s\n", in.Format)
	fmt.Fprintf(&b, "- Sentences: %d\n", s.Sentences)
	fmt.Fprintf(&b, "- Words: %d\n", s.Words)
	fmt.Fprintf(&b, "- Ambiguous words: %d\n", s.Ambiguous)
	fmt.Fprintf(&b, "- Dummy labels: %d\n", s.Dummies)
	fmt.Fprintf(&b, "- Root edges: %d\n\n", s.Roots)

	if len(s.Labels) > 0 {
		b.WriteString("## Labels\n\n| Label | Count |\n|---|---:|\n")
		for _, l := range sortedLabels(s.Labels) {
			fmt.Fprintf(&b, "| %s | %d |\n", strings.ReplaceAll(l, "|", `\|`), s.Labels[l])
		}
		b.WriteByte('\n')
	}

	switch {
	case len(in.Trees) > 0:
		b.WriteString("## Trees\n\n```\n")
		b.WriteString(Bracketed(in.Trees))
		b.WriteString("```\n")
	case in.Doc != nil:
		b.WriteString("## Text\n\n```\n")
		b.WriteString(in.Doc.Text())
		b.WriteString("\n```\n")
	}
	return b.String()
}

// ReportHTML converts Report to HTML.
func ReportHTML(in Input) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Report(in)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// sortedLabels orders labels by descending count, then by name.
func sortedLabels(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		ci, cj := counts[labels[i]], counts[labels[j]]
		if ci != cj {
			return ci > cj
		}
		return labels[i] < labels[j]
	})
	return labels
}
