package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/estsyntax/internal/align"
	"github.com/dgallion1/estsyntax/internal/deptree"
	"github.com/dgallion1/estsyntax/internal/document"
	"github.com/dgallion1/estsyntax/internal/normalize"
	"github.com/dgallion1/estsyntax/internal/parser"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

// Params selects how one document is processed.
type Params struct {
	Format  syntax.Format  `json:"format"`
	Options syntax.Options `json:"options"`
	Layer   string         `json:"layer,omitempty"` // defaults to Format.DefaultLayer()
	Trees   bool           `json:"trees"`
}

func (p Params) layer() string {
	if p.Layer != "" {
		return p.Layer
	}
	return p.Format.DefaultLayer()
}

// Result is a processed document: its reconstructed text, the normalized
// syntax layer and, when requested, one dependency tree per sentence.
type Result struct {
	Format  syntax.Format      `json:"format"`
	Layer   string             `json:"layer"`
	Text    string             `json:"text"`
	Records []syntax.Record    `json:"records"`
	Trees   []*deptree.Tree    `json:"trees,omitempty"`
	Doc     *document.Document `json:"-"`
}

// Sentences returns the number of sentences of the document.
func (r *Result) Sentences() int {
	if r.Doc == nil {
		return 0
	}
	return len(r.Doc.Sentences())
}

// Process runs raw parser output through reading, text reconstruction,
// alignment and normalization, and attaches the records to the document
// under the configured layer name.
func Process(lines []string, p Params, log *slog.Logger) (*Result, error) {
	return run(lines, p, log, nil)
}

// ProcessBytes is Process on undecoded file content.
func ProcessBytes(data []byte, p Params, log *slog.Logger) (*Result, error) {
	lines, err := parser.ReadLines(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Process(lines, p, log)
}

// ReadFile processes a parser output file. A zero p.Format is inferred from
// the file extension.
func ReadFile(path string, p Params, log *slog.Logger) (*Result, error) {
	if p.Format == 0 {
		f, err := parser.FormatForFile(path)
		if err != nil {
			return nil, err
		}
		p.Format = f
	}
	lines, err := parser.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Process(lines, p, log)
}

// run is Process with a callback invoked as each stage starts.
func run(lines []string, p Params, log *slog.Logger, onPhase func(JobStatus)) (*Result, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	phase := func(s JobStatus) {
		if onPhase != nil {
			onPhase(s)
		}
	}

	phase(StatusReading)
	r, err := parser.ForFormat(p.Format, log)
	if err != nil {
		return nil, err
	}
	sentences, err := r.Read(lines)
	if err != nil {
		return nil, err
	}
	doc := document.FromSentences(parser.Forms(sentences))

	phase(StatusAligning)
	alignments, err := align.AlignSentences(sentences, doc, p.Options)
	if err != nil {
		return nil, err
	}

	phase(StatusNormalizing)
	records, err := normalize.Normalize(p.Format, alignments, p.Options)
	if err != nil {
		return nil, err
	}
	doc.SetLayer(p.layer(), records)

	res := &Result{
		Format:  p.Format,
		Layer:   p.layer(),
		Text:    doc.Text(),
		Records: records,
		Doc:     doc,
	}
	if p.Trees {
		phase(StatusBuilding)
		trees, err := deptree.Build(doc, records, p.Format.String())
		if err != nil {
			return nil, err
		}
		res.Trees = trees
	}
	log.Debug("document processed",
		"format", p.Format.String(),
		"sentences", len(doc.Sentences()),
		"words", len(records),
	)
	return res, nil
}
