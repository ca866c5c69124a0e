package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

// Token is one word recovered from raw parser output.
type Token struct {
	Form  string   // surface form
	Line  int      // index of the line the token was read from
	Lines []string // raw analysis lines describing the token
}

// Sentence is an ordered list of tokens.
type Sentence []Token

// Reader splits raw parser output lines into sentences of tokens.
type Reader interface {
	Read(lines []string) ([]Sentence, error)
}

// SupportedExtensions maps file extensions to the format they contain.
var SupportedExtensions = map[string]syntax.Format{
	".cg3":     syntax.FormatCG3,
	".vislcg3": syntax.FormatCG3,
	".conll":   syntax.FormatCONLL,
	".conllx":  syntax.FormatCONLL,
	".malt":    syntax.FormatCONLL,
}

// ForFormat returns the reader for f. Structural anomalies are reported to log.
func ForFormat(f syntax.Format, log *slog.Logger) (Reader, error) {
	switch f {
	case syntax.FormatCG3:
		return &CG3Reader{Log: log}, nil
	case syntax.FormatCONLL:
		return &CONLLReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", syntax.ErrUnknownFormat, f)
	}
}

// FormatForFile infers the format from a filename extension.
func FormatForFile(filename string) (syntax.Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := SupportedExtensions[ext]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported file extension %q", syntax.ErrUnknownFormat, ext)
	}
	return f, nil
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string, log *slog.Logger) (Reader, error) {
	f, err := FormatForFile(filename)
	if err != nil {
		return nil, err
	}
	return ForFormat(f, log)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, ok := SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Forms returns the surface forms of the sentences.
func Forms(sentences []Sentence) [][]string {
	out := make([][]string, len(sentences))
	for i, s := range sentences {
		forms := make([]string, len(s))
		for j, t := range s {
			forms[j] = t.Form
		}
		out[i] = forms
	}
	return out
}

// Sentences reads lines with the reader for f and returns only the surface forms.
func Sentences(f syntax.Format, lines []string, log *slog.Logger) ([][]string, error) {
	r, err := ForFormat(f, log)
	if err != nil {
		return nil, err
	}
	ss, err := r.Read(lines)
	if err != nil {
		return nil, err
	}
	return Forms(ss), nil
}

func discardIfNil(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
