package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

func TestFormatForFile(t *testing.T) {
	cases := map[string]syntax.Format{
		"out.cg3":         syntax.FormatCG3,
		"korpus.VISLCG3":  syntax.FormatCG3,
		"malt_out.conll":  syntax.FormatCONLL,
		"train.conllx":    syntax.FormatCONLL,
		"dir/parsed.malt": syntax.FormatCONLL,
	}
	for name, want := range cases {
		got, err := FormatForFile(name)
		if err != nil {
			t.Fatalf("FormatForFile(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("FormatForFile(%q): expected %v, got %v", name, want, got)
		}
	}
	if _, err := FormatForFile("notes.txt"); !errors.Is(err, syntax.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for .txt, got %v", err)
	}
	if IsSupportedExtension("notes.txt") || !IsSupportedExtension("a.cg3") {
		t.Error("unexpected IsSupportedExtension result")
	}
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat(syntax.FormatCONLL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*CONLLReader); !ok {
		t.Errorf("expected *CONLLReader, got %T", r)
	}
	if _, err := ForFormat(syntax.Format(42), nil); !errors.Is(err, syntax.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSentences_CG3(t *testing.T) {
	got, err := Sentences(syntax.FormatCG3, cg3Sample, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 4 {
		t.Errorf("unexpected sentences %q", got)
	}
}

func TestReadLines_StripsBOMAndTerminators(t *testing.T) {
	input := "\ufeff1\tA\n\r\nlast\r\n"
	lines, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1\tA", "", "last"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %q, got %q", want, lines)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.conll")
	content := strings.Join(conllSample, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	lines, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lines, conllSample) {
		t.Errorf("expected %q, got %q", conllSample, lines)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.cg3")); err == nil {
		t.Error("expected error for missing file")
	}
}
