package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/estsyntax/internal/deptree"
	"github.com/dgallion1/estsyntax/internal/document"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

func sampleTrees(t *testing.T) []*deptree.Tree {
	t.Helper()
	entries := []deptree.Entry{
		{Token: document.Token{Text: "Kass"}, WordID: 0, GenWordID: 0, Edges: []syntax.Edge{{Label: "@SUBJ", Head: 1}}},
		{Token: document.Token{Text: "<magab>"}, WordID: 1, GenWordID: 1, Edges: []syntax.Edge{{Label: "ROOT", Head: -1}}},
	}
	root, err := deptree.BuildSentence(entries, "maltparser")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return []*deptree.Tree{root}
}

var sampleRecords = []syntax.Record{
	{SentID: 0, ParserOut: []syntax.Edge{{Label: "@SUBJ", Head: 1}, {Label: "@OBJ", Head: 1}}},
	{SentID: 0, ParserOut: []syntax.Edge{{Label: "ROOT", Head: -1}}},
	{SentID: 1, ParserOut: []syntax.Edge{{Label: "xxx", Head: -1}}},
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords)
	if s.Sentences != 2 || s.Words != 3 || s.Ambiguous != 1 || s.Dummies != 1 || s.Roots != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Labels["@SUBJ"] != 1 || s.Labels["ROOT"] != 1 {
		t.Errorf("unexpected label counts %v", s.Labels)
	}
}

func TestSortedLabels(t *testing.T) {
	got := sortedLabels(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestReport_Markdown(t *testing.T) {
	md := Report(Input{Title: "Kass", Format: syntax.FormatCONLL, Records: sampleRecords, Trees: sampleTrees(t)})
	for _, want := range []string{"# Kass", "- Format: conll", "- Ambiguous words: 1", "| @SUBJ | 1 |", "(<magab> Kass)"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestReport_TextWithoutTrees(t *testing.T) {
	doc := document.FromSentences([][]string{{"Tere", "!"}})
	md := Report(Input{Format: syntax.FormatCG3, Doc: doc})
	if !strings.Contains(md, "# Syntax layer") || !strings.Contains(md, "Tere  !") {
		t.Errorf("unexpected report:\n%s", md)
	}
}

func TestReportHTML(t *testing.T) {
	out, err := ReportHTML(Input{Title: "Kass", Format: syntax.FormatCONLL, Records: sampleRecords})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1>Kass</h1>") || !strings.Contains(html, "<table>") {
		t.Errorf("unexpected HTML:\n%s", html)
	}
}

func TestBracketed(t *testing.T) {
	if got := Bracketed(sampleTrees(t)); got != "(<magab> Kass)\n" {
		t.Errorf("unexpected bracketed output %q", got)
	}
}

func TestTreesHTML_EscapesAndNests(t *testing.T) {
	var b strings.Builder
	if err := TreesHTML(&b, sampleTrees(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		`<ul class="trees">`,
		`<span class="form">&lt;magab&gt;</span>`,
		`<span class="labels">@SUBJ</span>`,
		`data-word-id="0"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "magab") > strings.Index(out, "Kass") {
		t.Error("expected root before its dependent")
	}
}
