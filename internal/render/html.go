package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/estsyntax/internal/deptree"
)

// TreesHTML writes the trees as nested lists, one top-level item per sentence.
func TreesHTML(w io.Writer, trees []*deptree.Tree) error {
	list := element(atom.Ul, "trees")
	for i, t := range trees {
		item := element(atom.Li, "sentence")
		item.Attr = append(item.Attr, html.Attribute{Key: "data-sentence", Val: strconv.Itoa(i)})
		item.AppendChild(treeList(t))
		list.AppendChild(item)
	}
	if err := html.Render(w, list); err != nil {
		return fmt.Errorf("render trees: %w", err)
	}
	return nil
}

func treeList(t *deptree.Tree) *html.Node {
	ul := element(atom.Ul, "")
	ul.AppendChild(treeItem(t))
	return ul
}

func treeItem(t *deptree.Tree) *html.Node {
	li := element(atom.Li, "word")
	li.Attr = append(li.Attr, html.Attribute{Key: "data-word-id", Val: strconv.Itoa(t.GenWordID)})

	word := element(atom.Span, "form")
	word.AppendChild(&html.Node{Type: html.TextNode, Data: t.Token.Text})
	li.AppendChild(word)

	labels := element(atom.Span, "labels")
	labels.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Join(t.Labels, " ")})
	li.AppendChild(labels)

	if len(t.Children) > 0 {
		ul := element(atom.Ul, "")
		for _, c := range t.Children {
			ul.AppendChild(treeItem(c))
		}
		li.AppendChild(ul)
	}
	return li
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}
