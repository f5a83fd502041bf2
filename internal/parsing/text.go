package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bullet prefixes every <li> line produced by BlockText.
const Bullet = "• "

// paragraph-level elements are surrounded by a blank line, line-level ones by a newline
var blockBreaks = map[atom.Atom]int{
	atom.P:          2,
	atom.H1:         2,
	atom.H2:         2,
	atom.H3:         2,
	atom.H4:         2,
	atom.H5:         2,
	atom.H6:         2,
	atom.Ul:         2,
	atom.Ol:         2,
	atom.Blockquote: 2,
	atom.Pre:        2,
	atom.Table:      2,
	atom.Section:    2,
	atom.Article:    2,
	atom.Div:        1,
	atom.Li:         1,
	atom.Tr:         1,
	atom.Dt:         1,
	atom.Dd:         1,
	atom.Header:     1,
	atom.Footer:     1,
	atom.Main:       1,
	atom.Form:       1,
	atom.Hr:         1,
}

var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

// textWriter accumulates text with pending line breaks so that runs of
// block boundaries collapse into at most one blank line.
type textWriter struct {
	b       strings.Builder
	pending int
	space   bool
	prefix  string
}

func (w *textWriter) brk(n int) {
	if n > w.pending {
		w.pending = n
	}
}

func (w *textWriter) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)

	if w.b.Len() > 0 {
		switch {
		case w.pending > 0:
			w.b.WriteString(strings.Repeat("\n", w.pending))
		case w.space || unicode.IsSpace(first):
			w.b.WriteByte(' ')
		}
	}
	w.pending = 0
	if w.prefix != "" {
		w.b.WriteString(w.prefix)
		w.prefix = ""
	}
	w.b.WriteString(strings.Join(words, " "))
	w.space = unicode.IsSpace(last)
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			w.brk(1)
			return
		}
	}

	breaks := blockBreaks[n.DataAtom]
	w.brk(breaks)
	if n.DataAtom == atom.Li {
		w.prefix = Bullet
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if n.DataAtom == atom.Li {
		w.prefix = ""
	}
	w.brk(breaks)
}

// BlockText renders the text of the selection with block elements on their own lines.
func BlockText(sel *goquery.Selection) string {
	w := &textWriter{}
	for _, n := range sel.Nodes {
		w.walk(n)
		w.brk(1)
	}
	return w.b.String()
}

// InlineText returns the selection text with all whitespace collapsed to single spaces.
func InlineText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// optional returns a pointer to s, or nil when s is blank.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
