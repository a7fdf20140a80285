package webnovelpub

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/brogergvhs/noveld/internal/providers"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	selChapterBody = "#chapter-container"

	// ASCII blanks plus the ideographic (full-width) space.
	trimSet = " \t\n\u3000"
)

// Render fetches one chapter page and writes it to out as a level-2 Markdown
// section. Only <p> children of the body container are rendered; inside them
// plain text, <em> and <strong> are kept and every other element is dropped.
func (s *Site) Render(ctx context.Context, ch providers.Chapter, out io.Writer) error {
	doc, err := s.fetchDOM(ctx, s.chapterURL(ch.URL))
	if err != nil {
		return &WriteError{Kind: Http, Msg: fmt.Sprintf("%s: %v", ch.URL, err), Err: err}
	}

	body := doc.Find(selChapterBody).First()
	if body.Length() == 0 {
		return &WriteError{Kind: Protocol, Msg: fmt.Sprintf("%s: unable to find body %s", ch.URL, selChapterBody)}
	}

	w := &chapterWriter{out: out}
	w.printf("## %s\n\n", ch.Title)

	for _, n := range body.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.P {
				w.paragraph(c)
			}
		}
	}

	if w.err != nil {
		return &WriteError{Kind: File, Err: w.err}
	}

	return nil
}

// chapterWriter keeps the first write error and turns later writes into no-ops.
type chapterWriter struct {
	out io.Writer
	err error
}

func (w *chapterWriter) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

func (w *chapterWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}

func (w *chapterWriter) paragraph(p *html.Node) {
	for c := p.FirstChild; c != nil && w.err == nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if text := strings.Trim(c.Data, trimSet); text != "" {
				w.write(text)
			}
		case c.Type == html.ElementNode && c.DataAtom == atom.Em:
			w.wrapped(c, "*")
		case c.Type == html.ElementNode && c.DataAtom == atom.Strong:
			w.wrapped(c, "**")
		}
	}

	w.write("\n\n")
}

// wrapped writes each direct text child of n as " <mark>text<mark> ".
func (w *chapterWriter) wrapped(n *html.Node, mark string) {
	for c := n.FirstChild; c != nil && w.err == nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if text := strings.Trim(c.Data, trimSet); text != "" {
			w.write(" " + mark + text + mark + " ")
		}
	}
}
