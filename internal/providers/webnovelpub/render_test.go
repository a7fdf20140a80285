package webnovelpub

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/brogergvhs/noveld/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, inner string) string {
	t.Helper()

	f := newFakeSite(t)
	f.on("/novel/n/chapter-1", ok(chapterHTML(inner)))

	var out bytes.Buffer
	err := f.site().Render(context.Background(), providers.Chapter{Title: "Chapter 1", URL: "/novel/n/chapter-1"}, &out)
	require.NoError(t, err)

	return out.String()
}

func TestRender_StrongSpacing(t *testing.T) {
	got := render(t, `<p>Hello <strong>world</strong>!</p>`)
	assert.Equal(t, "## Chapter 1\n\nHello **world** !\n\n", got)
}

func TestRender_Emphasis(t *testing.T) {
	got := render(t, `<p>It was <em>very</em> late.</p>`)
	assert.Equal(t, "## Chapter 1\n\nIt was *very* late.\n\n", got)
}

func TestRender_ParagraphsInOrder(t *testing.T) {
	got := render(t, "<p>First.</p>\n<p>Second.</p>\n<p>Third.</p>")
	assert.Equal(t, "## Chapter 1\n\nFirst.\n\nSecond.\n\nThird.\n\n", got)
}

func TestRender_WhitespaceOnlyTextIsDropped(t *testing.T) {
	got := render(t, "<p> \t\n　</p><p>　<em> </em><strong>　</strong>text　</p>")
	assert.Equal(t, "## Chapter 1\n\n\n\ntext\n\n", got)
}

func TestRender_IgnoresOtherMarkup(t *testing.T) {
	inner := `<div class="ad"><p>advert</p></div>
<p>Kept <img src="x.png"><span>dropped</span><a href="#">link</a> text</p>
<table><tr><td>cell</td></tr></table>
<p><em>outer <strong>nested</strong></em></p>
text at top level`

	got := render(t, inner)
	assert.Equal(t, "## Chapter 1\n\nKepttext\n\n *outer* \n\n", got)
}

func TestRender_UppercaseTags(t *testing.T) {
	got := render(t, `<P>Loud <STRONG>voice</STRONG></P>`)
	assert.Equal(t, "## Chapter 1\n\nLoud **voice** \n\n", got)
}

func TestRender_MissingBodyIsProtocolError(t *testing.T) {
	f := newFakeSite(t)
	f.on("/c/1", ok("<html><body><div id=\"content\"><p>text</p></div></body></html>"))

	var out bytes.Buffer
	err := f.site().Render(context.Background(), providers.Chapter{Title: "One", URL: "/c/1"}, &out)

	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, Protocol, we.Kind)
	assert.False(t, providers.IsRetryable(err))
	assert.Empty(t, out.String(), "nothing is written before the body is located")
}

func TestRender_StatusFailuresAreHttpErrors(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusGone, http.StatusServiceUnavailable} {
		f := newFakeSite(t)
		f.on("/c/1", status(code))

		var out bytes.Buffer
		err := f.site().Render(context.Background(), providers.Chapter{Title: "One", URL: "/c/1"}, &out)

		var we *WriteError
		require.True(t, errors.As(err, &we), "status %d", code)
		assert.Equal(t, Http, we.Kind)
		assert.True(t, providers.IsRetryable(err))
		assert.Contains(t, err.Error(), "/c/1")
		assert.Empty(t, out.String())
	}
}

type failingWriter struct {
	after int
	n     int
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, errDiskFull
	}
	w.n++
	return len(p), nil
}

func TestRender_WriteFailureIsFileError(t *testing.T) {
	for _, after := range []int{0, 1, 2} {
		f := newFakeSite(t)
		f.on("/c/1", ok(chapterHTML(`<p>one <em>two</em></p><p>three</p>`)))

		err := f.site().Render(context.Background(), providers.Chapter{Title: "One", URL: "/c/1"}, &failingWriter{after: after})

		var we *WriteError
		require.True(t, errors.As(err, &we), "after %d writes", after)
		assert.Equal(t, File, we.Kind)
		assert.ErrorIs(t, err, errDiskFull)
	}
}
