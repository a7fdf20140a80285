package webnovelpub

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type response struct {
	status int
	body   string
}

// fakeSite serves canned responses by path and records every request path.
type fakeSite struct {
	mu     sync.Mutex
	pages  map[string][]response
	hits   []string
	server *httptest.Server
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()

	f := &fakeSite{pages: map[string][]response{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	return f
}

// on queues responses for a path; the last one repeats once the queue drains.
func (f *fakeSite) on(path string, rs ...response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[path] = append(f.pages[path], rs...)
}

func (f *fakeSite) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits = append(f.hits, r.URL.Path)
	queue, ok := f.pages[r.URL.Path]
	var resp response
	if ok {
		resp = queue[0]
		if len(queue) > 1 {
			f.pages[r.URL.Path] = queue[1:]
		}
	}
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(resp.status)
	_, _ = fmt.Fprint(w, resp.body)
}

func (f *fakeSite) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

func (f *fakeSite) site() *Site {
	return New(Options{BaseURL: f.server.URL, Client: f.server.Client()})
}

func ok(body string) response { return response{status: http.StatusOK, body: body} }

func status(code int) response { return response{status: code} }

func indexPath(id string, page int) string {
	return fmt.Sprintf("/novel/%s/chapters/page-%d", id, page)
}

type stub struct{ title, href string }

// listingHTML renders a listing page in the upstream layout.
func listingHTML(title string, chapters ...stub) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, `<div class="novel-item"><a href="/novel/x" title="%s">%s</a></div>`, title, title)
	b.WriteString(`<ul class="chapter-list">`)
	for _, c := range chapters {
		fmt.Fprintf(&b, "\n<li data-orderno=\"1\"><a href=\"%s\" title=\"%s\"><span>%s</span></a></li>", c.href, c.title, c.title)
	}
	b.WriteString("\n</ul></body></html>")

	return b.String()
}

func chapterHTML(inner string) string {
	return `<html><body><div id="chapter-container">` + inner + `</div></body></html>`
}
