package webnovelpub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const DefaultBaseURL = "https://www.webnovelpub.com"

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

type Options struct {
	BaseURL string
	Client  *http.Client
	Log     Logger
}

// Site talks to one webnovelpub-style host. It holds no per-novel state and
// can open any number of chapter lists sequentially.
type Site struct {
	base   string
	client *http.Client
	log    Logger
}

func New(opts Options) *Site {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	var log Logger = nopLogger{}
	if opts.Log != nil {
		log = opts.Log
	}

	return &Site{base: base, client: client, log: log}
}

// IndexPage is one parsed page of a novel's chapter listing.
type IndexPage struct {
	Number int
	Doc    *goquery.Document
}

func (s *Site) indexURL(novelID string, page int) string {
	return fmt.Sprintf("%s/novel/%s/chapters/page-%d", s.base, url.PathEscape(novelID), page)
}

func (s *Site) NovelURL(novelID string) string {
	return fmt.Sprintf("%s/novel/%s", s.base, url.PathEscape(novelID))
}

func (s *Site) chapterURL(rel string) string {
	if u, err := url.Parse(rel); err == nil && u.IsAbs() {
		return rel
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}

	return s.base + rel
}

// FetchIndexPage fetches one page of the chapter listing. A 404 is the end of
// pagination and yields a nil page with a nil error.
func (s *Site) FetchIndexPage(ctx context.Context, novelID string, page int) (*IndexPage, error) {
	target := s.indexURL(novelID, page)
	s.log.Infof("Next chapter index: %s\n", target)

	doc, err := s.fetchDOM(ctx, target)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.Kind == UnexpectedStatus && fe.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &IndexPage{Number: page, Doc: doc}, nil
}

func (s *Site) fetchDOM(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Kind: Unreachable, URL: target, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: Unreachable, URL: target, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: UnexpectedStatus, URL: target, Status: resp.StatusCode}
	}

	body, err := readText(resp)
	if err != nil {
		return nil, &FetchError{Kind: InvalidBody, URL: target, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Kind: InvalidBody, URL: target, Err: err}
	}

	return doc, nil
}

// readText returns the body as UTF-8. The site serves UTF-8, so anything
// without a declared charset must already be valid UTF-8; a body declaring
// another charset in Content-Type is transcoded.
func readText(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	name := "utf-8"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && params["charset"] != "" {
		enc, canonical := charset.Lookup(params["charset"])
		if enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", params["charset"])
		}
		if canonical != "utf-8" {
			if raw, err = enc.NewDecoder().Bytes(raw); err != nil {
				return nil, fmt.Errorf("decode %s: %w", canonical, err)
			}
		}
		name = canonical
	}

	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("body is not valid %s text", name)
	}

	return raw, nil
}
