package webnovelpub

import (
	"context"
	"iter"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/noveld/internal/providers"
)

const (
	selNovelInfo   = ".novel-item"
	selChapterList = ".chapter-list"
)

// ChapterList walks a novel's paginated listing lazily, one page at a time.
// It is single use: once Next reports false a new Open is needed.
type ChapterList struct {
	site    *Site
	novelID string

	page    *IndexPage
	entries *goquery.Selection
	cursor  int
	done    bool
}

// Open fetches page 1 of the listing, reads the novel title and positions the
// returned list before the first chapter entry.
func (s *Site) Open(ctx context.Context, novelID string) (providers.Novel, providers.ChapterIterator, error) {
	novel, list, err := s.OpenList(ctx, novelID)
	if err != nil {
		return providers.Novel{}, nil, err
	}

	return novel, list, nil
}

func (s *Site) OpenList(ctx context.Context, novelID string) (providers.Novel, *ChapterList, error) {
	page, err := s.FetchIndexPage(ctx, novelID, 1)
	if err != nil {
		return providers.Novel{}, nil, &InitError{Kind: PageUnavailable, Err: err}
	}
	if page == nil {
		return providers.Novel{}, nil, &InitError{Kind: PageUnavailable}
	}

	title, err := novelTitle(page.Doc)
	if err != nil {
		return providers.Novel{}, nil, err
	}

	entries, ok := chapterEntries(page.Doc)
	if !ok {
		return providers.Novel{}, nil, &InitError{Kind: ChapterListContainerMissing}
	}

	list := &ChapterList{
		site:    s,
		novelID: novelID,
		page:    page,
		entries: entries,
	}

	return providers.Novel{ID: novelID, Title: title}, list, nil
}

func novelTitle(doc *goquery.Document) (string, error) {
	container := doc.Find(selNovelInfo).First()
	if container.Length() == 0 {
		return "", &InitError{Kind: TitleContainerMissing}
	}

	anchor := container.Find("a").First()
	if anchor.Length() == 0 {
		return "", &InitError{Kind: TitleAnchorMissing}
	}

	title, ok := anchor.Attr("title")
	if !ok {
		return "", &InitError{Kind: TitleAttributeMissing}
	}

	return title, nil
}

func chapterEntries(doc *goquery.Document) (*goquery.Selection, bool) {
	container := doc.Find(selChapterList).First()
	if container.Length() == 0 {
		return nil, false
	}

	return container.Children(), true
}

// Page returns the number of the listing page currently being walked.
func (l *ChapterList) Page() int {
	return l.page.Number
}

// Next returns the next chapter in listing order. Pages after the first are
// fetched on demand; a failure to fetch or parse one ends the sequence.
//
// TODO: a transient failure past page 1 is indistinguishable from the real
// end of the listing; surface it to the caller instead of stopping quietly.
func (l *ChapterList) Next(ctx context.Context) (providers.Chapter, bool) {
	for !l.done {
		for l.cursor < l.entries.Length() {
			entry := l.entries.Eq(l.cursor)
			l.cursor++

			link := entry.Children().First()
			if link.Length() == 0 {
				continue
			}

			title, ok := link.Attr("title")
			if !ok || title == "" {
				l.site.log.Errorf("Chapter link on page %d is missing title\n", l.page.Number)
				l.done = true
				return providers.Chapter{}, false
			}

			href, ok := link.Attr("href")
			if !ok || href == "" {
				l.site.log.Errorf("Chapter %q link is missing href\n", title)
				l.done = true
				return providers.Chapter{}, false
			}

			return providers.Chapter{Title: title, URL: href}, true
		}

		l.advance(ctx)
	}

	return providers.Chapter{}, false
}

func (l *ChapterList) advance(ctx context.Context) {
	number := l.page.Number + 1

	page, err := l.site.FetchIndexPage(ctx, l.novelID, number)
	if err != nil {
		l.site.log.Errorf("Unable to fetch chapter index page %d: %v\n", number, err)
		l.done = true
		return
	}
	if page == nil {
		l.site.log.Debugf("Chapter index page %d not found, listing finished\n", number)
		l.done = true
		return
	}

	entries, ok := chapterEntries(page.Doc)
	if !ok {
		l.site.log.Errorf("Unable to find chapter list container %q on page %d\n", selChapterList, number)
		l.done = true
		return
	}

	l.page = page
	l.entries = entries
	l.cursor = 0
}

// All adapts Next to a range-over-func sequence.
func (l *ChapterList) All(ctx context.Context) iter.Seq[providers.Chapter] {
	return func(yield func(providers.Chapter) bool) {
		for {
			ch, ok := l.Next(ctx)
			if !ok || !yield(ch) {
				return
			}
		}
	}
}
