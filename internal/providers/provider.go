package providers

import (
	"context"
	"errors"
	"io"
)

// Chapter is a discovered chapter before its content is fetched.
// URL is the site-relative path of the chapter page.
type Chapter struct {
	Title string
	URL   string
}

type Novel struct {
	ID    string
	Title string
}

// ChapterIterator is a finite, single-use sequence of chapters in listing order.
type ChapterIterator interface {
	Next(ctx context.Context) (Chapter, bool)
}

type Source interface {
	Open(ctx context.Context, novelID string) (Novel, ChapterIterator, error)
	Render(ctx context.Context, ch Chapter, out io.Writer) error
	NovelURL(novelID string) string
}

// RetryableError is implemented by errors that know whether repeating the
// failed operation can succeed.
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable reports whether any error in err's chain asks to be retried.
func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re) && re.Retryable()
}
