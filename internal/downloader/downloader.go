package downloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/brogergvhs/noveld/internal/chapters"
	"github.com/brogergvhs/noveld/internal/providers"
	"github.com/brogergvhs/noveld/internal/ui"
)

const DefaultRetryDelay = 2 * time.Second

type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

type Options struct {
	Source     providers.Source
	Log        Logger
	RetryDelay time.Duration
	Selection  *chapters.Selection
	Stats      *ui.Stats
	Progress   *ui.ProgressHandle
}

// Downloader writes a novel chapter by chapter, retrying transient failures
// of the same chapter forever with a fixed delay.
type Downloader struct {
	src        providers.Source
	log        Logger
	retryDelay time.Duration
	selection  *chapters.Selection
	stats      *ui.Stats
	progress   *ui.ProgressHandle

	sleep func(ctx context.Context, d time.Duration) error
}

func New(opts Options) *Downloader {
	d := &Downloader{
		src:        opts.Source,
		log:        opts.Log,
		retryDelay: opts.RetryDelay,
		selection:  opts.Selection,
		stats:      opts.Stats,
		progress:   opts.Progress,
		sleep:      sleepContext,
	}

	if d.retryDelay < 0 {
		d.retryDelay = DefaultRetryDelay
	}
	if d.log == nil {
		d.log = nopLogger{}
	}
	if d.stats == nil {
		d.stats = &ui.Stats{}
	}

	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Downloader) Stats() *ui.Stats {
	return d.stats
}

// WriteHeader writes the document title and the link back to the novel page.
func (d *Downloader) WriteHeader(out io.Writer, novel providers.Novel) error {
	if _, err := fmt.Fprintf(out, "# %s\n\nOriginal: %s\n\n", novel.Title, d.src.NovelURL(novel.ID)); err != nil {
		return fmt.Errorf("unable to write file: %w", err)
	}
	return nil
}

// Download renders every selected chapter from list into out, in listing
// order. It returns the first unrecoverable error; a cancelled ctx stops the
// run between attempts.
func (d *Downloader) Download(ctx context.Context, novel providers.Novel, list providers.ChapterIterator, out io.Writer) error {
	if err := d.WriteHeader(out, novel); err != nil {
		return err
	}

	sink := &countingWriter{
		dst: out,
		progress: func(n int64) {
			d.stats.TotalBytes.Add(n)
		},
	}

	for idx := 1; ; idx++ {
		if d.selection.Past(idx) {
			return nil
		}

		ch, ok := list.Next(ctx)
		if !ok {
			return nil
		}

		if !d.selection.Contains(idx) {
			d.stats.TotalSkipped.Add(1)
			continue
		}

		if err := d.downloadChapter(ctx, ch, sink); err != nil {
			return err
		}
	}
}

type attemptState int

const (
	stateAttempting attemptState = iota
	stateDone
	stateAborted
)

// downloadChapter drives one chapter through
// attempting -> done | attempting (after delay) | aborted.
func (d *Downloader) downloadChapter(ctx context.Context, ch providers.Chapter, out io.Writer) error {
	d.progress.SetCurrent(ch.Title)

	var err error
	state := stateAttempting
	for attempt := 1; state == stateAttempting; attempt++ {
		d.log.Infof(">>> %s: downloading (attempt %d)\n", ch.Title, attempt)

		err = d.src.Render(ctx, ch, out)
		switch {
		case err == nil:
			state = stateDone
		case providers.IsRetryable(err):
			d.log.Errorf("%s: %v\n", ch.Title, err)
			d.log.Infof("Retry in %s...\n", d.retryDelay)
			d.stats.TotalRetries.Add(1)

			if serr := d.sleep(ctx, d.retryDelay); serr != nil {
				err = serr
				state = stateAborted
			}
		default:
			d.log.Errorf("%s: %v\n", ch.Title, err)
			state = stateAborted
		}
	}

	if state == stateAborted {
		return fmt.Errorf("chapter %q: %w", ch.Title, err)
	}

	d.log.Infof(">>> %s: OK\n", ch.Title)
	d.stats.TotalChapters.Add(1)
	d.progress.Increment()

	return nil
}
