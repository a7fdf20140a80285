package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/noveld/internal/util"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type MPBProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager(out io.Writer) *MPBProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &MPBProgressManager{p: p}
}

// Writer prints lines above the running bars.
func (pm *MPBProgressManager) Writer() io.Writer {
	return pm.p
}

func (pm *MPBProgressManager) Close() {
	pm.p.Wait()
}

// Register adds a spinner that reports the counters in stats. The number of
// chapters is not known up front, so the bar has no total until MarkDone.
func (pm *MPBProgressManager) Register(prefix string, stats *Stats) *ProgressHandle {
	h := &ProgressHandle{
		pm:     pm,
		prefix: prefix,
		stats:  stats,
	}
	h.current.Store("")
	h.initBar()
	return h
}

type ProgressHandle struct {
	pm     *MPBProgressManager
	prefix string
	stats  *Stats
	bar    *mpb.Bar

	current atomic.Value
	start   time.Time
	elapsed atomic.Int64

	final atomic.Bool
}

func (h *ProgressHandle) initBar() {
	h.start = time.Now()

	h.bar = h.pm.p.New(
		0,
		mpb.SpinnerStyle(),

		mpb.PrependDecorators(
			decor.Name(h.prefix+"  "),
		),

		mpb.AppendDecorators(
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" %d chapters", h.stats.TotalChapters.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + util.Human(h.stats.TotalBytes.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				if n := h.stats.TotalRetries.Load(); n > 0 {
					return fmt.Sprintf(" | %d retries", n)
				}
				return ""
			}),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %ds", h.elapsed.Load())
				}
				return fmt.Sprintf(" | %ds | %s", int(time.Since(h.start).Seconds()), h.current.Load())
			}),
		),
	)
}

// SetCurrent names the chapter being downloaded.
func (h *ProgressHandle) SetCurrent(title string) {
	if h == nil || h.final.Load() {
		return
	}
	h.current.Store(title)
}

func (h *ProgressHandle) Increment() {
	if h == nil || h.final.Load() {
		return
	}
	h.bar.Increment()
}

func (h *ProgressHandle) MarkDone() {
	if h == nil || h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.bar.SetTotal(-1, true)
}
