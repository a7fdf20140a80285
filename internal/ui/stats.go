package ui

import "sync/atomic"

type Stats struct {
	TotalChapters atomic.Int64
	TotalSkipped  atomic.Int64
	TotalRetries  atomic.Int64
	TotalBytes    atomic.Int64
}
