package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressHandle_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManager(&buf)

	stats := &Stats{}
	h := pm.Register("Novel", stats)

	h.SetCurrent("Chapter 1")
	stats.TotalChapters.Add(1)
	stats.TotalBytes.Add(2048)
	h.Increment()

	h.MarkDone()
	h.MarkDone()
	h.Increment()
	pm.Close()

	assert.True(t, h.final.Load())
	assert.EqualValues(t, 1, h.bar.Current())
}

func TestProgressHandle_NilIsNoop(t *testing.T) {
	var h *ProgressHandle

	assert.NotPanics(t, func() {
		h.SetCurrent("x")
		h.Increment()
		h.MarkDone()
	})
}
