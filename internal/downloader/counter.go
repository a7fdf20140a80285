package downloader

import "io"

// countingWriter forwards writes to dst and reports every chunk written.
type countingWriter struct {
	dst      io.Writer
	progress func(n int64)
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	if n > 0 && w.progress != nil {
		w.progress(int64(n))
	}

	if err == nil && n != len(p) {
		return n, io.ErrShortWrite
	}

	return n, err
}
