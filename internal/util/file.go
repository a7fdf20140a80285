package util

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Output is a buffered Markdown file being written.
type Output struct {
	*bufio.Writer
	Path string
	f    *os.File
}

func CreateOutput(dir, name string) (*Output, error) {
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file to store content: %w", err)
	}

	return &Output{Writer: bufio.NewWriter(f), Path: path, f: f}, nil
}

// Close flushes buffered text and closes the file. The flush error wins.
func (o *Output) Close() error {
	err := o.Flush()
	if cerr := o.f.Close(); cerr != nil {
		if err == nil {
			err = cerr
		} else {
			log.Printf("error closing output file %s: %v", o.Path, cerr)
		}
	}

	return err
}
