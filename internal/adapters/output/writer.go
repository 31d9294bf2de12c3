// Package output provides adapters for writing application output.
package output

import (
	"fmt"
	"io"
	"os"
)

// Writer writes the located refactoring commit to the configured output
// destination. By default, it writes to stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteCommit writes the commit identifier to the output destination.
// The identifier is written as a single line without any prefix or
// formatting, so external tooling can consume it directly.
func (w *Writer) WriteCommit(commit string) error {
	_, err := fmt.Fprintln(w.out, commit)
	return err
}
