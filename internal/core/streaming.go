package core

// streaming.go wraps uploaded files so the CSV reader never sees a byte-order
// mark or invalid UTF-8, without loading the file into memory.
//
//   - the UTF-8 BOM decoder strips a leading BOM and replaces invalid
//     sequences with U+FFFD;
//   - CountingReader tracks raw bytes and enforces the size limit.

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountingReader counts the bytes read from the underlying reader and fails
// with ErrFileTooLarge once more than Limit bytes have been read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64 // 0 means unlimited
}

// NewCountingReader creates a counting reader with an optional size limit.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, r.Limit)
	}
	return n, err
}

// NewSanitizingReader strips a UTF-8 BOM and replaces invalid UTF-8.
func NewSanitizingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}

// WrapForStreaming applies the size limit to the raw bytes, then sanitizes.
// The returned CountingReader reports raw bytes consumed.
func WrapForStreaming(r io.Reader, maxSize int64) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r, maxSize)
	return NewSanitizingReader(counter), counter
}
