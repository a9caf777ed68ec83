package ioutils

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"path"
)

// IsGzip reports whether b starts with the gzip magic bytes.
func IsGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

// OpenMaybeCompressed wraps r, transparently decompressing it when the
// content is gzip (sniffed by magic, not by name).
func OpenMaybeCompressed(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	b, err := br.Peek(2)
	if err == nil && IsGzip(b) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr, nil
	}
	return io.NopCloser(br), nil
}

// ReadAllMaybeCompressed returns the decompressed content of data.
func ReadAllMaybeCompressed(data []byte) ([]byte, error) {
	if !IsGzip(data) {
		return data, nil
	}
	rc, err := OpenMaybeCompressed(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// CreateMaybeCompressed returns a writer over w. If name ends in .gz the
// writer is gzip compressed. Close must be called to flush; it does not
// close w.
func CreateMaybeCompressed(w io.Writer, name string) io.WriteCloser {
	if path.Ext(name) == ".gz" {
		return gzip.NewWriter(w)
	}
	return nopWriteCloser{Writer: w}
}

// CompressFor encodes data the way a file called name is expected to hold it.
func CompressFor(name string, data []byte) ([]byte, error) {
	if path.Ext(name) != ".gz" {
		return data, nil
	}
	var buf bytes.Buffer
	wc := CreateMaybeCompressed(&buf, name)
	if _, err := wc.Write(data); err != nil {
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }
