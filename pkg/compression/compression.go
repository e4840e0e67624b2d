package compression

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
)

// ErrCorruptData is returned when the input is not a valid gzip stream.
var ErrCorruptData = errors.New("corrupt compressed data")

var magic = []byte{0x1f, 0x8b}

// Compress wraps data in a single gzip member.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "fail to write gzip stream")
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "fail to close gzip stream")
	}

	return buf.Bytes(), nil
}

// Decompress fully inflates a gzip stream into memory.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "fail to open gzip stream: %s", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "fail to inflate gzip stream: %s", err)
	}

	return out, nil
}

// IsCompressed reports whether data starts with the gzip magic number. It is a
// sniffing heuristic and says nothing about the rest of the stream.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}
