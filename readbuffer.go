package csv2tsv

import (
	"errors"
	"io"
)

const defaultChunkSize = 32 * 1024

var errZeroChunkSize = errors.New("chunk capacity must be positive")

// chunkReader yields the contents of an io.Reader as a sequence of byte
// slices of at most the chunk capacity, the last possibly shorter. The chunk
// storage is owned by the reader and overwritten on every call to next, so a
// slice is only valid until the following read. Reads always copy into the
// owned storage, which keeps the state machine's in-place rewrites away from
// caller data and makes in-memory sources restartable by re-wrapping them.
type chunkReader struct {
	r   io.Reader
	buf []byte
}

func newChunkReader(r io.Reader, size int) (*chunkReader, error) {
	if size <= 0 {
		return nil, errZeroChunkSize
	}
	return &chunkReader{r: r, buf: make([]byte, size)}, nil
}

// newChunkReaderBuf is like newChunkReader but reuses caller-supplied
// storage, whose length is the chunk capacity.
func newChunkReaderBuf(r io.Reader, buf []byte) (*chunkReader, error) {
	if len(buf) == 0 {
		return nil, errZeroChunkSize
	}
	return &chunkReader{r: r, buf: buf}, nil
}

// next returns the following chunk. A non-empty chunk may be returned
// together with an error, io.EOF included; the chunk must be consumed before
// the error is acted on.
func (cr *chunkReader) next() ([]byte, error) {
	n, err := cr.r.Read(cr.buf)
	return cr.buf[:n], err
}
