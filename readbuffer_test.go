package csv2tsv

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectChunks(t *testing.T, cr *chunkReader) []string {
	t.Helper()
	var chunks []string
	for {
		chunk, err := cr.next()
		if len(chunk) > 0 {
			chunks = append(chunks, string(chunk))
		}
		if err == io.EOF {
			return chunks
		}
		require.NoError(t, err)
	}
}

func TestChunkReader(t *testing.T) {
	cr, err := newChunkReader(strings.NewReader("hello worlds"), 5)
	require.NoError(t, err)
	require.Equal(t, []string{"hello", " worl", "ds"}, collectChunks(t, cr))
}

func TestChunkReaderCallerStorage(t *testing.T) {
	buf := make([]byte, 4)
	cr, err := newChunkReaderBuf(strings.NewReader("abcdefgh"), buf)
	require.NoError(t, err)

	chunk, err := cr.next()
	require.NoError(t, err)
	require.Equal(t, "abcd", string(chunk))
	// The chunk aliases the supplied storage.
	require.Equal(t, "abcd", string(buf))
}

func TestChunkReaderZeroCapacity(t *testing.T) {
	_, err := newChunkReader(strings.NewReader("x"), 0)
	require.ErrorIs(t, err, errZeroChunkSize)

	_, err = newChunkReaderBuf(strings.NewReader("x"), nil)
	require.ErrorIs(t, err, errZeroChunkSize)
}

func TestChunkReaderRestartableSource(t *testing.T) {
	data := []byte("one,two\n")

	for pass := 0; pass < 2; pass++ {
		cr, err := newChunkReader(bytes.NewReader(data), 3)
		require.NoError(t, err)
		require.Equal(t, []string{"one", ",tw", "o\n"}, collectChunks(t, cr), "pass %d", pass)
	}
	// The backing array is untouched; chunks are copies.
	require.Equal(t, "one,two\n", string(data))
}

func TestChunkReaderEmptySource(t *testing.T) {
	cr, err := newChunkReader(strings.NewReader(""), 8)
	require.NoError(t, err)
	require.Empty(t, collectChunks(t, cr))
}
