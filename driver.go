package csv2tsv

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

const sinkBufferSize = 64 * 1024

// Run transcodes each named file in order, writing the combined TSV output
// to dst. An empty path list or the path "-" reads standard input. With
// header handling enabled the first record of every file after the first is
// dropped, so a shared header line appears exactly once. Record and field
// counters restart per file, and error messages carry the failing file's
// name. The first error stops the run; output already flushed stays as-is.
func (t *Transcoder) Run(dst io.Writer, paths []string) (err error) {
	if t.chunkSize <= 0 {
		return errZeroChunkSize
	}

	out := bufio.NewWriterSize(dst, sinkBufferSize)
	defer func() {
		if ferr := out.Flush(); err == nil {
			err = ferr
		}
	}()

	if len(paths) == 0 {
		paths = []string{"-"}
	}

	// One chunk for the whole run, reused across files.
	buf := make([]byte, t.chunkSize)

	for i, path := range paths {
		skipLines := 0
		if t.header && i > 0 {
			skipLines = 1
		}
		if err := t.runFile(out, buf, path, skipLines); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transcoder) runFile(out *bufio.Writer, buf []byte, path string, skipLines int) error {
	if path == "-" {
		cr, err := newChunkReaderBuf(os.Stdin, buf)
		if err != nil {
			return err
		}
		return t.transcodeStream(out, cr, "stdin", skipLines)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr, err := newChunkReaderBuf(f, buf)
	if err != nil {
		return err
	}
	return t.transcodeStream(out, cr, path, skipLines)
}

// TranscodeReader transcodes a single stream to dst. name appears in error
// messages in place of a file name.
func (t *Transcoder) TranscodeReader(dst io.Writer, r io.Reader, name string) (err error) {
	out := bufio.NewWriterSize(dst, sinkBufferSize)
	defer func() {
		if ferr := out.Flush(); err == nil {
			err = ferr
		}
	}()

	cr, err := newChunkReader(r, t.chunkSize)
	if err != nil {
		return err
	}
	return t.transcodeStream(out, cr, name, 0)
}

// Transcode converts an in-memory CSV document to TSV in a single call.
// This is the one-shot companion to Run for callers that already hold the
// whole input; memory still stays bounded because src is consumed through
// the same chunked path.
func Transcode(dst io.Writer, src []byte, opts ...Option) error {
	t := NewTranscoder(opts...)
	return t.TranscodeReader(dst, bytes.NewReader(src), t.src)
}

func (t *Transcoder) transcodeStream(out *bufio.Writer, cr *chunkReader, name string, skipLines int) error {
	t.Reset(name, skipLines)

	for {
		chunk, err := cr.next()
		if len(chunk) > 0 {
			if ferr := t.Feed(chunk, out); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return t.Finish(out)
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
	}
}
