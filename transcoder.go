// Package csv2tsv converts CSV-escaped tabular text into escape-free TSV
// text. The converter streams: it reads fixed-size chunks, runs a byte
// state machine over them, and writes through a buffered sink, so memory
// stays bounded by the chunk and sink buffer sizes regardless of input size.
//
// The converter is deliberately permissive. It resolves CSV quoting and
// newline ambiguity (escaped quotes, embedded delimiters, CR/LF/CRLF) but
// does not validate CSV well-formedness beyond what is needed to stay in a
// consistent state. The only fatal input condition is an improperly
// terminated quoted field.
package csv2tsv

import (
	"bufio"
	"errors"
	"fmt"
)

// ErrUnterminatedQuote is returned when a quoted field is not closed before
// the end of input, or when an illegal byte follows a closing quote.
var ErrUnterminatedQuote = errors.New("invalid CSV: improperly terminated quoted field")

// ParseError carries the input name and 1-based record number of a
// structural CSV error.
type ParseError struct {
	Source string
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: record %d: %v", e.Source, e.Record, e.Err)
}

// Unwrap returns the underlying error so ParseError participates in errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// state tracks the position of the previously consumed bytes relative to
// CSV quoting, which influences how the next byte is handled. The two CR
// states exist to collapse CRLF into a single terminator without lookahead.
type state int

const (
	stateFieldEnd state = iota // start of stream, or just past a field or record terminator
	stateNonQuotedField
	stateQuotedField
	stateQuoteInQuotedField // quote seen inside a quoted field: escape pair or closing quote
	stateCRAtFieldEnd       // CR terminator seen, a following LF must be absorbed
	stateCRInQuotedField    // CR seen inside a quoted field, a following LF must be absorbed
)

// Transcoder converts one CSV byte stream at a time to TSV. The zero value
// is not usable; use NewTranscoder. Parser state and counters persist across
// Feed calls and are re-initialized per input by Reset.
type Transcoder struct {
	quote    byte
	csvDelim byte
	tsvDelim byte

	delimReplace   string // replaces a literal TSV delimiter found in field data
	newlineReplace string // replaces CR/LF/CRLF found inside quoted fields

	header    bool
	chunkSize int

	src       string
	skipLines int

	state     state
	recordNum int // 1-based, the record currently being read
	fieldNum  int // fields started in the current record, 0 at record start
}

// NewTranscoder returns a Transcoder with the default configuration (quote
// '"', CSV delimiter ',', TSV delimiter TAB, single-space replacements),
// modified by opts.
func NewTranscoder(opts ...Option) *Transcoder {
	t := &Transcoder{
		quote:          '"',
		csvDelim:       ',',
		tsvDelim:       '\t',
		delimReplace:   " ",
		newlineReplace: " ",
		chunkSize:      defaultChunkSize,
		src:            "input",
	}
	t.Reset(t.src, 0)

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Reset discards parser state and counters, names the input src for error
// messages, and suppresses the first skipLines records from output. It must
// be called between inputs; Run does so per file.
func (t *Transcoder) Reset(src string, skipLines int) {
	t.src = src
	t.skipLines = skipLines
	t.state = stateFieldEnd
	t.recordNum = 1
	t.fieldNum = 0
}

// suppressed reports whether the record currently being read falls under the
// skip-lines threshold; while true, nothing reaches the sink.
func (t *Transcoder) suppressed() bool {
	return t.recordNum <= t.skipLines
}

func (t *Transcoder) flush(out *bufio.Writer, region []byte) error {
	if len(region) == 0 || t.suppressed() {
		return nil
	}
	_, err := out.Write(region)
	return err
}

func (t *Transcoder) emit(out *bufio.Writer, literal string) error {
	if len(literal) == 0 || t.suppressed() {
		return nil
	}
	_, err := out.WriteString(literal)
	return err
}

// replace handles a byte at chunk[idx] that must become repl in the output.
// A single-byte replacement is rewritten in place and the write region keeps
// growing; any other length flushes the pending region, emits the literal,
// and restarts the region past the byte. Returns the new region start.
func (t *Transcoder) replace(out *bufio.Writer, chunk []byte, start, idx int, repl string) (int, error) {
	if len(repl) == 1 {
		chunk[idx] = repl[0]
		return start, nil
	}
	if err := t.flush(out, chunk[start:idx]); err != nil {
		return start, err
	}
	if err := t.emit(out, repl); err != nil {
		return start, err
	}
	return idx + 1, nil
}

// endRecord handles a record terminator. chunk[idx] already holds LF (CR
// terminators are rewritten before the call), so the region is flushed
// through it unless the record is suppressed. Returns the new region start.
func (t *Transcoder) endRecord(out *bufio.Writer, chunk []byte, start, idx int) (int, error) {
	if !t.suppressed() {
		if _, err := out.Write(chunk[start : idx+1]); err != nil {
			return start, err
		}
	}
	t.recordNum++
	t.fieldNum = 0
	return idx + 1, nil
}

func (t *Transcoder) structuralError() error {
	return &ParseError{Source: t.src, Record: t.recordNum, Err: ErrUnterminatedQuote}
}

// Feed runs the state machine over one chunk, writing converted output to
// out. The chunk is mutated in place (delimiter and CR rewrites) and must
// not be reused by the caller until the next read overwrites it. Bytes other
// than the configured quote, delimiters, CR and LF pass through untouched as
// opaque data.
func (t *Transcoder) Feed(chunk []byte, out *bufio.Writer) error {
	start := 0 // write region is chunk[start:i], not yet flushed
	var err error

	for i := 0; i < len(chunk); i++ {
		c := chunk[i]

	dispatch:
		switch t.state {
		case stateFieldEnd:
			t.fieldNum++
			if c == t.quote {
				// Opening quote is dropped from output.
				if err = t.flush(out, chunk[start:i]); err != nil {
					return err
				}
				start = i + 1
				t.state = stateQuotedField
			} else {
				// Not a quoted field; handle this same byte as field data.
				t.state = stateNonQuotedField
				goto dispatch
			}

		case stateNonQuotedField:
			switch c {
			case t.csvDelim:
				chunk[i] = t.tsvDelim
				t.state = stateFieldEnd
			case t.tsvDelim:
				if start, err = t.replace(out, chunk, start, i, t.delimReplace); err != nil {
					return err
				}
			case '\n':
				if start, err = t.endRecord(out, chunk, start, i); err != nil {
					return err
				}
				t.state = stateFieldEnd
			case '\r':
				chunk[i] = '\n'
				if start, err = t.endRecord(out, chunk, start, i); err != nil {
					return err
				}
				t.state = stateCRAtFieldEnd
			}

		case stateQuotedField:
			switch c {
			case t.quote:
				// Either an escape pair or the closing quote; the quote
				// itself is dropped either way.
				if err = t.flush(out, chunk[start:i]); err != nil {
					return err
				}
				start = i + 1
				t.state = stateQuoteInQuotedField
			case t.tsvDelim:
				if start, err = t.replace(out, chunk, start, i, t.delimReplace); err != nil {
					return err
				}
			case '\n':
				if start, err = t.replace(out, chunk, start, i, t.newlineReplace); err != nil {
					return err
				}
			case '\r':
				if start, err = t.replace(out, chunk, start, i, t.newlineReplace); err != nil {
					return err
				}
				t.state = stateCRInQuotedField
			}

		case stateQuoteInQuotedField:
			switch c {
			case t.quote:
				// Escaped pair; this second quote stays in the region and
				// becomes the one literal quote in the output.
				t.state = stateQuotedField
			case t.csvDelim:
				chunk[i] = t.tsvDelim
				t.state = stateFieldEnd
			case '\n':
				if start, err = t.endRecord(out, chunk, start, i); err != nil {
					return err
				}
				t.state = stateFieldEnd
			case '\r':
				chunk[i] = '\n'
				if start, err = t.endRecord(out, chunk, start, i); err != nil {
					return err
				}
				t.state = stateCRAtFieldEnd
			default:
				return t.structuralError()
			}

		case stateCRAtFieldEnd:
			if c == '\n' {
				// Second half of a CRLF terminator; drop it.
				if err = t.flush(out, chunk[start:i]); err != nil {
					return err
				}
				start = i + 1
				t.state = stateFieldEnd
			} else {
				// Naked CR; the terminator was already emitted.
				t.state = stateFieldEnd
				goto dispatch
			}

		case stateCRInQuotedField:
			if c == '\n' {
				// CRLF inside a quoted field maps to one replacement; the
				// replacement was emitted for the CR, drop the LF.
				if err = t.flush(out, chunk[start:i]); err != nil {
					return err
				}
				start = i + 1
				t.state = stateQuotedField
			} else {
				t.state = stateQuotedField
				goto dispatch
			}
		}
	}

	return t.flush(out, chunk[start:])
}

// Finish completes a transcoding pass after the last chunk. Ending inside a
// quoted field is the structural error; otherwise a final record missing its
// terminator gets one trailing LF.
func (t *Transcoder) Finish(out *bufio.Writer) error {
	if t.state == stateQuotedField {
		return t.structuralError()
	}
	if t.fieldNum > 0 && !t.suppressed() {
		return out.WriteByte('\n')
	}
	return nil
}
