package csv2tsv

import (
	"fmt"
	"strings"
)

// Option configures a Transcoder.
type Option func(t *Transcoder)

// WithQuote sets the CSV quote byte. Default '"'.
func WithQuote(b byte) Option {
	return func(t *Transcoder) {
		t.quote = b
	}
}

// WithCSVDelimiter sets the input field delimiter byte. Default ','.
func WithCSVDelimiter(b byte) Option {
	return func(t *Transcoder) {
		t.csvDelim = b
	}
}

// WithTSVDelimiter sets the output field delimiter byte. Default TAB.
func WithTSVDelimiter(b byte) Option {
	return func(t *Transcoder) {
		t.tsvDelim = b
	}
}

// WithDelimiterReplacement sets the string substituted for a literal TSV
// delimiter found in field data. Default a single space.
func WithDelimiterReplacement(s string) Option {
	return func(t *Transcoder) {
		t.delimReplace = s
	}
}

// WithNewlineReplacement sets the string substituted for CR, LF or CRLF
// found inside a quoted field. Default a single space.
func WithNewlineReplacement(s string) Option {
	return func(t *Transcoder) {
		t.newlineReplace = s
	}
}

// WithReplacement sets both the delimiter and newline replacement strings.
func WithReplacement(s string) Option {
	return func(t *Transcoder) {
		t.delimReplace = s
		t.newlineReplace = s
	}
}

// WithHeader enables header handling in Run: the first record of every file
// after the first is dropped, so a shared header appears once in the output.
func WithHeader(enabled bool) Option {
	return func(t *Transcoder) {
		t.header = enabled
	}
}

// WithChunkSize sets the read chunk capacity in bytes used by Run and
// TranscodeReader. Default 32 KiB.
func WithChunkSize(size int) Option {
	return func(t *Transcoder) {
		t.chunkSize = size
	}
}

// WithSource names the input in error messages for callers driving Feed or
// TranscodeReader directly. Run overrides it per file.
func WithSource(name string) Option {
	return func(t *Transcoder) {
		t.src = name
	}
}

// Validate checks the configured bytes and replacement strings against the
// constraints the state machine assumes. It is meant to run once, before
// transcoding starts; the state machine itself never re-checks them.
func (t *Transcoder) Validate() error {
	if t.quote == t.csvDelim || t.quote == t.tsvDelim {
		return fmt.Errorf("quote byte %q conflicts with a field delimiter", t.quote)
	}
	for _, b := range []byte{t.quote, t.csvDelim, t.tsvDelim} {
		if b == '\r' || b == '\n' {
			return fmt.Errorf("quote and delimiter bytes must not be CR or LF")
		}
	}
	for _, repl := range []string{t.delimReplace, t.newlineReplace} {
		if strings.ContainsAny(repl, "\r\n") || strings.IndexByte(repl, t.tsvDelim) >= 0 {
			return fmt.Errorf("replacement %q must not contain CR, LF or the TSV delimiter", repl)
		}
	}
	return nil
}
