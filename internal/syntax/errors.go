package syntax

import (
	"errors"
	"fmt"
)

var (
	ErrFormat          = errors.New("malformed parser output")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMisalignment    = errors.New("tokenization does not match parser output")
	ErrMissingAnalysis = errors.New("analysis missing")
	ErrUnknownFormat   = errors.New("unknown parser output format")
)

// FormatError reports a raw line that cannot be interpreted.
type FormatError struct {
	Line   int // zero-based line number; -1 if unknown
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("%s: %s: %q", ErrFormat, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: line %d: %s: %q", ErrFormat, e.Line, e.Reason, e.Text)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// MisalignmentError reports a token whose surface text differs between the
// tokenized document and the parser output.
type MisalignmentError struct {
	SentID   int
	WordID   int
	Document string
	Parser   string
}

func (e *MisalignmentError) Error() string {
	return fmt.Sprintf("%s: sentence %d word %d: document has %q, parser output has %q",
		ErrMisalignment, e.SentID, e.WordID, e.Document, e.Parser)
}

func (e *MisalignmentError) Unwrap() error { return ErrMisalignment }
