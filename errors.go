package csvcore

import (
	"errors"
	"fmt"
)

// Sentinel causes. An *Error always wraps exactly one of these via Unwrap,
// so callers can match with errors.Is regardless of the carried context.
var (
	ErrUnterminatedQuotedField = errors.New("csvcore: unterminated quoted field")
	ErrBufferOverflow          = errors.New("csvcore: lexer buffer exceeds max_buffer_size")
	ErrFieldCountExceeded      = errors.New("csvcore: field count exceeds max_field_count")
	ErrDuplicateHeader         = errors.New("csvcore: duplicate header entry")
	ErrEmptyHeader             = errors.New("csvcore: empty header")
	ErrColumnCountMismatch     = errors.New("csvcore: column count mismatch")
	ErrInvalidEncoding         = errors.New("csvcore: invalid byte sequence for charset")
	ErrInvalidOption           = errors.New("csvcore: invalid option combination")
	ErrCancelled               = errors.New("csvcore: cancelled")
)

// Error carries diagnostic context around one of the sentinel causes above.
// It mirrors the single-carrier-struct-many-causes shape used throughout
// this codebase rather than one exported type per error kind.
type Error struct {
	Err error // one of the Err* sentinels above; match with errors.Is

	RowNumber int       // 1-based logical CSV row, including the header; 0 if not applicable
	Position  *Position // nil when location tracking is disabled or not applicable
	Source    string    // opaque caller-supplied identifier, empty if unset

	// Populated for ErrColumnCountMismatch.
	HeaderLen int
	RecordLen int

	// Populated for ErrBufferOverflow.
	BufferLen     int
	MaxBufferSize int

	// Populated for ErrCancelled.
	Timeout bool
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	switch e.Err {
	case ErrColumnCountMismatch:
		msg = fmt.Sprintf("%s: header has %d fields, record has %d", msg, e.HeaderLen, e.RecordLen)
	case ErrBufferOverflow:
		msg = fmt.Sprintf("%s: buffer length %d exceeds limit %d", msg, e.BufferLen, e.MaxBufferSize)
	}
	if e.RowNumber > 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.RowNumber)
	}
	if e.Position != nil {
		msg = fmt.Sprintf("%s at line %d, column %d", msg, e.Position.Line, e.Position.Column)
	}
	if e.Source != "" {
		msg = fmt.Sprintf("%s [source=%s]", msg, e.Source)
	}
	return msg
}

// Unwrap returns the sentinel cause, for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}
