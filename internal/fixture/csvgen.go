// Package fixture encodes CSV text for round-trip test fixtures. It is
// not part of csvcore's public API: encoding CSV is explicitly out of
// scope (see the package's Non-goals), but the parser's own tests need a
// trustworthy way to produce input, so this lives under internal/ and no
// non-test code imports it.
package fixture

import (
	"strings"
)

// Writer encodes records as CSV text, quoting fields only where required.
// As returned by NewWriter, it writes records terminated by a newline and
// uses ',' as the field delimiter; set Comma or UseCRLF before the first
// Write to change that.
type Writer struct {
	Comma   rune
	UseCRLF bool

	b strings.Builder
}

// NewWriter returns a Writer ready to accumulate records.
func NewWriter() *Writer {
	return &Writer{Comma: ','}
}

// Write appends one record.
func (w *Writer) Write(record []string) {
	for i, field := range record {
		if i > 0 {
			w.b.WriteRune(w.Comma)
		}
		w.writeField(field)
	}
	w.writeLineEnding()
}

// WriteAll appends every record in records, in order.
func (w *Writer) WriteAll(records [][]string) {
	for _, record := range records {
		w.Write(record)
	}
}

// String returns the CSV text accumulated so far.
func (w *Writer) String() string {
	return w.b.String()
}

func (w *Writer) writeField(field string) {
	if w.fieldNeedsQuotes(field) {
		w.writeQuotedField(field)
		return
	}
	w.b.WriteString(field)
}

func (w *Writer) writeLineEnding() {
	if w.UseCRLF {
		w.b.WriteString("\r\n")
		return
	}
	w.b.WriteByte('\n')
}

func (w *Writer) fieldNeedsQuotes(field string) bool {
	if len(field) == 0 {
		return false
	}
	if field[0] == ' ' || field[0] == '\t' {
		return true
	}
	for _, c := range field {
		if c == w.Comma || c == '\n' || c == '\r' || c == '"' {
			return true
		}
	}
	return false
}

func (w *Writer) writeQuotedField(field string) {
	w.b.WriteByte('"')
	for _, c := range field {
		if c == '"' {
			w.b.WriteString(`""`)
		} else {
			w.b.WriteRune(c)
		}
	}
	w.b.WriteByte('"')
}
