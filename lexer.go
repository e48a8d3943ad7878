package csvcore

import "strings"

// Lexer turns a character stream into Field, FieldDelimiter and
// RecordDelimiter tokens. Construct one with NewLexer (the scalar
// reference implementation) or NewFastLexer (the accelerated byte-indexer
// variant); both produce identical token streams for identical input,
// since both share this type and differ only in their structuralFinder.
type Lexer struct {
	delimiter []rune
	quotation rune
	opts      LexerOptions
	finder    structuralFinder

	buf    []rune
	line   int
	column int
	offset int

	rowNumber      int
	rowHasContent  bool // a Field or FieldDelimiter was emitted since the last RecordDelimiter
	lastWasDelim   bool // the most recent token emitted for the open row was a FieldDelimiter
	flushed        bool
}

// NewLexer returns the scalar, character-by-character reference lexer.
func NewLexer(opts LexerOptions) (*Lexer, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return newLexer(opts, scalarFinder{}), nil
}

// NewFastLexer returns the accelerated byte-indexer lexer. It requires a
// single-character delimiter and quotation; anything else is rejected at
// construction with InvalidOption, per the design note that multi-character
// delimiters are a scalar-lexer-only feature.
func NewFastLexer(opts LexerOptions) (*Lexer, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len([]rune(opts.Delimiter)) != 1 {
		return nil, &Error{Err: ErrInvalidOption, Source: opts.Source}
	}
	return newLexer(opts, newSWARFinder()), nil
}

func newLexer(opts LexerOptions, finder structuralFinder) *Lexer {
	return &Lexer{
		delimiter: []rune(opts.Delimiter),
		quotation: opts.Quotation,
		opts:      opts,
		finder:    finder,
		line:      1,
		column:    1,
		rowNumber: 1,
	}
}

// Lex feeds chunk (nil for a flush) and returns the tokens whose
// boundaries are now certain. When stream is true, tokens that might
// still change shape with more input (a line terminator that is the whole
// remaining buffer, an unclosed quote, a field run touching the end of the
// buffer) are held back until more input or the flush arrives.
// When stream is false, Lex also emits the final unterminated field and
// a synthetic RecordDelimiter if the input didn't end with one, and
// asserts the pending buffer is empty afterward. Lex is idempotent once
// flushed: a second flush call returns no tokens and no error.
func (lx *Lexer) Lex(chunk []rune, stream bool) ([]Token, error) {
	if lx.flushed {
		return nil, nil
	}
	if err := lx.pollSignal(); err != nil {
		return nil, err
	}
	if chunk != nil {
		lx.buf = append(lx.buf, chunk...)
		if len(lx.buf) > lx.opts.MaxBufferSize {
			return nil, &Error{
				Err:           ErrBufferOverflow,
				BufferLen:     len(lx.buf),
				MaxBufferSize: lx.opts.MaxBufferSize,
				Source:        lx.opts.Source,
			}
		}
	}

	var tokens []Token
	for {
		if err := lx.pollSignal(); err != nil {
			return tokens, err
		}
		tok, ok, err := lx.nextToken(stream)
		if err != nil {
			return tokens, err
		}
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}

	if !stream {
		extra, err := lx.finalizeFlush()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, extra...)
		lx.flushed = true
	}
	return tokens, nil
}

func (lx *Lexer) pollSignal() error {
	if lx.opts.Signal == nil {
		return nil
	}
	if reason, cancelled := lx.opts.Signal.Cancelled(); cancelled {
		return &Error{Err: ErrCancelled, Source: lx.opts.Source, Timeout: reason.Timeout}
	}
	return nil
}

// finalizeFlush emits whatever synthetic tokens are owed once no more
// input will ever arrive: the trailing field a dangling FieldDelimiter
// implies, and the RecordDelimiter a row without one is owed.
func (lx *Lexer) finalizeFlush() ([]Token, error) {
	if !lx.rowHasContent {
		return nil, nil
	}
	var extra []Token
	if lx.lastWasDelim {
		extra = append(extra, lx.makeFieldToken("", lx.currentPosition()))
	}
	extra = append(extra, lx.makeRecordDelimiterToken(DelimiterLF))
	lx.rowHasContent = false
	lx.lastWasDelim = false
	return extra, nil
}

// nextToken inspects the front of buf and either emits the next token,
// reports that more input is needed (ok == false, err == nil), or fails.
//
// The token sequence invariant (Field, (FieldDelimiter Field)*,
// RecordDelimiter) means a position right after start-of-row, a
// FieldDelimiter, or nothing yet this row always owes a Field token next —
// even an empty one — before a FieldDelimiter or RecordDelimiter may be
// read from that same position again. The one exception is the bare blank
// line: a CR/LF seen with truly nothing consumed since the last row closed
// terminates the row directly, with no Field token at all.
func (lx *Lexer) nextToken(stream bool) (Token, bool, error) {
	if len(lx.buf) == 0 {
		return Token{}, false, nil
	}

	atFieldBoundary := !lx.rowHasContent || lx.lastWasDelim
	if atFieldBoundary {
		if !lx.rowHasContent {
			if tok, ok, err, handled := lx.tryBlankLineTerminator(stream); handled {
				return tok, ok, err
			}
		}
		if lx.buf[0] == lx.quotation {
			return lx.lexQuotedField(stream)
		}
		return lx.lexUnquotedField(stream)
	}

	if tok, ok, err, handled := lx.tryBlankLineTerminator(stream); handled {
		return tok, ok, err
	}
	if state := lx.matchDelimiter(); state != delimiterNoMatch {
		if state == delimiterMatch {
			return lx.emitFieldDelimiter(), true, nil
		}
		return Token{}, false, nil // ambiguous multi-char delimiter prefix at buffer end
	}
	// findTerminator guarantees an unquoted field always stops exactly at
	// CR, LF, or a delimiter start, and a quoted field's close consumes
	// its closing quote; buf[0] should never reach here otherwise. Fall
	// through to a fresh field scan rather than erroring, on the theory
	// that swallowing a stray byte beats losing data.
	return lx.lexUnquotedField(stream)
}

// tryBlankLineTerminator handles CR/LF at the current position. handled is
// false only when buf[0] is neither CR nor LF. While streaming, a
// terminator that fills the whole buffer (LF, CRLF, or a lone CR that may
// still become CRLF) is handled with ok == false: it waits for more input
// or the flush.
func (lx *Lexer) tryBlankLineTerminator(stream bool) (Token, bool, error, bool) {
	switch {
	case lx.buf[0] == '\n':
		if stream && len(lx.buf) == 1 {
			return Token{}, false, nil, true
		}
		return lx.emitRecordDelimiter(1, DelimiterLF), true, nil, true
	case lx.buf[0] == '\r':
		switch {
		case len(lx.buf) >= 2 && lx.buf[1] == '\n':
			if stream && len(lx.buf) == 2 {
				return Token{}, false, nil, true
			}
			return lx.emitRecordDelimiter(2, DelimiterCRLF), true, nil, true
		case len(lx.buf) >= 2:
			// Confirmed lone CR, not part of CRLF. See DESIGN.md: treated
			// as an LF-equivalent record terminator.
			return lx.emitRecordDelimiter(1, DelimiterLF), true, nil, true
		case !stream:
			return lx.emitRecordDelimiter(1, DelimiterLF), true, nil, true
		default:
			return Token{}, false, nil, true // next chunk may complete a CRLF
		}
	default:
		return Token{}, false, nil, false
	}
}

type delimiterMatchState int

const (
	delimiterNoMatch delimiterMatchState = iota
	delimiterAmbiguous
	delimiterMatch
)

func (lx *Lexer) matchDelimiter() delimiterMatchState {
	d := lx.delimiter
	if len(lx.buf) < len(d) {
		if runesEqual(lx.buf, d[:len(lx.buf)]) {
			return delimiterAmbiguous
		}
		return delimiterNoMatch
	}
	if runesEqual(lx.buf[:len(d)], d) {
		return delimiterMatch
	}
	return delimiterNoMatch
}

func (lx *Lexer) lexUnquotedField(stream bool) (Token, bool, error) {
	i := lx.finder.findTerminator(lx.buf, 0, lx.delimiter, lx.quotation)
	if i == len(lx.buf) {
		if !stream {
			return lx.emitField(i), true, nil
		}
		return Token{}, false, nil // field run may continue in the next chunk
	}
	return lx.emitField(i), true, nil
}

func (lx *Lexer) lexQuotedField(stream bool) (Token, bool, error) {
	i := 1
	for {
		qi := lx.finder.findQuote(lx.buf, i, lx.quotation)
		if qi == len(lx.buf) {
			if !stream {
				return Token{}, false, &Error{
					Err:      ErrUnterminatedQuotedField,
					Position: lx.trackedPosition(),
					Source:   lx.opts.Source,
				}
			}
			return Token{}, false, nil // need more input to find the closing quote
		}
		if qi+1 < len(lx.buf) {
			if lx.buf[qi+1] == lx.quotation {
				i = qi + 2 // doubled quote: one literal quote, keep scanning
				continue
			}
			return lx.emitQuotedField(qi + 1), true, nil // confirmed close
		}
		// qi is the last buffered rune: ambiguous between a doubled quote
		// and a genuine close unless this is the final chunk.
		if !stream {
			return lx.emitQuotedField(qi + 1), true, nil
		}
		return Token{}, false, nil
	}
}

func (lx *Lexer) emitQuotedField(total int) Token {
	pos := lx.trackedPosition()
	value := unescapeQuoted(lx.buf[1:total-1], lx.quotation)
	lx.consumeRunes(total)
	return lx.markField(Token{Kind: TokenField, Value: value, Location: pos})
}

func (lx *Lexer) emitField(n int) Token {
	pos := lx.trackedPosition()
	value := string(lx.buf[:n])
	lx.consumeRunes(n)
	return lx.markField(Token{Kind: TokenField, Value: value, Location: pos})
}

func (lx *Lexer) emitFieldDelimiter() Token {
	pos := lx.trackedPosition()
	lx.consumeRunes(len(lx.delimiter))
	lx.rowHasContent = true
	lx.lastWasDelim = true
	return Token{Kind: TokenFieldDelimiter, Location: pos}
}

func (lx *Lexer) emitRecordDelimiter(n int, kind RecordDelimiterKind) Token {
	return lx.makeRecordDelimiterTokenConsuming(n, kind)
}

func (lx *Lexer) markField(tok Token) Token {
	lx.rowHasContent = true
	lx.lastWasDelim = false
	return tok
}

func (lx *Lexer) makeFieldToken(value string, pos *Position) Token {
	lx.rowHasContent = true
	lx.lastWasDelim = false
	return Token{Kind: TokenField, Value: value, Location: pos}
}

func (lx *Lexer) makeRecordDelimiterToken(kind RecordDelimiterKind) Token {
	pos := lx.trackedPosition()
	row := lx.rowNumber
	lx.rowNumber++
	return Token{Kind: TokenRecordDelimiter, DelimiterKind: kind, RowNumber: row, Location: pos}
}

func (lx *Lexer) makeRecordDelimiterTokenConsuming(n int, kind RecordDelimiterKind) Token {
	pos := lx.trackedPosition()
	row := lx.rowNumber
	lx.consumeRunes(n)
	lx.rowNumber++
	lx.rowHasContent = false
	lx.lastWasDelim = false
	return Token{Kind: TokenRecordDelimiter, DelimiterKind: kind, RowNumber: row, Location: pos}
}

func (lx *Lexer) trackedPosition() *Position {
	if !lx.opts.TrackLocation {
		return nil
	}
	p := lx.currentPosition()
	return &p
}

func (lx *Lexer) currentPosition() Position {
	return Position{Line: lx.line, Column: lx.column, Offset: lx.offset}
}

func (lx *Lexer) consumeRunes(n int) {
	for i := 0; i < n; i++ {
		lx.offset++
		if lx.buf[i] == '\n' {
			lx.line++
			lx.column = 1
		} else {
			lx.column++
		}
	}
	lx.buf = lx.buf[n:]
}

func unescapeQuoted(raw []rune, quote rune) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == quote && i+1 < len(raw) && raw[i+1] == quote {
			b.WriteRune(quote)
			i++
			continue
		}
		b.WriteRune(raw[i])
	}
	return b.String()
}
