package csvcore

// DefaultMaxBufferSize bounds the lexer's pending-character buffer: 10 Mi
// characters, matching the contract's default.
const DefaultMaxBufferSize = 10 * 1024 * 1024

// DefaultMaxFieldCount bounds fields per record and header length.
const DefaultMaxFieldCount = 100_000

// LexerOptions configures a Lexer. The zero value is not ready to use;
// construct options through their documented defaults via NewLexer /
// NewFastLexer, which apply these defaults and validate combinations.
type LexerOptions struct {
	// Delimiter separates fields. Scalar lexers accept any non-empty
	// string; the accelerated fast lexer requires exactly one rune.
	Delimiter string
	// Quotation is the quote character used for escaping.
	Quotation rune
	// TrackLocation, when true, attaches a Position to every token.
	TrackLocation bool
	// MaxBufferSize bounds the pending-character buffer.
	MaxBufferSize int
	// Signal wires cooperative cancellation, polled at token boundaries.
	Signal *Signal
	// Source is an opaque identifier attached to every error.
	Source string
}

func (o LexerOptions) withDefaults() LexerOptions {
	if o.Delimiter == "" {
		o.Delimiter = ","
	}
	if o.Quotation == 0 {
		o.Quotation = '"'
	}
	if o.MaxBufferSize == 0 {
		o.MaxBufferSize = DefaultMaxBufferSize
	}
	return o
}

func (o LexerOptions) validate() error {
	if len(o.Delimiter) == 0 {
		return &Error{Err: ErrInvalidOption, Source: o.Source}
	}
	if o.MaxBufferSize <= 0 {
		return &Error{Err: ErrInvalidOption, Source: o.Source}
	}
	if rune(o.Delimiter[0]) == o.Quotation && len(o.Delimiter) == 1 {
		return &Error{Err: ErrInvalidOption, Source: o.Source}
	}
	return nil
}

// AssemblerOptions configures an Assembler. See NewAssembler.
type AssemblerOptions struct {
	// Header, if non-nil, is the canonical header. A non-nil empty slice
	// requests headerless mode: every record is data, array shape only,
	// StrategyKeep only. A nil Header means "infer from the first record".
	Header []string
	// OutputShape selects object or array records. Default: ShapeObject.
	OutputShape OutputShape
	// ColumnCountStrategy resolves header/record length mismatches.
	// Default: StrategyPad for object shape, StrategyKeep for array shape.
	ColumnCountStrategy ColumnCountStrategy
	// columnCountStrategySet distinguishes "left at the zero value" from
	// "explicitly chose StrategyPad", so withDefaults can pick the
	// shape-appropriate default instead of always defaulting to the
	// zero value of the enum.
	columnCountStrategySet bool
	// SkipEmptyLines drops a record consisting of a single empty field.
	SkipEmptyLines bool
	// IncludeHeaderRow emits the header as the first record. Array shape only.
	IncludeHeaderRow bool
	// MaxFieldCount bounds fields per record and header length.
	MaxFieldCount int
	// Signal wires cooperative cancellation, polled at record boundaries.
	Signal *Signal
	// Source is an opaque identifier attached to every error.
	Source string
}

// WithColumnCountStrategy returns a copy of o with an explicit strategy,
// overriding the shape-dependent default applied by NewAssembler.
func (o AssemblerOptions) WithColumnCountStrategy(s ColumnCountStrategy) AssemblerOptions {
	o.ColumnCountStrategy = s
	o.columnCountStrategySet = true
	return o
}

func (o AssemblerOptions) withDefaults() AssemblerOptions {
	if !o.columnCountStrategySet {
		if o.OutputShape == ShapeArray {
			o.ColumnCountStrategy = StrategyKeep
		} else {
			o.ColumnCountStrategy = StrategyPad
		}
	}
	if o.MaxFieldCount == 0 {
		o.MaxFieldCount = DefaultMaxFieldCount
	}
	return o
}

func (o AssemblerOptions) headerless() bool {
	return o.Header != nil && len(o.Header) == 0
}

func (o AssemblerOptions) validate() error {
	invalid := func() error { return &Error{Err: ErrInvalidOption, Source: o.Source} }

	if o.MaxFieldCount <= 0 {
		return invalid()
	}
	if len(o.Header) > o.MaxFieldCount {
		return &Error{Err: ErrFieldCountExceeded, Source: o.Source}
	}
	if o.OutputShape == ShapeObject && o.ColumnCountStrategy == StrategyKeep {
		return invalid() // "Object shape disallows keep"
	}
	if o.headerless() {
		if o.OutputShape != ShapeArray {
			return invalid() // headerless is array-shape only
		}
		if o.ColumnCountStrategy != StrategyKeep {
			return invalid() // headerless is keep-strategy only
		}
	}
	if o.IncludeHeaderRow && o.OutputShape != ShapeArray {
		return invalid() // include_header_row is array-shape only
	}
	if len(o.Header) > 0 && o.OutputShape == ShapeObject {
		if err := validateHeaderFields(o.Header); err != nil {
			return &Error{Err: err, Source: o.Source}
		}
	}
	return nil
}

// DecoderOptions configures a Decoder. See NewDecoder.
type DecoderOptions struct {
	// Charset names an IANA charset; "utf-8" by default. Resolved through
	// golang.org/x/text/encoding/htmlindex, the same fixed IANA name table
	// browsers use, rather than a hand-rolled name list.
	Charset string
	// Fatal, if true, fails on an invalid byte sequence instead of
	// substituting the Unicode replacement character.
	Fatal bool
	// StripBOM removes a leading byte-order mark on the first Feed call.
	StripBOM bool
}

func (o DecoderOptions) withDefaults() DecoderOptions {
	if o.Charset == "" {
		o.Charset = "utf-8"
	}
	return o
}
