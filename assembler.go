package csvcore

// Assembler groups a token stream into rows and materializes Records
// according to header, shape, and column-count policy. It is driven
// incrementally: feed it whatever tokens a Lexer just produced, in order,
// and collect whatever Records are now complete.
type Assembler struct {
	opts AssemblerOptions

	header         Header
	headerResolved bool // true once header is known, whether inferred, fixed, or headerless
	headerEmitted  bool

	pending   []Field
	rowNumber int // 1-based row about to close, counting the header row
}

// NewAssembler constructs an Assembler. A non-nil, non-empty opts.Header
// fixes the header up front; a non-nil empty opts.Header requests
// headerless mode; a nil opts.Header infers the header from the first row
// Assemble sees.
func NewAssembler(opts AssemblerOptions) (*Assembler, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	a := &Assembler{opts: opts, rowNumber: 1}
	if opts.headerless() {
		a.header = Header{}
		a.headerResolved = true
		a.headerEmitted = true // nothing to emit; headerless has no header row
	} else if opts.Header != nil {
		a.header = Header(opts.Header)
		a.headerResolved = true
	}
	return a, nil
}

// Assemble consumes tokens in order and returns the Records that are now
// complete. Every token a Lexer emits already has a final, certain shape
// (that's what distinguishes streaming calls from its own flush), so
// Assemble needs no equivalent stream flag of its own: feed it whatever
// the Lexer just produced, including the synthetic tokens its flush
// manufactures for a trailing row with no terminator.
func (a *Assembler) Assemble(tokens []Token) ([]Record, error) {
	var out []Record
	if a.headerResolved && a.opts.IncludeHeaderRow && !a.headerEmitted {
		// A caller-fixed header is emitted before any data row.
		fields := make([]Field, len(a.header))
		for i, name := range a.header {
			fields[i] = Field{Value: name, Present: true}
		}
		out = append(out, newArrayRecord(fields))
		a.headerEmitted = true
	}
	for _, tok := range tokens {
		if err := a.pollSignal(); err != nil {
			return out, err
		}
		switch tok.Kind {
		case TokenField:
			a.pending = append(a.pending, Field{Value: tok.Value, Present: true})
			if len(a.pending) > a.opts.MaxFieldCount {
				return out, &Error{
					Err:       ErrFieldCountExceeded,
					RowNumber: a.rowNumber,
					Source:    a.opts.Source,
				}
			}
		case TokenFieldDelimiter:
			// No payload; the Field tokens either side carry the content.
		case TokenRecordDelimiter:
			rec, emit, err := a.closeRow()
			if err != nil {
				return out, err
			}
			if emit {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (a *Assembler) pollSignal() error {
	if a.opts.Signal == nil {
		return nil
	}
	if reason, cancelled := a.opts.Signal.Cancelled(); cancelled {
		return &Error{Err: ErrCancelled, Source: a.opts.Source, Timeout: reason.Timeout}
	}
	return nil
}

// closeRow finalizes the row accumulated in pending against a
// RecordDelimiter. Per the empty-line convention, a row with zero Field
// tokens (a bare blank line) is treated as a single empty field for header
// inference, empty-line skipping, and column-count purposes alike.
func (a *Assembler) closeRow() (Record, bool, error) {
	fields := a.pending
	a.pending = nil
	row := a.rowNumber
	a.rowNumber++

	if len(fields) == 0 {
		fields = []Field{{Value: "", Present: true}}
	}

	if !a.headerResolved {
		if err := a.resolveInferredHeader(fields, row); err != nil {
			return Record{}, false, err
		}
		if !a.opts.IncludeHeaderRow {
			return Record{}, false, nil
		}
		a.headerEmitted = true
		return a.buildArrayRow(fields, row)
	}

	if a.isBlank(fields) && a.opts.SkipEmptyLines {
		return Record{}, false, nil
	}

	if a.opts.OutputShape == ShapeArray {
		return a.buildArrayRow(fields, row)
	}
	return a.buildObjectRow(fields, row)
}

func (a *Assembler) isBlank(fields []Field) bool {
	return len(fields) == 1 && fields[0].Value == "" && fields[0].Present
}

func (a *Assembler) resolveInferredHeader(fields []Field, row int) error {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Value
	}
	if a.opts.OutputShape == ShapeObject {
		if err := validateHeaderFields(names); err != nil {
			return &Error{Err: err, RowNumber: row, Source: a.opts.Source}
		}
	}
	a.header = Header(names)
	a.headerResolved = true
	return nil
}

func (a *Assembler) buildArrayRow(fields []Field, row int) (Record, bool, error) {
	resolved, err := a.applyColumnCountStrategy(fields, len(a.header), row, ShapeArray)
	if err != nil {
		return Record{}, false, err
	}
	return newArrayRecord(resolved), true, nil
}

func (a *Assembler) buildObjectRow(fields []Field, row int) (Record, bool, error) {
	if a.isBlank(fields) && a.opts.ColumnCountStrategy == StrategyPad {
		// Every header maps to an explicitly-present empty string for a
		// blank data line, overriding the generic pad-shortfall behavior
		// (which would otherwise mark every column but the first absent).
		filled := make([]Field, len(a.header))
		for i := range filled {
			filled[i] = Field{Value: "", Present: true}
		}
		return newObjectRecord(a.header, filled), true, nil
	}
	resolved, err := a.applyColumnCountStrategy(fields, len(a.header), row, ShapeObject)
	if err != nil {
		return Record{}, false, err
	}
	return newObjectRecord(a.header, resolved), true, nil
}

// applyColumnCountStrategy reconciles a row of `got` fields against
// `want` header columns per the configured ColumnCountStrategy. Object
// shape always returns exactly `want` fields, since a Record's map is
// keyed by header name and needs one value per key; array shape may
// legitimately come back shorter or longer than `want`.
func (a *Assembler) applyColumnCountStrategy(fields []Field, want int, row int, shape OutputShape) ([]Field, error) {
	got := len(fields)
	switch a.opts.ColumnCountStrategy {
	case StrategyKeep:
		return fields, nil
	case StrategyTruncate:
		if got > want {
			return fields[:want], nil
		}
		if shape == ShapeObject {
			return padAbsent(fields, want), nil
		}
		return fields, nil
	case StrategyStrict:
		if got != want {
			return nil, &Error{
				Err:       ErrColumnCountMismatch,
				RowNumber: row,
				HeaderLen: want,
				RecordLen: got,
				Source:    a.opts.Source,
			}
		}
		return fields, nil
	default: // StrategyPad
		if got > want {
			return fields[:want], nil
		}
		return padAbsent(fields, want), nil
	}
}

func padAbsent(fields []Field, want int) []Field {
	if len(fields) >= want {
		return fields
	}
	out := make([]Field, want)
	copy(out, fields)
	for i := len(fields); i < want; i++ {
		out[i] = Field{} // Value: "", Present: false
	}
	return out
}

// validateHeaderFields rejects a header with a duplicate or empty column
// name. Shared between AssemblerOptions.validate (for a caller-fixed
// header) and the Assembler's own header-inference path, so both routes
// enforce the same rule; both apply it to object shape only.
func validateHeaderFields(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return ErrEmptyHeader
		}
		if _, dup := seen[n]; dup {
			return ErrDuplicateHeader
		}
		seen[n] = struct{}{}
	}
	return nil
}
