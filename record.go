package csvcore

// OutputShape selects the shape of records an Assembler emits.
type OutputShape uint8

const (
	ShapeObject OutputShape = iota
	ShapeArray
)

// ColumnCountStrategy resolves a mismatch between a record's field count
// and the header's field count. See applyColumnCountStrategy in
// assembler.go for how each strategy treats short and long records.
type ColumnCountStrategy uint8

const (
	StrategyPad ColumnCountStrategy = iota
	StrategyKeep
	StrategyTruncate
	StrategyStrict
)

// Field is one value in a Record. Present distinguishes a field that was
// padded in (StrategyPad, short record) from one that genuinely holds the
// empty string, so callers can tell "absent" from "empty" apart.
type Field struct {
	Value   string
	Present bool
}

// Header is an ordered, caller- or data-derived sequence of column names.
type Header []string

// Record is one parsed CSV row, in either object or array shape. A Go map
// has no prototype chain, so the object shape is immune to keys like
// "__proto__" by construction — there is no special-casing to get wrong.
type Record struct {
	shape  OutputShape
	header Header          // nil for array shape
	object map[string]Field // nil for array shape
	array  []Field          // nil for object shape
}

// Shape reports whether the record is object- or array-shaped.
func (r Record) Shape() OutputShape { return r.shape }

// Len reports the number of fields in the record.
func (r Record) Len() int {
	if r.shape == ShapeObject {
		return len(r.header)
	}
	return len(r.array)
}

// Get returns the value for a header name in an object-shape record, and
// whether that field was present (vs. padded in as absent).
func (r Record) Get(name string) (string, bool) {
	f, ok := r.object[name]
	if !ok {
		return "", false
	}
	return f.Value, f.Present
}

// At returns the value at a 0-based position, for either shape.
func (r Record) At(i int) (string, bool) {
	if r.shape == ShapeObject {
		if i < 0 || i >= len(r.header) {
			return "", false
		}
		f := r.object[r.header[i]]
		return f.Value, f.Present
	}
	if i < 0 || i >= len(r.array) {
		return "", false
	}
	return r.array[i].Value, r.array[i].Present
}

// Names returns the header names backing an object-shape record, or nil
// for array shape.
func (r Record) Names() []string {
	if r.shape != ShapeObject {
		return nil
	}
	names := make([]string, len(r.header))
	copy(names, r.header)
	return names
}

func newObjectRecord(header Header, fields []Field) Record {
	m := make(map[string]Field, len(header))
	for i, name := range header {
		m[name] = fields[i]
	}
	return Record{shape: ShapeObject, header: header, object: m}
}

func newArrayRecord(fields []Field) Record {
	return Record{shape: ShapeArray, array: fields}
}
