package csvcore

import "testing"

func TestRecord_ObjectShapeGetAndAt(t *testing.T) {
	r := newObjectRecord(Header{"a", "b"}, []Field{{Value: "1", Present: true}, {Value: "", Present: false}})

	if v, ok := r.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v; want 1, true", v, ok)
	}
	if v, ok := r.Get("b"); ok || v != "" {
		t.Fatalf("Get(b) = %q, %v; want present=false with empty padded value", v, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("Get(missing) should report absent")
	}
	if v, ok := r.At(0); !ok || v != "1" {
		t.Fatalf("At(0) = %q, %v; want 1, true", v, ok)
	}
	if _, ok := r.At(2); ok {
		t.Fatalf("At(2) out of range should report absent")
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if r.Shape() != ShapeObject {
		t.Fatalf("Shape() = %v, want ShapeObject", r.Shape())
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("Names() = %v, want [a b]", names)
	}
}

func TestRecord_ArrayShapeAtAndLen(t *testing.T) {
	r := newArrayRecord([]Field{{Value: "x", Present: true}, {Value: "y", Present: true}})

	if r.Shape() != ShapeArray {
		t.Fatalf("Shape() = %v, want ShapeArray", r.Shape())
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if v, ok := r.At(1); !ok || v != "y" {
		t.Fatalf("At(1) = %q, %v; want y, true", v, ok)
	}
	if _, ok := r.At(-1); ok {
		t.Fatalf("At(-1) should report absent")
	}
	if names := r.Names(); names != nil {
		t.Fatalf("Names() on array shape should be nil, got %v", names)
	}
	if _, ok := r.Get("anything"); ok {
		t.Fatalf("Get on array shape should always report absent")
	}
}

func TestAssemblerOptions_WithColumnCountStrategyOverridesShapeDefault(t *testing.T) {
	o := AssemblerOptions{OutputShape: ShapeArray}.WithColumnCountStrategy(StrategyTruncate)
	resolved := o.withDefaults()
	if resolved.ColumnCountStrategy != StrategyTruncate {
		t.Fatalf("explicit strategy should survive withDefaults, got %v", resolved.ColumnCountStrategy)
	}
}

func TestAssemblerOptions_DefaultStrategyIsShapeDependent(t *testing.T) {
	obj := AssemblerOptions{}.withDefaults()
	if obj.ColumnCountStrategy != StrategyPad {
		t.Fatalf("object shape default = %v, want StrategyPad", obj.ColumnCountStrategy)
	}
	arr := AssemblerOptions{OutputShape: ShapeArray}.withDefaults()
	if arr.ColumnCountStrategy != StrategyKeep {
		t.Fatalf("array shape default = %v, want StrategyKeep", arr.ColumnCountStrategy)
	}
}

func TestLexerOptions_ValidateRejectsQuoteEqualsSingleCharDelimiter(t *testing.T) {
	o := LexerOptions{Delimiter: ",", Quotation: ','}.withDefaults()
	if err := o.validate(); err == nil {
		t.Fatalf("want error when delimiter equals quotation")
	}
}

func TestLexerOptions_ValidateRejectsNonPositiveMaxBufferSize(t *testing.T) {
	o := LexerOptions{Delimiter: ",", MaxBufferSize: -1}.withDefaults()
	if err := o.validate(); err == nil {
		t.Fatalf("want error for negative MaxBufferSize")
	}
}

func TestDecoderOptions_DefaultsToUTF8(t *testing.T) {
	o := DecoderOptions{}.withDefaults()
	if o.Charset != "utf-8" {
		t.Fatalf("Charset default = %q, want utf-8", o.Charset)
	}
}
