package csvcore

import (
	"errors"
	"testing"
)

func tok(kind TokenKind) Token { return Token{Kind: kind} }

func field(v string) Token { return Token{Kind: TokenField, Value: v} }

func recordDelim() Token { return Token{Kind: TokenRecordDelimiter} }

func TestAssembler_InfersHeaderFromFirstRow(t *testing.T) {
	a, err := NewAssembler(AssemblerOptions{})
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	recs, err := a.Assemble([]Token{
		field("name"), tok(TokenFieldDelimiter), field("age"), recordDelim(),
		field("Alice"), tok(TokenFieldDelimiter), field("42"), recordDelim(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("want 1 data record, got %d", len(recs))
	}
	if v, ok := recs[0].Get("name"); !ok || v != "Alice" {
		t.Fatalf("want name=Alice, got %q ok=%v", v, ok)
	}
}

func TestAssembler_DuplicateHeaderFails(t *testing.T) {
	a, err := NewAssembler(AssemblerOptions{})
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	_, err = a.Assemble([]Token{
		field("a"), tok(TokenFieldDelimiter), field("a"), recordDelim(),
	})
	var perr *Error
	if !errors.As(err, &perr) || !errors.Is(perr, ErrDuplicateHeader) {
		t.Fatalf("want ErrDuplicateHeader, got %v", err)
	}
}

func TestAssembler_EmptyHeaderRejectedAtConstruction(t *testing.T) {
	_, err := NewAssembler(AssemblerOptions{Header: []string{"a", ""}})
	var perr *Error
	if !errors.As(err, &perr) || !errors.Is(perr, ErrEmptyHeader) {
		t.Fatalf("want ErrEmptyHeader, got %v", err)
	}
}

func TestAssembler_HeaderlessRequiresArrayAndKeep(t *testing.T) {
	_, err := NewAssembler(AssemblerOptions{Header: []string{}, OutputShape: ShapeObject})
	var perr *Error
	if !errors.As(err, &perr) || !errors.Is(perr, ErrInvalidOption) {
		t.Fatalf("headerless+object: want ErrInvalidOption, got %v", err)
	}

	_, err = NewAssembler(AssemblerOptions{Header: []string{}, OutputShape: ShapeArray}.WithColumnCountStrategy(StrategyTruncate))
	if !errors.As(err, &perr) || !errors.Is(perr, ErrInvalidOption) {
		t.Fatalf("headerless+truncate: want ErrInvalidOption, got %v", err)
	}
}

func TestAssembler_ObjectShapeDisallowsKeep(t *testing.T) {
	_, err := NewAssembler(AssemblerOptions{}.WithColumnCountStrategy(StrategyKeep))
	var perr *Error
	if !errors.As(err, &perr) || !errors.Is(perr, ErrInvalidOption) {
		t.Fatalf("want ErrInvalidOption, got %v", err)
	}
}

func TestAssembler_TruncateDropsExcessColumns(t *testing.T) {
	a, err := NewAssembler(AssemblerOptions{Header: []string{"a", "b"}}.WithColumnCountStrategy(StrategyTruncate))
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	recs, err := a.Assemble([]Token{
		field("1"), tok(TokenFieldDelimiter), field("2"), tok(TokenFieldDelimiter), field("3"), recordDelim(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := recs[0].Get("a"); v != "1" {
		t.Fatalf("want a=1, got %q", v)
	}
	if _, present := recs[0].Get("c"); present {
		t.Fatalf("want no third column in header")
	}
}

func TestAssembler_ArrayKeepPreservesShortRowLength(t *testing.T) {
	a, err := NewAssembler(AssemblerOptions{Header: []string{"a", "b", "c"}, OutputShape: ShapeArray})
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	recs, err := a.Assemble([]Token{field("1"), tok(TokenFieldDelimiter), field("2"), recordDelim()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].Len() != 2 {
		t.Fatalf("want array length 2 (keep, no padding), got %d", recs[0].Len())
	}
}

func TestAssembler_BlankLineWithObjectPadFabricatesEmptyRow(t *testing.T) {
	a, err := NewAssembler(AssemblerOptions{Header: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	recs, err := a.Assemble([]Token{recordDelim()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("want 1 record, got %d", len(recs))
	}
	for _, name := range recs[0].Names() {
		v, present := recs[0].Get(name)
		if !present || v != "" {
			t.Fatalf("want %s present and empty, got present=%v value=%q", name, present, v)
		}
	}
}

func TestAssembler_IncludeHeaderRowEmitsHeaderFirst(t *testing.T) {
	a, err := NewAssembler(AssemblerOptions{OutputShape: ShapeArray, IncludeHeaderRow: true})
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	recs, err := a.Assemble([]Token{
		field("a"), tok(TokenFieldDelimiter), field("b"), recordDelim(),
		field("1"), tok(TokenFieldDelimiter), field("2"), recordDelim(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("want header + 1 data row, got %d records", len(recs))
	}
	v, _ := recs[0].At(0)
	if v != "a" {
		t.Fatalf("want first record to be the header row, got %q", v)
	}
}
