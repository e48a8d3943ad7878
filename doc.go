// Package csvcore implements the streaming core of a CSV toolbox: a
// two-stage pipeline that turns byte or character chunks into a lazy
// sequence of structured records.
//
// The pipeline is:
//
//	bytes -> [Decoder] -> characters -> [Lexer] -> tokens -> [Assembler] -> records
//
// Decoder is only needed for binary input; callers already holding
// decoded characters can feed a Lexer directly. Two Lexer constructors
// are provided, NewLexer (a scalar, character-by-character reference
// implementation) and NewFastLexer (an accelerated byte-indexer variant
// for single-character delimiters) — both satisfy the same Lexer
// contract and produce identical token streams for identical input.
//
// The whole pipeline is pull-based and single-threaded per stream: Feed
// pushes a chunk and returns whatever records have become available,
// Flush signals end of input, and Cancel wires cooperative cancellation.
// None of it blocks or spawns goroutines; higher-level synchronous or
// asynchronous façades are built on top by the caller.
package csvcore
