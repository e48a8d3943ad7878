package csvcore

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// readChunkSize is the chunk size ReadAll uses to pull bytes from an
// io.Reader before handing them to Core.Feed.
const readChunkSize = 64 * 1024

// Core wires a Lexer and an Assembler into the single synchronous pipeline
// documented at package level: Feed bytes in, get Records out, call Flush
// once no more input is coming. Core does no buffering beyond what the
// Lexer and Assembler already hold, and it never starts a goroutine —
// Feed and Flush run entirely on the calling goroutine.
type Core struct {
	decoder   *Decoder
	lexer     *Lexer
	assembler *Assembler
	signal    *Signal
	flushed   bool
}

// CoreOptions bundles the three component configurations Core needs.
// DecoderOptions is optional: leave Decoder nil to feed Core pre-decoded
// text directly.
type CoreOptions struct {
	Decoder   *DecoderOptions
	Lexer     LexerOptions
	Assembler AssemblerOptions
	Fast      bool // selects NewFastLexer over NewLexer
}

// NewCore builds a Core from its component options, sharing one Signal
// across the lexer and assembler so a single Cancel call stops both.
func NewCore(opts CoreOptions) (*Core, error) {
	signal := opts.Lexer.Signal
	if signal == nil {
		signal = opts.Assembler.Signal
	}
	if signal == nil {
		signal = NewSignal()
	}
	opts.Lexer.Signal = signal
	opts.Assembler.Signal = signal

	var lx *Lexer
	var err error
	if opts.Fast {
		lx, err = NewFastLexer(opts.Lexer)
	} else {
		lx, err = NewLexer(opts.Lexer)
	}
	if err != nil {
		return nil, err
	}

	asm, err := NewAssembler(opts.Assembler)
	if err != nil {
		return nil, err
	}

	var dec *Decoder
	if opts.Decoder != nil {
		dec, err = NewDecoder(*opts.Decoder)
		if err != nil {
			return nil, err
		}
	}

	return &Core{decoder: dec, lexer: lx, assembler: asm, signal: signal}, nil
}

// Signal returns the cancellation handle this Core was built with (or
// created for itself), so a caller can Cancel it from another goroutine.
func (c *Core) Signal() *Signal { return c.signal }

// Cancel cancels this Core's Signal with a caller-supplied reason; the
// lexer and assembler report ErrCancelled at their next boundary.
func (c *Core) Cancel(reason error) { c.signal.Cancel(reason) }

// Feed pushes raw bytes (if this Core has a Decoder) or, when built
// without one, pre-decoded text supplied as the UTF-8 bytes of chunk,
// through the pipeline and returns the Records that are now complete.
// ctx is polled once at entry purely so a context deadline or cancellation
// can be turned into a Signal cancellation; Feed itself never blocks on ctx.
func (c *Core) Feed(ctx context.Context, chunk []byte) ([]Record, error) {
	if err := c.checkContext(ctx); err != nil {
		return nil, err
	}
	text, err := c.decode(chunk, true)
	if err != nil {
		return nil, err
	}
	return c.advance([]rune(text), true)
}

// Flush signals end of input, draining any field or record still pending
// (including the synthetic RecordDelimiter a trailing, unterminated row
// is owed) and returns the final Records. Flush is idempotent: calling it
// again returns no Records and no error.
func (c *Core) Flush(ctx context.Context) ([]Record, error) {
	if c.flushed {
		return nil, nil
	}
	if err := c.checkContext(ctx); err != nil {
		return nil, err
	}
	var tail string
	if c.decoder != nil {
		text, err := c.decode(nil, false)
		if err != nil {
			return nil, err
		}
		tail = text
	}
	c.flushed = true
	return c.advance([]rune(tail), false)
}

func (c *Core) decode(chunk []byte, stream bool) (string, error) {
	if c.decoder == nil {
		return string(chunk), nil
	}
	return c.decoder.Feed(chunk, stream)
}

func (c *Core) advance(chars []rune, stream bool) ([]Record, error) {
	tokens, err := c.lexer.Lex(chars, stream)
	if err != nil {
		return nil, err
	}
	records, err := c.assembler.Assemble(tokens)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Core) checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		timeout := errors.Is(ctx.Err(), context.DeadlineExceeded)
		if timeout {
			c.signal.CancelWithTimeout(ctx.Err())
		} else {
			c.signal.Cancel(ctx.Err())
		}
		return &Error{Err: ErrCancelled, Timeout: timeout}
	default:
		return nil
	}
}

// ReadAll is a convenience wrapper that drives a Core to completion over
// an io.Reader, reading it in fixed-size chunks rather than requiring the
// caller to manage Feed/Flush directly.
func ReadAll(ctx context.Context, r io.Reader, opts CoreOptions) ([]Record, error) {
	core, err := NewCore(opts)
	if err != nil {
		return nil, err
	}
	var records []Record
	br := bufio.NewReaderSize(r, readChunkSize)
	buf := make([]byte, readChunkSize)
	for {
		n, readErr := br.Read(buf)
		if n > 0 {
			batch, err := core.Feed(ctx, buf[:n])
			if err != nil {
				return records, err
			}
			records = append(records, batch...)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return records, readErr
		}
	}
	tail, err := core.Flush(ctx)
	if err != nil {
		return records, err
	}
	return append(records, tail...), nil
}
