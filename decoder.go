package csvcore

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Decoder turns a byte stream in an arbitrary charset into UTF-8 text,
// one chunk at a time. It carries any trailing bytes that end mid
// multi-byte sequence over to the next Feed call, the same way the rest
// of this package carries a partial token across chunk boundaries.
type Decoder struct {
	opts DecoderOptions
	tr   transform.Transformer

	carry      []byte
	bomChecked bool
}

// NewDecoder resolves opts.Charset through golang.org/x/text/encoding's
// htmlindex — the same fixed IANA name table browsers use to resolve a
// document's declared charset — and constructs a Decoder for it.
func NewDecoder(opts DecoderOptions) (*Decoder, error) {
	opts = opts.withDefaults()
	enc, err := htmlindex.Get(opts.Charset)
	if err != nil {
		return nil, &Error{Err: ErrInvalidOption, Source: "decoder"}
	}
	return &Decoder{opts: opts, tr: enc.NewDecoder()}, nil
}

// Feed decodes chunk (which may be empty) to UTF-8 text. stream == true
// means more chunks may follow, so a trailing incomplete multi-byte
// sequence is held back for the next call instead of failing; pass
// stream == false on the final call so a dangling incomplete sequence is
// reported as ErrInvalidEncoding instead of silently carried forever.
func (d *Decoder) Feed(chunk []byte, stream bool) (string, error) {
	eof := !stream
	data := chunk
	if len(d.carry) > 0 {
		data = append(append([]byte(nil), d.carry...), chunk...)
		d.carry = nil
	}
	// An empty chunk leaves BOM state untouched, so the real first byte
	// still gets the BOM check whenever it eventually arrives.
	if d.opts.StripBOM && !d.bomChecked && len(data) > 0 {
		data = stripUTF8BOM(data)
		d.bomChecked = true
	}

	var out []byte
	src := data
	scratch := make([]byte, 4096)
	for {
		// atEOF is always false so a trailing incomplete sequence comes back
		// as ErrShortSrc instead of being replaced; stream decides below
		// whether it is carried over or rejected.
		nDst, nSrc, err := d.tr.Transform(scratch, src, false)
		out = append(out, scratch[:nDst]...)
		src = src[nSrc:]
		switch err {
		case nil:
			if len(src) == 0 {
				goto done
			}
		case transform.ErrShortDst:
			continue
		case transform.ErrShortSrc:
			if eof {
				return string(out), &Error{Err: ErrInvalidEncoding, Source: "decoder"}
			}
			d.carry = append([]byte(nil), src...)
			goto done
		default:
			return string(out), &Error{Err: ErrInvalidEncoding, Source: "decoder"}
		}
	}
done:
	if d.opts.Fatal && bytes.ContainsRune(out, utf8.RuneError) {
		return string(out), &Error{Err: ErrInvalidEncoding, Source: "decoder"}
	}
	return string(out), nil
}

// stripUTF8BOM removes a leading UTF-8 byte-order mark, if present.
func stripUTF8BOM(b []byte) []byte {
	const bom = "\xef\xbb\xbf"
	if len(b) >= 3 && string(b[:3]) == bom {
		return b[3:]
	}
	return b
}
