// Package decode reads the binary primitives used by the obby container
// format from a forward-only cursor.
//
// All reads advance the cursor; it never rewinds. Short reads surface
// ErrTruncated so callers can distinguish an exhausted source from other
// I/O failures.
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrTruncated is returned when the source ends in the middle of a field.
var ErrTruncated = errors.New("obby: truncated archive")

// Reader decodes fixed-width and length-prefixed primitives from r.
//
// Reader tracks the number of bytes consumed since construction, which
// callers use for error context and offset bookkeeping.
type Reader struct {
	r   io.Reader
	off int64
}

// NewReader creates a Reader positioned at offset 0 of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (byte, error) {
	var buf [1]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Bytes reads exactly n bytes into a freshly allocated buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Int32 reads a little-endian signed 32-bit integer. The value is returned
// as stored; negative values are not rejected here.
func (r *Reader) Int32() (int32, error) {
	var buf [4]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// String reads a length-prefixed string: a base-128 varint length (7 bits
// per byte, least-significant group first, high bit set on continuation
// bytes) followed by that many bytes of UTF-8.
//
// Invalid UTF-8 sequences are replaced with U+FFFD rather than rejected;
// malformed text never aborts a parse. The accumulated length is not
// bounded up front — an oversized length fails with ErrTruncated on the
// payload read.
func (r *Reader) String() (string, error) {
	var length uint32
	for shift := uint(0); ; shift += 7 {
		b, err := r.Uint8()
		if err != nil {
			return "", err
		}
		length |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
	}
	buf, err := r.Bytes(int(length))
	if err != nil {
		return "", err
	}
	if utf8.Valid(buf) {
		return string(buf), nil
	}
	return strings.ToValidUTF8(string(buf), string(utf8.RuneError)), nil
}

// fill reads len(buf) bytes, mapping any form of early EOF to ErrTruncated.
func (r *Reader) fill(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w at offset %d", ErrTruncated, r.off)
		}
		return err
	}
	return nil
}
