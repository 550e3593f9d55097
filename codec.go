// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokenbridge

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/holiman/uint256"
)

// Reader decodes fixed-width big-endian fields from a byte slice. The first
// short read is sticky: later reads return zero values and Err reports it.
type Reader struct {
	b   []byte
	off int
	err error
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.b)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", io.ErrUnexpectedEOF, n, r.off, len(r.b)-r.off)
		return nil
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out
}

// Uint8 reads one byte.
func (r *Reader) Uint8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Uint16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *Reader) Uint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *Reader) Uint64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// Uint256 reads a 32-byte big-endian word.
func (r *Reader) Uint256() *uint256.Int {
	b := r.next(32)
	if b == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes32(b)
}

// Bytes32 reads a fixed 32-byte array.
func (r *Reader) Bytes32() (out [32]byte) {
	copy(out[:], r.next(32))
	return out
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.next(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Rest returns a copy of every unread byte and consumes them.
func (r *Reader) Rest() []byte {
	return r.Bytes(r.Remaining())
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.b) - r.off
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.off
}

// Err returns the first short-read error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Writer appends fixed-width big-endian fields.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity for size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

func (w *Writer) Uint8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) Uint16(v uint16) *Writer {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
	return w
}

func (w *Writer) Uint32(v uint32) *Writer {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	return w
}

func (w *Writer) Uint64(v uint64) *Writer {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
	return w
}

// Uint256 writes v as a 32-byte big-endian word. A nil v writes zero.
func (w *Writer) Uint256(v *uint256.Int) *Writer {
	var word [32]byte
	if v != nil {
		word = v.Bytes32()
	}
	w.buf = append(w.buf, word[:]...)
	return w
}

func (w *Writer) Bytes(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Result returns the encoded bytes.
func (w *Writer) Result() []byte {
	return w.buf
}
