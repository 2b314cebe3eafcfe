package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxSliceLen bounds decoded slice lengths so a corrupt length prefix cannot
// trigger a huge allocation.
const maxSliceLen = 1 << 26

// Writer writes little-endian primitives. The first error is sticky: later
// writes are no-ops and Err reports it.
type Writer struct {
	w         io.Writer
	byteOrder binary.ByteOrder
	err       error
}

// NewWriter creates a new binary writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:         w,
		byteOrder: binary.LittleEndian,
	}
}

// Err returns the first error encountered.
func (bw *Writer) Err() error { return bw.err }

func (bw *Writer) write(v any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, bw.byteOrder, v)
}

// WriteUint8 writes a single byte.
func (bw *Writer) WriteUint8(v uint8) { bw.write(v) }

// WriteUint32 writes a uint32.
func (bw *Writer) WriteUint32(v uint32) { bw.write(v) }

// WriteUint64 writes a uint64.
func (bw *Writer) WriteUint64(v uint64) { bw.write(v) }

// WriteFloat64 writes a float64.
func (bw *Writer) WriteFloat64(v float64) { bw.write(v) }

// WriteBool writes a bool as one byte.
func (bw *Writer) WriteBool(v bool) {
	if v {
		bw.WriteUint8(1)
		return
	}
	bw.WriteUint8(0)
}

// WriteFloat64Slice writes a length-prefixed float64 slice.
func (bw *Writer) WriteFloat64Slice(v []float64) {
	bw.WriteUint32(uint32(len(v)))
	if len(v) > 0 {
		bw.write(v)
	}
}

// WriteString writes a length-prefixed UTF-8 string.
func (bw *Writer) WriteString(s string) {
	bw.WriteUint32(uint32(len(s)))
	if bw.err != nil || len(s) == 0 {
		return
	}
	_, bw.err = io.WriteString(bw.w, s)
}

// WriteBytes writes a length-prefixed byte slice.
func (bw *Writer) WriteBytes(b []byte) {
	bw.WriteUint32(uint32(len(b)))
	if bw.err != nil || len(b) == 0 {
		return
	}
	_, bw.err = bw.w.Write(b)
}

// WriteStringSlice writes a length-prefixed string slice.
func (bw *Writer) WriteStringSlice(v []string) {
	bw.WriteUint32(uint32(len(v)))
	for _, s := range v {
		bw.WriteString(s)
	}
}

// Reader reads values written by Writer. Like Writer, the first error is sticky.
type Reader struct {
	r         io.Reader
	byteOrder binary.ByteOrder
	err       error
}

// NewReader creates a new binary reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:         r,
		byteOrder: binary.LittleEndian,
	}
}

// Err returns the first error encountered. A short read reports ErrTruncated.
func (br *Reader) Err() error { return br.err }

func (br *Reader) read(v any) {
	if br.err != nil {
		return
	}
	if err := binary.Read(br.r, br.byteOrder, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrTruncated
		}
		br.err = err
	}
}

// ReadUint8 reads a single byte.
func (br *Reader) ReadUint8() uint8 {
	var v uint8
	br.read(&v)
	return v
}

// ReadUint32 reads a uint32.
func (br *Reader) ReadUint32() uint32 {
	var v uint32
	br.read(&v)
	return v
}

// ReadUint64 reads a uint64.
func (br *Reader) ReadUint64() uint64 {
	var v uint64
	br.read(&v)
	return v
}

// ReadFloat64 reads a float64.
func (br *Reader) ReadFloat64() float64 {
	var v float64
	br.read(&v)
	return v
}

// ReadBool reads a bool.
func (br *Reader) ReadBool() bool {
	return br.ReadUint8() != 0
}

func (br *Reader) readLen() int {
	n := br.ReadUint32()
	if br.err != nil {
		return 0
	}
	if n > maxSliceLen {
		br.err = fmt.Errorf("%w: %d", ErrInvalidLength, n)
		return 0
	}
	return int(n)
}

// ReadFloat64Slice reads a length-prefixed float64 slice.
func (br *Reader) ReadFloat64Slice() []float64 {
	n := br.readLen()
	if n == 0 {
		return nil
	}
	v := make([]float64, n)
	br.read(v)
	if br.err != nil {
		return nil
	}
	return v
}

// ReadString reads a length-prefixed string.
func (br *Reader) ReadString() string {
	n := br.readLen()
	if n == 0 {
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(br.r, b); err != nil {
		br.err = ErrTruncated
		return ""
	}
	return string(b)
}

// ReadBytes reads a length-prefixed byte slice.
func (br *Reader) ReadBytes() []byte {
	n := br.readLen()
	if n == 0 {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(br.r, b); err != nil {
		br.err = ErrTruncated
		return nil
	}
	return b
}

// ReadStringSlice reads a length-prefixed string slice.
func (br *Reader) ReadStringSlice() []string {
	n := br.readLen()
	if n == 0 {
		return nil
	}
	v := make([]string, 0, min(n, 1024))
	for i := 0; i < n && br.err == nil; i++ {
		v = append(v, br.ReadString())
	}
	if br.err != nil {
		return nil
	}
	return v
}
