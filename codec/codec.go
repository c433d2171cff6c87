package codec

import (
	"math"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// Protobuf wire types.
const (
	WireVarint = 0
	WireBytes  = 2
)

// Marshaller is implemented by any type that can be embedded as a nested
// message.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Unmarshaller is implemented by any type that can be decoded from a nested
// message.
type Unmarshaller interface {
	Unmarshal([]byte) error
}

// Encoder writes protobuf fields into a buffer.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) tag(field int, wire int) {
	if e.err != nil {
		return
	}
	e.err = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 || e.err != nil {
		return
	}
	e.tag(field, WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
}

// Bool writes a boolean as a varint field. False is omitted.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint64(field, 1)
	}
}

// RawBytes writes a length delimited field. Empty value is omitted.
func (e *Encoder) RawBytes(field int, b []byte) {
	if len(b) == 0 || e.err != nil {
		return
	}
	e.tag(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
}

// String writes a length delimited field. Empty value is omitted.
func (e *Encoder) String(field int, s string) {
	if len(s) == 0 || e.err != nil {
		return
	}
	e.tag(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeStringBytes(s)
	}
}

// Message writes a nested message. A nil message is omitted.
func (e *Encoder) Message(field int, m Marshaller) {
	if m == nil || isNil(m) || e.err != nil {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return
	}
	// An empty nested message must still be present to be distinguished
	// from a missing one.
	e.tag(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
}

// Result returns the encoded content or the first error that happened.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, e.err.Error())
	}
	return e.buf.Bytes(), nil
}

func isNil(m Marshaller) bool {
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Decoder reads protobuf fields from a buffer. The first error stops the
// decoding and is returned by Err.
type Decoder struct {
	raw   []byte
	pos   int
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading given protobuf message.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{raw: raw}
}

// Next reads the next field tag. It returns false when the whole buffer was
// consumed or an error occurred.
func (d *Decoder) Next() bool {
	if d.err != nil || d.pos >= len(d.raw) {
		return false
	}
	tag, ok := d.varint()
	if !ok {
		return false
	}
	d.field = int(tag >> 3)
	d.wire = int(tag & 0x7)
	if d.field <= 0 {
		d.fail("invalid field number %d", d.field)
		return false
	}
	return true
}

// Field returns the number of the current field.
func (d *Decoder) Field() int {
	return d.field
}

// Uint64 reads the current varint field.
func (d *Decoder) Uint64() uint64 {
	if !d.expect(WireVarint) {
		return 0
	}
	v, _ := d.varint()
	return v
}

// Uint32 reads the current varint field. Values out of range fail the
// decoding.
func (d *Decoder) Uint32() uint32 {
	v := d.Uint64()
	if v > math.MaxUint32 {
		d.fail("%d overflows uint32", v)
		return 0
	}
	return uint32(v)
}

// Uint8 reads the current varint field. Values out of range fail the
// decoding.
func (d *Decoder) Uint8() uint8 {
	v := d.Uint64()
	if v > math.MaxUint8 {
		d.fail("%d overflows uint8", v)
		return 0
	}
	return uint8(v)
}

// Bool reads the current varint field as a boolean.
func (d *Decoder) Bool() bool {
	return d.Uint64() != 0
}

// RawBytes reads the current length delimited field. Returned slice does
// not share memory with the decoded buffer.
func (d *Decoder) RawBytes() []byte {
	b := d.bytes()
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// String reads the current length delimited field.
func (d *Decoder) String() string {
	return string(d.bytes())
}

// Message reads the current field as a nested message.
func (d *Decoder) Message(m Unmarshaller) {
	b := d.bytes()
	if d.err != nil {
		return
	}
	if err := m.Unmarshal(b); err != nil {
		d.err = err
	}
}

// Skip ignores the current field. Unknown fields must be skipped to stay
// compatible with newer encodings.
func (d *Decoder) Skip() {
	switch d.wire {
	case WireVarint:
		d.varint()
	case WireBytes:
		d.bytes()
	case 1:
		d.advance(8)
	case 5:
		d.advance(4)
	default:
		d.fail("unsupported wire type %d", d.wire)
	}
}

// Err returns the first error that happened during decoding.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) expect(wire int) bool {
	if d.err != nil {
		return false
	}
	if d.wire != wire {
		d.fail("field %d: want wire type %d, got %d", d.field, wire, d.wire)
		return false
	}
	return true
}

func (d *Decoder) varint() (uint64, bool) {
	v, n := proto.DecodeVarint(d.raw[d.pos:])
	if n == 0 {
		d.fail("malformed varint")
		return 0, false
	}
	d.pos += n
	return v, true
}

func (d *Decoder) bytes() []byte {
	if !d.expect(WireBytes) {
		return nil
	}
	size, ok := d.varint()
	if !ok {
		return nil
	}
	if size > uint64(len(d.raw)-d.pos) {
		d.fail("field %d: length %d out of range", d.field, size)
		return nil
	}
	b := d.raw[d.pos : d.pos+int(size)]
	d.pos += int(size)
	return b
}

func (d *Decoder) advance(n int) {
	if n > len(d.raw)-d.pos {
		d.fail("unexpected end of data")
		return
	}
	d.pos += n
}

func (d *Decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(errors.ErrInvalidInput, "protobuf: "+format, args...)
	}
}
