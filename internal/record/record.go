// Package record defines the on-disk layout of a single shard-log entry
// and the primitives for reading and writing it.
//
// Layout (little-endian, fixed 32-bit length fields for portability across
// platforms):
//
//	key_len   int32
//	value_len int32
//	deleted   uint8
//	key       []byte (key_len bytes)
//	value     []byte (value_len bytes)
package record

import (
	"encoding/binary"
	"errors"
	"io"
)

// HeaderSize is the fixed-width prefix of every record: two int32 length
// fields plus the one-byte tombstone flag.
const HeaderSize = 9

// ErrMalformedHeader is returned when a record header fails to parse or
// carries a negative length.
var ErrMalformedHeader = errors.New("record: malformed header")

// Header is the fixed-size prefix of a Record.
type Header struct {
	KeyLen   int32
	ValueLen int32
	Deleted  bool
}

// Footprint returns the total on-disk size of the record described by h.
func (h Header) Footprint() int64 {
	return HeaderSize + int64(h.KeyLen) + int64(h.ValueLen)
}

// EncodeHeader writes h into a fresh HeaderSize-byte buffer.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.KeyLen))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.ValueLen))
	if h.Deleted {
		buf[8] = 1
	}
	return buf
}

// DecodeHeader parses a HeaderSize-byte buffer into a Header. It rejects
// negative lengths, which can only arise from a corrupt or truncated read.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrMalformedHeader
	}
	keyLen := int32(binary.LittleEndian.Uint32(buf[0:4]))
	valueLen := int32(binary.LittleEndian.Uint32(buf[4:8]))
	if keyLen < 0 || valueLen < 0 {
		return Header{}, ErrMalformedHeader
	}
	return Header{
		KeyLen:   keyLen,
		ValueLen: valueLen,
		Deleted:  buf[8] != 0,
	}, nil
}

// ReadHeaderAt reads and decodes a Header from r without consuming the key
// or value bytes that follow it.
func ReadHeaderAt(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, err
	}
	return DecodeHeader(buf)
}

// Encode serializes a full record: header, key, value.
func Encode(key, value []byte, deleted bool) []byte {
	h := Header{KeyLen: int32(len(key)), ValueLen: int32(len(value)), Deleted: deleted}
	buf := make([]byte, 0, h.Footprint())
	buf = append(buf, EncodeHeader(h)...)
	buf = append(buf, key...)
	buf = append(buf, value...)
	return buf
}
