// Package codec implements the register value serialization used by box
// registers R4..R9: 32-bit Int, 64-bit Long and Coll[Byte] values, each
// prefixed with a one-byte type tag.
//
//	Int   0x04 | vlq(zigzag32(v))
//	Long  0x05 | vlq(zigzag64(v))
//	Coll  0x0e | vlq(len) | bytes
//
// VLQ groups are 7 bits wide, least significant group first, with the high
// bit of each byte set while more groups follow.
package codec

import (
	"encoding/hex"
	"fmt"
)

// Kind is the leading type tag of a serialized register value.
type Kind byte

const (
	KindInt  Kind = 0x04
	KindLong Kind = 0x05
	KindColl Kind = 0x0e
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindColl:
		return "Coll[Byte]"
	default:
		return fmt.Sprintf("Kind(0x%02x)", byte(k))
	}
}

// Value is a decoded register value. Only the field matching Kind is set.
type Value struct {
	Kind  Kind
	Int   int32
	Long  int64
	Bytes []byte
}

func Int(v int32) Value { return Value{Kind: KindInt, Int: v} }

func Long(v int64) Value { return Value{Kind: KindLong, Long: v} }

func Coll(b []byte) Value { return Value{Kind: KindColl, Bytes: b} }

// EncodeInt serializes a 32-bit integer register value.
func EncodeInt(v int32) []byte {
	return appendUvarint([]byte{byte(KindInt)}, uint64(zigzag32(v)))
}

// EncodeLong serializes a 64-bit integer register value.
func EncodeLong(v int64) []byte {
	return appendUvarint([]byte{byte(KindLong)}, zigzag64(v))
}

// EncodeColl serializes a byte collection register value.
func EncodeColl(b []byte) []byte {
	out := make([]byte, 0, 1+uvarintLen(uint64(len(b)))+len(b))
	out = append(out, byte(KindColl))
	out = appendUvarint(out, uint64(len(b)))
	return append(out, b...)
}

// Encode serializes v according to its kind.
func Encode(v Value) ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return EncodeInt(v.Int), nil
	case KindLong:
		return EncodeLong(v.Long), nil
	case KindColl:
		return EncodeColl(v.Bytes), nil
	default:
		return nil, fmt.Errorf("encode register value: %w: %s", ErrUnknownType, v.Kind)
	}
}

// EncodeHex serializes v and returns the lowercase hex form used on the wire.
func EncodeHex(v Value) (string, error) {
	b, err := Encode(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Decode reads one value from the start of b and reports how many bytes it
// consumed.
func Decode(b []byte) (Value, int, error) {
	if len(b) == 0 {
		return Value{}, 0, &SyntaxError{Offset: 0, Err: ErrTruncated}
	}

	kind := Kind(b[0])
	switch kind {
	case KindInt:
		u, n, err := readUvarint(b, 1, 32)
		if err != nil {
			return Value{}, 0, err
		}
		return Int(unzigzag32(uint32(u))), 1 + n, nil
	case KindLong:
		u, n, err := readUvarint(b, 1, 64)
		if err != nil {
			return Value{}, 0, err
		}
		return Long(unzigzag64(u)), 1 + n, nil
	case KindColl:
		size, n, err := readUvarint(b, 1, 32)
		if err != nil {
			return Value{}, 0, err
		}
		start := 1 + n
		if uint64(len(b)-start) < size {
			return Value{}, 0, &SyntaxError{Offset: len(b), Err: ErrTruncated}
		}
		end := start + int(size)
		out := make([]byte, size)
		copy(out, b[start:end])
		return Coll(out), end, nil
	default:
		return Value{}, 0, &SyntaxError{Offset: 0, Err: fmt.Errorf("%w: 0x%02x", ErrUnknownType, b[0])}
	}
}

// DecodeHex decodes a hex-encoded value that must span the whole string.
func DecodeHex(s string) (Value, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Value{}, &SyntaxError{Offset: 0, Err: err}
	}
	return decodeAll(b)
}

// DecodeInt decodes b as a single Int value.
func DecodeInt(b []byte) (int32, error) {
	v, err := decodeKind(b, KindInt)
	return v.Int, err
}

// DecodeLong decodes b as a single Long value.
func DecodeLong(b []byte) (int64, error) {
	v, err := decodeKind(b, KindLong)
	return v.Long, err
}

// DecodeColl decodes b as a single Coll[Byte] value.
func DecodeColl(b []byte) ([]byte, error) {
	v, err := decodeKind(b, KindColl)
	return v.Bytes, err
}

func decodeKind(b []byte, want Kind) (Value, error) {
	v, err := decodeAll(b)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != want {
		return Value{}, &SyntaxError{Offset: 0, Err: fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, want, v.Kind)}
	}
	return v, nil
}

func decodeAll(b []byte) (Value, error) {
	v, n, err := Decode(b)
	if err != nil {
		return Value{}, err
	}
	if n != len(b) {
		return Value{}, &SyntaxError{Offset: n, Err: ErrTrailingBytes}
	}
	return v, nil
}
