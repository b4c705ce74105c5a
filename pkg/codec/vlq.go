package codec

import "math"

func zigzag32(v int32) uint32 { return uint32((v << 1) ^ (v >> 31)) }

func unzigzag32(u uint32) int32 { return int32(u>>1) ^ -int32(u&1) }

func zigzag64(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }

func unzigzag64(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

func appendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// readUvarint reads a VLQ starting at b[off] into an unsigned value of the
// given bit width and returns the number of bytes read.
func readUvarint(b []byte, off int, width uint) (uint64, int, error) {
	maxBytes := int((width + 6) / 7)

	var v uint64
	var shift uint
	for i := 0; ; i++ {
		pos := off + i
		if i == maxBytes {
			return 0, 0, &SyntaxError{Offset: pos, Err: ErrOverflow}
		}
		if pos >= len(b) {
			if i == 0 {
				return 0, 0, &SyntaxError{Offset: pos, Err: ErrTruncated}
			}
			return 0, 0, &SyntaxError{Offset: pos, Err: ErrUnterminated}
		}

		c := b[pos]
		v |= uint64(c&0x7f) << shift
		if c < 0x80 {
			// the last group of a 64-bit value only has one usable bit
			if width == 64 && i == maxBytes-1 && c > 1 {
				return 0, 0, &SyntaxError{Offset: pos, Err: ErrOverflow}
			}
			if width == 32 && v > math.MaxUint32 {
				return 0, 0, &SyntaxError{Offset: pos, Err: ErrOverflow}
			}
			return v, i + 1, nil
		}
		shift += 7
	}
}
