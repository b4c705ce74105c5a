package codec

import (
	"fmt"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

var (
	ErrTruncated     = errors.New("truncated input")
	ErrUnterminated  = errors.New("vlq missing terminator")
	ErrOverflow      = errors.New("vlq overflows value width")
	ErrUnknownType   = errors.New("unknown type tag")
	ErrKindMismatch  = errors.New("unexpected value kind")
	ErrTrailingBytes = errors.New("trailing bytes after value")
)

// SyntaxError describes malformed serialized input. It matches errors.ErrDecode.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{e.Err, errors.ErrDecode}
}
