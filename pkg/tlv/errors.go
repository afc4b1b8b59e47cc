package tlv

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is the root of every structural decoding failure: a tag
// that is not the expected one, a length that runs off the buffer, a read
// past the end, or a fixed-layout record of the wrong size.
var ErrInvalidLayout = errors.New("invalid layout")

var (
	// ErrTagMismatch is returned when the byte at the cursor is not the expected tag.
	ErrTagMismatch = fmt.Errorf("%w: tag mismatch", ErrInvalidLayout)

	// ErrTruncatedLength is returned when a long-form length announces more
	// bytes than the buffer holds, or uses an encoding this cursor rejects.
	ErrTruncatedLength = fmt.Errorf("%w: truncated length", ErrInvalidLayout)

	// ErrOutOfBounds is returned when a read would go past the end of the buffer.
	ErrOutOfBounds = fmt.Errorf("%w: out of bounds", ErrInvalidLayout)
)

func outOfBounds(offset, want, size int) error {
	return fmt.Errorf("%w: need %d byte(s) at offset %d, buffer holds %d", ErrOutOfBounds, want, offset, size)
}
