package gp

import (
	"errors"
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/tlv"
)

var (
	// ErrUnsupportedFormat is returned for structures this package knows
	// about but refuses to guess at, such as the extended key template format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidLength is returned when a CPLC buffer does not carry the
	// 0x2A length marker.
	ErrInvalidLength = fmt.Errorf("%w: invalid length", tlv.ErrInvalidLayout)
)
