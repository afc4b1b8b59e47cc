package cap

import (
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/tlv"
	"golang.org/x/crypto/cryptobyte"
)

// APPLET COMPONENT (JCVM 2.2.2 §6.5):
//
//	u1  tag    (3)
//	u2  size
//	u1  count
//	{
//	    u1  AID_length
//	    u1  AID[AID_length]
//	    u2  install_method_offset
//	}   applets[count]

func parseApplets(b []byte) ([]AID, error) {
	var (
		tag   uint8
		size  uint16
		count uint8
	)

	s := cryptobyte.String(b)
	if !s.ReadUint8(&tag) || !s.ReadUint16(&size) || !s.ReadUint8(&count) {
		return nil, fmt.Errorf("%w: Applet component of %d byte(s): %w", ErrMalformedContainer, len(b), tlv.ErrOutOfBounds)
	}

	applets := make([]AID, 0, count)
	for i := 0; i < int(count); i++ {
		var aid cryptobyte.String
		var installOffset uint16
		if !s.ReadUint8LengthPrefixed(&aid) || !s.ReadUint16(&installOffset) {
			return nil, fmt.Errorf("%w: applet %d of %d: %w", ErrMalformedContainer, i+1, count, tlv.ErrOutOfBounds)
		}

		a, err := NewAID(aid)
		if err != nil {
			return nil, fmt.Errorf("%w: applet %d: %w", ErrMalformedContainer, i+1, err)
		}
		applets = append(applets, a)
	}
	return applets, nil
}
