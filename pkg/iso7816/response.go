package iso7816

import (
	"errors"
	"fmt"
)

// ErrStatus is returned when a response carries an error status word.
var ErrStatus = errors.New("card returned an error status")

// Response is a response APDU split into its body and status word.
type Response struct {
	Data []byte
	SW   StatusWord
}

// ParseResponse splits raw into body and trailing status word.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: %d byte(s), need at least 2 for SW1-SW2", len(raw))
	}
	n := len(raw) - 2
	return &Response{
		Data: append([]byte(nil), raw[:n]...),
		SW:   NewStatusWord(raw[n], raw[n+1]),
	}, nil
}

// DataObject returns the body of a GET DATA response.
//
// '6A88' (referenced data not found) means the card does not hold the data
// object: a nil body and no error are returned. Any other non-success status
// is an error wrapping ErrStatus.
func (r *Response) DataObject() ([]byte, error) {
	switch {
	case r.SW.IsSuccess():
		if r.Data == nil {
			return []byte{}, nil
		}
		return r.Data, nil
	case r.SW == SW_ERR_REF_DATA_NOT_FND:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrStatus, r.SW.Verbose())
	}
}

// String returns the response in a trace-like notation.
func (r *Response) String() string {
	return fmt.Sprintf("R-APDU: % X [%04X]", r.Data, uint16(r.SW))
}
