package iso7816

import (
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/bits"
)

// Dynamic Status Word Logic:
//
// Most Status Words (SW) are static 2-byte values (e.g., 0x9000). ISO 7816-4
// defines a few ranges where SW2 carries information:
//
// 1. '61XX': Process completed, XX more bytes available (GET RESPONSE).
// 2. '6CXX': Wrong length, XX is the Le the card expects.
// 3. '63CX': Counter, X is the counter value (e.g. remaining retries).

// StatusWord is the two-byte trailer (SW1-SW2) of a card response.
type StatusWord uint16

// NewStatusWord creates a StatusWord from its two bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first byte (high byte) of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second byte (low byte) of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsCounter checks if the status is a '63CX' counter.
func (sw StatusWord) IsCounter() bool {
	return sw.SW1() == 0x63 && bits.HighNibble(sw.SW2()) == 0x0C
}

// IsSuccess returns true for 9000 and 61XX.
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == 0x61
}

// IsWarning returns true for 62XX and 63XX.
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == 0x62 || sw1 == 0x63
}

// IsError returns true for 64XX to 6FXX.
func (sw StatusWord) IsError() bool {
	sw1 := sw.SW1()
	return sw1 >= 0x64 && sw1 <= 0x6F
}

// Verbose returns a human-readable description of the status word.
func (sw StatusWord) Verbose() string {
	sw2 := sw.SW2()

	switch {
	case sw.IsCounter():
		return fmt.Sprintf("[%04X] Warning: State changed, counter = %d", uint16(sw), bits.LowNibble(sw2))
	case sw.SW1() == 0x61:
		return fmt.Sprintf("[%04X] Process completed, %d bytes available", uint16(sw), sw2)
	case sw.SW1() == 0x6C:
		return fmt.Sprintf("[%04X] Wrong length, correct Le is %d", uint16(sw), sw2)
	}

	if desc, ok := statusWordNames[sw]; ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), desc)
	}
	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

// genericCategoryDescription provides a fallback description based on SW1.
func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	default:
		return "Unknown Status"
	}
}

// Status words a GlobalPlatform card returns to GET DATA and LOAD.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_NO_INFO         StatusWord = 0x6200
	SW_ERR_MEMORY_FAILURE   StatusWord = 0x6581
	SW_ERR_WRONG_LENGTH     StatusWord = 0x6700
	SW_ERR_SECURITY_STATUS  StatusWord = 0x6982
	SW_ERR_COND_OF_USE      StatusWord = 0x6985
	SW_ERR_INCORRECT_DATA   StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPP    StatusWord = 0x6A81
	SW_ERR_NOT_ENOUGH_MEM   StatusWord = 0x6A84
	SW_ERR_INCORRECT_P1P2   StatusWord = 0x6A86
	SW_ERR_REF_DATA_NOT_FND StatusWord = 0x6A88
	SW_ERR_INS_INVALID      StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPP     StatusWord = 0x6E00
	SW_ERR_UNKNOWN          StatusWord = 0x6F00
)

var statusWordNames = map[StatusWord]string{
	SW_NO_ERROR:             "No error",
	SW_WARN_NO_INFO:         "Warning: No information given",
	SW_ERR_MEMORY_FAILURE:   "Memory failure",
	SW_ERR_WRONG_LENGTH:     "Wrong length",
	SW_ERR_SECURITY_STATUS:  "Security status not satisfied",
	SW_ERR_COND_OF_USE:      "Conditions of use not satisfied",
	SW_ERR_INCORRECT_DATA:   "Incorrect values in command data",
	SW_ERR_FUNC_NOT_SUPP:    "Function not supported",
	SW_ERR_NOT_ENOUGH_MEM:   "Not enough memory space",
	SW_ERR_INCORRECT_P1P2:   "Incorrect P1 P2",
	SW_ERR_REF_DATA_NOT_FND: "Referenced data not found",
	SW_ERR_INS_INVALID:      "Instruction code not supported or invalid",
	SW_ERR_CLA_NOT_SUPP:     "Class not supported",
	SW_ERR_UNKNOWN:          "No precise diagnosis",
}
