/*
Package iso7816 decodes the response side of ISO/IEC 7816-4 exchanges.

Commands are built and sent by whoever owns the card connection. This package
takes a captured Response APDU (Optional Body + Trailer SW1/SW2) and hands the
body to the GlobalPlatform decoders.

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6A88: Referenced data not found. For GET DATA this means the card
    does not hold the object (no CPLC, no Key Information Template).
  - Other: Various error conditions.

# Usage Example: Decoding a GET DATA '9F7F' capture

	resp, err := iso7816.ParseResponse(raw)
	if err != nil {
		return err
	}
	data, err := resp.DataObject() // nil when the card answered 6A88
	if err != nil {
		return err
	}
	cplc, err := gp.ParseCPLC(data)
*/
package iso7816
