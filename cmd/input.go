package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/iso7816"
	"github.com/gregLibert/globalplatform/pkg/tlv"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// readInput returns the bytes named by input: "-" or "" for stdin, a file
// path, or hex typed on the command line. Text read from stdin or a file is
// decoded as hex when it is hex; anything else is taken as raw binary.
func readInput(input string) ([]byte, error) {
	input = strings.TrimSpace(input)

	if input == "-" || input == "" {
		if f, ok := stdin.(*os.File); ok {
			stat, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("cannot read stdin: %w", err)
			}
			if (stat.Mode() & os.ModeCharDevice) != 0 {
				return nil, fmt.Errorf("no input provided (use hex, a file path, or pipe to stdin)")
			}
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return hexOrRaw(b), nil
	}

	if _, err := os.Stat(input); err == nil {
		b, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", input, err)
		}
		return hexOrRaw(b), nil
	}

	data, err := tlv.ParseHex(input)
	if err != nil {
		return nil, fmt.Errorf("input is neither a file nor hex: %w", err)
	}
	return data, nil
}

func hexOrRaw(b []byte) []byte {
	if data, err := tlv.ParseHex(string(b)); err == nil {
		return data
	}
	return b
}

// readDataObject reads a GET DATA payload. With response set, the input is
// a full response APDU and its status word decides whether the object is
// present.
func readDataObject(args []string, response bool) ([]byte, error) {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	raw, err := readInput(input)
	if err != nil {
		return nil, err
	}
	if !response {
		return raw, nil
	}

	resp, err := iso7816.ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	return resp.DataObject()
}
