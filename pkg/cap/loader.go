package cap

import (
	"bytes"
	"crypto"
	_ "crypto/sha1" // registers crypto.SHA1
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/tlv"
)

// LOAD FILE (GP 2.1.1 §9.5 LOAD, §C.2):
// The card receives the Load File Data Block as
//
//	C4 <BER length> Header Directory Import Applet Class Method
//	                StaticField Export ConstantPool RefLocation
//	                [Descriptor Debug]
//
// split over as many LOAD commands as needed. The C4 length covers every
// component sent, so it is computed here and never taken from the Header
// component's own size field. The Load File Data Block Hash authenticated
// by load tokens is the SHA-1 of the components alone, without C4.

const (
	tagLoadFileDataBlock = 0xC4

	// DefaultBlockSize is the largest LOAD payload that fits a short APDU
	// once secure messaging overhead is taken off.
	DefaultBlockSize = 247
)

// CodeLength returns the summed size of the components sent to the card.
func (c *CapFile) CodeLength(includeDebug bool) int {
	n := 0
	for _, comp := range Components() {
		if comp.loaded(includeDebug) {
			n += len(c.components[comp])
		}
	}
	return n
}

// LoadFileHeader returns the C4 tag and BER length prefixing the load file.
func (c *CapFile) LoadFileHeader(includeDebug bool) []byte {
	return tlv.AppendHeader(nil, tagLoadFileDataBlock, c.CodeLength(includeDebug))
}

// rawCode concatenates the loaded components in load order.
func (c *CapFile) rawCode(includeDebug bool) []byte {
	buf := make([]byte, 0, c.CodeLength(includeDebug))
	for _, comp := range Components() {
		if comp.loaded(includeDebug) {
			buf = append(buf, c.components[comp]...)
		}
	}
	return buf
}

// LoadFile returns the whole Load File Data Block: C4 header and components.
func (c *CapFile) LoadFile(includeDebug bool) []byte {
	return append(c.LoadFileHeader(includeDebug), c.rawCode(includeDebug)...)
}

// LoadFileDataHash returns the SHA-1 Load File Data Block Hash.
// It panics with ErrEnvironmentFault if SHA-1 is not linked in.
func (c *CapFile) LoadFileDataHash(includeDebug bool) []byte {
	if !crypto.SHA1.Available() {
		panic(fmt.Errorf("%w: SHA-1 unavailable", ErrEnvironmentFault))
	}
	h := crypto.SHA1.New()
	h.Write(c.rawCode(includeDebug))
	return h.Sum(nil)
}

// LoadStep is one component's share of a separated load.
type LoadStep struct {
	Component Component
	Blocks    [][]byte
}

// LoadSteps splits each loaded component on its own, in load order. The C4
// header is prepended to the Header component only.
func (c *CapFile) LoadSteps(includeDebug bool, blockSize int) ([]LoadStep, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	var steps []LoadStep
	for _, comp := range Components() {
		data := c.components[comp]
		if data == nil || !comp.loaded(includeDebug) {
			continue
		}
		if comp == ComponentHeader {
			data = append(c.LoadFileHeader(includeDebug), data...)
		}
		steps = append(steps, LoadStep{Component: comp, Blocks: splitBlocks(data, blockSize)})
	}
	return steps, nil
}

// LoadBlocks returns the LOAD command payloads.
//
// Without separateComponents the whole load file is split in blockSize
// chunks. With it, every component is split on its own (see LoadSteps) and
// the chunks of all components are returned in order.
func (c *CapFile) LoadBlocks(includeDebug, separateComponents bool, blockSize int) ([][]byte, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if !separateComponents {
		return splitBlocks(c.LoadFile(includeDebug), blockSize), nil
	}

	steps, err := c.LoadSteps(includeDebug, blockSize)
	if err != nil {
		return nil, err
	}
	var blocks [][]byte
	for _, s := range steps {
		blocks = append(blocks, s.Blocks...)
	}
	return blocks, nil
}

// splitBlocks cuts data in chunks of at most size bytes. Each chunk is a
// copy. Empty data gives no chunk.
func splitBlocks(data []byte, size int) [][]byte {
	blocks := make([][]byte, 0, (len(data)+size-1)/size)
	for off := 0; off < len(data); off += size {
		end := min(off+size, len(data))
		blocks = append(blocks, bytes.Clone(data[off:end]))
	}
	return blocks
}
