package world

import (
	"bytes"
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// ReadCanonicalStates decodes a canonical block state table: network NBT compounds
// written back to back with no count or length prefix. The position of a state in
// the returned slice is its runtime ID, so the file order is kept as is.
func ReadCanonicalStates(buf []byte, in *Interner) ([]BlockState, error) {
	r := bytes.NewReader(buf)
	dec := nbt.NewDecoderWithEncoding(r, nbt.NetworkLittleEndian)

	var states []BlockState
	for r.Len() > 0 {
		offset := len(buf) - r.Len()

		var tag map[string]any
		if err := dec.Decode(&tag); err != nil {
			return nil, &DataFileError{
				Offset: offset,
				Err:    fmt.Errorf("%w: block state %d: %v", ErrMalformedData, len(states), err),
			}
		}
		states = append(states, in.State(tag))
	}
	return states, nil
}
