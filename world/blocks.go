package world

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	// SubChunkVolume is the number of blocks in a 16x16x16 sub-chunk.
	SubChunkVolume = 4096

	subChunkVersion = 8
)

var paletteBitSizes = []int{1, 2, 3, 4, 5, 6, 8, 16}

// SubChunkIndex returns the position of the block at the given sub-chunk local
// coordinates in a sub-chunk block slice.
func SubChunkIndex(x, y, z uint8) int {
	return int(x&15)<<8 | int(z&15)<<4 | int(y&15)
}

// EncodeSubChunk encodes SubChunkVolume legacy block keys as a single-layer network
// sub-chunk for clients of mappingProtocol. The palette holds runtime IDs.
func EncodeSubChunk(blocks []LegacyKey, m *RuntimeBlockMapping, mappingProtocol int32) ([]byte, error) {
	if len(blocks) != SubChunkVolume {
		return nil, fmt.Errorf("sub-chunk needs %d blocks, got %d", SubChunkVolume, len(blocks))
	}

	var (
		palette = make(map[uint32]uint16)
		entries []uint32
		indices = make([]uint16, SubChunkVolume)
	)
	for i, key := range blocks {
		runtimeID := m.ToRuntimeID(key, mappingProtocol)
		index, ok := palette[runtimeID]
		if !ok {
			index = uint16(len(entries))
			palette[runtimeID] = index
			entries = append(entries, runtimeID)
		}
		indices[i] = index
	}

	bitsPerBlock := paletteBits(len(entries))
	blocksPerWord := 32 / bitsPerBlock
	words := make([]uint32, (SubChunkVolume+blocksPerWord-1)/blocksPerWord)
	for i, index := range indices {
		words[i/blocksPerWord] |= uint32(index) << ((i % blocksPerWord) * bitsPerBlock)
	}

	w := bytes.NewBuffer(nil)
	w.WriteByte(subChunkVersion)
	w.WriteByte(1)
	// lowest bit set: palette entries are runtime IDs
	w.WriteByte(byte(bitsPerBlock<<1) | 1)
	if err := binary.Write(w, binary.LittleEndian, words); err != nil {
		return nil, err
	}
	protocol.WriteVarint32(w, int32(len(entries)))
	for _, runtimeID := range entries {
		protocol.WriteVarint32(w, int32(runtimeID))
	}
	return w.Bytes(), nil
}

func paletteBits(size int) int {
	for _, bits := range paletteBitSizes {
		if size <= 1<<bits {
			return bits
		}
	}
	return paletteBitSizes[len(paletteBitSizes)-1]
}
