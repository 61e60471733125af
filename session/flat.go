package session

import (
	"zeppelinbedrocksupport/world"
)

const (
	legacyGrass   uint16 = 2
	legacyDirt    uint16 = 3
	legacyBedrock uint16 = 7

	flatWorldHeight = 4
)

// flatSubChunk returns the blocks of the bottom sub-chunk of a flat world: one
// layer of bedrock, two of dirt and one of grass.
func flatSubChunk() []world.LegacyKey {
	layers := [flatWorldHeight]world.LegacyKey{
		world.NewLegacyKey(legacyBedrock, 0),
		world.NewLegacyKey(legacyDirt, 0),
		world.NewLegacyKey(legacyDirt, 0),
		world.NewLegacyKey(legacyGrass, 0),
	}
	blocks := make([]world.LegacyKey, world.SubChunkVolume)
	for x := uint8(0); x < 16; x++ {
		for z := uint8(0); z < 16; z++ {
			for y, key := range layers {
				blocks[world.SubChunkIndex(x, uint8(y), z)] = key
			}
		}
	}
	return blocks
}

// flatChunkPayload is the LevelChunk payload of a flat chunk: the bottom
// sub-chunk followed by an empty border block list.
func flatChunkPayload(blocks *world.RuntimeBlockMapping, mappingProtocol int32) ([]byte, error) {
	subChunk, err := world.EncodeSubChunk(flatSubChunk(), blocks, mappingProtocol)
	if err != nil {
		return nil, err
	}
	return append(subChunk, 0), nil
}
