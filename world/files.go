package world

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Default file names in the Bedrock data directory.
const (
	CanonicalBlockStatesFile = "canonical_block_states.nbt"
	LegacyStateMapFile       = "r12_to_current_block_map.bin"
	LegacyIDMapFile          = "block_id_map.json"
)

// DataFiles are the two block data files of one mapping protocol.
type DataFiles struct {
	CanonicalStates string
	LegacyStateMap  string
}

// Suffixes inserted before the file extension, per mapping protocol. Several older
// protocols reuse the 1.19.63 legacy state map.
var protocolFileSuffixes = map[int32][2]string{
	CurrentProtocol: {"", ""},
	Protocol1_19_70: {"-1.19.70", "-1.19.70"},
	Protocol1_19_63: {"-1.19.63", "-1.19.63"},
	Protocol1_19_50: {"-1.19.50", "-1.19.63"},
	Protocol1_19_40: {"-1.19.40", "-1.19.63"},
	Protocol1_19_10: {"-1.19.10", "-1.19.63"},
	Protocol1_18_30: {"-1.18.30", "-1.18.30"},
	Protocol1_18_10: {"-1.18.10", "-1.18.10"},
}

// ProtocolDataFiles returns the data file paths under dir for every supported
// mapping protocol.
func ProtocolDataFiles(dir string) map[int32]DataFiles {
	files := make(map[int32]DataFiles, len(protocolFileSuffixes))
	for protocolID, suffix := range protocolFileSuffixes {
		files[protocolID] = DataFiles{
			CanonicalStates: filepath.Join(dir, withSuffix(CanonicalBlockStatesFile, suffix[0])),
			LegacyStateMap:  filepath.Join(dir, withSuffix(LegacyStateMapFile, suffix[1])),
		}
	}
	return files
}

func withSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + suffix + ext
}

// ReadProtocolData reads the data files of every mapping protocol. A file shared
// by several protocols is read once.
func ReadProtocolData(files map[int32]DataFiles) (map[int32]ProtocolData, error) {
	cache := make(map[string][]byte)
	read := func(path string) ([]byte, error) {
		if data, ok := cache[path]; ok {
			return data, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read block data: %w", err)
		}
		cache[path] = data
		return data, nil
	}

	data := make(map[int32]ProtocolData, len(files))
	for _, protocolID := range sortedProtocols(files) {
		f := files[protocolID]
		canonical, err := read(f.CanonicalStates)
		if err != nil {
			return nil, err
		}
		legacy, err := read(f.LegacyStateMap)
		if err != nil {
			return nil, err
		}
		data[protocolID] = ProtocolData{
			CanonicalStatesFile: f.CanonicalStates,
			CanonicalStates:     canonical,
			LegacyStateMapFile:  f.LegacyStateMap,
			LegacyStateMap:      legacy,
		}
	}
	return data, nil
}

func sortedProtocols[V any](m map[int32]V) []int32 {
	protocols := make([]int32, 0, len(m))
	for protocolID := range m {
		protocols = append(protocols, protocolID)
	}
	sort.Slice(protocols, func(i, j int) bool { return protocols[i] < protocols[j] })
	return protocols
}
