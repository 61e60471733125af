package world

import "reflect"

// BlockState is a decoded network block state compound, as shipped by the client
// in canonical_block_states.nbt. It holds at least a "name" string, usually a
// "states" compound and a "version" int.
type BlockState map[string]any

// Name returns the namespaced block name, e.g. "minecraft:stone".
func (s BlockState) Name() string {
	name, _ := s["name"].(string)
	return name
}

// Equal reports whether two states are deeply equal.
func (s BlockState) Equal(o BlockState) bool {
	return equalTag(map[string]any(s), map[string]any(o))
}

func equalTag(a, b any) bool {
	switch a := a.(type) {
	case map[string]any:
		b, ok := b.(map[string]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !equalTag(av, bv) {
				return false
			}
		}
		return true
	case []any:
		b, ok := b.([]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !equalTag(a[i], b[i]) {
				return false
			}
		}
		return true
	case uint8, int16, int32, int64, float32, float64, string:
		return a == b
	default:
		return reflect.DeepEqual(a, b)
	}
}
