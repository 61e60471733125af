package world

// Interner deduplicates the keys and scalar values of decoded block states. The
// canonical tables repeat the same few hundred keys and values across tens of
// thousands of states, so sharing them keeps every loaded protocol table small.
//
// Values are pooled by their dynamic type and value, so uint8(1) and int32(1)
// stay distinct. An Interner is not safe for concurrent use.
type Interner struct {
	keys   map[string]string
	values map[any]any
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		keys:   make(map[string]string),
		values: make(map[any]any),
	}
}

// Compound returns a copy of tag whose keys and byte, int and string leaves are
// shared with every other compound passed to the same Interner. Nested compounds
// are rebuilt the same way. An empty compound is returned unchanged.
func (in *Interner) Compound(tag map[string]any) map[string]any {
	if len(tag) == 0 {
		return tag
	}
	out := make(map[string]any, len(tag))
	for k, v := range tag {
		k = in.key(k)
		switch v := v.(type) {
		case map[string]any:
			out[k] = in.Compound(v)
		case uint8, int32, string:
			out[k] = in.value(v)
		default:
			out[k] = v
		}
	}
	return out
}

// State interns a block state.
func (in *Interner) State(s BlockState) BlockState {
	return BlockState(in.Compound(s))
}

// Len returns the number of distinct keys and values seen so far.
func (in *Interner) Len() (keys, values int) {
	return len(in.keys), len(in.values)
}

func (in *Interner) key(k string) string {
	if shared, ok := in.keys[k]; ok {
		return shared
	}
	in.keys[k] = k
	return k
}

func (in *Interner) value(v any) any {
	if shared, ok := in.values[v]; ok {
		return shared
	}
	in.values[v] = v
	return v
}
