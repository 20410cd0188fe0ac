package pipeline

// Context is the named-value state threaded through one pipeline run. A
// Sequential group threads one Context through its children; a Parallel
// group hands each child its own snapshot and merges declared output keys
// after the barrier. Values are treated as immutable once stored; stages
// communicate by adding keys, never by mutating what a key holds.
type Context map[string]any

// Clone returns an independent snapshot. Top-level keys are copied; stored
// values are shared under the immutability convention above.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Lookup resolves a dotted path ("groom_profile.horoscope") through nested
// string-keyed maps.
func (c Context) Lookup(path string) (any, bool) {
	var cur any = map[string]any(c)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i != len(path) && path[i] != '.' {
			continue
		}
		key := path[start:i]
		start = i + 1
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = v
		case Context:
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// String resolves a dotted path to a string, or "" when absent or not a
// string.
func (c Context) String(path string) string {
	v, ok := c.Lookup(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Slice returns the subset of c under the given top-level keys. Missing
// keys are skipped.
func (c Context) Slice(keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := c[k]; ok {
			out[k] = v
		}
	}
	return out
}
