package models

// StructuredResult is the parsed payload of one completion call: an
// unordered mapping of string keys to heterogeneous values. No fixed
// schema is enforced; the domain prompts decide what keys appear.
type StructuredResult map[string]any

// Clone returns a shallow copy. Nested values are shared.
func (r StructuredResult) Clone() StructuredResult {
	if r == nil {
		return nil
	}
	out := make(StructuredResult, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
