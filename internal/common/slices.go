// Package common holds small generic helpers shared by the describers.
package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// IsMultiple returns true if the slice has more than one element.
func IsMultiple[S ~[]E, E any](s S) bool {
	return len(s) > 1
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Duplicates returns every key that more than one element of s maps to, once each, in the
// order their second occurrence is met.
func Duplicates[S ~[]E, E any](s S, key func(E) string) []string {
	seen := make(map[string]int, len(s))

	var out []string

	for _, e := range s {
		k := key(e)

		seen[k]++
		if seen[k] == 2 {
			out = append(out, k)
		}
	}

	return out
}
