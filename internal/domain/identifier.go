package domain

import "strconv"

// ParseID reads a bean bag identifier. Identifiers are non-negative hexadecimal numbers of
// any length; letters may be upper or lower case and no sign or 0x prefix is accepted.
func ParseID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 16, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func ValidID(id string) bool {
	_, ok := ParseID(id)
	return ok
}

// SameID reports whether two identifiers name the same bean bag model.
func SameID(a, b string) bool {
	x, okA := ParseID(a)
	y, okB := ParseID(b)
	return okA && okB && x == y
}
