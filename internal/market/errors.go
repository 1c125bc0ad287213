package market

import "fmt"

// IndexOutOfRangeError reports a buyer, seller, or type index outside
// the bounds of the month's choice-set structure. This always indicates
// a corrupted choice set and is fatal.
type IndexOutOfRangeError struct {
	Kind  string
	Index int
	Bound int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("market: %s index %d out of range [0,%d)", e.Kind, e.Index, e.Bound)
}
