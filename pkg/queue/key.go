package queue

// Key is an ordering tuple. Keys are compared component by component.
type Key []float64

// Less reports whether k orders before other.
// If one key is a prefix of the other, the shorter key is smaller.
func (k Key) Less(other Key) bool {
	for i := 0; i < len(k) && i < len(other); i++ {
		if k[i] < other[i] {
			return true
		}
		if k[i] > other[i] {
			return false
		}
	}
	return len(k) < len(other)
}
