package todos

// NextID returns one more than the largest live ID, or 1 for an empty scope.
//
// The value is derived from the current members only, so removing the member
// holding the maximum ID makes that ID available again.
func NextID(ids []int64) int64 {
	var highest int64
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}
