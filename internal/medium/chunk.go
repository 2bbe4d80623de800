package medium

import "fmt"

// ForEachChunk calls fn for consecutive chunks of at most chunkSize bytes
// covering [start, start+total). The last chunk holds the remainder.
// Iteration stops at the first error returned by fn.
func ForEachChunk(start Offset, total int64, chunkSize int, fn func(chunkStart Offset, size int64) error) error {
	if total < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSize, total)
	}
	if chunkSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}

	step := int64(chunkSize)
	cur := start
	for remaining := total; remaining > 0; remaining -= step {
		n := min(step, remaining)
		if err := fn(cur, n); err != nil {
			return err
		}
		cur = cur.Advance(n)
	}
	return nil
}
