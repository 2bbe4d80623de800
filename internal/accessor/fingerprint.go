package accessor

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the length and content of a medium, reading at most
// blockSize bytes at a time. Equal fingerprints mean unchanged content with
// very high probability.
func Fingerprint(a Accessor, blockSize int) (uint64, error) {
	if blockSize <= 0 {
		return 0, fmt.Errorf("fingerprint: block size %d must be positive", blockSize)
	}

	size, err := a.Len()
	if err != nil {
		return 0, err
	}

	h := xxhash.New()
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(size))
	_, _ = h.Write(lenBuf[:])

	if _, err := io.CopyBuffer(h, io.NewSectionReader(a, 0, size), make([]byte, blockSize)); err != nil {
		return 0, fmt.Errorf("fingerprint: %w", err)
	}
	return h.Sum64(), nil
}
