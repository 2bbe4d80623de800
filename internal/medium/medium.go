package medium

import (
	"fmt"

	"github.com/google/uuid"
)

// ID identifies one medium. Offsets and regions carry only the ID.
type ID = uuid.UUID

// Kind describes the backing of a medium.
type Kind uint8

const (
	KindMemory Kind = iota // Byte slice held in memory
	KindFile               // Random access file
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// DefaultMaxBlockSize is the read/write block size used when none is configured.
const DefaultMaxBlockSize = 8192

// Medium describes an addressable byte storage.
type Medium struct {
	ID           ID     // Unique identity
	Name         string // Path or descriptive name
	Kind         Kind   // Backing kind
	ReadOnly     bool   // Scheduling changes is rejected when set
	MaxBlockSize int    // Maximum bytes per physical read or write
}

// NewMedium creates a writable medium description with a fresh identity.
func NewMedium(name string, kind Kind) Medium {
	return Medium{
		ID:           uuid.New(),
		Name:         name,
		Kind:         kind,
		MaxBlockSize: DefaultMaxBlockSize,
	}
}

// String returns a human-readable representation of the medium.
func (m Medium) String() string {
	return fmt.Sprintf("%s medium %q (%s)", m.Kind, m.Name, m.ID)
}
