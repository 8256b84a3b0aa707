package record

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID string, unique and sortable by generation order
type ID string

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// ParseID validates an ID received from outside (form values, database rows)
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", errors.New("record ID cannot be empty")
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", err
	}
	return ID(s), nil
}

// IDGenerator hands out monotonic ULIDs. IDs generated within the same
// millisecond still sort in generation order.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator backed by crypto/rand
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// GenerateID generates a new ID for the given creation time
// Format: ULID (e.g., 01JB6X8Y2K9FQR4T3VWHGP5M2C)
func (g *IDGenerator) GenerateID(at time.Time) (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(at), g.entropy)
	if err != nil {
		return "", err
	}
	return ID(id.String()), nil
}
