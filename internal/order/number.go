package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewOrderNumber generates a human-readable order number from a timestamp
// fragment plus a random suffix, e.g. "SIP-483920154-7301". Uniqueness is
// best-effort on purpose: collisions are astronomically unlikely within the
// lifetime of a café and the generator must not round-trip through the
// database to check.
func NewOrderNumber() string {
	return fmt.Sprintf("SIP-%09d-%04d", time.Now().UnixMilli()%1_000_000_000, rand.IntN(10_000))
}
