package hash

import (
	"hash"
	"hash/fnv"
)

// New returns a streaming fnv64a hasher for callers that fold many
// fields into one digest.
func New() hash.Hash64 {
	return fnv.New64a()
}
