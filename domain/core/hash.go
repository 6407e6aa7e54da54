package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Revision is the opaque content handle a remote store hands back for an object.
type Revision string

func (r Revision) String() string { return string(r) }

func (r Revision) IsEmpty() bool { return r == "" }

// ContentRevision derives a revision marker from the content itself
func ContentRevision(data []byte) Revision { return Revision(NewHash(data)) }
