package core

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Hash represents a SHA-256 digest in hex
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

// Short returns the first 12 hex characters, enough to tell datasets apart in logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Hasher accumulates length-prefixed parts into a Hash, so that
// ("ab", "c") and ("a", "bc") differ.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates an empty Hasher
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Add appends one part
func (x *Hasher) Add(part string) {
	var n [8]byte
	l := uint64(len(part))
	for i := range n {
		n[i] = byte(l >> (8 * i))
	}
	x.h.Write(n[:])
	x.h.Write([]byte(part))
}

// Sum returns the digest of everything added so far
func (x *Hasher) Sum() Hash {
	return Hash(hex.EncodeToString(x.h.Sum(nil)))
}
