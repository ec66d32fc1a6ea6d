// Package hash implements the content hashing primitive shared by every
// other layer of the chain: a deterministic 256-bit digest, always
// interpreted big-endian, computed with SHA-256.
package hash

import (
	"crypto/sha256"
	"math/big"

	"github.com/holiman/uint256"
)

// Hash is an unsigned 256-bit integer, interpreted big-endian wherever it
// is serialized to or parsed from bytes.
type Hash struct {
	v uint256.Int
}

// Zero is the sentinel hash value (all-zero), used for the genesis block's
// parent_hash and for Merkle padding.
var Zero = Hash{}

// Sum hashes data with SHA-256 and returns the result as a Hash.
func Sum(data []byte) Hash {
	digest := sha256.Sum256(data)
	return FromBytes32(digest)
}

// FromBytes32 interprets b as a big-endian 256-bit unsigned integer.
func FromBytes32(b [32]byte) Hash {
	var h Hash
	h.v.SetBytes32(b[:])
	return h
}

// FromUint64 lifts a small integer into a Hash, used by the Merkle fixtures
// (spec §4.2) where items are hashed by their 32-byte big-endian encoding.
func FromUint64(n uint64) Hash {
	var h Hash
	h.v.SetUint64(n)
	return h
}

// Bytes32 returns the 32-byte big-endian encoding of h.
func (h Hash) Bytes32() [32]byte {
	return h.v.Bytes32()
}

// Cmp returns -1, 0 or +1 as h is numerically less than, equal to, or
// greater than other. Used for proof-of-work comparisons (hash <= target).
func (h Hash) Cmp(other Hash) int {
	return h.v.Cmp(&other.v)
}

// LessOrEqual reports whether h <= target, the proof-of-work acceptance
// condition (spec §4.4).
func (h Hash) LessOrEqual(target Hash) bool {
	return h.Cmp(target) <= 0
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h.v.IsZero()
}

// BigInt returns h as an arbitrary-precision unsigned integer, for use in
// work/target arithmetic (e.g. genesis_target / target as a big.Rat).
func (h Hash) BigInt() *big.Int {
	return h.v.ToBig()
}

// String renders h as big-endian hex, for diagnostics only.
func (h Hash) String() string {
	b := h.Bytes32()
	const hextable = "0123456789abcdef"
	out := make([]byte, 64)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0xf]
	}
	return string(out)
}
