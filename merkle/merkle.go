// Package merkle computes the commitment root over an ordered sequence of
// hashable items, per spec §4.2. This deliberately does not follow
// Bitcoin's duplicate-last-element scheme: an odd level is padded with a
// single zero sentinel instead.
package merkle

import (
	"forgeledger.dev/chain/hash"
)

// Hashable is anything that can contribute a leaf hash to a Merkle tree.
type Hashable interface {
	Hash() hash.Hash
}

// Root computes the Merkle root over items in order.
//
//   - An empty sequence roots to the zero hash.
//   - Level 0 is each item's own hash.
//   - While a level has more than one element: if its length is odd,
//     append the zero sentinel (not a duplicate of the last element), then
//     hash each consecutive pair's 32-byte big-endian concatenation to
//     produce the next level.
//   - The sole remaining value is the root.
func Root(items []Hashable) hash.Hash {
	if len(items) == 0 {
		return hash.Zero
	}

	level := make([]hash.Hash, len(items))
	for i, it := range items {
		level[i] = it.Hash()
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, hash.Zero)
		}
		next := make([]hash.Hash, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i].Bytes32()
			right := level[i+1].Bytes32()
			buf := make([]byte, 0, 64)
			buf = append(buf, left[:]...)
			buf = append(buf, right[:]...)
			next[i/2] = hash.Sum(buf)
		}
		level = next
	}

	return level[0]
}
