package consensus

import (
	"math/big"

	"forgeledger.dev/chain/hash"
)

// hash0 returns the zero hash, used by tests that need a syntactically
// valid but otherwise irrelevant prior-tx-hash reference.
func hash0() hash.Hash {
	return hash.Zero
}

// maxTargetBig is 2^256 - 1, the loosest possible proof-of-work target.
func maxTargetBig() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}

// fastTarget returns maxTarget/divisor as a Hash. A real 256-bit SHA-256
// hash satisfies such a target with probability ~1/divisor per attempt, so
// small divisors (as used throughout these tests) keep Block.Mine fast
// while still letting tests exercise relative "more/less work" ordering.
func fastTarget(divisor int64) hash.Hash {
	t := new(big.Int).Div(maxTargetBig(), big.NewInt(divisor))
	tb := t.Bytes()
	var b [32]byte
	copy(b[32-len(tb):], tb)
	return hash.FromBytes32(b)
}
