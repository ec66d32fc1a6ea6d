package consensus

import (
	"math/rand/v2"

	"forgeledger.dev/chain/hash"
	"forgeledger.dev/chain/merkle"
)

// Block is a header plus an ordered transaction list. Its identity (Hash)
// commits only to the five header fields named in spec §4.4: version,
// parent hash, target, timestamp, and nonce. The Merkle root over
// Contents is a separate accessor (MerkleRoot) available to callers but,
// per the spec's literal header-hash formula, not folded into Hash. Chain
// bookkeeping (children, cumulative work, height) lives on the Blockchain,
// not here; a Block is plain data.
type Block struct {
	Version    uint32
	ParentHash hash.Hash
	Target     hash.Hash
	Timestamp  uint64
	Nonce      uint64
	Contents   []Transaction
}

// NewBlock constructs a Block with the given parent and contents. Target
// and Nonce start zero; call Mine to find a valid nonce for a target.
func NewBlock(version uint32, parentHash hash.Hash, timestamp uint64, contents []Transaction) *Block {
	return &Block{
		Version:    version,
		ParentHash: parentHash,
		Timestamp:  timestamp,
		Contents:   contents,
	}
}

// SetParent rewires the block onto a new parent.
func (b *Block) SetParent(parentHash hash.Hash) { b.ParentHash = parentHash }

// SetContents replaces the block's transaction list.
func (b *Block) SetContents(contents []Transaction) { b.Contents = contents }

// SetTarget sets the proof-of-work target directly, without mining.
func (b *Block) SetTarget(target hash.Hash) { b.Target = target }

// merkleTx adapts Transaction to merkle.Hashable.
type merkleTx struct{ tx Transaction }

func (m merkleTx) Hash() hash.Hash { return m.tx.Hash() }

// MerkleRoot computes the Merkle commitment (spec §4.2) over Contents.
func (b *Block) MerkleRoot() hash.Hash {
	items := make([]merkle.Hashable, len(b.Contents))
	for i, tx := range b.Contents {
		items[i] = merkleTx{tx}
	}
	return merkle.Root(items)
}

// Hash computes the block's header hash: SHA-256 of
// version ‖ parent_hash ‖ target ‖ timestamp ‖ nonce, each a 32-byte
// big-endian field (spec §4.4).
func (b *Block) Hash() hash.Hash {
	buf := make([]byte, 0, 32*5)

	var versionField [32]byte
	putUint32BE(&versionField, b.Version)
	buf = append(buf, versionField[:]...)

	parent := b.ParentHash.Bytes32()
	buf = append(buf, parent[:]...)

	target := b.Target.Bytes32()
	buf = append(buf, target[:]...)

	var timestampField [32]byte
	putUint64BE(&timestampField, b.Timestamp)
	buf = append(buf, timestampField[:]...)

	var nonceField [32]byte
	putUint64BE(&nonceField, b.Nonce)
	buf = append(buf, nonceField[:]...)

	return hash.Sum(buf)
}

// Mine sets the block's target and perturbs its nonce until Hash() <=
// target. The perturbation policy, adding a uniformly random positive
// 64-bit increment each iteration, is the one spec §4.4 suggests.
// Wraparound on overflow is fine, since only reachability of the target
// matters, not a particular nonce sequence.
func (b *Block) Mine(target hash.Hash) {
	b.Target = target
	for !b.Hash().LessOrEqual(target) {
		step := rand.Uint64()
		if step == 0 {
			step = 1
		}
		b.Nonce += step
	}
}

// Validate checks the block's transaction contents against an
// ancestor-derived utxo snapshot and the per-block mint cap (spec §4.4):
//
//   - Empty (or absent) contents are trivially valid, permitted for test
//     isolation.
//   - Otherwise T[0] must be a mint whose total output amount is within
//     maxMint.
//   - Every T[i], i>=1, must have at least one input (no secondary mints)
//     and must pass Transaction.Validate against utxo.
//
// utxo is NOT updated between transactions within the block: every
// non-coinbase transaction is validated against the same snapshot, so
// intra-block spending of just-minted or sibling outputs is not supported
// (preserved exactly as spec §4.4 directs).
func (b *Block) Validate(utxo UTXOSet, maxMint uint64) error {
	if len(b.Contents) == 0 {
		return nil
	}

	coinbase := b.Contents[0]
	if !coinbase.IsMint() {
		return cherr(CodeNotMint, "first transaction must be a mint")
	}
	if err := coinbase.ValidateMint(maxMint); err != nil {
		return err
	}

	for i := 1; i < len(b.Contents); i++ {
		tx := b.Contents[i]
		if tx.IsMint() {
			return cherr(CodeUnexpectedMint, "secondary mint not permitted")
		}
		if err := tx.Validate(utxo); err != nil {
			return err
		}
	}
	return nil
}
