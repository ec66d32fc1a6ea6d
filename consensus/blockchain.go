package consensus

import (
	"math/big"

	"forgeledger.dev/chain/hash"
)

// UTXOPolicy selects how ReconstructUTXO behaves when walking a block's
// ancestry. Spec §9 Open Question 1 leaves open whether the reference
// UTXO reconstruction should remove spent outputs; this package preserves
// the documented (non-removing) behavior as the default and exposes the
// corrected (spend-aware) behavior as an explicit opt-in. A production Go
// UTXO-apply routine for this pattern deletes spent entries on each
// consuming input, so both variants are grounded; see DESIGN.md for the
// full provenance discussion.
type UTXOPolicy int

const (
	// UTXOPolicyLatent reproduces the reference behavior: outputs are
	// inserted as transactions are walked, but spent outputs are never
	// removed. This is the default.
	UTXOPolicyLatent UTXOPolicy = iota
	// UTXOPolicySpendAware additionally removes an input's referenced
	// output from the set when that input is encountered, so double
	// spends within the reconstructed history are detectable.
	UTXOPolicySpendAware
)

// chainEntry is the per-block metadata the Blockchain maintains alongside
// each admitted Block: children, cumulative work, and height. This keeps
// Block itself plain data, per spec §3's lifecycle note that such
// bookkeeping is "maintained by the chain."
type chainEntry struct {
	block          *Block
	children       []hash.Hash
	cumulativeWork *big.Rat
	height         uint64
}

// Blockchain is an in-memory block DAG with heaviest-cumulative-work tip
// selection and recursive block validation against an ancestor-derived
// UTXO set (spec §4.5).
type Blockchain struct {
	genesisTarget   hash.Hash
	maxMintPerBlock uint64
	utxoPolicy      UTXOPolicy

	byHash      map[hash.Hash]*chainEntry
	byHeight    map[uint64][]hash.Hash
	genesisHash hash.Hash
	tip         hash.Hash
	bestWork    *big.Rat
}

// NewBlockchain constructs a chain with the given genesis target and
// per-block mint cap. The genesis block has parent_hash = 0, the given
// target, height 0, empty contents, and a fixed cumulative_work sentinel
// of 1 (spec §3/§4.5); it is installed as the initial tip.
func NewBlockchain(genesisTarget hash.Hash, maxMintPerBlock uint64) *Blockchain {
	return NewBlockchainWithUTXOPolicy(genesisTarget, maxMintPerBlock, UTXOPolicyLatent)
}

// NewBlockchainWithUTXOPolicy is NewBlockchain with an explicit UTXOPolicy
// for ReconstructUTXO during Extend. Most callers want NewBlockchain.
func NewBlockchainWithUTXOPolicy(genesisTarget hash.Hash, maxMintPerBlock uint64, policy UTXOPolicy) *Blockchain {
	genesis := &Block{
		Version:    0,
		ParentHash: hash.Zero,
		Target:     genesisTarget,
		Timestamp:  0,
		Nonce:      0,
		Contents:   nil,
	}
	genesisHash := genesis.Hash()

	bc := &Blockchain{
		genesisTarget:   genesisTarget,
		maxMintPerBlock: maxMintPerBlock,
		utxoPolicy:      policy,
		byHash:          make(map[hash.Hash]*chainEntry),
		byHeight:        make(map[uint64][]hash.Hash),
		genesisHash:     genesisHash,
		tip:             genesisHash,
		bestWork:        big.NewRat(1, 1),
	}
	bc.byHash[genesisHash] = &chainEntry{
		block:          genesis,
		cumulativeWork: big.NewRat(1, 1),
		height:         0,
	}
	bc.byHeight[0] = []hash.Hash{genesisHash}
	return bc
}

// GetTip returns the current best-work block.
func (bc *Blockchain) GetTip() *Block {
	return bc.byHash[bc.tip].block
}

// GetWork computes genesis_target / target as a rational, the contribution
// a block mined at target makes to cumulative work (spec §4.5). Harder
// targets (smaller integers) contribute more work.
func (bc *Blockchain) GetWork(target hash.Hash) *big.Rat {
	num := new(big.Rat).SetInt(bc.genesisTarget.BigInt())
	den := new(big.Rat).SetInt(target.BigInt())
	return num.Quo(num, den)
}

// GetCumulativeWork returns the stored cumulative work for the block with
// the given hash, and whether that hash is known to the chain.
func (bc *Blockchain) GetCumulativeWork(h hash.Hash) (*big.Rat, bool) {
	entry, ok := bc.byHash[h]
	if !ok {
		return nil, false
	}
	return entry.cumulativeWork, true
}

// GetBlocksAtHeight returns every admitted block at height h, in the order
// they were admitted.
func (bc *Blockchain) GetBlocksAtHeight(h uint64) []*Block {
	hashes := bc.byHeight[h]
	out := make([]*Block, len(hashes))
	for i, hh := range hashes {
		out[i] = bc.byHash[hh].block
	}
	return out
}

// Extend validates and admits block onto the chain (spec §4.5):
//
//  1. block.ParentHash must already be admitted, else reject
//     (StructuralReject).
//  2. if block has non-empty contents, reconstruct the UTXO set as of the
//     parent and run Block.Validate with the chain's mint cap; reject on
//     failure.
//  3. attach the block: record height = parent.height+1, cumulative_work
//     = parent.cumulative_work + GetWork(block.Target), and install it.
//  4. if the new cumulative_work strictly exceeds the current best_work,
//     update the tip; ties never displace the incumbent tip.
//
// A rejected Extend never mutates chain state.
func (bc *Blockchain) Extend(block *Block) error {
	if _, already := bc.byHash[block.Hash()]; already {
		// Re-extending an already-admitted block is a no-op: chain state
		// (including child lists and per-height indices) must not gain a
		// duplicate entry.
		return nil
	}

	parentEntry, ok := bc.byHash[block.ParentHash]
	if !ok {
		return cherr(CodeUnknownParent, "parent block is not admitted")
	}

	if len(block.Contents) > 0 {
		utxo := bc.ReconstructUTXO(block.ParentHash)
		if err := block.Validate(utxo, bc.maxMintPerBlock); err != nil {
			return err
		}
	}

	blockHash := block.Hash()
	height := parentEntry.height + 1
	cumulativeWork := new(big.Rat).Add(parentEntry.cumulativeWork, bc.GetWork(block.Target))

	parentEntry.children = append(parentEntry.children, blockHash)
	bc.byHash[blockHash] = &chainEntry{
		block:          block,
		cumulativeWork: cumulativeWork,
		height:         height,
	}
	bc.byHeight[height] = append(bc.byHeight[height], blockHash)

	if cumulativeWork.Cmp(bc.bestWork) > 0 {
		bc.bestWork = cumulativeWork
		bc.tip = blockHash
	}
	return nil
}

// ReconstructUTXO computes the UTXO set as of the block identified by ref
// (spec §4.5.1): ancestors are walked from ref back to (but not including)
// genesis, collected in reverse order (genesis-child first, ref last), and
// each transaction's outputs are inserted in declaration order. Whether
// spent outputs are removed along the way is governed by the chain's
// UTXOPolicy (UTXOPolicyLatent by default, reproducing the reference
// implementation's documented latent bug; see spec §9 Open Question 1).
func (bc *Blockchain) ReconstructUTXO(ref hash.Hash) UTXOSet {
	chain := bc.ancestryFromGenesis(ref)

	utxo := make(UTXOSet)
	for _, entry := range chain {
		for _, tx := range entry.block.Contents {
			txHash := tx.Hash()
			if bc.utxoPolicy == UTXOPolicySpendAware {
				for _, in := range tx.Inputs {
					delete(utxo, Outpoint{TxHash: in.PriorTxHash, Index: in.PriorOutputIndex})
				}
			}
			for i, out := range tx.Outputs {
				utxo[Outpoint{TxHash: txHash, Index: uint32(i)}] = out
			}
		}
	}
	return utxo
}

// ancestryFromGenesis walks parent_hash links from ref back to (excluding)
// genesis and returns the chain entries ordered oldest-ancestor-first,
// ref-last.
func (bc *Blockchain) ancestryFromGenesis(ref hash.Hash) []*chainEntry {
	var reversed []*chainEntry
	cur := ref
	for cur != bc.genesisHash {
		entry, ok := bc.byHash[cur]
		if !ok {
			break
		}
		reversed = append(reversed, entry)
		cur = entry.block.ParentHash
	}

	out := make([]*chainEntry, len(reversed))
	for i, e := range reversed {
		out[len(reversed)-1-i] = e
	}
	return out
}
