package consensus

import (
	"testing"

	"forgeledger.dev/chain/predicate"
)

func TestBlockMineSatisfiesTarget(t *testing.T) {
	b := NewBlock(1, hash0(), 0, nil)
	target := fastTarget(4)
	b.Mine(target)
	if !b.Hash().LessOrEqual(target) {
		t.Fatalf("mined block hash does not satisfy target")
	}
}

func TestBlockValidateEmptyContentsIsValid(t *testing.T) {
	b := NewBlock(1, hash0(), 0, nil)
	if err := b.Validate(UTXOSet{}, 100); err != nil {
		t.Fatalf("empty-content block should be valid: %v", err)
	}
}

func TestBlockValidateMintCap(t *testing.T) {
	mint := NewTransaction(nil, []Output{NewOutput(predicate.AlwaysTrue(), 60)}, nil)
	b := NewBlock(1, hash0(), 0, []Transaction{mint})
	if err := b.Validate(UTXOSet{}, 50); err == nil {
		t.Fatalf("mint exceeding cap must fail block validation")
	}
}

func TestBlockValidateHappyPath(t *testing.T) {
	mint := NewTransaction(nil, []Output{NewOutput(predicate.AlwaysTrue(), 50)}, nil)
	b := NewBlock(1, hash0(), 0, []Transaction{mint})
	if err := b.Validate(UTXOSet{}, 50); err != nil {
		t.Fatalf("expected block to validate: %v", err)
	}
}

func TestBlockValidateRejectsSecondaryMint(t *testing.T) {
	mint := NewTransaction(nil, []Output{NewOutput(predicate.AlwaysTrue(), 10)}, nil)
	secondMint := NewTransaction(nil, []Output{NewOutput(predicate.AlwaysTrue(), 10)}, nil)
	b := NewBlock(1, hash0(), 0, []Transaction{mint, secondMint})
	if err := b.Validate(UTXOSet{}, 50); err == nil {
		t.Fatalf("a second mint transaction must be rejected")
	}
}

func TestBlockValidateDoesNotUpdateUTXOWithinBlock(t *testing.T) {
	mint := NewTransaction(nil, []Output{NewOutput(predicate.AlwaysTrue(), 50)}, nil)
	// spend attempts to reference the mint's own just-created output; the
	// snapshot passed to Validate intentionally excludes it, so this must
	// fail even though the mint is in the same block (spec §4.4).
	spend := NewTransaction(
		[]Input{NewInput(mint.Hash(), 0, nil)},
		[]Output{NewOutput(nil, 50)},
		nil,
	)
	b := NewBlock(1, hash0(), 0, []Transaction{mint, spend})
	if err := b.Validate(UTXOSet{}, 50); err == nil {
		t.Fatalf("intra-block spending of a just-minted output must fail")
	}
}

func TestBlockHashExcludesContents(t *testing.T) {
	b1 := NewBlock(1, hash0(), 0, nil)
	b2 := NewBlock(1, hash0(), 0, []Transaction{
		NewTransaction(nil, []Output{NewOutput(nil, 1)}, nil),
	})
	if b1.Hash() != b2.Hash() {
		t.Fatalf("header hash must depend only on version/parent/target/timestamp/nonce")
	}
}

func TestBlockMerkleRootReflectsContents(t *testing.T) {
	b1 := NewBlock(1, hash0(), 0, nil)
	b2 := NewBlock(1, hash0(), 0, []Transaction{
		NewTransaction(nil, []Output{NewOutput(nil, 1)}, nil),
	})
	if b1.MerkleRoot() == b2.MerkleRoot() {
		t.Fatalf("merkle root should reflect contents even though header hash does not")
	}
}
