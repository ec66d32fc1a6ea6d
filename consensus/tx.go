package consensus

import (
	"forgeledger.dev/chain/hash"
	"forgeledger.dev/chain/predicate"
)

// Output is a value unit spendable by satisfying its Predicate. A nil
// Predicate is equivalent to the always-true predicate (spec §3). Outputs
// are immutable once constructed.
type Output struct {
	Predicate predicate.Predicate
	Amount    uint64
}

// NewOutput constructs an Output. A nil pred is the always-true predicate.
func NewOutput(pred predicate.Predicate, amount uint64) Output {
	return Output{Predicate: pred, Amount: amount}
}

// Input references a prior Output by (tx hash, output index) and carries
// the satisfier offered to that Output's predicate. Immutable.
type Input struct {
	PriorTxHash      hash.Hash
	PriorOutputIndex uint32
	Satisfier        []predicate.Satisfier
}

// NewInput constructs an Input.
func NewInput(priorTxHash hash.Hash, priorOutputIndex uint32, satisfier []predicate.Satisfier) Input {
	return Input{PriorTxHash: priorTxHash, PriorOutputIndex: priorOutputIndex, Satisfier: satisfier}
}

// Outpoint identifies a single UTXO entry: the transaction that created it
// plus the output's position within that transaction.
type Outpoint struct {
	TxHash hash.Hash
	Index  uint32
}

// UTXOSet maps an Outpoint to the Output it still (per whatever
// reconstruction policy produced the set) contains.
type UTXOSet map[Outpoint]Output

// Transaction is an ordered sequence of Inputs (possibly empty) and
// Outputs, plus an opaque data payload that carries no consensus meaning.
// A Transaction with no inputs is a mint. Identity is its content hash
// (Hash); inputs' satisfiers, outputs' predicates, and Data do NOT
// participate in identity (spec §4.3).
type Transaction struct {
	Inputs  []Input
	Outputs []Output
	Data    []byte
}

// NewTransaction constructs a Transaction.
func NewTransaction(inputs []Input, outputs []Output, data []byte) Transaction {
	return Transaction{Inputs: inputs, Outputs: outputs, Data: data}
}

// IsMint reports whether tx has no inputs.
func (tx Transaction) IsMint() bool {
	return len(tx.Inputs) == 0
}

// Output returns the i'th output (0-based). The reference Python
// implementation's getOutput is 1-based (outputs[n-1]); that off-by-one
// is not ported here. This accessor is 0-based, matching every other
// index in this package.
func (tx Transaction) Output(i int) Output {
	return tx.Outputs[i]
}

// Hash computes the transaction's content-addressed identity: SHA-256 over,
// in order, each input's (prior_tx_hash ‖ prior_output_index) as 32-byte
// big-endian fields, then each output's amount as a 32-byte big-endian
// field. Predicates, satisfiers, and Data are excluded (spec §4.3).
func (tx Transaction) Hash() hash.Hash {
	buf := make([]byte, 0, len(tx.Inputs)*36+len(tx.Outputs)*32)
	for _, in := range tx.Inputs {
		prior := in.PriorTxHash.Bytes32()
		buf = append(buf, prior[:]...)
		var idx [32]byte
		putUint32BE(&idx, in.PriorOutputIndex)
		buf = append(buf, idx[:]...)
	}
	for _, out := range tx.Outputs {
		var amt [32]byte
		putUint64BE(&amt, out.Amount)
		buf = append(buf, amt[:]...)
	}
	return hash.Sum(buf)
}

// putUint32BE writes n as the low 4 bytes of a 32-byte big-endian field.
func putUint32BE(dst *[32]byte, n uint32) {
	dst[28] = byte(n >> 24)
	dst[29] = byte(n >> 16)
	dst[30] = byte(n >> 8)
	dst[31] = byte(n)
}

// putUint64BE writes n as the low 8 bytes of a 32-byte big-endian field.
func putUint64BE(dst *[32]byte, n uint64) {
	dst[24] = byte(n >> 56)
	dst[25] = byte(n >> 48)
	dst[26] = byte(n >> 40)
	dst[27] = byte(n >> 32)
	dst[28] = byte(n >> 24)
	dst[29] = byte(n >> 16)
	dst[30] = byte(n >> 8)
	dst[31] = byte(n)
}

func sumOutputs(outputs []Output) (uint64, bool) {
	var total uint64
	for _, o := range outputs {
		next := total + o.Amount
		if next < total {
			return 0, false // overflow
		}
		total = next
	}
	return total, true
}

// ValidateMint checks tx as a mint (spec §4.3): it must have no inputs and
// its total output amount must not exceed max.
func (tx Transaction) ValidateMint(max uint64) error {
	if !tx.IsMint() {
		return cherr(CodeNotMint, "mint transaction must have no inputs")
	}
	total, ok := sumOutputs(tx.Outputs)
	if !ok {
		return cherr(CodeMintExceedsCap, "mint output total overflows")
	}
	if total > max {
		return cherr(CodeMintExceedsCap, "mint output total exceeds cap")
	}
	return nil
}

// Validate checks tx as a spend against utxo (spec §4.3):
//  1. sum the output amounts.
//  2. for each input, resolve the referenced Output in utxo; missing is a
//     failure.
//  3. evaluate the referenced Output's predicate against the input's
//     satisfier. An empty satisfier is ALWAYS accepted regardless of the
//     predicate, a deliberate quirk preserved for compatibility (spec §4.3
//     step 3, §9 Open Question 3). Any exception, non-true result, or
//     false result otherwise fails the transaction.
//  4. accumulate the referenced Output's amount into the input total.
//  5. accept iff input total >= output total (a shortfall is invalid; a
//     surplus is an implicit, unclaimed fee).
func (tx Transaction) Validate(utxo UTXOSet) error {
	outputTotal, ok := sumOutputs(tx.Outputs)
	if !ok {
		return cherr(CodeValueConservation, "output total overflows")
	}

	var inputTotal uint64
	for _, in := range tx.Inputs {
		prior, found := utxo[Outpoint{TxHash: in.PriorTxHash, Index: in.PriorOutputIndex}]
		if !found {
			return cherr(CodeMissingUTXO, "referenced output not found in utxo set")
		}

		if len(in.Satisfier) != 0 {
			ok, err := predicate.Evaluate(prior.Predicate, in.Satisfier)
			if err != nil || !ok {
				return cherr(CodeAuthorizationFail, "predicate rejected spend")
			}
		}

		next := inputTotal + prior.Amount
		if next < inputTotal {
			return cherr(CodeValueConservation, "input total overflows")
		}
		inputTotal = next
	}

	if inputTotal < outputTotal {
		return cherr(CodeValueConservation, "input total less than output total")
	}
	return nil
}
