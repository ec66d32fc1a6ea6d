package consensus

import "fmt"

// ErrorClass groups error codes into the three-way taxonomy of spec §7.
type ErrorClass string

const (
	// StructuralReject covers unknown parent and malformed block structure.
	StructuralReject ErrorClass = "StructuralReject"
	// ConsensusReject covers mint/conservation/spend rule violations.
	ConsensusReject ErrorClass = "ConsensusReject"
	// AuthorizationFail covers predicate failure and missing UTXO references.
	AuthorizationFail ErrorClass = "AuthorizationFail"
)

// Code identifies a specific rejection reason within its ErrorClass.
type Code string

const (
	CodeUnknownParent     Code = "UNKNOWN_PARENT"
	CodeMalformedBlock    Code = "MALFORMED_BLOCK"
	CodeNotMint           Code = "NOT_MINT"
	CodeUnexpectedMint    Code = "UNEXPECTED_SECONDARY_MINT"
	CodeMintExceedsCap    Code = "MINT_EXCEEDS_CAP"
	CodeValueConservation Code = "VALUE_CONSERVATION_VIOLATED"
	CodeMissingUTXO       Code = "MISSING_UTXO"
	CodeAuthorizationFail Code = "AUTHORIZATION_FAILED"
)

var classOf = map[Code]ErrorClass{
	CodeUnknownParent:     StructuralReject,
	CodeMalformedBlock:    StructuralReject,
	CodeNotMint:           ConsensusReject,
	CodeUnexpectedMint:    ConsensusReject,
	CodeMintExceedsCap:    ConsensusReject,
	CodeValueConservation: ConsensusReject,
	CodeMissingUTXO:       AuthorizationFail,
	CodeAuthorizationFail: AuthorizationFail,
}

// ChainError is the single error type this package returns. A rejected
// operation always reports one of these and never mutates state (spec §7:
// "local recovery is total").
type ChainError struct {
	Code Code
	Msg  string
}

func (e *ChainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Class reports which of the three spec §7 error classes e belongs to.
func (e *ChainError) Class() ErrorClass {
	return classOf[e.Code]
}

func cherr(code Code, msg string) error {
	return &ChainError{Code: code, Msg: msg}
}
