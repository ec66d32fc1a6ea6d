// Package predicate models the spend-authorization contract of spec §6: a
// predicate is an opaque callable taking an ordered list of opaque
// satisfier values and returning a boolean. Rather than porting arbitrary
// host-language lambdas, satisfier elements are a tagged sum of
// {integer, bytes, string, bool}, and predicates are built from a small
// set of primitive forms plus an escape hatch for test predicates.
package predicate

import (
	"errors"

	"forgeledger.dev/chain/hash"
)

// Kind tags which variant of Satisfier is populated.
type Kind uint8

const (
	KindInt Kind = iota
	KindBytes
	KindString
	KindBool
)

// Satisfier is one opaque value passed to a predicate. Exactly one field is
// meaningful, selected by Kind.
type Satisfier struct {
	Kind Kind
	Int  int64
	Byte []byte
	Str  string
	Bool bool
}

func Int(n int64) Satisfier     { return Satisfier{Kind: KindInt, Int: n} }
func Bytes(b []byte) Satisfier  { return Satisfier{Kind: KindBytes, Byte: b} }
func String(s string) Satisfier { return Satisfier{Kind: KindString, Str: s} }
func Bool(b bool) Satisfier     { return Satisfier{Kind: KindBool, Bool: b} }

// ErrPredicatePanicked wraps a recovered panic from a predicate evaluation.
// Spec §4.3 step 3 requires that any exception from the predicate fails the
// spend, same as a false result.
var ErrPredicatePanicked = errors.New("predicate: evaluation panicked")

// Predicate is the spend-authorization contract. Its evaluate method is
// unexported, so consumers run a predicate through the package-level
// Evaluate helper, which recovers panics and folds them into a failing
// result.
type Predicate interface {
	evaluate(satisfier []Satisfier) (bool, error)
}

// Evaluate runs p against satisfier, recovering any panic raised by a
// custom predicate and converting it into a failing (false, err) result, as
// spec §4.3 step 3 requires ("any exception ... fails the transaction").
// A nil Predicate is the always-true predicate (spec §3: "an absent
// predicate is equivalent to the always-true predicate").
func Evaluate(p Predicate, satisfier []Satisfier) (ok bool, err error) {
	if p == nil {
		return true, nil
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = ErrPredicatePanicked
		}
	}()
	return p.evaluate(satisfier)
}

// alwaysTrue is the default predicate: authorizes any spend.
type alwaysTrue struct{}

func (alwaysTrue) evaluate([]Satisfier) (bool, error) { return true, nil }

// AlwaysTrue returns the predicate that authorizes any spend unconditionally.
func AlwaysTrue() Predicate { return alwaysTrue{} }

// equalsPredicate authorizes a spend iff the satisfier has exactly one
// element equal to want.
type equalsPredicate struct {
	want Satisfier
}

func (e equalsPredicate) evaluate(s []Satisfier) (bool, error) {
	if len(s) != 1 {
		return false, nil
	}
	return satisfierEqual(s[0], e.want), nil
}

// Equals builds a predicate requiring the sole satisfier element to equal
// want (spec §8 scenario 5: `lambda x: x[0] == "alice"`).
func Equals(want Satisfier) Predicate { return equalsPredicate{want: want} }

func satisfierEqual(a, b Satisfier) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindBytes:
		return string(a.Byte) == string(b.Byte)
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	default:
		return false
	}
}

// thresholdPredicate authorizes a spend iff the satisfier's sole element is
// an integer at least min.
type thresholdPredicate struct {
	min int64
}

// Threshold builds a predicate requiring the sole satisfier element to be
// an integer >= min. This system has no fixed signature scheme to count
// votes over, so it takes the form of a plain numeric gate rather than
// m-of-n signature counting.
func Threshold(min int64) Predicate { return thresholdPredicate{min: min} }

func (t thresholdPredicate) evaluate(s []Satisfier) (bool, error) {
	if len(s) != 1 || s[0].Kind != KindInt {
		return false, nil
	}
	return s[0].Int >= t.min, nil
}

// hashPreimagePredicate authorizes a spend iff the satisfier's sole bytes
// element hashes (via hash.Sum) to want.
type hashPreimagePredicate struct {
	want hash.Hash
}

// HashPreimage builds a predicate requiring the sole satisfier element to
// be the bytes preimage of want. This is an HTLC-style claim check with
// no signature-verification half, since no fixed signature scheme is in
// scope.
func HashPreimage(want hash.Hash) Predicate { return hashPreimagePredicate{want: want} }

func (h hashPreimagePredicate) evaluate(s []Satisfier) (bool, error) {
	if len(s) != 1 || s[0].Kind != KindBytes {
		return false, nil
	}
	return hash.Sum(s[0].Byte) == h.want, nil
}

// Func adapts an arbitrary Go function into a Predicate; it is the escape
// hatch spec §9's design notes call for ("a small expression AST evaluated
// against a typed satisfier", here a plain closure), used by conformance
// tests that need bespoke logic such as "always reject" or "throw on any
// input".
type Func func(satisfier []Satisfier) (bool, error)

func (f Func) evaluate(s []Satisfier) (bool, error) { return f(s) }
