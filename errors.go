package bls12381

import "github.com/pkg/errors"

// Error kinds returned by the encoding, decoding, and signature operations
// in this package. Callers should compare with errors.Is against these
// sentinels; call sites that want to attach positional context wrap them
// with errors.Wrapf rather than constructing new error values.
var (
	// ErrInvalidLength is returned when an encoded point or scalar does not
	// have the expected byte length (48 for G1, 96 for G2, 32 for scalars).
	ErrInvalidLength = errors.New("bls12381: invalid encoded length")

	// ErrInvalidEncoding is returned when the flag bits or field value of
	// an encoded point are structurally invalid (bad flag combination, a
	// coordinate not reduced below the field modulus, non-canonical
	// infinity encoding).
	ErrInvalidEncoding = errors.New("bls12381: invalid point encoding")

	// ErrNotOnCurve is returned when a decoded (x, y) pair does not satisfy
	// the curve equation.
	ErrNotOnCurve = errors.New("bls12381: point is not on the curve")

	// ErrNotInSubgroup is returned when a point is on the curve but not in
	// the prime-order subgroup used by G1/G2.
	ErrNotInSubgroup = errors.New("bls12381: point is not in the prime-order subgroup")

	// ErrFieldArithmeticError is returned when a field operation receives
	// an operand outside its domain (e.g. inverting zero).
	ErrFieldArithmeticError = errors.New("bls12381: field arithmetic error")

	// ErrLengthMismatch is returned when parallel input slices (pubkeys,
	// messages, signatures) passed to an aggregate operation have
	// different lengths.
	ErrLengthMismatch = errors.New("bls12381: input slice length mismatch")

	// ErrDuplicateMessage is returned by verifyMultiple when the same
	// message appears more than once among distinct signers, which would
	// let a pairing-based batch check be satisfied by a forged signature.
	ErrDuplicateMessage = errors.New("bls12381: duplicate message in aggregate verification")
)
