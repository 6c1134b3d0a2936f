package bls12381

// Map-to-curve: turn an arbitrary field element into a curve point, the
// building block hash-to-curve uses once per field-element sample and
// the EIP-2537 map precompiles expose directly.
//
// Both maps walk x = u, u+1, u+2, ... until x^3+b (resp. x^3+b') is a
// square, a try-and-increment search rather than the constant-time
// Simplified SWU map over an isogenous curve. The result still needs the
// cofactor cleared by the caller before it lands in the prime-order
// subgroup.

import "math/big"

// mapToCurveMaxAttempts bounds the try-and-increment search; a miss at
// every one of 256 consecutive x values would mean a run of 256
// non-residues, astronomically unlikely for a random u.
const mapToCurveMaxAttempts = 256

// blsMapFpToG1 walks x = u, u+1, ... until x^3+4 is a square in F_p,
// then picks the root whose parity matches u's.
func blsMapFpToG1(u *big.Int) *G1 {
	x := new(big.Int).Mod(u, blsP)
	one := big.NewInt(1)

	for attempt := 0; attempt < mapToCurveMaxAttempts; attempt++ {
		rhs := blsFpAdd(blsFpMul(blsFpSqr(x), x), blsB)
		if y := blsFpSqrt(rhs); y != nil {
			if blsFpSgn0(y) != blsFpSgn0(u) {
				y = blsFpNeg(y)
			}
			return blsG1FromAffine(x, y)
		}
		x = blsFpAdd(x, one)
	}
	return G1Infinity()
}

// blsMapFp2ToG2 is blsMapFpToG1 lifted to the twist curve over F_p^2:
// walk x = u, u+1, ... (incrementing by the Fp2 unit) until x^3+b' is a
// square.
func blsMapFp2ToG2(u *blsFp2) *G2 {
	x := newBlsFp2(u.c0, u.c1)
	step := blsFp2One()

	for attempt := 0; attempt < mapToCurveMaxAttempts; attempt++ {
		rhs := blsFp2Add(blsFp2Mul(blsFp2Sqr(x), x), blsTwistB)
		if y := blsFp2Sqrt(rhs); y != nil {
			if blsFp2Sgn0(y) != blsFp2Sgn0(u) {
				y = blsFp2Neg(y)
			}
			return blsG2FromAffine(x, y)
		}
		x = blsFp2Add(x, step)
	}
	return G2Infinity()
}
