package bls12381

// Quadratic extension F_p^2 = F_p[u]/(u^2+1), elements written c0+c1*u.
// G2 coordinates live here; the tower climbs from this field up through
// F_p^6 and F_p^12 in bls12381_pairing.go.

import "math/big"

type blsFp2 struct {
	c0, c1 *big.Int
}

func newBlsFp2(c0, c1 *big.Int) *blsFp2 {
	return &blsFp2{c0: new(big.Int).Set(c0), c1: new(big.Int).Set(c1)}
}

func blsFp2Zero() *blsFp2 {
	return &blsFp2{c0: new(big.Int), c1: new(big.Int)}
}

func blsFp2One() *blsFp2 {
	return &blsFp2{c0: big.NewInt(1), c1: new(big.Int)}
}

func (e *blsFp2) isZero() bool {
	return e.c0.Sign() == 0 && e.c1.Sign() == 0
}

func (e *blsFp2) equal(f *blsFp2) bool {
	return blsFp2Sub(e, f).isZero()
}

// blsFp2Add returns e + f.
func blsFp2Add(e, f *blsFp2) *blsFp2 {
	return &blsFp2{c0: blsFpAdd(e.c0, f.c0), c1: blsFpAdd(e.c1, f.c1)}
}

// blsFp2Sub returns e - f.
func blsFp2Sub(e, f *blsFp2) *blsFp2 {
	return &blsFp2{c0: blsFpSub(e.c0, f.c0), c1: blsFpSub(e.c1, f.c1)}
}

// blsFp2Mul returns e*f, multiplying out the four cross terms directly
// rather than via Karatsuba: (a0+a1 u)(b0+b1 u) = (a0 b0 - a1 b1) +
// (a0 b1 + a1 b0) u. Karatsuba trades one Fp multiply for extra
// additions, a saving that only matters when the underlying Fp multiply
// is expensive; here it's a single big.Int.Mul+Mod, so the direct form
// is both clearer and no slower.
func blsFp2Mul(e, f *blsFp2) *blsFp2 {
	a0b0 := blsFpMul(e.c0, f.c0)
	a1b1 := blsFpMul(e.c1, f.c1)
	a0b1 := blsFpMul(e.c0, f.c1)
	a1b0 := blsFpMul(e.c1, f.c0)
	return &blsFp2{
		c0: blsFpSub(a0b0, a1b1),
		c1: blsFpAdd(a0b1, a1b0),
	}
}

// blsFp2Sqr returns e^2, via the standard complex-squaring identity
// (a+bu)^2 = (a+b)(a-b) + 2ab u, cheaper than a general multiply.
func blsFp2Sqr(e *blsFp2) *blsFp2 {
	ab := blsFpMul(e.c0, e.c1)
	return &blsFp2{
		c0: blsFpMul(blsFpAdd(e.c0, e.c1), blsFpSub(e.c0, e.c1)),
		c1: blsFpAdd(ab, ab),
	}
}

// blsFp2Neg returns -e.
func blsFp2Neg(e *blsFp2) *blsFp2 {
	return &blsFp2{c0: blsFpNeg(e.c0), c1: blsFpNeg(e.c1)}
}

// blsFp2Conj returns the Galois conjugate c0 - c1*u.
func blsFp2Conj(e *blsFp2) *blsFp2 {
	return &blsFp2{c0: new(big.Int).Set(e.c0), c1: blsFpNeg(e.c1)}
}

// blsFp2Inv returns e^(-1) = conj(e) / norm(e), where norm(e) = c0^2+c1^2
// is the Fp element conj(e)*e reduces to.
func blsFp2Inv(e *blsFp2) *blsFp2 {
	norm := blsFpAdd(blsFpSqr(e.c0), blsFpSqr(e.c1))
	return blsFp2MulScalar(blsFp2Conj(e), blsFpInv(norm))
}

// blsFp2MulScalar returns e * s for s in F_p.
func blsFp2MulScalar(e *blsFp2, s *big.Int) *blsFp2 {
	return &blsFp2{c0: blsFpMul(e.c0, s), c1: blsFpMul(e.c1, s)}
}

// blsFp2Sgn0 is sgn0(c0) || (c0 == 0 && sgn0(c1)), the hash-to-curve
// sign convention lifted to Fp2.
func blsFp2Sgn0(e *blsFp2) int {
	s0 := blsFpSgn0(e.c0)
	var z0 int
	if new(big.Int).Mod(e.c0, blsP).Sign() == 0 {
		z0 = 1
	}
	return s0 | (z0 & blsFpSgn0(e.c1))
}

var fp2TwoInv = blsFpInv(big.NewInt(2))

// fp2SqrtCandidate builds and verifies one of the two square-root
// candidates for e given a0, the corresponding +/- branch of
// (c0 +/- sqrtNorm)/2. Returns nil if a0 is not itself a residue or the
// result fails to square back to e.
func fp2SqrtCandidate(e *blsFp2, a0 *big.Int) *blsFp2 {
	if !blsFpIsSquare(a0) {
		return nil
	}
	x0 := blsFpSqrt(a0)
	x1 := blsFpMul(e.c1, blsFpInv(blsFpAdd(x0, x0)))
	candidate := &blsFp2{c0: x0, c1: x1}
	if !blsFp2Sqr(candidate).equal(e) {
		return nil
	}
	return candidate
}

// blsFp2Sqrt returns a square root of e, or nil if e is not a residue.
// Uses the standard Fp2-over-Fp3mod4 construction: the norm
// n = c0^2+c1^2 must itself be a residue in Fp, and one of
// x0 = (c0 +/- sqrt(n))/2 must be a residue whose root pairs with
// x1 = c1/(2 x0) to square back to e.
func blsFp2Sqrt(e *blsFp2) *blsFp2 {
	if e.isZero() {
		return blsFp2Zero()
	}
	if new(big.Int).Mod(e.c1, blsP).Sign() == 0 {
		// e lies in Fp: its root is in Fp or is a multiple of u, since
		// u^2 = -1 is a non-residue for p = 3 mod 4.
		if r := blsFpSqrt(e.c0); r != nil {
			return &blsFp2{c0: r, c1: new(big.Int)}
		}
		return &blsFp2{c0: new(big.Int), c1: blsFpSqrt(blsFpNeg(e.c0))}
	}

	norm := blsFpAdd(blsFpSqr(e.c0), blsFpSqr(e.c1))
	if !blsFpIsSquare(norm) {
		return nil
	}
	sqrtNorm := blsFpSqrt(norm)
	if sqrtNorm == nil {
		return nil
	}

	plus := blsFpMul(blsFpAdd(e.c0, sqrtNorm), fp2TwoInv)
	if r := fp2SqrtCandidate(e, plus); r != nil {
		return r
	}
	minus := blsFpMul(blsFpSub(e.c0, sqrtNorm), fp2TwoInv)
	return fp2SqrtCandidate(e, minus)
}

// blsFp2IsSquare reports whether e is a quadratic residue: in Fp2 over
// p = 3 mod 4, e is a residue iff its norm c0^2+c1^2 is a residue in Fp.
func blsFp2IsSquare(e *blsFp2) bool {
	if e.isZero() {
		return true
	}
	return blsFpIsSquare(blsFpAdd(blsFpSqr(e.c0), blsFpSqr(e.c1)))
}

// blsFp2MulByU multiplies e by the non-residue u: u(c0+c1 u) = -c1+c0 u
// since u^2 = -1.
func blsFp2MulByU(e *blsFp2) *blsFp2 {
	return &blsFp2{c0: blsFpNeg(e.c1), c1: new(big.Int).Set(e.c0)}
}
