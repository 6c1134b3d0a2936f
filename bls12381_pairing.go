package bls12381

// Optimal ate pairing e: G1 x G2 -> GT, and the tower of field
// extensions it runs on:
//
//	Fp  -> Fp2  = Fp[u]/(u^2+1)          (bls12381_fp2.go)
//	Fp2 -> Fp6  = Fp2[v]/(v^3-(1+u))
//	Fp6 -> Fp12 = Fp6[w]/(w^2-v)
//
// The pairing itself is a Miller loop over the bits of the BLS
// parameter x = -0xd201000000010000 followed by a final exponentiation
// that collapses the Miller loop output into the order-r subgroup of
// Fp12* that is GT.

import "math/big"

// blsX is the (positive magnitude of the negative) BLS12-381 parameter.
var blsX, _ = new(big.Int).SetString("d201000000010000", 16)

// --- Fp6 = Fp2[v]/(v^3 - xi), xi = 1+u ---

type blsFp6 struct {
	c0, c1, c2 *blsFp2
}

func blsFp6Zero() *blsFp6 {
	return &blsFp6{c0: blsFp2Zero(), c1: blsFp2Zero(), c2: blsFp2Zero()}
}

func blsFp6One() *blsFp6 {
	return &blsFp6{c0: blsFp2One(), c1: blsFp2Zero(), c2: blsFp2Zero()}
}

func blsFp6Add(a, b *blsFp6) *blsFp6 {
	return &blsFp6{c0: blsFp2Add(a.c0, b.c0), c1: blsFp2Add(a.c1, b.c1), c2: blsFp2Add(a.c2, b.c2)}
}

func blsFp6Sub(a, b *blsFp6) *blsFp6 {
	return &blsFp6{c0: blsFp2Sub(a.c0, b.c0), c1: blsFp2Sub(a.c1, b.c1), c2: blsFp2Sub(a.c2, b.c2)}
}

// blsFp2MulByNonResidue multiplies by xi = 1+u, the cubic non-residue
// Fp6 is built on: (1+u)(a+bu) = (a-b) + (a+b)u.
func blsFp2MulByNonResidue(e *blsFp2) *blsFp2 {
	return &blsFp2{c0: blsFpSub(e.c0, e.c1), c1: blsFpAdd(e.c0, e.c1)}
}

// blsFp6Mul multiplies two degree-3 polynomials over Fp2 in v directly
// and reduces mod v^3-xi, rather than through a Karatsuba reformulation:
// for c0+c1 v+c2 v^2 = (a0+a1 v+a2 v^2)(b0+b1 v+b2 v^2) mod (v^3-xi),
//
//	c0 = a0 b0 + xi(a1 b2 + a2 b1)
//	c1 = a0 b1 + a1 b0 + xi a2 b2
//	c2 = a0 b2 + a1 b1 + a2 b0
func blsFp6Mul(a, b *blsFp6) *blsFp6 {
	a0b0 := blsFp2Mul(a.c0, b.c0)
	a0b1 := blsFp2Mul(a.c0, b.c1)
	a0b2 := blsFp2Mul(a.c0, b.c2)
	a1b0 := blsFp2Mul(a.c1, b.c0)
	a1b1 := blsFp2Mul(a.c1, b.c1)
	a1b2 := blsFp2Mul(a.c1, b.c2)
	a2b0 := blsFp2Mul(a.c2, b.c0)
	a2b1 := blsFp2Mul(a.c2, b.c1)
	a2b2 := blsFp2Mul(a.c2, b.c2)

	return &blsFp6{
		c0: blsFp2Add(a0b0, blsFp2MulByNonResidue(blsFp2Add(a1b2, a2b1))),
		c1: blsFp2Add(blsFp2Add(a0b1, a1b0), blsFp2MulByNonResidue(a2b2)),
		c2: blsFp2Add(blsFp2Add(a0b2, a1b1), a2b0),
	}
}

// blsFp6Sqr is a squaring via the general product; the corpus's
// dedicated 5-term squaring formula saves Fp2 multiplies that don't
// matter once the underlying Fp multiply is a single big.Int op.
func blsFp6Sqr(a *blsFp6) *blsFp6 {
	return blsFp6Mul(a, a)
}

func blsFp6Neg(a *blsFp6) *blsFp6 {
	return &blsFp6{c0: blsFp2Neg(a.c0), c1: blsFp2Neg(a.c1), c2: blsFp2Neg(a.c2)}
}

// blsFp6Inv computes a^-1 via the resultant-based formula for cubic
// extensions: build the adjugate (c0,c1,c2) such that a*(c0+c1 v+c2 v^2)
// collapses to a scalar in Fp2, then divide that scalar out.
func blsFp6Inv(a *blsFp6) *blsFp6 {
	t0 := blsFp2Sqr(a.c0)
	t1 := blsFp2Sqr(a.c1)
	t2 := blsFp2Sqr(a.c2)
	t3 := blsFp2Mul(a.c0, a.c1)
	t4 := blsFp2Mul(a.c0, a.c2)
	t5 := blsFp2Mul(a.c1, a.c2)

	c0 := blsFp2Sub(t0, blsFp2MulByNonResidue(t5))
	c1 := blsFp2Sub(blsFp2MulByNonResidue(t2), t3)
	c2 := blsFp2Sub(t1, t4)

	scalar := blsFp2Add(blsFp2Mul(a.c0, c0),
		blsFp2MulByNonResidue(blsFp2Add(blsFp2Mul(a.c2, c1), blsFp2Mul(a.c1, c2))))
	scalarInv := blsFp2Inv(scalar)

	return &blsFp6{c0: blsFp2Mul(c0, scalarInv), c1: blsFp2Mul(c1, scalarInv), c2: blsFp2Mul(c2, scalarInv)}
}

// --- Fp12 = Fp6[w]/(w^2 - v) ---

type blsFp12 struct {
	c0, c1 *blsFp6
}

func blsFp12Zero() *blsFp12 {
	return &blsFp12{c0: blsFp6Zero(), c1: blsFp6Zero()}
}

func blsFp12One() *blsFp12 {
	return &blsFp12{c0: blsFp6One(), c1: blsFp6Zero()}
}

// blsFp6MulByV multiplies by the Fp12 tower variable v:
// v(c0+c1 v+c2 v^2) = c2 xi + c0 v + c1 v^2.
func blsFp6MulByV(a *blsFp6) *blsFp6 {
	return &blsFp6{c0: blsFp2MulByNonResidue(a.c2), c1: a.c0, c2: a.c1}
}

func blsFp12Mul(a, b *blsFp12) *blsFp12 {
	t0 := blsFp6Mul(a.c0, b.c0)
	t1 := blsFp6Mul(a.c1, b.c1)
	c0 := blsFp6Add(t0, blsFp6MulByV(t1))
	c1 := blsFp6Sub(blsFp6Sub(blsFp6Mul(blsFp6Add(a.c0, a.c1), blsFp6Add(b.c0, b.c1)), t0), t1)
	return &blsFp12{c0: c0, c1: c1}
}

func blsFp12Sqr(a *blsFp12) *blsFp12 {
	ab := blsFp6Mul(a.c0, a.c1)
	c0 := blsFp6Sub(blsFp6Mul(blsFp6Add(a.c0, a.c1), blsFp6Add(a.c0, blsFp6MulByV(a.c1))),
		blsFp6Add(ab, blsFp6MulByV(ab)))
	c1 := blsFp6Add(ab, ab)
	return &blsFp12{c0: c0, c1: c1}
}

func blsFp12Inv(a *blsFp12) *blsFp12 {
	norm := blsFp6Sub(blsFp6Sqr(a.c0), blsFp6MulByV(blsFp6Sqr(a.c1)))
	normInv := blsFp6Inv(norm)
	return &blsFp12{c0: blsFp6Mul(a.c0, normInv), c1: blsFp6Neg(blsFp6Mul(a.c1, normInv))}
}

// blsFp12Conj is the order-2 Frobenius-power conjugate (c0, c1) -> (c0,
// -c1); every Fp2/Fp6 operation here already allocates fresh values, so
// c0 can be shared rather than deep-copied.
func blsFp12Conj(a *blsFp12) *blsFp12 {
	return &blsFp12{c0: a.c0, c1: blsFp6Neg(a.c1)}
}

// blsFp12Exp computes f^k by square-and-multiply over the bits of k,
// most significant first.
func blsFp12Exp(f *blsFp12, k *big.Int) *blsFp12 {
	result := blsFp12One()
	for i := k.BitLen() - 1; i >= 0; i-- {
		result = blsFp12Sqr(result)
		if k.Bit(i) == 1 {
			result = blsFp12Mul(result, f)
		}
	}
	return result
}

// isOne reports whether f is the Fp12 multiplicative identity.
func (f *blsFp12) isOne() bool {
	return f.c0.c0.equal(blsFp2One()) && f.c0.c1.isZero() && f.c0.c2.isZero() &&
		f.c1.c0.isZero() && f.c1.c1.isZero() && f.c1.c2.isZero()
}

// --- Miller loop ---

// lineEval packages a sparse Fp12 line-function value into the tower.
// For the D-twist used here the line through the untwisted points,
// evaluated at the affine G1 point (px,py) and cleared of denominators,
// only ever has two nonzero Fp2 coefficients: ell0 sits at the Fp6
// constant term and ell1 at the Fp6 v-term, both in the Fp12 c0 half,
// with py itself landing at the Fp6 v-term of the Fp12 c1 half.
func lineEval(ell0, ell1 *blsFp2, py *big.Int) *blsFp12 {
	return &blsFp12{
		c0: &blsFp6{c0: ell0, c1: ell1, c2: blsFp2Zero()},
		c1: &blsFp6{c0: blsFp2Zero(), c1: &blsFp2{c0: new(big.Int).Set(py), c1: new(big.Int)}, c2: blsFp2Zero()},
	}
}

// blsLineFunctionAdd evaluates the chord through R and Q at the affine
// G1 point (px,py) and returns (line value, R+Q).
func blsLineFunctionAdd(r *G2, qx, qy *blsFp2, px, py *big.Int) (*blsFp12, *G2) {
	if r.blsG2IsInfinity() {
		return blsFp12One(), blsG2FromAffine(qx, qy)
	}

	rx, ry := r.blsG2ToAffine()
	if rx.equal(qx) && ry.equal(qy) {
		return blsLineFunctionDouble(r, px, py)
	}

	den := blsFp2Sub(qx, rx)
	if den.isZero() {
		// R and Q share an x-coordinate but differ in y: vertical line,
		// a factor the final exponentiation kills.
		return blsFp12One(), G2Infinity()
	}
	lambda := blsFp2Mul(blsFp2Sub(qy, ry), blsFp2Inv(den))

	ell0 := blsFp2Sub(blsFp2Mul(lambda, rx), ry)
	ell1 := blsFp2Neg(blsFp2MulScalar(lambda, px))

	return lineEval(ell0, ell1, py), blsG2Add(r, blsG2FromAffine(qx, qy))
}

var (
	fp2Three = &blsFp2{c0: big.NewInt(3), c1: new(big.Int)}
	fp2Two   = &blsFp2{c0: big.NewInt(2), c1: new(big.Int)}
)

// blsLineFunctionDouble evaluates the tangent at R at the affine G1
// point (px,py) and returns (line value, 2R).
func blsLineFunctionDouble(r *G2, px, py *big.Int) (*blsFp12, *G2) {
	if r.blsG2IsInfinity() {
		return blsFp12One(), G2Infinity()
	}
	rx, ry := r.blsG2ToAffine()
	if ry.isZero() {
		return blsFp12One(), G2Infinity()
	}

	lambda := blsFp2Mul(blsFp2Mul(fp2Three, blsFp2Sqr(rx)), blsFp2Inv(blsFp2Mul(fp2Two, ry)))
	ell0 := blsFp2Sub(blsFp2Mul(lambda, rx), ry)
	ell1 := blsFp2Neg(blsFp2MulScalar(lambda, px))

	return lineEval(ell0, ell1, py), blsG2Double(r)
}

// blsMillerLoop accumulates the line functions along the bits of blsX,
// doubling the running accumulator point every step and adding Q on the
// set bits. x is negative, so the accumulated value is conjugated at
// the end to account for running the loop over |x| instead.
func blsMillerLoop(p *G1, q *G2) *blsFp12 {
	if p.blsG1IsInfinity() || q.blsG2IsInfinity() {
		return blsFp12One()
	}

	px, py := p.blsG1ToAffine()
	qx, qy := q.blsG2ToAffine()

	f := blsFp12One()
	acc := blsG2FromAffine(qx, qy)

	for bit := blsX.BitLen() - 2; bit >= 0; bit-- {
		var line *blsFp12
		line, acc = blsLineFunctionDouble(acc, px, py)
		f = blsFp12Mul(blsFp12Sqr(f), line)

		if blsX.Bit(bit) == 1 {
			line, acc = blsLineFunctionAdd(acc, qx, qy, px, py)
			f = blsFp12Mul(f, line)
		}
	}

	return blsFp12Conj(f)
}

// hardExponentiationExponent is (p^4-p^2+1)/r, the hard part of the
// final exponentiation; computed once at package init since it depends
// only on the curve parameters.
var hardExponentiationExponent = func() *big.Int {
	p2 := new(big.Int).Mul(blsP, blsP)
	p4 := new(big.Int).Mul(p2, p2)
	e := new(big.Int).Sub(p4, p2)
	e.Add(e, big.NewInt(1))
	return e.Div(e, blsR)
}()

// blsFinalExponentiation raises f to (p^12-1)/r, factored as
// (p^6-1)(p^2+1)((p^4-p^2+1)/r). The easy part (p^6-1)(p^2+1) collapses
// f into the unitary subgroup using only a conjugate, an inverse and one
// Frobenius-style exponentiation; the hard part is applied by direct
// exponentiation rather than the addition-chain shortcuts the literature
// gives for it.
func blsFinalExponentiation(f *blsFp12) *blsFp12 {
	f1 := blsFp12Mul(blsFp12Conj(f), blsFp12Inv(f))
	f1p2 := blsFp12Exp(f1, new(big.Int).Mul(blsP, blsP))
	f2 := blsFp12Mul(f1p2, f1)
	return blsFp12Exp(f2, hardExponentiationExponent)
}

// blsMultiPairing reports whether product(e(g1Points[i], g2Points[i]))
// is the identity in GT, the pairing-equation form every verify
// operation in this package reduces to.
func blsMultiPairing(g1Points []*G1, g2Points []*G2) bool {
	f := blsFp12One()
	for i := range g1Points {
		if g1Points[i].blsG1IsInfinity() || g2Points[i].blsG2IsInfinity() {
			continue
		}
		f = blsFp12Mul(f, blsMillerLoop(g1Points[i], g2Points[i]))
	}
	return blsFinalExponentiation(f).isOne()
}
