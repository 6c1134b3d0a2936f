package bls12381

// G2 point arithmetic on the twist curve y^2 = x^3 + 4(1+u) over F_p^2.
// Structurally this mirrors bls12381_g1.go one field extension up: Add
// and Double convert to affine and apply the same slope formulas, just
// with Fp2 arithmetic standing in for Fp.

import "math/big"

type G2 struct {
	x, y, z *blsFp2
}

// blsTwistB is the twist curve's b coefficient, 4(1+u).
var blsTwistB = &blsFp2{c0: big.NewInt(4), c1: big.NewInt(4)}

var (
	blsG2GenXc0, _ = new(big.Int).SetString(
		"024aa2b2f08f0a91260805272dc51051c6e47ad4fa403b02b4510b647ae3d1770bac0326a805bbefd48056c8c121bdb8", 16)
	blsG2GenXc1, _ = new(big.Int).SetString(
		"13e02b6052719f607dacd3a088274f65596bd0d09920b61ab5da61bbdc7f5049334cf11213945d57e5ac7d055d042b7e", 16)
	blsG2GenYc0, _ = new(big.Int).SetString(
		"0ce5d527727d6e118cc9cdc6da2e351aadfd9baa8cbdd3a76d429a695160d12c923ac9cc3baca289e193548608b82801", 16)
	blsG2GenYc1, _ = new(big.Int).SetString(
		"0606c4a02ea734cc32acd2b02bc28b99cb3e287e85a763af267492ab572e99ab3f370d275cec1da1aaa9075ff05f79be", 16)
)

// G2Generator returns the canonical generator of G2.
func G2Generator() *G2 {
	return &G2{
		x: &blsFp2{c0: new(big.Int).Set(blsG2GenXc0), c1: new(big.Int).Set(blsG2GenXc1)},
		y: &blsFp2{c0: new(big.Int).Set(blsG2GenYc0), c1: new(big.Int).Set(blsG2GenYc1)},
		z: blsFp2One(),
	}
}

// G2Infinity returns the identity element of G2.
func G2Infinity() *G2 {
	return &G2{x: blsFp2One(), y: blsFp2One(), z: blsFp2Zero()}
}

func (p *G2) blsG2IsInfinity() bool {
	return p.z.isZero()
}

// blsG2FromAffine lifts an affine point to Z=1; (0,0) denotes infinity.
func blsG2FromAffine(x, y *blsFp2) *G2 {
	if x.isZero() && y.isZero() {
		return G2Infinity()
	}
	return &G2{x: newBlsFp2(x.c0, x.c1), y: newBlsFp2(y.c0, y.c1), z: blsFp2One()}
}

// blsG2ToAffine divides out Z, returning (0,0) for infinity.
func (p *G2) blsG2ToAffine() (x, y *blsFp2) {
	if p.blsG2IsInfinity() {
		return blsFp2Zero(), blsFp2Zero()
	}
	if p.z.c0.Cmp(big.NewInt(1)) == 0 && p.z.c1.Sign() == 0 {
		return newBlsFp2(p.x.c0, p.x.c1), newBlsFp2(p.y.c0, p.y.c1)
	}
	zInv := blsFp2Inv(p.z)
	zInv2 := blsFp2Sqr(zInv)
	zInv3 := blsFp2Mul(zInv2, zInv)
	return blsFp2Mul(p.x, zInv2), blsFp2Mul(p.y, zInv3)
}

// blsG2IsOnCurve checks the twist equation y^2 = x^3 + b' and that every
// Fp2 coordinate component is already reduced mod p.
func blsG2IsOnCurve(x, y *blsFp2) bool {
	if x.isZero() && y.isZero() {
		return true
	}
	for _, c := range []*big.Int{x.c0, x.c1, y.c0, y.c1} {
		if c.Sign() < 0 || c.Cmp(blsP) >= 0 {
			return false
		}
	}
	lhs := blsFp2Sqr(y)
	rhs := blsFp2Add(blsFp2Mul(blsFp2Sqr(x), x), blsTwistB)
	return lhs.equal(rhs)
}

// blsG2Add returns a+b via the affine chord-and-tangent slope, the same
// structure as blsG1Add lifted to Fp2 coefficients.
func blsG2Add(a, b *G2) *G2 {
	if a.blsG2IsInfinity() {
		return &G2{newBlsFp2(b.x.c0, b.x.c1), newBlsFp2(b.y.c0, b.y.c1), newBlsFp2(b.z.c0, b.z.c1)}
	}
	if b.blsG2IsInfinity() {
		return &G2{newBlsFp2(a.x.c0, a.x.c1), newBlsFp2(a.y.c0, a.y.c1), newBlsFp2(a.z.c0, a.z.c1)}
	}

	ax, ay := a.blsG2ToAffine()
	bx, by := b.blsG2ToAffine()

	if ax.equal(bx) {
		if ay.equal(by) {
			return blsG2Double(a)
		}
		return G2Infinity()
	}

	lambda := blsFp2Mul(blsFp2Sub(by, ay), blsFp2Inv(blsFp2Sub(bx, ax)))
	x3 := blsFp2Sub(blsFp2Sub(blsFp2Sqr(lambda), ax), bx)
	y3 := blsFp2Sub(blsFp2Mul(lambda, blsFp2Sub(ax, x3)), ay)
	return blsG2FromAffine(x3, y3)
}

// blsG2Double returns 2a via lambda = 3x^2/(2y).
func blsG2Double(a *G2) *G2 {
	if a.blsG2IsInfinity() {
		return G2Infinity()
	}
	ax, ay := a.blsG2ToAffine()
	if ay.isZero() {
		return G2Infinity()
	}

	threeXSq := blsFp2Add(blsFp2Add(blsFp2Sqr(ax), blsFp2Sqr(ax)), blsFp2Sqr(ax))
	lambda := blsFp2Mul(threeXSq, blsFp2Inv(blsFp2Add(ay, ay)))
	x3 := blsFp2Sub(blsFp2Sqr(lambda), blsFp2Add(ax, ax))
	y3 := blsFp2Sub(blsFp2Mul(lambda, blsFp2Sub(ax, x3)), ay)
	return blsG2FromAffine(x3, y3)
}

// blsG2Neg returns -p.
func blsG2Neg(p *G2) *G2 {
	if p.blsG2IsInfinity() {
		return G2Infinity()
	}
	return &G2{x: newBlsFp2(p.x.c0, p.x.c1), y: blsFp2Neg(p.y), z: newBlsFp2(p.z.c0, p.z.c1)}
}

// blsG2ScalarMul computes k*p by double-and-add over the bits of k mod
// the subgroup order.
func blsG2ScalarMul(p *G2, k *big.Int) *G2 {
	kMod := new(big.Int).Mod(k, blsR)
	if kMod.Sign() == 0 || p.blsG2IsInfinity() {
		return G2Infinity()
	}

	acc := G2Infinity()
	for i := kMod.BitLen() - 1; i >= 0; i-- {
		acc = blsG2Double(acc)
		if kMod.Bit(i) == 1 {
			acc = blsG2Add(acc, p)
		}
	}
	return acc
}

// blsG2ScalarMulUnreduced computes k*p by double-and-add over the literal
// bits of k, without first reducing k mod the subgroup order. blsG2ScalarMul
// can't serve blsG2InSubgroup's [r]p check for the same reason documented on
// blsG1ScalarMulUnreduced: reducing k == blsR mod blsR first always yields 0.
func blsG2ScalarMulUnreduced(p *G2, k *big.Int) *G2 {
	if k.Sign() == 0 || p.blsG2IsInfinity() {
		return G2Infinity()
	}

	acc := G2Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = blsG2Double(acc)
		if k.Bit(i) == 1 {
			acc = blsG2Add(acc, p)
		}
	}
	return acc
}

// blsG2InSubgroup reports whether p lies in the order-r subgroup,
// checked directly as [r]p == infinity.
func blsG2InSubgroup(p *G2) bool {
	if p.blsG2IsInfinity() {
		return true
	}
	return blsG2ScalarMulUnreduced(p, blsR).blsG2IsInfinity()
}
