package bls12381

// G1 point arithmetic on y^2 = x^3 + 4 over F_p.
//
// Points carry Jacobian coordinates (X,Y,Z), affine = (X/Z^2, Y/Z^3),
// Z=0 at infinity, since that's the representation DeserializeG1 and the
// pairing code hand across the package boundary. Add and Double
// themselves, though, work the point out to affine, apply the textbook
// slope formulas, and lift the sum back to Z=1 — one extra inversion per
// group operation against the optimized Jacobian formulas, paid for a
// group law short enough to check by hand against y^2=x^3+b.

import "math/big"

type G1 struct {
	x, y, z *big.Int
}

var (
	blsG1GenX, _ = new(big.Int).SetString(
		"17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb", 16)
	blsG1GenY, _ = new(big.Int).SetString(
		"08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1", 16)
)

// G1Generator returns the canonical generator of G1.
func G1Generator() *G1 {
	return &G1{x: new(big.Int).Set(blsG1GenX), y: new(big.Int).Set(blsG1GenY), z: big.NewInt(1)}
}

// G1Infinity returns the identity element.
func G1Infinity() *G1 {
	return &G1{x: big.NewInt(1), y: big.NewInt(1), z: new(big.Int)}
}

func (p *G1) blsG1IsInfinity() bool {
	return p.z.Sign() == 0
}

// blsG1FromAffine lifts an affine point to Z=1; (0,0) denotes infinity.
func blsG1FromAffine(x, y *big.Int) *G1 {
	if x.Sign() == 0 && y.Sign() == 0 {
		return G1Infinity()
	}
	return &G1{x: new(big.Int).Set(x), y: new(big.Int).Set(y), z: big.NewInt(1)}
}

// blsG1ToAffine divides out Z, returning (0,0) for infinity.
func (p *G1) blsG1ToAffine() (x, y *big.Int) {
	if p.blsG1IsInfinity() {
		return new(big.Int), new(big.Int)
	}
	if p.z.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int).Set(p.x), new(big.Int).Set(p.y)
	}
	zInv := blsFpInv(p.z)
	zInv2 := blsFpSqr(zInv)
	zInv3 := blsFpMul(zInv2, zInv)
	return blsFpMul(p.x, zInv2), blsFpMul(p.y, zInv3)
}

// blsG1IsOnCurve reports whether the affine point (x,y) satisfies
// y^2 = x^3 + 4; (0,0) is accepted as the identity.
func blsG1IsOnCurve(x, y *big.Int) bool {
	if x.Sign() == 0 && y.Sign() == 0 {
		return true
	}
	if x.Sign() < 0 || x.Cmp(blsP) >= 0 || y.Sign() < 0 || y.Cmp(blsP) >= 0 {
		return false
	}
	lhs := blsFpSqr(y)
	rhs := blsFpAdd(blsFpMul(blsFpSqr(x), x), blsB)
	return lhs.Cmp(rhs) == 0
}

// blsG1Add returns a+b, working entirely in affine coordinates: handle
// the three degenerate cases (either operand is infinity, or the
// operands are equal/opposite), then apply the chord-and-tangent slope
// lambda = (y2-y1)/(x2-x1).
func blsG1Add(a, b *G1) *G1 {
	if a.blsG1IsInfinity() {
		return &G1{new(big.Int).Set(b.x), new(big.Int).Set(b.y), new(big.Int).Set(b.z)}
	}
	if b.blsG1IsInfinity() {
		return &G1{new(big.Int).Set(a.x), new(big.Int).Set(a.y), new(big.Int).Set(a.z)}
	}

	ax, ay := a.blsG1ToAffine()
	bx, by := b.blsG1ToAffine()

	if ax.Cmp(bx) == 0 {
		if ay.Cmp(by) == 0 {
			return blsG1Double(a)
		}
		return G1Infinity()
	}

	lambda := blsFpMul(blsFpSub(by, ay), blsFpInv(blsFpSub(bx, ax)))
	x3 := blsFpSub(blsFpSub(blsFpSqr(lambda), ax), bx)
	y3 := blsFpSub(blsFpMul(lambda, blsFpSub(ax, x3)), ay)
	return blsG1FromAffine(x3, y3)
}

// blsG1Double returns 2a via the tangent slope lambda = 3x^2/(2y), valid
// because G1's curve equation has a=0.
func blsG1Double(a *G1) *G1 {
	if a.blsG1IsInfinity() {
		return G1Infinity()
	}
	ax, ay := a.blsG1ToAffine()
	if ay.Sign() == 0 {
		return G1Infinity()
	}

	threeXSq := blsFpAdd(blsFpAdd(blsFpSqr(ax), blsFpSqr(ax)), blsFpSqr(ax))
	lambda := blsFpMul(threeXSq, blsFpInv(blsFpAdd(ay, ay)))
	x3 := blsFpSub(blsFpSqr(lambda), blsFpAdd(ax, ax))
	y3 := blsFpSub(blsFpMul(lambda, blsFpSub(ax, x3)), ay)
	return blsG1FromAffine(x3, y3)
}

// blsG1ScalarMul computes k*p by double-and-add over the bits of k mod
// the subgroup order, most significant bit first.
func blsG1ScalarMul(p *G1, k *big.Int) *G1 {
	kMod := new(big.Int).Mod(k, blsR)
	if kMod.Sign() == 0 || p.blsG1IsInfinity() {
		return G1Infinity()
	}

	acc := G1Infinity()
	for i := kMod.BitLen() - 1; i >= 0; i-- {
		acc = blsG1Double(acc)
		if kMod.Bit(i) == 1 {
			acc = blsG1Add(acc, p)
		}
	}
	return acc
}

// blsG1Neg returns -p, mirroring y across the x-axis.
func blsG1Neg(p *G1) *G1 {
	if p.blsG1IsInfinity() {
		return G1Infinity()
	}
	return &G1{x: new(big.Int).Set(p.x), y: blsFpNeg(p.y), z: new(big.Int).Set(p.z)}
}

// blsG1ScalarMulUnreduced computes k*p by double-and-add over the literal
// bits of k, without first reducing k mod the subgroup order. blsG1ScalarMul
// can't serve blsG1InSubgroup's [r]p check: it reduces k mod blsR before the
// loop, so calling it with k == blsR always sees kMod == 0 and short-circuits
// to infinity regardless of p.
func blsG1ScalarMulUnreduced(p *G1, k *big.Int) *G1 {
	if k.Sign() == 0 || p.blsG1IsInfinity() {
		return G1Infinity()
	}

	acc := G1Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = blsG1Double(acc)
		if k.Bit(i) == 1 {
			acc = blsG1Add(acc, p)
		}
	}
	return acc
}

// blsG1InSubgroup reports whether p lies in the order-r subgroup of the
// G1 curve group, checked directly as [r]p == infinity rather than via
// the faster endomorphism-based subgroup test.
func blsG1InSubgroup(p *G1) bool {
	if p.blsG1IsInfinity() {
		return true
	}
	return blsG1ScalarMulUnreduced(p, blsR).blsG1IsInfinity()
}
