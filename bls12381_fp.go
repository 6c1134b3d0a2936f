package bls12381

// Finite field arithmetic over F_p, the base field of BLS12-381:
//
//	p = 0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab
//
// p is 381 bits, three short of six 64-bit machine words. Addition,
// subtraction and negation are carried out on a fixed 6-word limb form
// with explicit carry/borrow propagation rather than through
// math/big's variable-length arithmetic; multiplication, inversion and
// exponentiation stay on math/big, where a 12-word schoolbook multiply
// with Montgomery reduction would be the natural next step but isn't
// worth hand-verifying without a compiler to catch a dropped carry.

import (
	"encoding/binary"
	"math/big"
	"math/bits"
)

// BLS12-381 curve parameters.
var (
	// blsP is the base field modulus.
	blsP, _ = new(big.Int).SetString(
		"1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab", 16)
	// blsR is the subgroup order.
	blsR, _ = new(big.Int).SetString(
		"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)
	// blsB is the curve coefficient b = 4 for G1: y^2 = x^3 + 4.
	blsB = big.NewInt(4)

	blsPLimbs = fpToLimbs(blsP)
)

// fpLimbs is an element of F_p as six 64-bit words, least-significant
// word first. It is only ever used transiently inside Add/Sub/Neg; every
// public-facing value still travels as a *big.Int.
type fpLimbs [6]uint64

// fpToLimbs packs a reduced field element into 6 little-endian words. v
// must already satisfy 0 <= v < 2^384 (callers only ever pass values
// already reduced mod p, which is well under that bound).
func fpToLimbs(v *big.Int) fpLimbs {
	var be [48]byte
	v.FillBytes(be[:])
	var l fpLimbs
	for i := 0; i < 6; i++ {
		l[i] = binary.BigEndian.Uint64(be[48-8*(i+1) : 48-8*i])
	}
	return l
}

// fpFromLimbs unpacks 6 little-endian words back into a *big.Int.
func fpFromLimbs(l fpLimbs) *big.Int {
	var be [48]byte
	for i := 0; i < 6; i++ {
		binary.BigEndian.PutUint64(be[48-8*(i+1):48-8*i], l[i])
	}
	return new(big.Int).SetBytes(be[:])
}

// limbsAdd returns a+b and the carry out of the top word.
func limbsAdd(a, b fpLimbs) (fpLimbs, uint64) {
	var sum fpLimbs
	var carry uint64
	for i := 0; i < 6; i++ {
		sum[i], carry = bits.Add64(a[i], b[i], carry)
	}
	return sum, carry
}

// limbsSub returns a-b and the borrow out of the top word (1 if a<b).
func limbsSub(a, b fpLimbs) (fpLimbs, uint64) {
	var diff fpLimbs
	var borrow uint64
	for i := 0; i < 6; i++ {
		diff[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	return diff, borrow
}

// limbsGTE reports whether a >= b, comparing from the most significant
// word down.
func limbsGTE(a, b fpLimbs) bool {
	for i := 5; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return true
}

// blsFpAdd returns (a + b) mod p, computed on the fixed-width limb form:
// add the operands, then subtract p once if the sum overflowed 384 bits
// or still exceeds p. Since 0<=a,b<p the sum is always below 2p, so a
// single conditional subtraction suffices.
func blsFpAdd(a, b *big.Int) *big.Int {
	la := fpToLimbs(new(big.Int).Mod(a, blsP))
	lb := fpToLimbs(new(big.Int).Mod(b, blsP))
	sum, carry := limbsAdd(la, lb)
	if carry != 0 || limbsGTE(sum, blsPLimbs) {
		sum, _ = limbsSub(sum, blsPLimbs)
	}
	return fpFromLimbs(sum)
}

// blsFpSub returns (a - b) mod p: subtract on the limb form, and add p
// back once if the subtraction borrowed past zero.
func blsFpSub(a, b *big.Int) *big.Int {
	la := fpToLimbs(new(big.Int).Mod(a, blsP))
	lb := fpToLimbs(new(big.Int).Mod(b, blsP))
	diff, borrow := limbsSub(la, lb)
	if borrow != 0 {
		diff, _ = limbsAdd(diff, blsPLimbs)
	}
	return fpFromLimbs(diff)
}

// blsFpNeg returns (-a) mod p as p-a on the limb form, or 0 when a is 0.
func blsFpNeg(a *big.Int) *big.Int {
	ra := new(big.Int).Mod(a, blsP)
	if ra.Sign() == 0 {
		return new(big.Int)
	}
	diff, _ := limbsSub(blsPLimbs, fpToLimbs(ra))
	return fpFromLimbs(diff)
}

// blsFpMul returns (a * b) mod p.
func blsFpMul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, blsP)
}

// blsFpSqr returns a^2 mod p.
func blsFpSqr(a *big.Int) *big.Int {
	r := new(big.Int).Mul(a, a)
	return r.Mod(r, blsP)
}

// blsFpInv returns a^(-1) mod p via the extended Euclidean algorithm.
func blsFpInv(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, blsP)
}

// blsFpExp returns a^e mod p.
func blsFpExp(a, e *big.Int) *big.Int {
	return new(big.Int).Exp(a, e, blsP)
}

// fpSqrtExponent is (p+1)/4, computed once: since p = 3 mod 4 the
// principal square root of a residue a is a^((p+1)/4) mod p.
var fpSqrtExponent = func() *big.Int {
	e := new(big.Int).Add(blsP, big.NewInt(1))
	return e.Rsh(e, 2)
}()

// blsFpSqrt returns a square root of a mod p, or nil if a is not a
// quadratic residue.
func blsFpSqrt(a *big.Int) *big.Int {
	ra := new(big.Int).Mod(a, blsP)
	if ra.Sign() == 0 {
		return new(big.Int)
	}
	candidate := blsFpExp(ra, fpSqrtExponent)
	if blsFpSqr(candidate).Cmp(ra) != 0 {
		return nil
	}
	return candidate
}

// fpEulerExponent is (p-1)/2, the exponent Euler's criterion raises a
// candidate residue to.
var fpEulerExponent = func() *big.Int {
	e := new(big.Int).Sub(blsP, big.NewInt(1))
	return e.Rsh(e, 1)
}()

// blsFpIsSquare reports whether a is a quadratic residue mod p, via
// Euler's criterion a^((p-1)/2) == 1.
func blsFpIsSquare(a *big.Int) bool {
	ra := new(big.Int).Mod(a, blsP)
	if ra.Sign() == 0 {
		return true
	}
	return blsFpExp(ra, fpEulerExponent).Cmp(big.NewInt(1)) == 0
}

// blsFpSgn0 returns the low bit of a mod p, the "sign" convention used
// throughout the hash-to-curve machinery to pick between a root and its
// negation.
func blsFpSgn0(a *big.Int) int {
	return int(new(big.Int).Mod(a, blsP).Bit(0))
}

// blsFpCmov selects c when b != 0 and a otherwise, always returning a
// freshly allocated value so callers can't alias the inputs.
func blsFpCmov(a, c *big.Int, b int) *big.Int {
	if b != 0 {
		return new(big.Int).Set(c)
	}
	return new(big.Int).Set(a)
}
