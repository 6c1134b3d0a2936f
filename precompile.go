package bls12381

// EIP-2537 precompile codec: uncompressed 64-byte-padded field elements
// and big-endian point encodings, as distinct from the compressed
// encoding in encoding.go that the signature layer uses on the wire.
// Every entry point here decodes its operands, runs the group
// operation over the same core arithmetic the rest of the package uses,
// and re-encodes the result.

import (
	"errors"
	"math/big"
)

var (
	errPrecompileBadPoint   = errors.New("bls12-381: invalid point encoding")
	errPrecompileBadG2Point = errors.New("bls12-381: invalid G2 point encoding")
	errPrecompileNotOnCurve = errors.New("bls12-381: point not on curve")
	errPrecompileNoSubgroup = errors.New("bls12-381: point not in subgroup")
	errPrecompileBadField   = errors.New("bls12-381: invalid field element")
)

// Precompile operand widths: a field element is padded to 64 bytes (16
// zero bytes then the 48-byte value), a G1 point is two field elements,
// a G2 point is two Fp2 elements (four field elements), and scalars are
// raw 32-byte big-endian integers.
const (
	precompileFpWidth     = 64
	precompileG1Width     = 2 * precompileFpWidth
	precompileG2Width     = 4 * precompileFpWidth
	precompileScalarWidth = 32
)

// decodeFp reads one padded field element, requiring the top 16 bytes
// to be zero and the value to be strictly below p.
func decodeFp(data []byte) (*big.Int, error) {
	if len(data) != precompileFpWidth {
		return nil, errPrecompileBadField
	}
	for _, b := range data[:16] {
		if b != 0 {
			return nil, errPrecompileBadField
		}
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(blsP) >= 0 {
		return nil, errPrecompileBadField
	}
	return v, nil
}

func encodeFp(v *big.Int) []byte {
	out := make([]byte, precompileFpWidth)
	b := v.Bytes()
	copy(out[precompileFpWidth-len(b):], b)
	return out
}

// decodeFp2 reads an Fp2 element encoded imaginary-part-first (c1
// before c0), the same component order this package's compressed
// encoding uses.
func decodeFp2(data []byte) (*blsFp2, error) {
	if len(data) != 2*precompileFpWidth {
		return nil, errPrecompileBadField
	}
	im, err := decodeFp(data[:precompileFpWidth])
	if err != nil {
		return nil, err
	}
	re, err := decodeFp(data[precompileFpWidth:])
	if err != nil {
		return nil, err
	}
	return &blsFp2{c0: re, c1: im}, nil
}

func encodeFp2(e *blsFp2) []byte {
	out := make([]byte, 2*precompileFpWidth)
	copy(out[:precompileFpWidth], encodeFp(e.c1))
	copy(out[precompileFpWidth:], encodeFp(e.c0))
	return out
}

// decodeG1 reads an uncompressed G1 point: all-zero decodes to infinity,
// otherwise both coordinates must decode, satisfy the curve equation,
// and land in the order-r subgroup.
func decodeG1(data []byte) (*G1, error) {
	if len(data) != precompileG1Width {
		return nil, errPrecompileBadPoint
	}
	x, err := decodeFp(data[:precompileFpWidth])
	if err != nil {
		return nil, errPrecompileBadPoint
	}
	y, err := decodeFp(data[precompileFpWidth:])
	if err != nil {
		return nil, errPrecompileBadPoint
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		return G1Infinity(), nil
	}
	if !blsG1IsOnCurve(x, y) {
		return nil, errPrecompileNotOnCurve
	}
	p := blsG1FromAffine(x, y)
	if !blsG1InSubgroup(p) {
		return nil, errPrecompileNoSubgroup
	}
	return p, nil
}

func encodeG1(p *G1) []byte {
	out := make([]byte, precompileG1Width)
	if p.blsG1IsInfinity() {
		return out
	}
	x, y := p.blsG1ToAffine()
	copy(out[:precompileFpWidth], encodeFp(x))
	copy(out[precompileFpWidth:], encodeFp(y))
	return out
}

// decodeG2 is decodeG1 lifted to the twist curve over Fp2.
func decodeG2(data []byte) (*G2, error) {
	if len(data) != precompileG2Width {
		return nil, errPrecompileBadG2Point
	}
	x, err := decodeFp2(data[:2*precompileFpWidth])
	if err != nil {
		return nil, errPrecompileBadG2Point
	}
	y, err := decodeFp2(data[2*precompileFpWidth:])
	if err != nil {
		return nil, errPrecompileBadG2Point
	}
	if x.isZero() && y.isZero() {
		return G2Infinity(), nil
	}
	if !blsG2IsOnCurve(x, y) {
		return nil, errPrecompileNotOnCurve
	}
	p := blsG2FromAffine(x, y)
	if !blsG2InSubgroup(p) {
		return nil, errPrecompileNoSubgroup
	}
	return p, nil
}

func encodeG2(p *G2) []byte {
	out := make([]byte, precompileG2Width)
	if p.blsG2IsInfinity() {
		return out
	}
	x, y := p.blsG2ToAffine()
	copy(out[:2*precompileFpWidth], encodeFp2(x))
	copy(out[2*precompileFpWidth:], encodeFp2(y))
	return out
}

// --- Precompile entry points ---

// BLS12G1Add implements precompile 0x0b.
func BLS12G1Add(input []byte) ([]byte, error) {
	if len(input) != 2*precompileG1Width {
		return nil, errPrecompileBadPoint
	}
	p1, err := decodeG1(input[:precompileG1Width])
	if err != nil {
		return nil, err
	}
	p2, err := decodeG1(input[precompileG1Width:])
	if err != nil {
		return nil, err
	}
	return encodeG1(blsG1Add(p1, p2)), nil
}

// BLS12G1Mul implements precompile 0x0c.
func BLS12G1Mul(input []byte) ([]byte, error) {
	if len(input) != precompileG1Width+precompileScalarWidth {
		return nil, errPrecompileBadPoint
	}
	p, err := decodeG1(input[:precompileG1Width])
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).SetBytes(input[precompileG1Width:])
	return encodeG1(blsG1ScalarMul(p, scalar)), nil
}

// BLS12G1MSM implements precompile 0x0d: a multi-scalar multiplication
// over any number of (point, scalar) pairs packed back to back.
func BLS12G1MSM(input []byte) ([]byte, error) {
	const pairWidth = precompileG1Width + precompileScalarWidth
	if len(input) == 0 || len(input)%pairWidth != 0 {
		return nil, errPrecompileBadPoint
	}

	sum := G1Infinity()
	for offset := 0; offset < len(input); offset += pairWidth {
		p, err := decodeG1(input[offset : offset+precompileG1Width])
		if err != nil {
			return nil, err
		}
		scalar := new(big.Int).SetBytes(input[offset+precompileG1Width : offset+pairWidth])
		sum = blsG1Add(sum, blsG1ScalarMul(p, scalar))
	}
	return encodeG1(sum), nil
}

// BLS12G2Add implements precompile 0x0e.
func BLS12G2Add(input []byte) ([]byte, error) {
	if len(input) != 2*precompileG2Width {
		return nil, errPrecompileBadG2Point
	}
	p1, err := decodeG2(input[:precompileG2Width])
	if err != nil {
		return nil, err
	}
	p2, err := decodeG2(input[precompileG2Width:])
	if err != nil {
		return nil, err
	}
	return encodeG2(blsG2Add(p1, p2)), nil
}

// BLS12G2Mul implements precompile 0x0f.
func BLS12G2Mul(input []byte) ([]byte, error) {
	if len(input) != precompileG2Width+precompileScalarWidth {
		return nil, errPrecompileBadG2Point
	}
	p, err := decodeG2(input[:precompileG2Width])
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).SetBytes(input[precompileG2Width:])
	return encodeG2(blsG2ScalarMul(p, scalar)), nil
}

// BLS12G2MSM implements precompile 0x10.
func BLS12G2MSM(input []byte) ([]byte, error) {
	const pairWidth = precompileG2Width + precompileScalarWidth
	if len(input) == 0 || len(input)%pairWidth != 0 {
		return nil, errPrecompileBadG2Point
	}

	sum := G2Infinity()
	for offset := 0; offset < len(input); offset += pairWidth {
		p, err := decodeG2(input[offset : offset+precompileG2Width])
		if err != nil {
			return nil, err
		}
		scalar := new(big.Int).SetBytes(input[offset+precompileG2Width : offset+pairWidth])
		sum = blsG2Add(sum, blsG2ScalarMul(p, scalar))
	}
	return encodeG2(sum), nil
}

// BLS12Pairing implements precompile 0x11: k (G1,G2) pairs in, a single
// 32-byte boolean out, true iff the product of the k pairings is the
// GT identity. A pairing where either side is infinity contributes 1 to
// the product unconditionally, so an all-G1-infinity or all-G2-infinity
// input short-circuits to true without running any Miller loops.
func BLS12Pairing(input []byte) ([]byte, error) {
	const pairWidth = precompileG1Width + precompileG2Width
	if len(input) == 0 || len(input)%pairWidth != 0 {
		return nil, errPrecompileBadPoint
	}
	k := len(input) / pairWidth

	g1Points := make([]*G1, k)
	g2Points := make([]*G2, k)
	g1AllInfinity, g2AllInfinity := true, true

	for i := 0; i < k; i++ {
		offset := i * pairWidth
		var err error
		g1Points[i], err = decodeG1(input[offset : offset+precompileG1Width])
		if err != nil {
			return nil, err
		}
		g2Points[i], err = decodeG2(input[offset+precompileG1Width : offset+pairWidth])
		if err != nil {
			return nil, err
		}
		g1AllInfinity = g1AllInfinity && g1Points[i].blsG1IsInfinity()
		g2AllInfinity = g2AllInfinity && g2Points[i].blsG2IsInfinity()
	}

	if g1AllInfinity || g2AllInfinity {
		return encodePairingResult(true), nil
	}
	return encodePairingResult(blsMultiPairing(g1Points, g2Points)), nil
}

// BLS12MapFpToG1 implements precompile 0x12: map a field element onto
// G1's curve, then clear the cofactor into the prime-order subgroup.
func BLS12MapFpToG1(input []byte) ([]byte, error) {
	if len(input) != precompileFpWidth {
		return nil, errPrecompileBadField
	}
	u, err := decodeFp(input)
	if err != nil {
		return nil, err
	}
	p := blsG1ScalarMul(blsMapFpToG1(u), g1Cofactor)
	return encodeG1(p), nil
}

// BLS12MapFp2ToG2 implements precompile 0x13, the G2 counterpart of
// BLS12MapFpToG1.
func BLS12MapFp2ToG2(input []byte) ([]byte, error) {
	if len(input) != 2*precompileFpWidth {
		return nil, errPrecompileBadField
	}
	u, err := decodeFp2(input)
	if err != nil {
		return nil, err
	}
	p := blsG2ScalarMulUnreduced(blsMapFp2ToG2(u), g2Cofactor)
	return encodeG2(p), nil
}

// encodePairingResult packs the pairing check's boolean outcome into
// the 32-byte big-endian word EIP-2537 expects.
func encodePairingResult(ok bool) []byte {
	out := make([]byte, 32)
	if ok {
		out[31] = 1
	}
	return out
}
