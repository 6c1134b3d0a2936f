package bls12381

import "math/big"

// Compressed point encoding, 48 bytes for G1 and 96 bytes for G2.
//
// The top three bits of the first byte are flags:
//
//	bit 7 (0x80) - C, set unconditionally: this package only emits and
//	               accepts the compressed form.
//	bit 6 (0x40) - I, set when the point is the identity (point at
//	               infinity); when set, every remaining bit is zero.
//	bit 5 (0x20) - S, set when the omitted y-coordinate is the
//	               lexicographically larger of the two square roots.
//
// The remaining 381 bits (across the flag byte and the rest of the
// buffer) hold the x-coordinate in big-endian order, for G2 the Fp2
// x-coordinate is serialized as c1 (48 bytes, carrying the flags) followed
// by c0 (48 bytes).
const (
	flagCompressed = 0x80
	flagInfinity   = 0x40
	flagSign       = 0x20
	flagMask       = 0xE0
)

// BLSPubkeySize is the length in bytes of a compressed G1 public key.
const BLSPubkeySize = 48

// BLSSignatureSize is the length in bytes of a compressed G2 signature.
const BLSSignatureSize = 96

// SerializeG1 encodes a G1 point into the compressed 48-byte form.
func SerializeG1(p *G1) [BLSPubkeySize]byte {
	var out [BLSPubkeySize]byte
	if p == nil || p.blsG1IsInfinity() {
		out[0] = flagCompressed | flagInfinity
		return out
	}

	x, y := p.blsG1ToAffine()
	writeFpBE(out[:], x)
	out[0] |= flagCompressed
	if fpIsLexicographicallyLargest(y) {
		out[0] |= flagSign
	}
	return out
}

// DeserializeG1 decodes a compressed 48-byte G1 point, validating the flag
// bits, the curve equation, and subgroup membership. Returns nil on any
// structural or mathematical failure; use DeserializeG1Checked for the
// specific failure reason.
func DeserializeG1(data [BLSPubkeySize]byte) *G1 {
	p, err := DeserializeG1Checked(data)
	if err != nil {
		return nil
	}
	return p
}

// DeserializeG1Checked decodes a compressed 48-byte G1 point and reports
// which error kind caused a failure, per the package's error taxonomy.
func DeserializeG1Checked(data [BLSPubkeySize]byte) (*G1, error) {
	flags := data[0] & flagMask
	if flags&flagCompressed == 0 {
		return nil, ErrInvalidEncoding
	}
	if flags&flagInfinity != 0 {
		if flags&flagSign != 0 {
			return nil, ErrInvalidEncoding
		}
		buf := data
		buf[0] &^= flagMask
		for _, b := range buf {
			if b != 0 {
				return nil, ErrInvalidEncoding
			}
		}
		return G1Infinity(), nil
	}

	x := readFpBE(data[:])
	if x.Cmp(blsP) >= 0 {
		return nil, ErrInvalidEncoding
	}

	x3 := blsFpMul(blsFpSqr(x), x)
	rhs := blsFpAdd(x3, blsB)
	y := blsFpSqrt(rhs)
	if y == nil {
		return nil, ErrNotOnCurve
	}
	if fpIsLexicographicallyLargest(y) != (flags&flagSign != 0) {
		y = blsFpNeg(y)
	}

	p := blsG1FromAffine(x, y)
	if !blsG1InSubgroup(p) {
		return nil, ErrNotInSubgroup
	}
	return p, nil
}

// SerializeG2 encodes a G2 point into the compressed 96-byte form.
func SerializeG2(p *G2) [BLSSignatureSize]byte {
	var out [BLSSignatureSize]byte
	if p == nil || p.blsG2IsInfinity() {
		out[0] = flagCompressed | flagInfinity
		return out
	}

	x, y := p.blsG2ToAffine()
	writeFpBE(out[:48], x.c1)
	writeFpBE(out[48:], x.c0)
	out[0] |= flagCompressed
	if fp2IsLexicographicallyLargest(y) {
		out[0] |= flagSign
	}
	return out
}

// DeserializeG2 decodes a compressed 96-byte G2 point, validating flags,
// the curve equation, and subgroup membership. Returns nil on failure.
func DeserializeG2(data [BLSSignatureSize]byte) *G2 {
	p, err := DeserializeG2Checked(data)
	if err != nil {
		return nil
	}
	return p
}

// DeserializeG2Checked decodes a compressed 96-byte G2 point and reports
// the specific error kind on failure.
func DeserializeG2Checked(data [BLSSignatureSize]byte) (*G2, error) {
	flags := data[0] & flagMask
	if flags&flagCompressed == 0 {
		return nil, ErrInvalidEncoding
	}
	if flags&flagInfinity != 0 {
		if flags&flagSign != 0 {
			return nil, ErrInvalidEncoding
		}
		buf := data
		buf[0] &^= flagMask
		for _, b := range buf {
			if b != 0 {
				return nil, ErrInvalidEncoding
			}
		}
		return G2Infinity(), nil
	}

	xc1 := readFpBE(data[:48])
	xc0 := readFpBE(data[48:])
	if xc1.Cmp(blsP) >= 0 || xc0.Cmp(blsP) >= 0 {
		return nil, ErrInvalidEncoding
	}
	x := &blsFp2{c0: xc0, c1: xc1}

	x3 := blsFp2Mul(blsFp2Sqr(x), x)
	rhs := blsFp2Add(x3, blsTwistB)
	y := blsFp2Sqrt(rhs)
	if y == nil {
		return nil, ErrNotOnCurve
	}
	if fp2IsLexicographicallyLargest(y) != (flags&flagSign != 0) {
		y = blsFp2Neg(y)
	}

	p := blsG2FromAffine(x, y)
	if !blsG2InSubgroup(p) {
		return nil, ErrNotInSubgroup
	}
	return p, nil
}

// writeFpBE writes a reduced field element as big-endian bytes into a
// 48-byte buffer. A reduced element is at most 381 bits, so the top
// three bits stay zero for the flag bits the caller sets.
func writeFpBE(out []byte, v *big.Int) {
	b := v.Bytes()
	copy(out[len(out)-len(b):], b)
}

// readFpBE reads a 48-byte big-endian buffer into a field element, masking
// off the top three flag bits of the first byte.
func readFpBE(data []byte) *big.Int {
	buf := make([]byte, len(data))
	copy(buf, data)
	buf[0] &^= flagMask
	return new(big.Int).SetBytes(buf)
}

// fpIsLexicographicallyLargest reports whether y is the larger of the two
// square roots {y, p-y}, i.e. y > p - y.
func fpIsLexicographicallyLargest(y *big.Int) bool {
	neg := blsFpNeg(y)
	return y.Cmp(neg) > 0
}

// fp2IsLexicographicallyLargest orders Fp2 elements by (c1, c0), comparing
// c1 first and falling back to c0 when the c1 components are equal.
func fp2IsLexicographicallyLargest(y *blsFp2) bool {
	negC1 := blsFpNeg(y.c1)
	if cmp := y.c1.Cmp(negC1); cmp != 0 {
		return cmp > 0
	}
	negC0 := blsFpNeg(y.c0)
	return y.c0.Cmp(negC0) > 0
}
