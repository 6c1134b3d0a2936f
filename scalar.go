package bls12381

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ScalarFromBytes interprets a big-endian byte slice as a secret scalar,
// reducing it modulo the subgroup order q. It turns secret-key bytes into
// the *big.Int that GetPublicKey and Sign take.
func ScalarFromBytes(b []byte) *big.Int {
	s := new(big.Int).SetBytes(b)
	return s.Mod(s, blsR)
}

// ScalarFromHex parses a 0x-prefixed hex string into a secret scalar,
// reducing it modulo the subgroup order q.
func ScalarFromHex(s string) (*big.Int, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidEncoding, err.Error())
	}
	return ScalarFromBytes(b), nil
}

// ScalarFromUint256 normalizes a uint256.Int scalar into the *big.Int form
// the field and curve arithmetic in this package operates on. The
// subgroup order q is 255 bits, so every possible secret key or
// aggregation coefficient fits in a uint256.Int without truncation.
func ScalarFromUint256(s *uint256.Int) *big.Int {
	return new(big.Int).Mod(s.ToBig(), blsR)
}

// ScalarToUint256 converts a reduced scalar back into a uint256.Int for
// callers that want a fixed-width representation, e.g. when embedding a
// secret key alongside other 256-bit values in a batched structure.
func ScalarToUint256(s *big.Int) (*uint256.Int, error) {
	if s.Sign() < 0 || s.BitLen() > 256 {
		return nil, ErrFieldArithmeticError
	}
	out, overflow := uint256.FromBig(s)
	if overflow {
		return nil, ErrFieldArithmeticError
	}
	return out, nil
}

// HexToBytes decodes a 0x-prefixed hex string, used at the package boundary
// for messages and encoded points supplied as hex.
func HexToBytes(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidEncoding, err.Error())
	}
	return b, nil
}

// BytesToHex encodes a byte slice as a 0x-prefixed hex string.
func BytesToHex(b []byte) string {
	return hexutil.Encode(b)
}
