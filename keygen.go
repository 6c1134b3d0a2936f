package bls12381

import (
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// keyGenSalt is the fixed salt used by KeyGenHKDF, matching the "BLS-SIG-KEYGEN-SALT-"
// convention used by EIP-2333-style deterministic key derivation.
var keyGenSalt = []byte("BLS-SIG-KEYGEN-SALT-")

// KeyGenHKDF deterministically derives a secret scalar in [1, q) from input
// key material, following the same HKDF-SHA256 shape as blst.KeyGen(ikm) in
// the CGO backend, generalized to a pure function so it is usable without
// the blst build tag. keyInfo is optional caller-provided context (e.g. a
// derivation path); pass nil when not needed.
//
// ikm must be at least 32 bytes, matching blst's minimum input entropy
// requirement.
func KeyGenHKDF(ikm, keyInfo []byte) (*big.Int, error) {
	if len(ikm) < 32 {
		return nil, ErrInvalidLength
	}

	salt := keyGenSalt
	sk := new(big.Int)
	for sk.Sign() == 0 {
		reader := hkdf.New(sha256.New, append(ikm, 0), salt, append(keyInfo, encodeL()...))
		okm := make([]byte, 48)
		if _, err := io.ReadFull(reader, okm); err != nil {
			return nil, ErrFieldArithmeticError
		}
		sk = new(big.Int).Mod(new(big.Int).SetBytes(okm), blsR)
		salt = sha256Sum(salt)
	}
	return sk, nil
}

// encodeL returns the 2-byte big-endian encoding of the OKM length (48),
// appended to keyInfo per the IKM-to-lamport-SK derivation convention.
func encodeL() []byte {
	return []byte{0, 48}
}

func sha256Sum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}
