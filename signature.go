package bls12381

import (
	"math/big"

	"github.com/rs/zerolog/log"
)

// blsSignDST is the default domain separation tag used by Sign/Verify when
// the caller has not selected a protocol-specific DST via SignWithDST.
var blsSignDST = BLSSignatureDST

// GetPublicKey derives the G1 public key corresponding to a secret scalar,
// returning its compressed 48-byte encoding. The secret is reduced modulo
// the subgroup order q before the scalar multiplication.
func GetPublicKey(secret *big.Int) [BLSPubkeySize]byte {
	sk := new(big.Int).Mod(secret, blsR)
	pk := blsG1ScalarMul(G1Generator(), sk)
	return SerializeG1(pk)
}

// Sign produces a BLS signature over msg under the default signing DST,
// returning the compressed 96-byte G2 signature.
func Sign(secret *big.Int, msg []byte) [BLSSignatureSize]byte {
	sk := new(big.Int).Mod(secret, blsR)
	hm := HashToG2(msg, blsSignDST)
	sig := blsG2ScalarMul(hm, sk)
	return SerializeG2(sig)
}

// Verify checks a single BLS signature: e(pubkey, H(msg)) == e(G1, sig),
// checked as e(pubkey, H(msg)) * e(-G1, sig) == 1 in GT.
func Verify(pubkey [BLSPubkeySize]byte, msg []byte, sig [BLSSignatureSize]byte) bool {
	pk := DeserializeG1(pubkey)
	if pk == nil || pk.blsG1IsInfinity() {
		return false
	}
	s := DeserializeG2(sig)
	if s == nil || s.blsG2IsInfinity() {
		return false
	}

	hm := HashToG2(msg, blsSignDST)
	negG1 := blsG1Neg(G1Generator())

	return blsMultiPairing(
		[]*G1{pk, negG1},
		[]*G2{hm, s},
	)
}

// AggregatePublicKeys combines multiple public keys into a single
// compressed public key by summing the underlying G1 points. The empty
// aggregate is the identity, matching the algebraic identity element
// rather than signaling an error, since callers commonly fold this over
// a growing committee.
func AggregatePublicKeys(pubkeys [][BLSPubkeySize]byte) [BLSPubkeySize]byte {
	agg := G1Infinity()
	for _, pk := range pubkeys {
		p := DeserializeG1(pk)
		if p == nil {
			log.Warn().Msg("bls12381: skipping undecodable public key during aggregation")
			continue
		}
		agg = blsG1Add(agg, p)
	}
	return SerializeG1(agg)
}

// AggregateSignatures combines multiple signatures into a single
// compressed signature by summing the underlying G2 points.
func AggregateSignatures(sigs [][BLSSignatureSize]byte) [BLSSignatureSize]byte {
	agg := G2Infinity()
	for _, s := range sigs {
		p := DeserializeG2(s)
		if p == nil {
			log.Warn().Msg("bls12381: skipping undecodable signature during aggregation")
			continue
		}
		agg = blsG2Add(agg, p)
	}
	return SerializeG2(agg)
}

// VerifyMultiple verifies an aggregate signature over distinct per-signer
// messages: each pubkeys[i] must have signed msgs[i], and sig is their
// aggregate. Returns ErrLengthMismatch if the slices disagree in length,
// and ErrDuplicateMessage if the same message appears under more than one
// signer — allowing that would let an attacker reuse one valid signature
// share across several pairing terms.
func VerifyMultiple(pubkeys [][BLSPubkeySize]byte, msgs [][]byte, sig [BLSSignatureSize]byte) (bool, error) {
	return VerifyMultipleWithDST(pubkeys, msgs, sig, blsSignDST)
}

// VerifyMultipleWithDST is VerifyMultiple against a caller-chosen domain
// separation tag rather than the package's default signing DST.
func VerifyMultipleWithDST(
	pubkeys [][BLSPubkeySize]byte,
	msgs [][]byte,
	sig [BLSSignatureSize]byte,
	dst []byte,
) (bool, error) {
	n := len(pubkeys)
	if n == 0 || n != len(msgs) {
		return false, ErrLengthMismatch
	}

	seen := make(map[string]bool, n)
	for _, m := range msgs {
		key := string(m)
		if seen[key] {
			return false, ErrDuplicateMessage
		}
		seen[key] = true
	}

	s := DeserializeG2(sig)
	if s == nil {
		return false, ErrInvalidEncoding
	}

	g1Points := make([]*G1, n+1)
	g2Points := make([]*G2, n+1)
	for i := 0; i < n; i++ {
		pk := DeserializeG1(pubkeys[i])
		if pk == nil {
			return false, ErrInvalidEncoding
		}
		g1Points[i] = pk
		g2Points[i] = HashToG2(msgs[i], dst)
	}
	g1Points[n] = blsG1Neg(G1Generator())
	g2Points[n] = s

	return blsMultiPairing(g1Points, g2Points), nil
}

// FastAggregateVerify checks an aggregate signature where every signer
// signed the same message: it aggregates the public keys and delegates to
// Verify. This is the common case for committee attestations over a single
// block root.
func FastAggregateVerify(pubkeys [][BLSPubkeySize]byte, msg []byte, sig [BLSSignatureSize]byte) bool {
	if len(pubkeys) == 0 {
		return false
	}
	agg := AggregatePublicKeys(pubkeys)
	return Verify(agg, msg, sig)
}

// VerifyAggregate is an alias for VerifyMultiple that swallows the
// distinction between length-mismatch and duplicate-message failures,
// matching the boolean-only signature expected by code written against
// the older aggregate-verification surface.
func VerifyAggregate(pubkeys [][BLSPubkeySize]byte, msgs [][]byte, sig [BLSSignatureSize]byte) bool {
	ok, err := VerifyMultiple(pubkeys, msgs, sig)
	return err == nil && ok
}

// BLSPubkeyFromSecret is an alias for GetPublicKey, named to match the
// rest of the consensus-layer call sites in this package.
func BLSPubkeyFromSecret(secret *big.Int) [BLSPubkeySize]byte {
	return GetPublicKey(secret)
}

// BLSSign is an alias for Sign.
func BLSSign(secret *big.Int, msg []byte) [BLSSignatureSize]byte {
	return Sign(secret, msg)
}

// BLSVerify is an alias for Verify.
func BLSVerify(pubkey [BLSPubkeySize]byte, msg []byte, sig [BLSSignatureSize]byte) bool {
	return Verify(pubkey, msg, sig)
}
