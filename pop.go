package bls12381

import "math/big"

// DSTPoPMessage is the DST used for proof-of-possession signature generation.
var DSTPoPMessage = []byte("BLS_POP_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// ProofOfPossession is a BLS signature over the public key itself, proving
// the signer holds the corresponding secret key. Verifying a PoP before
// including a key in an aggregate prevents the rogue-key attack, where a
// dishonest participant publishes a public key chosen to cancel out part
// of an honest aggregate.
type ProofOfPossession [BLSSignatureSize]byte

// GeneratePoP creates a proof of possession by signing the public key
// serialization with the corresponding secret key, under DSTPoPMessage.
func GeneratePoP(secret *big.Int) ProofOfPossession {
	pk := GetPublicKey(secret)
	hm := HashToG2(pk[:], DSTPoPMessage)
	sig := blsG2ScalarMul(hm, secret)
	var pop ProofOfPossession
	serialized := SerializeG2(sig)
	copy(pop[:], serialized[:])
	return pop
}

// VerifyPoP verifies a proof of possession for the given public key:
// e(pk, H_pop(serialize(pk))) == e(G1, pop).
func VerifyPoP(pubkey [BLSPubkeySize]byte, pop ProofOfPossession) bool {
	pk := DeserializeG1(pubkey)
	if pk == nil || pk.blsG1IsInfinity() {
		return false
	}

	var sigBytes [BLSSignatureSize]byte
	copy(sigBytes[:], pop[:])
	sig := DeserializeG2(sigBytes)
	if sig == nil || sig.blsG2IsInfinity() {
		return false
	}

	hm := HashToG2(pubkey[:], DSTPoPMessage)
	negG1 := blsG1Neg(G1Generator())

	return blsMultiPairing(
		[]*G1{pk, negG1},
		[]*G2{hm, sig},
	)
}

// FastAggregateVerifyWithPoP verifies an aggregate signature where all
// signers signed the same message, requiring a valid proof of possession
// for every signer's public key before it is folded into the aggregate.
func FastAggregateVerifyWithPoP(
	pubkeys [][BLSPubkeySize]byte,
	pops []ProofOfPossession,
	msg []byte,
	aggSig [BLSSignatureSize]byte,
) bool {
	if len(pubkeys) == 0 || len(pubkeys) != len(pops) {
		return false
	}
	for i, pk := range pubkeys {
		if !VerifyPoP(pk, pops[i]) {
			return false
		}
	}
	return FastAggregateVerify(pubkeys, msg, aggSig)
}
