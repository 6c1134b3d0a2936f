// Extended BLS signature aggregation utilities for high-throughput
// verification: subgroup checks, signature-set batching with random
// coefficients, validated aggregation, and duplicate-key detection.
//
// Proof of possession lives in pop.go; domain/DST helpers live in domain.go.
package bls12381

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Errors for BLS aggregation operations.
var (
	ErrBLSAggNoPubkeys         = errors.New("bls_agg: no public keys provided")
	ErrBLSAggNoSignatures      = errors.New("bls_agg: no signatures provided")
	ErrBLSAggMismatchedLengths = errors.New("bls_agg: pubkey/signature/message counts differ")
	ErrBLSAggInvalidPubkey     = errors.New("bls_agg: invalid public key")
	ErrBLSAggInvalidSignature  = errors.New("bls_agg: invalid signature")
	ErrBLSAggSubgroupCheck     = errors.New("bls_agg: point not in correct subgroup")
)

// BLSAgg groups the extended aggregation operations below. It carries no
// state; the zero value is ready to use.
type BLSAgg struct{}

// NewBLSAgg creates a new BLSAgg instance.
func NewBLSAgg() *BLSAgg {
	return &BLSAgg{}
}

// CheckG1Subgroup verifies that a serialized G1 point is in the correct
// prime-order subgroup.
func (ba *BLSAgg) CheckG1Subgroup(pubkey [BLSPubkeySize]byte) error {
	p := DeserializeG1(pubkey)
	if p == nil {
		return ErrBLSAggInvalidPubkey
	}
	if !blsG1InSubgroup(p) {
		return ErrBLSAggSubgroupCheck
	}
	return nil
}

// CheckG2Subgroup verifies that a serialized G2 point is in the correct
// prime-order subgroup.
func (ba *BLSAgg) CheckG2Subgroup(sig [BLSSignatureSize]byte) error {
	p := DeserializeG2(sig)
	if p == nil {
		return ErrBLSAggInvalidSignature
	}
	if !blsG2InSubgroup(p) {
		return ErrBLSAggSubgroupCheck
	}
	return nil
}

// DecompressG1 decompresses a 48-byte compressed G1 point and validates
// it is on the curve and in the correct subgroup.
func (ba *BLSAgg) DecompressG1(data [BLSPubkeySize]byte) (*G1, error) {
	p := DeserializeG1(data)
	if p == nil {
		return nil, ErrBLSAggInvalidPubkey
	}
	return p, nil
}

// DecompressG2 decompresses a 96-byte compressed G2 point and validates
// it is on the curve and in the correct subgroup.
func (ba *BLSAgg) DecompressG2(data [BLSSignatureSize]byte) (*G2, error) {
	p := DeserializeG2(data)
	if p == nil {
		return nil, ErrBLSAggInvalidSignature
	}
	return p, nil
}

// --- Signature Set for Batched Verification ---

// BLSSignatureSetEntry represents a single entry in a signature set for
// batched verification. Each entry has its own pubkey, message, and signature.
type BLSSignatureSetEntry struct {
	PubKey    [BLSPubkeySize]byte
	Message   []byte
	Signature [BLSSignatureSize]byte
}

// BLSSignatureSet collects multiple signature verification requests for
// batch verification. Random linear combination reduces the number of
// pairings needed, improving throughput.
type BLSSignatureSet struct {
	entries []BLSSignatureSetEntry
}

// NewBLSSignatureSet creates an empty signature set.
func NewBLSSignatureSet() *BLSSignatureSet {
	return &BLSSignatureSet{}
}

// Add appends a verification request to the set.
func (ss *BLSSignatureSet) Add(pk [BLSPubkeySize]byte, msg []byte, sig [BLSSignatureSize]byte) {
	ss.entries = append(ss.entries, BLSSignatureSetEntry{
		PubKey:    pk,
		Message:   msg,
		Signature: sig,
	})
}

// Len returns the number of entries in the set.
func (ss *BLSSignatureSet) Len() int {
	return len(ss.entries)
}

// Verify verifies all entries in the set using random linear combination.
//
// Instead of checking each e(pk_i, H(m_i)) == e(G1, sig_i) individually,
// the batch check picks random scalars r_i and verifies the multi-pairing
// form:
//
//	product(e(r_i * pk_i, H(m_i))) * e(-G1, sum(r_i * sig_i)) == 1
//
// If any individual signature is invalid, the batch check fails with
// overwhelming probability.
func (ss *BLSSignatureSet) Verify() bool {
	n := len(ss.entries)
	if n == 0 {
		return false
	}
	if n == 1 {
		return Verify(ss.entries[0].PubKey, ss.entries[0].Message, ss.entries[0].Signature)
	}

	coefficients := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		coefficients[i] = randomScalar()
	}

	g1Points := make([]*G1, n+1)
	g2Points := make([]*G2, n+1)

	aggSig := G2Infinity()

	for i := 0; i < n; i++ {
		pk := DeserializeG1(ss.entries[i].PubKey)
		if pk == nil || pk.blsG1IsInfinity() {
			return false
		}
		sig := DeserializeG2(ss.entries[i].Signature)
		if sig == nil || sig.blsG2IsInfinity() {
			return false
		}

		scaledPK := blsG1ScalarMul(pk, coefficients[i])
		g1Points[i] = scaledPK

		hm := HashToG2(ss.entries[i].Message, blsSignDST)
		g2Points[i] = hm

		scaledSig := blsG2ScalarMul(sig, coefficients[i])
		aggSig = blsG2Add(aggSig, scaledSig)
	}

	g1Points[n] = blsG1Neg(G1Generator())
	g2Points[n] = aggSig

	return blsMultiPairing(g1Points, g2Points)
}

// --- Validated aggregation and duplicate detection ---

// AggregatePublicKeysValidated aggregates multiple public keys after
// validating each one is a well-formed, non-identity G1 point.
func (ba *BLSAgg) AggregatePublicKeysValidated(pubkeys [][BLSPubkeySize]byte) ([BLSPubkeySize]byte, error) {
	if len(pubkeys) == 0 {
		return [BLSPubkeySize]byte{}, ErrBLSAggNoPubkeys
	}
	agg := G1Infinity()
	for _, pk := range pubkeys {
		p := DeserializeG1(pk)
		if p == nil || p.blsG1IsInfinity() {
			return [BLSPubkeySize]byte{}, ErrBLSAggInvalidPubkey
		}
		agg = blsG1Add(agg, p)
	}
	return SerializeG1(agg), nil
}

// AggregateSignaturesValidated aggregates multiple signatures after
// validating each one is a well-formed, non-identity G2 point.
func (ba *BLSAgg) AggregateSignaturesValidated(sigs [][BLSSignatureSize]byte) ([BLSSignatureSize]byte, error) {
	if len(sigs) == 0 {
		return [BLSSignatureSize]byte{}, ErrBLSAggNoSignatures
	}
	agg := G2Infinity()
	for _, s := range sigs {
		p := DeserializeG2(s)
		if p == nil || p.blsG2IsInfinity() {
			return [BLSSignatureSize]byte{}, ErrBLSAggInvalidSignature
		}
		agg = blsG2Add(agg, p)
	}
	return SerializeG2(agg), nil
}

// AggregateVerifyDistinct verifies an aggregate signature where each
// signer signed a different message, validating all inputs first.
func (ba *BLSAgg) AggregateVerifyDistinct(
	pubkeys [][BLSPubkeySize]byte,
	msgs [][]byte,
	aggSig [BLSSignatureSize]byte,
) (bool, error) {
	if len(pubkeys) == 0 {
		return false, ErrBLSAggNoPubkeys
	}
	if len(pubkeys) != len(msgs) {
		return false, ErrBLSAggMismatchedLengths
	}

	for _, pk := range pubkeys {
		p := DeserializeG1(pk)
		if p == nil {
			return false, ErrBLSAggInvalidPubkey
		}
	}

	if err := ba.CheckG2Subgroup(aggSig); err != nil {
		return false, err
	}

	return VerifyAggregate(pubkeys, msgs, aggSig), nil
}

// DeduplicatePubkeys removes duplicate public keys from a list, returning
// the unique pubkeys and their original indices.
func (ba *BLSAgg) DeduplicatePubkeys(
	pubkeys [][BLSPubkeySize]byte,
) ([][BLSPubkeySize]byte, []int) {
	seen := make(map[[BLSPubkeySize]byte]bool)
	unique := make([][BLSPubkeySize]byte, 0, len(pubkeys))
	indices := make([]int, 0, len(pubkeys))

	for i, pk := range pubkeys {
		if !seen[pk] {
			seen[pk] = true
			unique = append(unique, pk)
			indices = append(indices, i)
		}
	}
	return unique, indices
}

// HasDuplicatePubkeys checks whether any public keys are duplicated.
func (ba *BLSAgg) HasDuplicatePubkeys(pubkeys [][BLSPubkeySize]byte) bool {
	seen := make(map[[BLSPubkeySize]byte]bool, len(pubkeys))
	for _, pk := range pubkeys {
		if seen[pk] {
			return true
		}
		seen[pk] = true
	}
	return false
}

// randomScalar generates a random 128-bit scalar for batched verification.
// 128 bits is enough entropy that the probability of an invalid batch
// passing the random linear combination check is negligible.
func randomScalar() *big.Int {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return big.NewInt(1)
	}
	s := new(big.Int).SetBytes(buf)
	if s.Sign() == 0 {
		s.SetInt64(1)
	}
	return s
}
