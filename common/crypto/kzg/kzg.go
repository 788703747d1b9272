// Copyright 2022-2026 The CoreEVM Authors
// This file is part of the CoreEVM library.
//
// The CoreEVM library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The CoreEVM library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the CoreEVM library. If not, see <http://www.gnu.org/licenses/>.

// Package kzg implements the KZG polynomial commitment scheme backing the
// EIP-4844 point evaluation precompile.
//
// The trusted setup here is a toy one: the "secret" tau used to derive the
// structured reference string is a fixed, publicly-known value derived from
// a domain-separation label, not the output of the real Ethereum KZG
// ceremony. Ethereum's production setup discards tau after a multi-party
// computation so nobody ever learns it; this package's tau is visible in
// source, so commitments produced here are NOT compatible with, nor as
// secure as, the mainnet ceremony. It exists to make BlobToCommitment,
// VerifyProof and the point evaluation precompile exercise the real KZG
// verification equation end to end rather than stub it out.
package kzg

import (
	"crypto/sha256"
	"errors"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
)

// FieldElementsPerBlob mirrors transaction.FieldElementsPerBlob for callers
// that only import the kzg package.
const FieldElementsPerBlob = transaction.FieldElementsPerBlob

var (
	ErrInvalidCommitment = errors.New("kzg: invalid commitment encoding")
	ErrInvalidProof      = errors.New("kzg: invalid proof encoding")
	ErrProofVerification = errors.New("kzg: proof verification failed")
)

type setup struct {
	g1Powers []bls12381.G1Affine // tau^i * G1, i = 0..FieldElementsPerBlob-1
	g2Gen    bls12381.G2Affine
	g2Tau    bls12381.G2Affine // tau * G2
}

var (
	toySetup     *setup
	toySetupOnce sync.Once
)

// deriveToyTau derives the toy setup's secret scalar from a fixed label so
// the setup is reproducible without persisting any state.
func deriveToyTau() fr.Element {
	h := sha256.Sum256([]byte("coreevm toy kzg trusted setup - not for production use"))
	var tau fr.Element
	tau.SetBytes(h[:])
	return tau
}

func frToBigInt(e *fr.Element) *big.Int {
	var b big.Int
	e.BigInt(&b)
	return &b
}

func buildSetup() *setup {
	tau := deriveToyTau()
	_, _, g1Gen, g2Gen := bls12381.Generators()

	s := &setup{
		g1Powers: make([]bls12381.G1Affine, FieldElementsPerBlob),
		g2Gen:    g2Gen,
	}

	var tauJac bls12381.G2Jac
	tauJac.FromAffine(&g2Gen)
	tauJac.ScalarMultiplication(&tauJac, frToBigInt(&tau))
	s.g2Tau.FromJacobian(&tauJac)

	power := fr.NewElement(1)
	for i := 0; i < FieldElementsPerBlob; i++ {
		var pJac bls12381.G1Jac
		pJac.FromAffine(&g1Gen)
		pJac.ScalarMultiplication(&pJac, frToBigInt(&power))
		s.g1Powers[i].FromJacobian(&pJac)
		power.Mul(&power, &tau)
	}
	return s
}

func getSetup() *setup {
	toySetupOnce.Do(func() { toySetup = buildSetup() })
	return toySetup
}

// BlobToCommitment commits to a blob by treating its 4096 field elements as
// polynomial coefficients and evaluating the structured reference string:
// C = sum_i blob[i] * tau^i * G1.
func BlobToCommitment(blob *transaction.Blob) (transaction.Commitment, error) {
	s := getSetup()

	var acc bls12381.G1Jac
	for i := 0; i < FieldElementsPerBlob; i++ {
		off := i * transaction.BytesPerFieldElement
		var coeff fr.Element
		coeff.SetBytes(blob[off : off+transaction.BytesPerFieldElement])
		if coeff.IsZero() {
			continue
		}
		var term bls12381.G1Jac
		term.FromAffine(&s.g1Powers[i])
		term.ScalarMultiplication(&term, frToBigInt(&coeff))
		acc.AddAssign(&term)
	}

	var affine bls12381.G1Affine
	affine.FromJacobian(&acc)
	return g1ToCommitment(&affine), nil
}

// CommitmentToVersionedHash derives the EIP-4844 versioned hash of a
// commitment: version byte || sha256(commitment)[1:].
func CommitmentToVersionedHash(c transaction.Commitment) types.Hash {
	h := sha256.Sum256(c[:])
	h[0] = transaction.VersionedHashVersionKZG
	return types.Hash(h)
}

// VerifyProof checks that the polynomial committed to by commitment
// evaluates to y at point z, given an opening proof, via the KZG pairing
// equation:
//
//	e(C - [y]G1, G2) == e(Proof, [tau - z]G2)
func VerifyProof(commitment transaction.Commitment, z, y [32]byte, proof transaction.Proof) error {
	s := getSetup()

	c, err := commitmentToG1(commitment)
	if err != nil {
		return err
	}
	p, err := proofToG1(proof)
	if err != nil {
		return err
	}

	var yElem, zElem fr.Element
	yElem.SetBytes(y[:])
	zElem.SetBytes(z[:])

	_, _, g1Gen, _ := bls12381.Generators()

	// lhs = C - [y]G1
	var yG1Jac bls12381.G1Jac
	yG1Jac.FromAffine(&g1Gen)
	yG1Jac.ScalarMultiplication(&yG1Jac, frToBigInt(&yElem))
	var yG1Affine bls12381.G1Affine
	yG1Affine.FromJacobian(&yG1Jac)
	yG1Affine.Neg(&yG1Affine)

	var lhsJac bls12381.G1Jac
	lhsJac.FromAffine(&c)
	var negYJac bls12381.G1Jac
	negYJac.FromAffine(&yG1Affine)
	lhsJac.AddAssign(&negYJac)
	var lhs bls12381.G1Affine
	lhs.FromJacobian(&lhsJac)

	// rhs = [tau - z]G2 = g2Tau - [z]G2
	var zG2Jac bls12381.G2Jac
	zG2Jac.FromAffine(&s.g2Gen)
	zG2Jac.ScalarMultiplication(&zG2Jac, frToBigInt(&zElem))
	var zG2Affine bls12381.G2Affine
	zG2Affine.FromJacobian(&zG2Jac)
	zG2Affine.Neg(&zG2Affine)

	var rhsJac bls12381.G2Jac
	rhsJac.FromAffine(&s.g2Tau)
	var negZJac bls12381.G2Jac
	negZJac.FromAffine(&zG2Affine)
	rhsJac.AddAssign(&negZJac)
	var rhs bls12381.G2Affine
	rhs.FromJacobian(&rhsJac)

	// e(lhs, G2) * e(-Proof, rhs) == 1  <=>  e(lhs, G2) == e(Proof, rhs)
	var negP bls12381.G1Affine
	negP.Neg(&p)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{lhs, negP},
		[]bls12381.G2Affine{s.g2Gen, rhs},
	)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProofVerification
	}
	return nil
}

func g1ToCommitment(p *bls12381.G1Affine) transaction.Commitment {
	var out transaction.Commitment
	b := p.Bytes()
	copy(out[:], b[:])
	return out
}

func commitmentToG1(c transaction.Commitment) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(c[:]); err != nil {
		return p, ErrInvalidCommitment
	}
	return p, nil
}

func proofToG1(pr transaction.Proof) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(pr[:]); err != nil {
		return p, ErrInvalidProof
	}
	return p, nil
}
