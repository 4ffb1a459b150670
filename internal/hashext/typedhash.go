// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package hashext provides extensions to the standard crypto/hash package.
package hashext

import (
	"crypto"
	"encoding/hex"
	"hash"

	"github.com/pkg/errors"

	// Registers crypto.MD5, crypto.SHA256 and crypto.BLAKE2b_256.
	_ "crypto/md5"
	_ "crypto/sha256"
	_ "golang.org/x/crypto/blake2b"
)

// TypedHash is a hash.Hash annotated with its algorithm.
type TypedHash struct {
	hash.Hash
	Algorithm crypto.Hash
}

// NewTypedHash constructs a new TypedHash.
func NewTypedHash(algo crypto.Hash) (TypedHash, error) {
	if !algo.Available() {
		return TypedHash{}, errors.Errorf("hash algorithm unavailable: %v", algo)
	}
	return TypedHash{Hash: algo.New(), Algorithm: algo}, nil
}

// HexDigest returns the lowercase hex encoding of the current sum.
func (th TypedHash) HexDigest() string {
	return hex.EncodeToString(th.Sum(nil))
}
