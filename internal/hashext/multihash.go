// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package hashext

import (
	"crypto"
	"hash"
	"io"

	"github.com/pkg/errors"
)

// MultiHash feeds every write to a set of hashes so that content is read once.
type MultiHash []TypedHash

// NewMultiHash creates a new MultiHash over the given algorithms.
func NewMultiHash(hs ...crypto.Hash) (MultiHash, error) {
	if len(hs) == 0 {
		return nil, errors.New("no hash algorithms provided")
	}
	var m MultiHash
	for _, algo := range hs {
		th, err := NewTypedHash(algo)
		if err != nil {
			return nil, err
		}
		m = append(m, th)
	}
	return m, nil
}

// Write updates all contained hashes with p.
func (m MultiHash) Write(p []byte) (int, error) {
	for _, th := range m {
		n, err := th.Write(p)
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}

// Sum appends the concatenated sums of all contained hashes to b.
func (m MultiHash) Sum(b []byte) []byte {
	for _, th := range m {
		b = th.Sum(b)
	}
	return b
}

// Reset calls Hash.Reset on all contained hashes.
func (m MultiHash) Reset() {
	for _, th := range m {
		th.Reset()
	}
}

// Size returns the size of the Sum.
func (m MultiHash) Size() int {
	var total int
	for _, th := range m {
		total += th.Size()
	}
	return total
}

// BlockSize returns the smallest block size of the contained hashes.
func (m MultiHash) BlockSize() int {
	size := m[0].BlockSize()
	for _, th := range m[1:] {
		size = min(size, th.BlockSize())
	}
	return size
}

// HexDigests returns the lowercase hex digest of each contained hash.
func (m MultiHash) HexDigests() map[crypto.Hash]string {
	ret := make(map[crypto.Hash]string, len(m))
	for _, th := range m {
		ret[th.Algorithm] = th.HexDigest()
	}
	return ret
}

// Digest streams r once through each of the given algorithms.
func Digest(r io.Reader, hs ...crypto.Hash) (map[crypto.Hash]string, error) {
	m, err := NewMultiHash(hs...)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(m, r); err != nil {
		return nil, errors.Wrap(err, "reading content")
	}
	return m.HexDigests(), nil
}

var _ hash.Hash = MultiHash{}
