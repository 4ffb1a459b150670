// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"bytes"
	"crypto"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
)

// Signature is a detached signature attached to a Package.
type Signature struct {
	// Name is the base name of the signature file.
	Name string
	Data []byte
}

// SignatureInfo describes an OpenPGP signature without verifying it.
type SignatureInfo struct {
	Armored bool
	// IssuerKeyID is the 16 digit uppercase hex key ID, if the signature names one.
	IssuerKeyID string
	// IssuerFingerprint is the uppercase hex fingerprint, if the signature names one.
	IssuerFingerprint string
	Hash              crypto.Hash
	Created           time.Time
}

// AttachSignature reads the detached signature at path and attaches it.
// A Package can be signed once; later calls return ErrAlreadySigned.
func (p *Package) AttachSignature(path string) error {
	if p.signature != nil {
		return ErrAlreadySigned
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading signature")
	}
	p.signature = &Signature{Name: filepath.Base(path), Data: data}
	return nil
}

// AttachDefaultSignature attaches SignedPath if that file exists and reports
// whether a signature was attached.
func (p *Package) AttachDefaultSignature() (bool, error) {
	if _, err := os.Stat(p.SignedPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "checking for signature")
	}
	if err := p.AttachSignature(p.SignedPath); err != nil {
		return false, err
	}
	return true, nil
}

// Signature returns a copy of the attached signature, or nil.
func (p *Package) Signature() *Signature {
	if p.signature == nil {
		return nil
	}
	return &Signature{Name: p.signature.Name, Data: slices.Clone(p.signature.Data)}
}

// Inspect decodes s as an ASCII-armored or binary OpenPGP signature packet.
// The signature is not verified.
func (s *Signature) Inspect() (*SignatureInfo, error) {
	info := &SignatureInfo{}
	var r io.Reader = bytes.NewReader(s.Data)
	if bytes.HasPrefix(bytes.TrimSpace(s.Data), []byte("-----BEGIN")) {
		block, err := armor.Decode(bytes.NewReader(s.Data))
		if err != nil {
			return nil, errors.Wrap(err, "decoding armor")
		}
		if block.Type != "PGP SIGNATURE" {
			return nil, errors.Errorf("unexpected armor type %q", block.Type)
		}
		info.Armored = true
		r = block.Body
	}
	pkt, err := packet.NewReader(r).Next()
	if err != nil {
		return nil, errors.Wrap(err, "reading signature packet")
	}
	sig, ok := pkt.(*packet.Signature)
	if !ok {
		return nil, errors.Errorf("unexpected packet %T", pkt)
	}
	info.Hash = sig.Hash
	info.Created = sig.CreationTime
	if sig.IssuerKeyId != nil {
		info.IssuerKeyID = fmt.Sprintf("%016X", *sig.IssuerKeyId)
	}
	if len(sig.IssuerFingerprint) > 0 {
		info.IssuerFingerprint = fmt.Sprintf("%X", sig.IssuerFingerprint)
	}
	return info, nil
}

func (i *SignatureInfo) String() string {
	var b strings.Builder
	b.WriteString("OpenPGP signature")
	if i.IssuerKeyID != "" {
		fmt.Fprintf(&b, " by key %s", i.IssuerKeyID)
	}
	if i.Hash.Available() {
		fmt.Fprintf(&b, " using %s", i.Hash)
	}
	if !i.Created.IsZero() {
		fmt.Fprintf(&b, " made %s", i.Created.UTC().Format(time.RFC3339))
	}
	return b.String()
}
