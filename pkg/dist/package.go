// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package dist validates Python distribution archives and builds the
// normalized metadata record an index upload expects.
package dist

import (
	"crypto"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/distcheck/internal/hashext"
	"github.com/google/distcheck/pkg/classifier"
	"github.com/pkg/errors"
)

// Digests are the hashes of the distribution file.
type Digests struct {
	MD5       string `json:"md5"`
	SHA256    string `json:"sha256"`
	Blake2256 string `json:"blake2_256"`
}

// Package is a validated distribution and its metadata.
//
// A Package is only ever returned fully validated. Apart from signature
// attachment it is not modified after New returns.
type Package struct {
	Path       string
	SignedPath string
	Comment    string

	Digests       Digests
	Kind          Kind
	PythonVersion string

	// Metadata 1.0
	MetadataVersion    string
	Name               string
	Version            string
	Author             string
	AuthorEmail        string
	Summary            string
	Description        string
	Keywords           string
	License            string
	Platform           string
	HomePage           string
	DownloadURL        string
	SupportedPlatforms string
	// Metadata 1.1
	Classifiers []string
	Requires    []string
	Provides    []string
	Obsoletes   []string
	// Metadata 1.2
	Maintainer       string
	MaintainerEmail  string
	RequiresPython   string
	RequiresDist     []string
	ProvidesDist     []string
	ObsoletesDist    []string
	RequiresExternal []string
	ProjectURLs      []string
	// Metadata 2.1
	DescriptionContentType string
	ProvidesExtras         []string
	// Metadata 2.2
	Dynamic []string

	signature *Signature
}

// Opts configures New.
type Opts struct {
	// Comment is an optional free-text upload comment.
	Comment string
	// Extractor reads metadata from the archive. Defaults to ArchiveExtractor.
	Extractor Extractor
	// Taxonomy validates classifiers. Defaults to classifier.Default.
	Taxonomy Taxonomy
}

// field binds a metadata attribute to its shape, validator and destination.
type field struct {
	name     string
	shape    Shape
	validate Validator
	set      func(*Package, Value)
}

func scalar(dst func(*Package) *string) func(*Package, Value) {
	return func(p *Package, v Value) { *dst(p) = v.Text() }
}

func list(dst func(*Package) *[]string) func(*Package, Value) {
	return func(p *Package, v Value) { *dst(p) = v.Texts() }
}

// fieldTable returns the metadata fields in validation order.
func fieldTable(tax Taxonomy) []field {
	return []field{
		{"metadata_version", RequiredScalar, validateMetadataVersion, scalar(func(p *Package) *string { return &p.MetadataVersion })},
		{"name", RequiredScalar, validateName, scalar(func(p *Package) *string { return &p.Name })},
		{"version", RequiredScalar, validateVersion, scalar(func(p *Package) *string { return &p.Version })},
		{"author", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.Author })},
		{"author_email", OptionalScalar, validateEmail, scalar(func(p *Package) *string { return &p.AuthorEmail })},
		{"summary", OptionalScalar, validateSummary, scalar(func(p *Package) *string { return &p.Summary })},
		{"description", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.Description })},
		{"keywords", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.Keywords })},
		{"license", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.License })},
		{"platform", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.Platform })},
		{"home_page", OptionalScalar, validateURI, scalar(func(p *Package) *string { return &p.HomePage })},
		{"download_url", OptionalScalar, validateURI, scalar(func(p *Package) *string { return &p.DownloadURL })},
		{"supported_platforms", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.SupportedPlatforms })},
		{"classifiers", OptionalList, validateClassifiers(tax), list(func(p *Package) *[]string { return &p.Classifiers })},
		{"requires", OptionalList, validateLegacyRequirements, list(func(p *Package) *[]string { return &p.Requires })},
		{"provides", OptionalList, validateLegacyRequirements, list(func(p *Package) *[]string { return &p.Provides })},
		{"obsoletes", OptionalList, validateLegacyRequirements, list(func(p *Package) *[]string { return &p.Obsoletes })},
		{"maintainer", OptionalScalar, nil, scalar(func(p *Package) *string { return &p.Maintainer })},
		{"maintainer_email", OptionalScalar, validateEmail, scalar(func(p *Package) *string { return &p.MaintainerEmail })},
		{"requires_python", OptionalScalar, validateSpecifierSet, scalar(func(p *Package) *string { return &p.RequiresPython })},
		{"requires_dist", OptionalList, validateDistRequirements, list(func(p *Package) *[]string { return &p.RequiresDist })},
		{"provides_dist", OptionalList, validateDistRequirements, list(func(p *Package) *[]string { return &p.ProvidesDist })},
		{"obsoletes_dist", OptionalList, validateDistRequirements, list(func(p *Package) *[]string { return &p.ObsoletesDist })},
		{"requires_external", OptionalList, validateRequiresExternal, list(func(p *Package) *[]string { return &p.RequiresExternal })},
		{"project_urls", OptionalList, validateProjectURLs, list(func(p *Package) *[]string { return &p.ProjectURLs })},
		{"description_content_type", OptionalScalar, validateDescriptionContentType, scalar(func(p *Package) *string { return &p.DescriptionContentType })},
		{"provides_extras", OptionalList, nil, list(func(p *Package) *[]string { return &p.ProvidesExtras })},
		{"dynamic", OptionalList, nil, list(func(p *Package) *[]string { return &p.Dynamic })},
	}
}

// New hashes, identifies and validates the distribution at path.
//
// The file is hashed before its name is inspected, so a missing file is
// reported before an unknown suffix. The first field that fails validation
// is returned as a *FieldError.
func New(path string, opts Opts) (*Package, error) {
	if opts.Extractor == nil {
		opts.Extractor = ArchiveExtractor{}
	}
	if opts.Taxonomy == nil {
		tax, err := classifier.Default()
		if err != nil {
			return nil, errors.Wrap(err, "loading classifiers")
		}
		opts.Taxonomy = tax
	}
	p := &Package{
		Path:       path,
		SignedPath: path + ".asc",
		Comment:    opts.Comment,
	}
	if err := p.hash(); err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	kind, _, err := DetectKind(base)
	if err != nil {
		return nil, err
	}
	p.Kind = kind
	raw, err := opts.Extractor.Extract(kind, path)
	if err != nil {
		return nil, &rejection{
			kind:  ErrInvalidDistribution,
			msg:   fmt.Sprintf("Invalid distribution file: '%s'", base),
			cause: err,
		}
	}
	if !hasText(raw["name"]) || !hasText(raw["version"]) {
		declared, _ := Sanitize(OptionalScalar, raw["metadata_version"])
		return nil, &MetadataVersionError{
			Declared:  declared.Text(),
			Supported: ExtractableMetadataVersions(),
		}
	}
	p.PythonVersion = PythonTag(kind, base)
	for _, f := range fieldTable(opts.Taxonomy) {
		v, err := Sanitize(f.shape, raw[f.name])
		if err == nil && f.validate != nil {
			v, err = f.validate(v)
		}
		if err != nil {
			return nil, &FieldError{Field: f.name, Err: err}
		}
		f.set(p, v)
	}
	return p, nil
}

func hasText(v Value) bool {
	s, err := Sanitize(OptionalScalar, v)
	return err == nil && s.Text() != ""
}

// hash computes the file digests in a single pass.
func (p *Package) hash() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return errors.Wrap(err, "opening distribution")
	}
	defer f.Close()
	digests, err := hashext.Digest(f, crypto.MD5, crypto.SHA256, crypto.BLAKE2b_256)
	if err != nil {
		return errors.Wrap(err, "hashing distribution")
	}
	p.Digests = Digests{
		MD5:       digests[crypto.MD5],
		SHA256:    digests[crypto.SHA256],
		Blake2256: digests[crypto.BLAKE2b_256],
	}
	for _, check := range []struct {
		field   string
		digest  string
		message string
	}{
		{"sha256_digest", p.Digests.SHA256, "Use a valid, hex-encoded, SHA256 message digest."},
		{"blake2_256_digest", p.Digests.Blake2256, "Use a valid, hex-encoded, BLAKE2 message digest."},
	} {
		if _, err := validateHexDigest(check.message)(Scalar(check.digest)); err != nil {
			return &FieldError{Field: check.field, Err: err}
		}
	}
	return nil
}
