// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package pep440 implements the Python version, specifier and requirement
// grammars from PEP 440 and PEP 508.
package pep440

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidVersion is returned for strings outside the PEP 440 grammar.
var ErrInvalidVersion = errors.New("invalid version")

// Adapted from: https://peps.python.org/pep-0440/#appendix-b-parsing-version-strings-with-regular-expressions
const versionPattern = `v?` +
	`(?:` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_\.]?(?P<pre_l>a|b|c|rc|alpha|beta|pre|preview)[-_\.]?(?P<pre_n>[0-9]+)?)?` +
	`(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_\.]?(?P<post_l>post|rev|r)[-_\.]?(?P<post_n2>[0-9]+)?))?` +
	`(?P<dev>[-_\.]?(?P<dev_l>dev)[-_\.]?(?P<dev_n>[0-9]+)?)?` +
	`)` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?`

var versionRE = regexp.MustCompile(`(?i)^\s*` + versionPattern + `\s*$`)

// Version is a parsed PEP 440 version.
type Version struct {
	Epoch   string
	Release []string
	// Pre is the normalized pre-release label ("a", "b" or "rc") followed by its number.
	Pre   string
	Post  string
	Dev   string
	Local string
}

// Parse parses a version string.
func Parse(s string) (Version, error) {
	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.Wrapf(ErrInvalidVersion, "%q", s)
	}
	group := func(name string) string { return m[versionRE.SubexpIndex(name)] }
	var v Version
	if e := trimZeros(group("epoch")); e != "" && e != "0" {
		v.Epoch = e
	}
	for _, part := range strings.Split(group("release"), ".") {
		v.Release = append(v.Release, trimZeros(part))
	}
	if label := group("pre_l"); label != "" {
		v.Pre = preLabel(label) + numberOrZero(group("pre_n"))
	}
	if group("post") != "" {
		v.Post = numberOrZero(group("post_n1") + group("post_n2"))
	}
	if group("dev") != "" {
		v.Dev = numberOrZero(group("dev_n"))
	}
	if local := group("local"); local != "" {
		var parts []string
		for _, part := range strings.FieldsFunc(strings.ToLower(local), isLocalSeparator) {
			if _, err := strconv.ParseUint(part, 10, 64); err == nil {
				part = trimZeros(part)
			}
			parts = append(parts, part)
		}
		v.Local = strings.Join(parts, ".")
	}
	return v, nil
}

// String returns the normalized form of the version.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch != "" {
		b.WriteString(v.Epoch + "!")
	}
	b.WriteString(strings.Join(v.Release, "."))
	b.WriteString(v.Pre)
	if v.Post != "" {
		b.WriteString(".post" + v.Post)
	}
	if v.Dev != "" {
		b.WriteString(".dev" + v.Dev)
	}
	if v.Local != "" {
		b.WriteString("+" + v.Local)
	}
	return b.String()
}

// Canonicalize returns the normalized form of s.
func Canonicalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func preLabel(l string) string {
	switch strings.ToLower(l) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default:
		// c, rc, pre, preview
		return "rc"
	}
}

func numberOrZero(s string) string {
	if s == "" {
		return "0"
	}
	return trimZeros(s)
}

func trimZeros(s string) string {
	if s == "" {
		return s
	}
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

func isLocalSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.'
}
