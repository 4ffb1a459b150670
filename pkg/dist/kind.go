// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/distcheck/pkg/archive"
	"github.com/pkg/errors"
)

// Kind is the distribution type of an archive.
type Kind int

const (
	UnknownKind Kind = iota
	Wheel
	Egg
	Sdist
)

func (k Kind) String() string {
	switch k {
	case Wheel:
		return "wheel"
	case Egg:
		return "egg"
	case Sdist:
		return "sdist"
	default:
		return "unknown"
	}
}

// Filetype is the value an index upload form expects for this kind.
func (k Kind) Filetype() string {
	switch k {
	case Wheel:
		return "bdist_wheel"
	case Egg:
		return "bdist_egg"
	case Sdist:
		return "sdist"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == UnknownKind {
		return nil, errors.New("unknown distribution kind")
	}
	return []byte(k.String()), nil
}

// distExtensions is matched in order; the first suffix match wins.
var distExtensions = []struct {
	suffix string
	kind   Kind
	format archive.Format
}{
	{".whl", Wheel, archive.ZipFormat},
	{".egg", Egg, archive.ZipFormat},
	{".tar.bz2", Sdist, archive.TarBz2Format},
	{".tar.gz", Sdist, archive.TarGzFormat},
	{".zip", Sdist, archive.ZipFormat},
}

// DetectKind returns the distribution kind and archive format for filename.
func DetectKind(filename string) (Kind, archive.Format, error) {
	for _, ext := range distExtensions {
		if strings.HasSuffix(filename, ext.suffix) {
			return ext.kind, ext.format, nil
		}
	}
	return UnknownKind, archive.UnknownFormat, &rejection{
		kind: ErrUnknownFormat,
		msg:  fmt.Sprintf("Unknown distribution format: '%s'", filename),
	}
}

// Filename grammars that carry the Python tag for built distributions.
var pyVersionRE = map[Kind]*regexp.Regexp{
	Wheel: regexp.MustCompile(`^(?P<namever>(?P<name>.+?)(-(?P<ver>\d.+?))?)` +
		`((-(?P<build>\d.*?))?-(?P<pyver>.+?)-(?P<abi>.+?)-(?P<plat>.+?)` +
		`\.whl|\.dist-info)$`),
	Egg: regexp.MustCompile(`^(?P<namever>(?P<name>.+?)(-(?P<ver>\d.+?))?)` +
		`((-(?P<build>\d.*?))?-(?P<pyver>.+?)-(?P<abi>.+?)-(?P<plat>.+?)` +
		`\.egg|\.egg-info)$`),
}

// PythonTag returns the Python tag encoded in filename for kinds that carry
// one, "any" when the filename does not follow the grammar, and "" for kinds
// without a tag.
func PythonTag(k Kind, filename string) string {
	re, ok := pyVersionRE[k]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(filename)
	if m == nil {
		return "any"
	}
	if tag := m[re.SubexpIndex("pyver")]; tag != "" {
		return tag
	}
	return "any"
}
