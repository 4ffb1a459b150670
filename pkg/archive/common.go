// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package archive provides common types and functions for reading the
// archive formats used by Python distributions.
package archive

import (
	"io"
	"path"

	"github.com/pkg/errors"
)

// Format represents the archive types of packages.
type Format int

// Format constants specify the type of archive of a file/target.
const (
	UnknownFormat Format = iota
	TarGzFormat
	TarBz2Format
	TarFormat
	ZipFormat
)

func (f Format) String() string {
	switch f {
	case TarGzFormat:
		return "tar.gz"
	case TarBz2Format:
		return "tar.bz2"
	case TarFormat:
		return "tar"
	case ZipFormat:
		return "zip"
	default:
		return "unknown"
	}
}

// MaxEntrySize bounds the decompressed size of a single entry read into memory.
const MaxEntrySize = 64 << 20

// ErrEntryTooLarge is returned when an entry exceeds MaxEntrySize.
var ErrEntryTooLarge = errors.New("archive entry too large")

// Matcher selects an archive entry by its slash-separated name.
type Matcher func(name string) bool

// Exact matches the entry with the given name.
func Exact(name string) Matcher {
	return func(n string) bool { return n == name }
}

// Glob matches entries using path.Match syntax.
// A malformed pattern matches nothing.
func Glob(pattern string) Matcher {
	return func(n string) bool {
		ok, err := path.Match(pattern, n)
		return err == nil && ok
	}
}

// FindFile returns the name and content of the first entry in the archive
// selected by match. fs.ErrNotExist is returned if no entry matches.
func FindFile(r io.Reader, f Format, match Matcher) (string, []byte, error) {
	switch f {
	case ZipFormat:
		ra, size, err := ToZipCompatibleReader(r)
		if err != nil {
			return "", nil, errors.Wrap(err, "converting reader")
		}
		return FindZipFile(ra, size, match)
	case TarGzFormat, TarBz2Format, TarFormat:
		tr, closer, err := NewTarReader(r, f)
		if err != nil {
			return "", nil, err
		}
		defer closer.Close()
		return FindTarFile(tr, match)
	default:
		return "", nil, errors.Errorf("unsupported archive type: %v", f)
	}
}

func readEntry(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(buf) > MaxEntrySize {
		return nil, ErrEntryTooLarge
	}
	return buf, nil
}
