// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"compress/bzip2"
	"io"
	"io/fs"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// TarEntry represents an entry in a tar archive.
type TarEntry struct {
	*tar.Header
	Body []byte
}

// WriteTo writes the TarEntry to a tar writer.
func (e TarEntry) WriteTo(tw *tar.Writer) error {
	if err := tw.WriteHeader(e.Header); err != nil {
		return err
	}
	if _, err := tw.Write(e.Body); err != nil {
		return err
	}
	return nil
}

// NewTarReader returns a tar reader over r, decompressing it according to f.
// The returned closer releases the decompressor and must be called.
func NewTarReader(r io.Reader, f Format) (*tar.Reader, io.Closer, error) {
	switch f {
	case TarGzFormat:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(err, "initializing gzip reader")
		}
		return tar.NewReader(gzr), gzr, nil
	case TarBz2Format:
		return tar.NewReader(bzip2.NewReader(r)), io.NopCloser(nil), nil
	case TarFormat:
		return tar.NewReader(r), io.NopCloser(nil), nil
	default:
		return nil, nil, errors.Errorf("not a tar format: %v", f)
	}
}

// FindTarFile returns the first regular file of the tar archive selected by match.
func FindTarFile(tr *tar.Reader, match Matcher) (string, []byte, error) {
	for {
		header, err := tr.Next()
		if err != nil {
			if err == io.EOF {
				break // End of archive
			}
			return "", nil, errors.Wrap(err, "failed to read tar header")
		}
		if header.Typeflag != tar.TypeReg || !match(header.Name) {
			continue
		}
		buf, err := readEntry(tr)
		if err != nil {
			return "", nil, errors.Wrapf(err, "failed to read tar entry %s", header.Name)
		}
		return header.Name, buf, nil
	}
	return "", nil, fs.ErrNotExist
}
