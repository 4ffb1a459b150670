// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"

	"github.com/pkg/errors"
)

// ZipEntry represents an entry in a zip archive.
type ZipEntry struct {
	*zip.FileHeader
	Body []byte
}

// WriteTo writes the ZipEntry to a zip writer.
func (e ZipEntry) WriteTo(zw *zip.Writer) error {
	fw, err := zw.CreateHeader(e.FileHeader)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, bytes.NewReader(e.Body)); err != nil {
		return err
	}
	return nil
}

// FindZipFile returns the first entry of the zip archive selected by match.
func FindZipFile(ra io.ReaderAt, size int64, match Matcher) (string, []byte, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return "", nil, errors.Wrap(err, "initializing zip reader")
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !match(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", nil, errors.Wrapf(err, "opening %s", f.Name)
		}
		defer rc.Close()
		buf, err := readEntry(rc)
		if err != nil {
			return "", nil, errors.Wrapf(err, "reading %s", f.Name)
		}
		return f.Name, buf, nil
	}
	return "", nil, fs.ErrNotExist
}

// ToZipCompatibleReader coerces an io.Reader into an io.ReaderAt required to construct a zip.Reader.
func ToZipCompatibleReader(r io.Reader) (io.ReaderAt, int64, error) {
	seeker, seekerOK := r.(io.Seeker)
	readerAt, readerOK := r.(io.ReaderAt)
	if seekerOK && readerOK {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, errors.Wrap(err, "locating reader position")
		}
		size, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, errors.Wrap(err, "retrieving size")
		}
		if _, err := seeker.Seek(pos, io.SeekStart); err != nil {
			return nil, 0, errors.Wrap(err, "restoring reader position")
		}
		return readerAt, size, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, errors.Wrap(err, "buffering reader")
	}
	return bytes.NewReader(b), int64(len(b)), nil
}
