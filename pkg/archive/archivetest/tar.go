// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package archivetest builds in-memory archives for tests.
package archivetest

import (
	"archive/tar"
	"bytes"

	"github.com/google/distcheck/pkg/archive"
	"github.com/klauspost/compress/gzip"
)

// TarFile writes entries to a tar archive. Entry sizes are derived from their bodies
// and entries without a type are written as regular files.
func TarFile(entries []archive.TarEntry) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	tw := tar.NewWriter(buf)
	for _, entry := range entries {
		entry.Header.Size = int64(len(entry.Body))
		if entry.Header.Typeflag == 0 {
			entry.Header.Typeflag = tar.TypeReg
		}
		if entry.Header.Mode == 0 {
			entry.Header.Mode = 0644
		}
		if err := entry.WriteTo(tw); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

// TgzFile writes entries to a gzip-compressed tar archive.
func TgzFile(entries []archive.TarEntry) (*bytes.Buffer, error) {
	buf, err := TarFile(entries)
	if err != nil {
		return nil, err
	}
	zbuf := new(bytes.Buffer)
	w := gzip.NewWriter(zbuf)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return zbuf, nil
}
