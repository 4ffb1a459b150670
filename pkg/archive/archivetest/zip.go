// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archivetest

import (
	"archive/zip"
	"bytes"

	"github.com/google/distcheck/pkg/archive"
)

// ZipFile writes entries to a zip archive.
func ZipFile(entries []archive.ZipEntry) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		if err := entry.WriteTo(zw); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

