// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"bytes"
	"io"
	"net/mail"
	"net/textproto"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/distcheck/pkg/archive"
	"github.com/pkg/errors"
)

// Extractor reads the metadata of a distribution archive.
//
// An Extractor returns an error wrapping ErrMalformed when the archive or its
// metadata file cannot be read. For a metadata version it does not understand,
// it returns metadata holding only "metadata_version".
type Extractor interface {
	Extract(kind Kind, path string) (RawMetadata, error)
}

// header maps a metadata header to its attribute name.
type header struct {
	name  string
	attr  string
	multi bool
}

var (
	headers10 = []header{
		{"Metadata-Version", "metadata_version", false},
		{"Name", "name", false},
		{"Version", "version", false},
		{"Platform", "platform", true},
		{"Supported-Platform", "supported_platforms", true},
		{"Summary", "summary", false},
		{"Description", "description", false},
		{"Keywords", "keywords", false},
		{"Home-page", "home_page", false},
		{"Author", "author", false},
		{"Author-email", "author_email", false},
		{"License", "license", false},
	}
	headers11 = slices.Concat(headers10, []header{
		{"Classifier", "classifiers", true},
		{"Download-URL", "download_url", false},
		{"Requires", "requires", true},
		{"Provides", "provides", true},
		{"Obsoletes", "obsoletes", true},
	})
	headers12 = slices.Concat(headers10, []header{
		{"Classifier", "classifiers", true},
		{"Download-URL", "download_url", false},
		{"Maintainer", "maintainer", false},
		{"Maintainer-email", "maintainer_email", false},
		{"Requires-Python", "requires_python", false},
		{"Requires-Dist", "requires_dist", true},
		{"Provides-Dist", "provides_dist", true},
		{"Obsoletes-Dist", "obsoletes_dist", true},
		{"Requires-External", "requires_external", true},
		{"Project-URL", "project_urls", true},
	})
	headers21 = slices.Concat(headers12, []header{
		{"Description-Content-Type", "description_content_type", false},
		{"Provides-Extra", "provides_extras", true},
	})
	headers22 = slices.Concat(headers21, []header{
		{"Dynamic", "dynamic", true},
	})
)

// metadataHeaders lists the headers understood for each metadata version.
var metadataHeaders = map[string][]header{
	"1.0": headers10,
	"1.1": headers11,
	"1.2": headers12,
	"2.0": headers12,
	"2.1": headers21,
	"2.2": headers22,
	"2.3": headers22,
	"2.4": headers22,
}

// ExtractableMetadataVersions returns the metadata versions ParseMetadata understands.
func ExtractableMetadataVersions() []string {
	var vs []string
	for v := range metadataHeaders {
		vs = append(vs, v)
	}
	slices.Sort(vs)
	return vs
}

// ParseMetadata parses an RFC 822 style PKG-INFO or METADATA file.
// The message body, when present, is used as the description unless a
// Description header is set. A folded Description header keeps its line
// breaks.
func ParseMetadata(r io.Reader) (RawMetadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading metadata")
	}
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing metadata headers")
	}
	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading metadata body")
	}
	version := strings.TrimSpace(msg.Header.Get("Metadata-Version"))
	headers, ok := metadataHeaders[version]
	if !ok {
		md := RawMetadata{}
		if version != "" {
			md["metadata_version"] = Scalar(version)
		}
		return md, nil
	}
	md := make(RawMetadata, len(headers))
	for _, h := range headers {
		values, ok := msg.Header[textproto.CanonicalMIMEHeaderKey(h.name)]
		if !ok || len(values) == 0 {
			continue
		}
		if h.multi {
			md[h.attr] = Strings(values...)
		} else {
			md[h.attr] = Scalar(values[0])
		}
	}
	if _, ok := md["description"]; ok {
		if folded, ok := foldedHeader(data, "Description"); ok {
			md["description"] = Scalar(folded)
		}
	} else if len(bytes.TrimSpace(body)) > 0 {
		md["description"] = Scalar(strings.ReplaceAll(string(body), "\r\n", "\n"))
	}
	return md, nil
}

// foldedHeader returns the first value of the named header with its
// continuation lines joined by newlines instead of being unfolded into one line.
func foldedHeader(data []byte, name string) (string, bool) {
	var lines []string
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		continued := line[0] == ' ' || line[0] == '\t'
		if found {
			if !continued {
				break
			}
			lines = append(lines, unindentDescription(line))
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok && !continued && strings.EqualFold(strings.TrimSpace(k), name) {
			found = true
			lines = append(lines, strings.TrimSpace(v))
		}
	}
	if !found {
		return "", false
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}

// unindentDescription strips the continuation prefix that metadata writers
// put before each description line: eight spaces, optionally followed by '|',
// or seven spaces and '|'.
func unindentDescription(line string) string {
	for _, prefix := range []string{"        |", "       |", "        ", "\t"} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return rest
		}
	}
	return strings.TrimLeft(line, " \t")
}

// ArchiveExtractor reads metadata from wheel, egg and sdist archives on disk.
type ArchiveExtractor struct{}

var _ Extractor = ArchiveExtractor{}

// metadataFile selects the metadata file within an archive of the given kind.
func metadataFile(k Kind) archive.Matcher {
	switch k {
	case Wheel:
		return archive.Glob("*.dist-info/METADATA")
	case Egg:
		return archive.Exact("EGG-INFO/PKG-INFO")
	default:
		return archive.Glob("*/PKG-INFO")
	}
}

// Extract implements Extractor.
func (ArchiveExtractor) Extract(kind Kind, path string) (RawMetadata, error) {
	_, format, err := DetectKind(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening distribution")
	}
	defer f.Close()
	name, content, err := archive.FindFile(f, format, metadataFile(kind))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "locating %s metadata: %v", kind, err)
	}
	md, err := ParseMetadata(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %v", name, err)
	}
	return md, nil
}
