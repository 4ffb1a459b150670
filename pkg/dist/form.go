// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import "encoding/base64"

// sdistPythonVersion is the python version an index expects for source distributions.
const sdistPythonVersion = "source"

// MetadataDictionary returns the fields of an index upload form for p.
//
// Identity, kind and digest entries are always present. Empty descriptive
// fields are omitted. An attached signature is included as its file name
// and base64 content under "gpg_signature".
func (p *Package) MetadataDictionary() map[string]any {
	pyversion := p.PythonVersion
	if pyversion == "" && p.Kind == Sdist {
		pyversion = sdistPythonVersion
	}
	d := map[string]any{
		":action":           "file_upload",
		"protocol_version":  "1",
		"name":              p.Name,
		"version":           p.Version,
		"filetype":          p.Kind.Filetype(),
		"pyversion":         pyversion,
		"metadata_version":  p.MetadataVersion,
		"md5_digest":        p.Digests.MD5,
		"sha256_digest":     p.Digests.SHA256,
		"blake2_256_digest": p.Digests.Blake2256,
	}
	for k, v := range map[string]string{
		"summary":                  p.Summary,
		"home_page":                p.HomePage,
		"author":                   p.Author,
		"author_email":             p.AuthorEmail,
		"maintainer":               p.Maintainer,
		"maintainer_email":         p.MaintainerEmail,
		"license":                  p.License,
		"description":              p.Description,
		"keywords":                 p.Keywords,
		"platform":                 p.Platform,
		"download_url":             p.DownloadURL,
		"supported_platform":       p.SupportedPlatforms,
		"comment":                  p.Comment,
		"requires_python":          p.RequiresPython,
		"description_content_type": p.DescriptionContentType,
	} {
		if v != "" {
			d[k] = v
		}
	}
	for k, v := range map[string][]string{
		"classifiers":       p.Classifiers,
		"requires":          p.Requires,
		"provides":          p.Provides,
		"obsoletes":         p.Obsoletes,
		"requires_dist":     p.RequiresDist,
		"provides_dist":     p.ProvidesDist,
		"obsoletes_dist":    p.ObsoletesDist,
		"requires_external": p.RequiresExternal,
		"project_urls":      p.ProjectURLs,
		"provides_extras":   p.ProvidesExtras,
		"dynamic":           p.Dynamic,
	} {
		if len(v) > 0 {
			d[k] = v
		}
	}
	if sig := p.signature; sig != nil {
		d["gpg_signature"] = []string{sig.Name, base64.StdEncoding.EncodeToString(sig.Data)}
	}
	return d
}
