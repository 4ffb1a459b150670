// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"fmt"
	"mime"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/distcheck/internal/pep440"
	"github.com/google/distcheck/internal/uri"
	"github.com/pkg/errors"
)

// Validator checks a sanitized value and returns its validated form.
// The error message is the reason shown to the user.
type Validator func(Value) (Value, error)

// Taxonomy is the classifier lookup used to validate classifiers.
type Taxonomy interface {
	Valid(classifier string) bool
	Deprecated(classifier string) (replacements []string, ok bool)
}

// SupportedMetadataVersions are the metadata versions accepted in a record.
var SupportedMetadataVersions = []string{"1.0", "1.1", "1.2", "2.0", "2.1"}

var (
	hexDigestRE  = regexp.MustCompile(`^[A-Fa-f0-9]{64}$`)
	unsafeNameRE = regexp.MustCompile(`[^A-Za-z0-9.]+`)
	nameRE       = regexp.MustCompile(`(?i)^([A-Z0-9]|[A-Z0-9][A-Z0-9._-]*[A-Z0-9])$`)
	summaryRE    = regexp.MustCompile(`^.+\n?$`)

	// Derived from RFC 5322. \x60 is a backtick.
	emailRE = regexp.MustCompile(`(?i)^(?:` +
		`([a-z0-9!#$%&'*+/=?^_\x60{|}~-]+(?:\.[a-z0-9!#$%&'*+/=?^_\x60{|}~-]+)*|"` +
		`(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21\x23-\x5b\x5d-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*")` +
		`@((?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?` +
		`|\[(?:(?:2(?:5[0-5]|[0-4][0-9])|1[0-9][0-9]|[1-9]?[0-9])\.){3}` +
		`(?:(?:2(?:5[0-5]|[0-4][0-9])|1[0-9][0-9]|[1-9]?[0-9])|[a-z0-9-]*[a-z0-9]:` +
		`(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21-\x5a\x53-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])+)\])` +
		`)$`)

	dotAtomRE = regexp.MustCompile("(?i)^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*$")

	requiresExternalRE = regexp.MustCompile(`^(?P<name>\S+)(?: \((?P<specifier>\S+)\))?$`)
)

const (
	maxSummaryLength  = 512
	maxURLLabelLength = 32
)

var (
	contentTypes     = []string{"text/plain", "text/x-rst", "text/markdown"}
	markdownVariants = []string{"CommonMark", "GFM"}
)

func validateHexDigest(message string) Validator {
	return func(v Value) (Value, error) {
		if !hexDigestRE.MatchString(v.Text()) {
			return Value{}, errors.New(message)
		}
		return v, nil
	}
}

func validateMetadataVersion(v Value) (Value, error) {
	if !slices.Contains(SupportedMetadataVersions, v.Text()) {
		return Value{}, &rejection{kind: ErrUnsupportedMetadataVersion, msg: "Use a known metadata version."}
	}
	return v, nil
}

// SafeName replaces each run of characters other than ASCII letters, digits
// and '.' with a single '-'.
func SafeName(name string) string {
	return unsafeNameRE.ReplaceAllString(name, "-")
}

func validateName(v Value) (Value, error) {
	name := SafeName(v.Text())
	if !nameRE.MatchString(name) {
		return Value{}, errors.New("Start and end with a letter or numeral containing only ASCII numeric and '.', '_' and '-'.")
	}
	return Scalar(name), nil
}

func validateVersion(v Value) (Value, error) {
	canonical, err := pep440.Canonicalize(v.Text())
	if err != nil {
		return Value{}, errors.Errorf("Invalid version '%s'", v.Text())
	}
	return Scalar(canonical), nil
}

func validateEmail(v Value) (Value, error) {
	if v.IsAbsent() {
		return v, nil
	}
	addrs, err := mail.ParseAddressList(v.Text())
	if err != nil {
		return Value{}, errors.New("Use a valid email address")
	}
	for _, a := range addrs {
		if !emailRE.MatchString(quoteLocalPart(a.Address)) {
			return Value{}, errors.New("Use a valid email address")
		}
	}
	return v, nil
}

// quoteLocalPart restores the quotes that net/mail strips from a local part
// that is not a dot-atom.
func quoteLocalPart(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 || dotAtomRE.MatchString(addr[:i]) {
		return addr
	}
	local := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(addr[:i])
	return `"` + local + `"` + addr[i:]
}

func validateSummary(v Value) (Value, error) {
	if v.IsAbsent() {
		return v, nil
	}
	s := v.Text()
	if utf8.RuneCountInString(s) > maxSummaryLength {
		return Value{}, errors.New("Summary is too long")
	}
	if !summaryRE.MatchString(s) {
		return Value{}, errors.New("Use a single line only.")
	}
	return v, nil
}

func validateURI(v Value) (Value, error) {
	if v.IsAbsent() {
		return v, nil
	}
	if !uri.Validate(v.Text(), uri.Opts{RequireScheme: true, RequireAuthority: true}) {
		return Value{}, errors.Errorf("Invalid URI '%s'", v.Text())
	}
	return v, nil
}

func validateClassifiers(tax Taxonomy) Validator {
	return func(v Value) (Value, error) {
		given := v.Texts()
		var deprecated []string
		for _, c := range given {
			if _, ok := tax.Deprecated(c); ok {
				deprecated = append(deprecated, c)
			}
		}
		if len(deprecated) > 0 {
			slices.Sort(deprecated)
			first := deprecated[0]
			if repl, _ := tax.Deprecated(first); len(repl) > 0 {
				return Value{}, errors.Errorf("Classifier %q has been deprecated, use the following classifier(s) instead: %q", first, repl)
			}
			return Value{}, errors.Errorf("Classifier %q has been deprecated.", first)
		}
		var invalid []string
		for _, c := range given {
			if !tax.Valid(c) {
				invalid = append(invalid, c)
			}
		}
		slices.Sort(invalid)
		invalid = slices.Compact(invalid)
		switch len(invalid) {
		case 0:
			return v, nil
		case 1:
			return Value{}, errors.Errorf("Classifier %q is not a valid classifier.", invalid[0])
		default:
			return Value{}, errors.Errorf("Classifiers %q are not valid classifiers.", invalid)
		}
	}
}

// validateLegacyRequirements checks the pre-1.2 requires, provides and
// obsoletes fields, whose names must be dotted Python identifiers.
func validateLegacyRequirements(v Value) (Value, error) {
	for _, datum := range v.Texts() {
		req, err := pep440.ParseRequirement(strings.ReplaceAll(datum, "_", ""))
		if err != nil {
			return Value{}, errors.Errorf("Invalid requirement: %q", datum)
		}
		if req.URL != "" {
			return Value{}, errors.Errorf("Can't have direct dependency: %q", datum)
		}
		for _, ident := range strings.Split(req.Name, ".") {
			if !isIdentifier(ident) {
				return Value{}, errors.New("Use a valid Python identifier.")
			}
		}
	}
	return v, nil
}

func isIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func validateDistRequirements(v Value) (Value, error) {
	for _, datum := range v.Texts() {
		req, err := pep440.ParseRequirement(datum)
		if err != nil {
			return Value{}, errors.Errorf("Invalid requirement: %q.", datum)
		}
		if req.URL != "" {
			return Value{}, errors.Errorf("Can't have direct dependency: %q", datum)
		}
	}
	return v, nil
}

func checkSpecifierSet(s string) error {
	if _, err := pep440.ParseSpecifierSet(s); err != nil {
		return errors.New("Invalid specifier in requirement.")
	}
	return nil
}

// validateSpecifierSet returns the value unchanged when it parses.
func validateSpecifierSet(v Value) (Value, error) {
	if v.IsAbsent() {
		return v, nil
	}
	if err := checkSpecifierSet(v.Text()); err != nil {
		return Value{}, err
	}
	return v, nil
}

func validateRequiresExternal(v Value) (Value, error) {
	for _, datum := range v.Texts() {
		m := requiresExternalRE.FindStringSubmatch(datum)
		if m == nil {
			return Value{}, errors.New("Invalid requirement.")
		}
		if spec := m[requiresExternalRE.SubexpIndex("specifier")]; spec != "" {
			if err := checkSpecifierSet(spec); err != nil {
				return Value{}, err
			}
		}
	}
	return v, nil
}

func validateProjectURLs(v Value) (Value, error) {
	for _, datum := range v.Texts() {
		label, u, ok := strings.Cut(datum, ", ")
		if !ok {
			return Value{}, errors.New("Use both a label and an URL.")
		}
		if label == "" {
			return Value{}, errors.New("Use a label.")
		}
		if utf8.RuneCountInString(label) > maxURLLabelLength {
			return Value{}, errors.Errorf("Use %d characters or less.", maxURLLabelLength)
		}
		if u == "" {
			return Value{}, errors.New("Use an URL.")
		}
		if !uri.Validate(u, uri.Opts{RequireScheme: true}) {
			return Value{}, errors.New("Use valid URL.")
		}
	}
	return v, nil
}

// parseContentType parses a media type, skipping parameters that have no value.
func parseContentType(s string) (string, map[string]string, error) {
	mediatype, params, err := mime.ParseMediaType(s)
	if err != mime.ErrInvalidMediaParameter {
		return mediatype, params, err
	}
	parts := strings.Split(s, ";")
	kept := parts[:1]
	for _, p := range parts[1:] {
		if strings.Contains(p, "=") {
			kept = append(kept, p)
		}
	}
	return mime.ParseMediaType(strings.Join(kept, ";"))
}

func validateDescriptionContentType(v Value) (Value, error) {
	if v.IsAbsent() {
		return v, nil
	}
	invalid := func(reason string) (Value, error) {
		return Value{}, errors.Errorf("Invalid description content type: %s", reason)
	}
	mediatype, params, err := parseContentType(v.Text())
	if err != nil || !slices.Contains(contentTypes, mediatype) {
		return invalid("type/subtype is not valid")
	}
	if charset := params["charset"]; charset != "" && charset != "UTF-8" {
		return invalid("Use a valid charset")
	}
	if variant := params["variant"]; mediatype == "text/markdown" && variant != "" && !slices.Contains(markdownVariants, variant) {
		return invalid(fmt.Sprintf("Use a valid variant, expected one of %s", strings.Join(markdownVariants, ", ")))
	}
	return v, nil
}
