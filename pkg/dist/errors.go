// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownFormat is returned when a filename matches no known distribution suffix.
	ErrUnknownFormat = errors.New("unknown distribution format")
	// ErrInvalidDistribution is returned when an archive cannot be read or lacks a name and version.
	ErrInvalidDistribution = errors.New("invalid distribution")
	// ErrUnsupportedMetadataVersion is returned for a metadata version outside the supported set.
	ErrUnsupportedMetadataVersion = errors.New("unsupported metadata version")
	// ErrFieldValidation matches every *FieldError.
	ErrFieldValidation = errors.New("field validation failed")
	// ErrMissingField is returned by Sanitize for an absent required value.
	ErrMissingField = errors.New("missing required field")
	// ErrTypeCoercion is returned by Sanitize for a value with no text form.
	ErrTypeCoercion = errors.New("cannot convert value to text")
	// ErrAlreadySigned is returned when a second signature is attached.
	ErrAlreadySigned = errors.New("GPG Signature can only be added once")
	// ErrMalformed is returned by an Extractor that cannot parse an archive.
	ErrMalformed = errors.New("malformed distribution")
)

// rejection carries a user-facing message along with the sentinel it belongs to.
type rejection struct {
	kind  error
	msg   string
	cause error
}

func (r *rejection) Error() string { return r.msg }

func (r *rejection) Unwrap() []error {
	if r.cause == nil {
		return []error{r.kind}
	}
	return []error{r.kind, r.cause}
}

// FieldError reports the metadata field that failed sanitization or validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Invalid value for %s. Error: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Is reports true for ErrFieldValidation.
func (e *FieldError) Is(target error) bool { return target == ErrFieldValidation }

// MetadataVersionError is returned when extracted metadata lacks a name or
// version, which happens when the extractor does not understand the declared
// metadata version.
type MetadataVersionError struct {
	// Declared is the metadata version found in the archive, if any.
	Declared string
	// Supported lists the metadata versions the extractor understands.
	Supported []string
}

func (e *MetadataVersionError) Error() string {
	var b strings.Builder
	b.WriteString("Invalid distribution metadata. ")
	b.WriteString("This version of distcheck supports Metadata-Version ")
	switch n := len(e.Supported); n {
	case 0:
	case 1:
		b.WriteString(e.Supported[0])
	default:
		b.WriteString(strings.Join(e.Supported[:n-1], ", "))
		b.WriteString(", and ")
		b.WriteString(e.Supported[n-1])
	}
	if e.Declared != "" {
		fmt.Fprintf(&b, " (found %s)", e.Declared)
	}
	return b.String()
}

// Is reports true for both ErrInvalidDistribution and ErrUnsupportedMetadataVersion.
func (e *MetadataVersionError) Is(target error) bool {
	return target == ErrInvalidDistribution || target == ErrUnsupportedMetadataVersion
}
