// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ErrInvalidRequirement is returned for strings outside the PEP 508 grammar.
var ErrInvalidRequirement = errors.New("invalid requirement")

var identifierRE = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)

// Requirement is a parsed PEP 508 dependency specification.
type Requirement struct {
	Name      string
	Extras    []string
	Specifier SpecifierSet
	// URL is set for direct references ("name @ url").
	URL    string
	Marker string
}

// ParseRequirement parses a dependency specification such as
// `requests[security] >= 2.8.1, == 2.8.* ; python_version < "2.7"`.
func ParseRequirement(s string) (*Requirement, error) {
	p := reqParser{s: s}
	req, err := p.parse()
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRequirement, "%q: %s", s, err.Error())
	}
	return req, nil
}

type reqParser struct {
	s   string
	pos int
}

func (p *reqParser) rest() string { return p.s[p.pos:] }

func (p *reqParser) eof() bool { return p.pos >= len(p.s) }

func (p *reqParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.s[p.pos]
}

func (p *reqParser) skipSpace() {
	for !p.eof() && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *reqParser) identifier() (string, error) {
	id := identifierRE.FindString(p.rest())
	if id == "" {
		return "", errors.Errorf("expected identifier at position %d", p.pos)
	}
	p.pos += len(id)
	return id, nil
}

func (p *reqParser) parse() (*Requirement, error) {
	var req Requirement
	var err error
	p.skipSpace()
	if req.Name, err = p.identifier(); err != nil {
		return nil, errors.Wrap(err, "parsing name")
	}
	p.skipSpace()
	if p.peek() == '[' {
		if req.Extras, err = p.extras(); err != nil {
			return nil, err
		}
		p.skipSpace()
	}
	switch p.peek() {
	case '@':
		p.pos++
		p.skipSpace()
		start := p.pos
		for !p.eof() && !unicode.IsSpace(rune(p.s[p.pos])) {
			p.pos++
		}
		req.URL = p.s[start:p.pos]
		if req.URL == "" {
			return nil, errors.New("expected URL after @")
		}
		p.skipSpace()
	case '(':
		end := strings.IndexByte(p.s[p.pos:], ')')
		if end == -1 {
			return nil, errors.New("expected closing parenthesis")
		}
		if req.Specifier, err = parseVersionMany(p.s[p.pos+1 : p.pos+end]); err != nil {
			return nil, err
		}
		p.pos += end + 1
		p.skipSpace()
	case 0, ';':
	default:
		end := strings.IndexByte(p.s[p.pos:], ';')
		if end == -1 {
			end = len(p.s) - p.pos
		}
		if req.Specifier, err = parseVersionMany(p.s[p.pos : p.pos+end]); err != nil {
			return nil, err
		}
		p.pos += end
	}
	if p.peek() == ';' {
		p.pos++
		req.Marker = strings.TrimSpace(p.rest())
		if err := ValidateMarker(req.Marker); err != nil {
			return nil, err
		}
		p.pos = len(p.s)
	}
	p.skipSpace()
	if !p.eof() {
		return nil, errors.Errorf("unexpected %q at position %d", p.rest(), p.pos)
	}
	return &req, nil
}

func (p *reqParser) extras() ([]string, error) {
	p.pos++ // '['
	var extras []string
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return extras, nil
	}
	for {
		p.skipSpace()
		extra, err := p.identifier()
		if err != nil {
			return nil, errors.Wrap(err, "parsing extras")
		}
		extras = append(extras, extra)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return extras, nil
		default:
			return nil, errors.New("expected comma or closing bracket in extras")
		}
	}
}

// parseVersionMany parses the version clauses of a requirement, where unlike
// ParseSpecifierSet every comma must separate two clauses.
func parseVersionMany(s string) (SpecifierSet, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var set SpecifierSet
	for _, clause := range strings.Split(s, ",") {
		spec, err := ParseSpecifier(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}
