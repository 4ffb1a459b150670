// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidMarker is returned for environment markers outside the PEP 508 grammar.
var ErrInvalidMarker = errors.New("invalid marker")

type tokenKind int

const (
	tokVariable tokenKind = iota
	tokString
	tokOp
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

var (
	markerVariableRE = regexp.MustCompile(`^(?:python_version|python_full_version|os[._]name|sys[._]platform|platform_(?:release|system)|platform[._](?:version|machine|python_implementation)|python_implementation|implementation_(?:name|version)|extra)\b`)
	markerStringRE   = regexp.MustCompile(`^(?:'[^']*'|"[^"]*")`)
	markerOpRE       = regexp.MustCompile(`^(?:===|==|~=|!=|<=|>=|<|>|not\s+in\b|in\b)`)
	markerKeywordRE  = regexp.MustCompile(`^(?:and|or)\b`)
)

func tokenizeMarker(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case rest[0] == ' ' || rest[0] == '\t':
			i++
			continue
		case rest[0] == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
			continue
		case rest[0] == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
			continue
		}
		if m := markerStringRE.FindString(rest); m != "" {
			toks = append(toks, token{tokString, m})
			i += len(m)
		} else if m := markerOpRE.FindString(rest); m != "" {
			toks = append(toks, token{tokOp, m})
			i += len(m)
		} else if m := markerKeywordRE.FindString(rest); m != "" {
			kind := tokAnd
			if m == "or" {
				kind = tokOr
			}
			toks = append(toks, token{kind, m})
			i += len(m)
		} else if m := markerVariableRE.FindString(rest); m != "" {
			toks = append(toks, token{tokVariable, m})
			i += len(m)
		} else {
			return nil, errors.Errorf("unexpected %q", rest)
		}
	}
	return toks, nil
}

type markerParser struct {
	toks []token
	pos  int
}

func (p *markerParser) next() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *markerParser) accept(kind tokenKind) bool {
	if p.pos < len(p.toks) && p.toks[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *markerParser) or() error {
	if err := p.and(); err != nil {
		return err
	}
	for p.accept(tokOr) {
		if err := p.and(); err != nil {
			return err
		}
	}
	return nil
}

func (p *markerParser) and() error {
	if err := p.atom(); err != nil {
		return err
	}
	for p.accept(tokAnd) {
		if err := p.atom(); err != nil {
			return err
		}
	}
	return nil
}

func (p *markerParser) atom() error {
	if p.accept(tokLParen) {
		if err := p.or(); err != nil {
			return err
		}
		if !p.accept(tokRParen) {
			return errors.New("expected closing parenthesis")
		}
		return nil
	}
	if err := p.operand(); err != nil {
		return err
	}
	if !p.accept(tokOp) {
		return errors.New("expected marker operator")
	}
	return p.operand()
}

func (p *markerParser) operand() error {
	t, ok := p.next()
	if !ok {
		return errors.New("unexpected end of marker")
	}
	if t.kind != tokVariable && t.kind != tokString {
		return errors.Errorf("expected marker variable or quoted string, got %q", t.text)
	}
	return nil
}

// ValidateMarker checks that s is a well-formed environment marker expression.
func ValidateMarker(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.Wrap(ErrInvalidMarker, "empty marker")
	}
	toks, err := tokenizeMarker(s)
	if err != nil {
		return errors.Wrap(ErrInvalidMarker, err.Error())
	}
	p := markerParser{toks: toks}
	if err := p.or(); err != nil {
		return errors.Wrap(ErrInvalidMarker, err.Error())
	}
	if p.pos != len(p.toks) {
		return errors.Wrapf(ErrInvalidMarker, "unexpected %q", p.toks[p.pos].text)
	}
	return nil
}
