// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package uri validates URI references against the RFC 3986 grammar.
package uri

import (
	"fmt"
	"net/netip"
	re "regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultSchemes are the schemes accepted when Opts.Schemes is empty.
var DefaultSchemes = []string{"http", "https"}

// Opts configures Check and Validate.
type Opts struct {
	// Schemes restricts the scheme, when present. Defaults to DefaultSchemes.
	Schemes          []string
	RequireScheme    bool
	RequireAuthority bool
}

// Reference is the five-component decomposition of a URI reference.
// A component that is not present in the input is nil.
type Reference struct {
	Scheme    *string
	Authority *string
	Path      string
	Query     *string
	Fragment  *string
}

// From RFC 3986, Appendix B.
var referenceRE = re.MustCompile(`(?s)^(?:([^:/?#]+):)?(?://([^/?#]*))?([^?#]*)(?:\?([^#]*))?(?:#(.*))?$`)

const (
	unreserved = `A-Za-z0-9\-._~`
	subDelims  = `!$&'()*+,;=`
	pctEncoded = `%[0-9A-Fa-f]{2}`
	// Everything that may appear unencoded in some component.
	literalChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~!$&'()*+,;=:/?#[]@%"
)

var (
	schemeRE    = re.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)
	authorityRE = re.MustCompile(`^(?:([^@]*)@)?(\[[^\]]*\]|[^:]*)(?::([^:]*))?$`)
	userinfoRE  = re.MustCompile(`^(?:[` + unreserved + subDelims + `:]|` + pctEncoded + `)*$`)
	regNameRE   = re.MustCompile(`^(?:[` + unreserved + subDelims + `]|` + pctEncoded + `)*$`)
	ipFutureRE  = re.MustCompile(`^[vV][0-9A-Fa-f]+\.[` + unreserved + subDelims + `:]+$`)
	portRE      = re.MustCompile(`^[0-9]*$`)
	pathRE      = re.MustCompile(`^(?:[` + unreserved + subDelims + `:@/]|` + pctEncoded + `)*$`)
	queryRE     = re.MustCompile(`^(?:[` + unreserved + subDelims + `:@/?]|` + pctEncoded + `)*$`)
	pctRE       = re.MustCompile(pctEncoded)
)

// Parse splits s into its components, percent-encoding any byte that may not
// appear literally in a URI.
func Parse(s string) Reference {
	m := referenceRE.FindStringSubmatchIndex(s)
	group := func(i int) *string {
		if m == nil || m[2*i] < 0 {
			return nil
		}
		v := s[m[2*i]:m[2*i+1]]
		return &v
	}
	encoded := func(i int) *string {
		if v := group(i); v != nil {
			e := encode(*v)
			return &e
		}
		return nil
	}
	ref := Reference{
		Scheme:    group(1),
		Authority: encoded(2),
		Query:     encoded(4),
		Fragment:  encoded(5),
	}
	if p := encoded(3); p != nil {
		ref.Path = *p
	}
	return ref
}

func encode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(literalChars, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// Normalize applies the case, percent-encoding and dot-segment normalizations of RFC 3986 §6.2.2.
func (r Reference) Normalize() Reference {
	n := r
	if r.Scheme != nil {
		s := strings.ToLower(*r.Scheme)
		n.Scheme = &s
	}
	if r.Authority != nil {
		a := upperPct(*r.Authority)
		if userinfo, host, port, ok := splitAuthority(a); ok {
			a = host
			if !strings.HasPrefix(host, "[") {
				a = strings.ToLower(host)
			}
			if userinfo != nil {
				a = *userinfo + "@" + a
			}
			if port != nil {
				a += ":" + *port
			}
		}
		n.Authority = &a
	}
	n.Path = removeDotSegments(upperPct(r.Path))
	if r.Query != nil {
		q := upperPct(*r.Query)
		n.Query = &q
	}
	if r.Fragment != nil {
		f := upperPct(*r.Fragment)
		n.Fragment = &f
	}
	return n
}

func splitAuthority(a string) (userinfo *string, host string, port *string, ok bool) {
	m := authorityRE.FindStringSubmatchIndex(a)
	if m == nil {
		return nil, "", nil, false
	}
	if m[2] >= 0 {
		u := a[m[2]:m[3]]
		userinfo = &u
	}
	host = a[m[4]:m[5]]
	if m[6] >= 0 {
		p := a[m[6]:m[7]]
		port = &p
	}
	return userinfo, host, port, true
}

func upperPct(s string) string {
	return pctRE.ReplaceAllStringFunc(s, strings.ToUpper)
}

// removeDotSegments implements RFC 3986 §5.2.4.
func removeDotSegments(in string) string {
	var out string
	dropLast := func() {
		if k := strings.LastIndexByte(out, '/'); k >= 0 {
			out = out[:k]
		} else {
			out = ""
		}
	}
	for len(in) > 0 {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			dropLast()
		case in == "/..":
			in = "/"
			dropLast()
		case in == "." || in == "..":
			in = ""
		default:
			start := 0
			if in[0] == '/' {
				start = 1
			}
			if j := strings.IndexByte(in[start:], '/'); j >= 0 {
				out += in[:start+j]
				in = in[start+j:]
			} else {
				out += in
				in = ""
			}
		}
	}
	return out
}

// Check normalizes s and reports the first reason it is not an acceptable URI.
func Check(s string, opts Opts) error {
	ref := Parse(s).Normalize()
	schemes := opts.Schemes
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	if ref.Scheme == nil || *ref.Scheme == "" {
		if opts.RequireScheme {
			return errors.New("missing scheme")
		}
	} else {
		if !schemeRE.MatchString(*ref.Scheme) {
			return errors.Errorf("invalid scheme %q", *ref.Scheme)
		}
		if !slices.Contains(schemes, *ref.Scheme) {
			return errors.Errorf("scheme %q not allowed", *ref.Scheme)
		}
	}
	var host string
	if ref.Authority != nil {
		userinfo, h, port, ok := splitAuthority(*ref.Authority)
		if !ok {
			return errors.Errorf("invalid authority %q", *ref.Authority)
		}
		if userinfo != nil && !userinfoRE.MatchString(*userinfo) {
			return errors.Errorf("invalid userinfo %q", *userinfo)
		}
		if !validHost(h) {
			return errors.Errorf("invalid host %q", h)
		}
		if port != nil {
			if !portRE.MatchString(*port) {
				return errors.Errorf("invalid port %q", *port)
			}
			if *port != "" {
				if n, err := strconv.Atoi(*port); err != nil || n > 65535 {
					return errors.Errorf("invalid port %q", *port)
				}
			}
		}
		host = h
	}
	if host == "" && opts.RequireAuthority {
		return errors.New("missing host")
	}
	if !pathRE.MatchString(ref.Path) {
		return errors.Errorf("invalid path %q", ref.Path)
	}
	if ref.Query != nil && !queryRE.MatchString(*ref.Query) {
		return errors.Errorf("invalid query %q", *ref.Query)
	}
	return nil
}

// Validate reports whether s is an acceptable URI under opts.
func Validate(s string, opts Opts) bool {
	return Check(s, opts) == nil
}

func validHost(h string) bool {
	if literal, ok := strings.CutPrefix(h, "["); ok {
		literal, ok = strings.CutSuffix(literal, "]")
		if !ok {
			return false
		}
		if ipFutureRE.MatchString(literal) {
			return true
		}
		addr, err := netip.ParseAddr(literal)
		return err == nil && addr.Is6()
	}
	return regNameRE.MatchString(h)
}
