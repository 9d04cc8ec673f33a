// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package route

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrInvalidScheme is returned for a scheme outside the allow-list.
	ErrInvalidScheme = errors.New("invalid URI scheme")

	// ErrInvalidPort is returned for a port outside 1..65535.
	ErrInvalidPort = errors.New("invalid URI port")
)

// defaultPorts is the scheme allow-list together with each scheme's standard port.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// DefaultPort returns the standard port for scheme, or 0 for an unknown scheme.
func DefaultPort(scheme string) int {
	return defaultPorts[strings.ToLower(scheme)]
}

// ParseScheme lower-cases scheme, strips a trailing "://" and checks it
// against the allow-list (http, https).
func ParseScheme(scheme string) (string, error) {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(scheme)), "://")
	if _, ok := defaultPorts[s]; !ok {
		return "", fmt.Errorf("%w %q: allowed schemes are \"http\", \"https\"", ErrInvalidScheme, s)
	}

	return s, nil
}

// ValidatePort checks that port is a valid TCP/UDP port.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w %d: must be a valid TCP/UDP port", ErrInvalidPort, port)
	}

	return nil
}

// Conditions restricts a matched route to a scheme, a host and a port.
// The zero value imposes no restriction.
//
// Scheme is always lower-case and one of the allowed schemes when set.
// Port is 0 when unset.
type Conditions struct {
	Scheme string
	Host   string
	Port   int
}

// NewConditions validates and normalises the three condition fields.
// Empty scheme, empty host and zero port mean "not set".
func NewConditions(scheme, host string, port int) (Conditions, error) {
	var c Conditions
	if scheme != "" {
		s, err := ParseScheme(scheme)
		if err != nil {
			return Conditions{}, err
		}
		c.Scheme = s
	}
	if port != 0 {
		if err := ValidatePort(port); err != nil {
			return Conditions{}, err
		}
		c.Port = port
	}
	c.Host = host

	return c, nil
}

// IsZero reports whether no condition is declared.
func (c Conditions) IsZero() bool {
	return c.Scheme == "" && c.Host == "" && c.Port == 0
}

// Inherit returns c with every unset field taken from parent.
func (c Conditions) Inherit(parent Conditions) Conditions {
	if c.Scheme == "" {
		c.Scheme = parent.Scheme
	}
	if c.Host == "" {
		c.Host = parent.Host
	}
	if c.Port == 0 {
		c.Port = parent.Port
	}

	return c
}

// EffectivePort returns the port the request must use, or 0 when the port is
// unconstrained. A port is unconstrained when no host is declared, when no
// port is declared, or when it equals the standard port of the declared
// scheme. Without a declared scheme the port is never elided.
func (c Conditions) EffectivePort() int {
	if c.Host == "" || c.Port == 0 {
		return 0
	}
	if c.Scheme != "" && c.Port == defaultPorts[c.Scheme] {
		return 0
	}

	return c.Port
}

// Matches reports whether u satisfies every declared condition.
// The request port is u's explicit port or, when absent, the standard port
// of u's scheme. Hosts are compared case-insensitively.
func (c Conditions) Matches(u *url.URL) bool {
	if c.IsZero() {
		return true
	}
	if u == nil {
		return false
	}

	if c.Scheme != "" && c.Scheme != strings.ToLower(u.Scheme) {
		return false
	}
	if c.Host != "" && !strings.EqualFold(c.Host, u.Hostname()) {
		return false
	}
	if want := c.EffectivePort(); want != 0 && want != requestPort(u) {
		return false
	}

	return true
}

// String renders the conditions as "scheme://host:port" with unset parts omitted.
func (c Conditions) String() string {
	if c.IsZero() {
		return ""
	}

	var sb strings.Builder
	if c.Scheme != "" {
		sb.WriteString(c.Scheme)
		sb.WriteString("://")
	}
	sb.WriteString(c.Host)
	if p := c.EffectivePort(); p != 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p))
	}

	return sb.String()
}

func requestPort(u *url.URL) int {
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		return n
	}

	return DefaultPort(u.Scheme)
}
