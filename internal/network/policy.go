// Package network turns network specs into the egress policy handed to a
// project's containers. A spec is a toolchain name, a hostname, a zone
// ("*.example.com"), or one of the mode keywords "all" and "none".
package network

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects how the container firewall treats outbound traffic.
type Mode string

const (
	ModeOpen       Mode = "all"
	ModeBlocked    Mode = "none"
	ModeRestricted Mode = "restricted"
)

// Environment variables read by the container firewall.
const (
	EnvMode      = "CLAUDEBOX_NETWORK"
	EnvDomains   = "CLAUDEBOX_ALLOWED_DOMAINS"
	EnvWildcards = "CLAUDEBOX_ALLOWED_WILDCARDS"
)

const zonePrefix = "*."

// toolchains maps a shorthand to the hosts its package tooling talks to.
var toolchains = map[string][]string{
	"anthropic": {"api.anthropic.com", "statsig.anthropic.com", "sentry.io"},
	"github":    {"github.com", "api.github.com", "raw.githubusercontent.com", "objects.githubusercontent.com"},
	"npm":       {"registry.npmjs.org", "npmjs.com"},
	"pypi":      {"pypi.org", "files.pythonhosted.org"},
	"golang":    {"proxy.golang.org", "sum.golang.org", "go.dev"},
	"rust":      {"crates.io", "index.crates.io", "static.crates.io", "static.rust-lang.org"},
	"docker":    {"registry-1.docker.io", "auth.docker.io", "production.cloudflare.docker.com"},
}

// Policy is the resolved egress rule set for one container.
type Policy struct {
	Mode Mode
	// Hosts are exact hostnames, in first-seen order.
	Hosts []string
	// Zones are domains whose subdomains are reachable, without the "*." prefix.
	Zones []string
}

// Open reports whether the container runs without a firewall. A nil policy
// is open.
func (p *Policy) Open() bool {
	return p == nil || p.Mode == ModeOpen
}

// Blocked reports whether the container gets no network at all.
func (p *Policy) Blocked() bool {
	return p != nil && p.Mode == ModeBlocked
}

// IsZoneSpec reports whether spec is written as a zone ("*.example.com").
func IsZoneSpec(spec string) bool {
	return strings.HasPrefix(strings.TrimSpace(spec), zonePrefix)
}

// ParseZone validates a zone spec and returns the domain it covers. Only a
// single leading "*" label is accepted, over a domain of at least two
// non-empty labels.
func ParseZone(spec string) (string, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if !strings.HasPrefix(spec, zonePrefix) {
		return "", fmt.Errorf("zone %q must start with %q", spec, zonePrefix)
	}
	domain := spec[len(zonePrefix):]
	if strings.Contains(domain, "*") {
		return "", fmt.Errorf("zone %q: only the leading label may be a wildcard", spec)
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "", fmt.Errorf("zone %q covers a top-level domain", spec)
	}
	for _, label := range labels {
		if label == "" {
			return "", fmt.Errorf("zone %q has an empty label", spec)
		}
	}
	return domain, nil
}

// Parse resolves specs into a Policy. The first "all" or "none" decides the
// mode outright. With no usable specs the network is blocked. Invalid zones
// are skipped; anything else that is not a toolchain is taken as a hostname.
func Parse(specs []string) *Policy {
	p := &Policy{Mode: ModeRestricted}
	hosts := newOrderedSet()
	zones := newOrderedSet()
	seen := 0

	for _, raw := range specs {
		spec := strings.ToLower(strings.TrimSpace(raw))
		if spec == "" {
			continue
		}
		seen++

		switch Mode(spec) {
		case ModeOpen, ModeBlocked:
			return &Policy{Mode: Mode(spec)}
		}

		if tc, ok := toolchains[spec]; ok {
			hosts.add(tc...)
			continue
		}
		if IsZoneSpec(spec) {
			if domain, err := ParseZone(spec); err == nil {
				zones.add(domain)
			}
			continue
		}
		hosts.add(spec)
	}

	if seen == 0 {
		return &Policy{Mode: ModeBlocked}
	}
	p.Hosts = hosts.items
	p.Zones = zones.items
	return p
}

// Env renders the policy as container environment entries (KEY=value).
// Lists are sorted so equal policies render identically.
func (p *Policy) Env() []string {
	if p.Open() {
		return []string{EnvMode + "=" + string(ModeOpen)}
	}
	if p.Blocked() {
		return []string{EnvMode + "=" + string(ModeBlocked)}
	}

	return []string{
		EnvMode + "=" + string(ModeRestricted),
		EnvDomains + "=" + joinSorted(p.Hosts),
		EnvWildcards + "=" + joinSorted(p.Zones),
	}
}

func joinSorted(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

type orderedSet struct {
	items []string
	index map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, index: map[string]struct{}{}}
}

func (s *orderedSet) add(items ...string) {
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
}
