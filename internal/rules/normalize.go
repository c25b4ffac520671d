package rules

import "github.com/pankaj-dahiya-devops/netexpose/internal/models"

// WorldCIDR is the IPv4 range matching every address.
const WorldCIDR = "0.0.0.0/0"

// Protocol is the canonical protocol class of a rule.
type Protocol int

const (
	ProtocolOther Protocol = iota
	ProtocolTCP
)

// PortSpan is an inclusive destination port range. Min <= Max always holds.
type PortSpan struct {
	Min uint16
	Max uint16
}

// CanonicalRule is the provider-independent shape every rule is reduced to
// before evaluation. A nil Ports means every port of the protocol.
type CanonicalRule struct {
	Protocol Protocol
	Source   string
	Ports    *PortSpan
}

// Canonicalize converts a collected rule into canonical form. It never fails:
// a destination range that is inverted or outside 1-65535 is treated as
// absent, so malformed input lands in the "all ports" case.
func Canonicalize(r models.SecurityRule) CanonicalRule {
	c := CanonicalRule{
		Protocol: ProtocolOther,
		Source:   r.Source,
	}
	if r.Protocol == models.ProtocolCodeTCP {
		c.Protocol = ProtocolTCP
	}
	if pr := r.TCPDestination; pr != nil && validPort(pr.Min) && validPort(pr.Max) && pr.Min <= pr.Max {
		c.Ports = &PortSpan{Min: uint16(pr.Min), Max: uint16(pr.Max)}
	}
	return c
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// Normalize canonicalizes r and applies pred. The boolean is false when the
// rule must be skipped; a nil pred falls back to WorldOpenTCP.
func Normalize(r models.SecurityRule, pred ExposurePredicate) (CanonicalRule, bool) {
	if pred == nil {
		pred = WorldOpenTCP
	}
	c := Canonicalize(r)
	if !pred(c) {
		return CanonicalRule{}, false
	}
	return c, true
}
