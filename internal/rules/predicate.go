package rules

// ExposurePredicate reports whether a canonical rule is reachable from the
// public internet and therefore worth classifying.
type ExposurePredicate func(CanonicalRule) bool

// WorldOpenTCP accepts TCP rules whose source is exactly 0.0.0.0/0.
// The "all protocols" wildcard and IPv6 ::/0 are not considered exposed.
func WorldOpenTCP(c CanonicalRule) bool {
	return c.Protocol == ProtocolTCP && c.Source == WorldCIDR
}
