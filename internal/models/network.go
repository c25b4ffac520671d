package models

// Protocol codes used by the OCI networking API. Codes are IANA protocol
// numbers rendered as strings; "all" is the wildcard for every protocol.
const (
	ProtocolCodeTCP = "6"
	ProtocolCodeAll = "all"
)

// Rule directions carried by NSG security rules.
const (
	DirectionIngress = "INGRESS"
	DirectionEgress  = "EGRESS"
)

// PortRange is an inclusive TCP destination port range as returned by the
// control plane. Values are kept as ints so that out-of-range data survives
// collection and can be judged by the normalizer.
type PortRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SecurityRule is a provider-neutral view of a single access-control rule.
// TCPDestination is nil when the rule carries no TCP options or when the TCP
// options lack a destination range. Direction is empty for security-list
// rules, which are split into ingress and egress collections by the API.
type SecurityRule struct {
	Protocol       string     `json:"protocol"`
	Source         string     `json:"source"`
	Direction      string     `json:"direction,omitempty"`
	TCPDestination *PortRange `json:"tcp_destination,omitempty"`
}

// SecurityList is a subnet-level rule set. Only its ingress rules are
// collected.
type SecurityList struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"display_name"`
	IngressRules []SecurityRule `json:"ingress_rules"`
}

// NetworkSecurityGroup is an NSG together with its full rule collection
// (both directions, in listing order).
type NetworkSecurityGroup struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Rules       []SecurityRule `json:"rules"`
}

// NetworkInventory is everything collected from one compartment.
type NetworkInventory struct {
	CompartmentID  string                 `json:"compartment_id"`
	SecurityLists  []SecurityList         `json:"security_lists"`
	SecurityGroups []NetworkSecurityGroup `json:"security_groups"`
}
