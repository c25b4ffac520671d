package ocinetwork

import (
	"github.com/oracle/oci-go-sdk/v65/core"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// convertSecurityList keeps the ingress rules of sl in API order. Egress
// rules are not collected.
func convertSecurityList(sl core.SecurityList) models.SecurityList {
	out := models.SecurityList{
		ID:           deref(sl.Id),
		DisplayName:  deref(sl.DisplayName),
		IngressRules: make([]models.SecurityRule, 0, len(sl.IngressSecurityRules)),
	}
	for _, r := range sl.IngressSecurityRules {
		out.IngressRules = append(out.IngressRules, models.SecurityRule{
			Protocol:       deref(r.Protocol),
			Source:         deref(r.Source),
			TCPDestination: tcpDestination(r.TcpOptions),
		})
	}
	return out
}

// convertNSGRule maps an NSG rule of either direction.
func convertNSGRule(r core.SecurityRule) models.SecurityRule {
	return models.SecurityRule{
		Protocol:       deref(r.Protocol),
		Source:         deref(r.Source),
		Direction:      string(r.Direction),
		TCPDestination: tcpDestination(r.TcpOptions),
	}
}

// tcpDestination returns nil unless both bounds of the destination range are
// present. TCP options without a destination range mean "all ports".
func tcpDestination(opts *core.TcpOptions) *models.PortRange {
	if opts == nil || opts.DestinationPortRange == nil {
		return nil
	}
	pr := opts.DestinationPortRange
	if pr.Min == nil || pr.Max == nil {
		return nil
	}
	return &models.PortRange{Min: *pr.Min, Max: *pr.Max}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
