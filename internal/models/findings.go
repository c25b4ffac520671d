package models

import "time"

// Risk represents the severity assigned to an exposed ingress rule.
type Risk string

const (
	// RiskHigh is reserved for world-open TCP rules with no destination port range.
	RiskHigh Risk = "HIGH"
	// RiskMedium covers bounded port ranges that include a sensitive port.
	RiskMedium Risk = "MEDIUM"
)

// riskRank orders risks for threshold comparisons. Unknown values rank 0.
var riskRank = map[Risk]int{
	RiskHigh:   2,
	RiskMedium: 1,
}

// Rank returns the ordinal weight of r (HIGH > MEDIUM). Unknown risks return 0.
func (r Risk) Rank() int {
	return riskRank[r]
}

// ResourceType identifies the kind of access-control object a finding refers to.
type ResourceType string

const (
	ResourceSecurityList ResourceType = "security_list"
	ResourceNSG          ResourceType = "nsg"
)

// Fixed values carried by every finding.
const (
	RuleTypeIngress = "ingress"
	ProtocolTCP     = "TCP"
	PortsAll        = "ALL"
)

// Finding is one ingress rule that exposes a sensitive service to the public
// internet. Findings are never modified after the classifier creates them;
// their identity is their position in the report.
type Finding struct {
	ResourceType ResourceType `json:"resource_type"`
	ResourceName string       `json:"resource_name"`
	ResourceID   string       `json:"resource_ocid"`
	RuleType     string       `json:"rule_type"`
	Source       string       `json:"source"`
	Protocol     string       `json:"protocol"`
	Ports        string       `json:"ports"`
	Risk         Risk         `json:"risk"`
	Note         string       `json:"note"`
}

// ScanSummary aggregates counts across all findings of a report.
type ScanSummary struct {
	TotalFindings  int `json:"total_findings"`
	HighFindings   int `json:"high_findings"`
	MediumFindings int `json:"medium_findings"`
}

// Report is the single output of one scan invocation. Findings are ordered
// security lists first, then NSGs, each in listing order.
type Report struct {
	GeneratedAt   time.Time `json:"generated_at"`
	CompartmentID string    `json:"compartment_id"`
	Findings      []Finding `json:"findings"`
}

// Summary computes per-risk counts for r.
func (r *Report) Summary() ScanSummary {
	s := ScanSummary{TotalFindings: len(r.Findings)}
	for _, f := range r.Findings {
		switch f.Risk {
		case RiskHigh:
			s.HighFindings++
		case RiskMedium:
			s.MediumFindings++
		}
	}
	return s
}
