package rules

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
)

// SensitivePort is one entry of the sensitive port table.
type SensitivePort struct {
	Port  uint16
	Label string
}

// PortTable is an ordered list of sensitive ports. Notes list matched ports
// in table order, not numeric order.
type PortTable []SensitivePort

// DefaultPortTable returns the built-in table: SSH, RDP, HTTP, HTTPS.
func DefaultPortTable() PortTable {
	return PortTable{
		{Port: 22, Label: "SSH"},
		{Port: 3389, Label: "RDP"},
		{Port: 80, Label: "HTTP"},
		{Port: 443, Label: "HTTPS"},
	}
}

// PortTableFromPolicy returns the table configured in cfg, or the default
// table when cfg is nil or configures no ports. Entries outside 1-65535 are
// skipped.
func PortTableFromPolicy(cfg *policy.PolicyConfig) PortTable {
	if cfg == nil || len(cfg.SensitivePorts) == 0 {
		return DefaultPortTable()
	}
	table := make(PortTable, 0, len(cfg.SensitivePorts))
	for _, p := range cfg.SensitivePorts {
		if !validPort(p.Port) {
			continue
		}
		table = append(table, SensitivePort{Port: uint16(p.Port), Label: p.Label})
	}
	return table
}

// Hits returns every table entry inside span, formatted as "LABEL(port)",
// in table order.
func (t PortTable) Hits(span PortSpan) []string {
	var hits []string
	for _, sp := range t {
		if span.Min <= sp.Port && sp.Port <= span.Max {
			hits = append(hits, fmt.Sprintf("%s(%d)", sp.Label, sp.Port))
		}
	}
	return hits
}

// Classification is the classifier verdict for one exposed rule.
type Classification struct {
	Risk  models.Risk
	Ports string
	Note  string
}

// Classify assigns a risk to a rule already accepted by the exposure
// predicate. scope prefixes the note ("Ingress", "NSG ingress").
//
// No port range is HIGH. A bounded range is MEDIUM when it covers at least one
// sensitive port, however many; otherwise there is no finding.
func (t PortTable) Classify(c CanonicalRule, scope string) (Classification, bool) {
	if c.Ports == nil {
		return Classification{
			Risk:  models.RiskHigh,
			Ports: models.PortsAll,
			Note:  fmt.Sprintf("%s from %s with no TCP destination port range specified.", scope, c.Source),
		}, true
	}

	hits := t.Hits(*c.Ports)
	if len(hits) == 0 {
		return Classification{}, false
	}
	return Classification{
		Risk:  models.RiskMedium,
		Ports: fmt.Sprintf("%d-%d", c.Ports.Min, c.Ports.Max),
		Note:  fmt.Sprintf("%s from %s on %s.", scope, c.Source, strings.Join(hits, ", ")),
	}, true
}
