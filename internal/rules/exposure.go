package rules

import (
	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// Note prefixes per resource type.
const (
	ScopeSecurityList = "Ingress"
	ScopeNSG          = "NSG ingress"
)

// Resource identifies the access-control object enclosing a rule. It is
// threaded through evaluation only to build findings.
type Resource struct {
	Type  models.ResourceType
	Name  string
	ID    string
	Scope string
}

// Evaluator runs Normalizer, Predicate and Classifier for one rule. It is
// shared by every resource type so the decision logic exists once.
type Evaluator struct {
	Predicate ExposurePredicate
	Ports     PortTable
}

// NewEvaluator returns an Evaluator using WorldOpenTCP and ports.
// A nil ports selects DefaultPortTable.
func NewEvaluator(ports PortTable) *Evaluator {
	if ports == nil {
		ports = DefaultPortTable()
	}
	return &Evaluator{Predicate: WorldOpenTCP, Ports: ports}
}

// Evaluate returns the finding produced by rule inside res, if any.
func (e *Evaluator) Evaluate(res Resource, rule models.SecurityRule) (models.Finding, bool) {
	c, ok := Normalize(rule, e.Predicate)
	if !ok {
		return models.Finding{}, false
	}
	cl, ok := e.Ports.Classify(c, res.Scope)
	if !ok {
		return models.Finding{}, false
	}
	return models.Finding{
		ResourceType: res.Type,
		ResourceName: res.Name,
		ResourceID:   res.ID,
		RuleType:     models.RuleTypeIngress,
		Source:       c.Source,
		Protocol:     models.ProtocolTCP,
		Ports:        cl.Ports,
		Risk:         cl.Risk,
		Note:         cl.Note,
	}, true
}

// SecurityListExposureRule flags security-list ingress rules that open a
// sensitive port (or every port) on TCP to 0.0.0.0/0. Every matching rule
// produces its own finding; nothing is deduplicated.
type SecurityListExposureRule struct {
	Evaluator *Evaluator
}

func (r SecurityListExposureRule) ID() string   { return "SECURITY_LIST_WORLD_INGRESS" }
func (r SecurityListExposureRule) Name() string { return "Security List Open To The Internet" }

// Evaluate walks every security list and its ingress rules in listing order.
func (r SecurityListExposureRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Inventory == nil {
		return nil
	}
	ev := r.evaluator()
	var findings []models.Finding
	for _, sl := range ctx.Inventory.SecurityLists {
		res := Resource{Type: models.ResourceSecurityList, Name: sl.DisplayName, ID: sl.ID, Scope: ScopeSecurityList}
		for _, rule := range sl.IngressRules {
			if f, ok := ev.Evaluate(res, rule); ok {
				findings = append(findings, f)
			}
		}
	}
	return findings
}

func (r SecurityListExposureRule) evaluator() *Evaluator {
	if r.Evaluator == nil {
		return NewEvaluator(nil)
	}
	return r.Evaluator
}

// NSGExposureRule applies the same checks to NSG security rules. NSG rules
// of both directions share one collection, so egress rules are dropped first.
type NSGExposureRule struct {
	Evaluator *Evaluator
}

func (r NSGExposureRule) ID() string   { return "NSG_WORLD_INGRESS" }
func (r NSGExposureRule) Name() string { return "Network Security Group Open To The Internet" }

// Evaluate walks every NSG and its ingress rules in listing order.
func (r NSGExposureRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Inventory == nil {
		return nil
	}
	ev := r.evaluator()
	var findings []models.Finding
	for _, nsg := range ctx.Inventory.SecurityGroups {
		res := Resource{Type: models.ResourceNSG, Name: nsg.DisplayName, ID: nsg.ID, Scope: ScopeNSG}
		for _, rule := range nsg.Rules {
			if rule.Direction != models.DirectionIngress {
				continue
			}
			if f, ok := ev.Evaluate(res, rule); ok {
				findings = append(findings, f)
			}
		}
	}
	return findings
}

func (r NSGExposureRule) evaluator() *Evaluator {
	if r.Evaluator == nil {
		return NewEvaluator(nil)
	}
	return r.Evaluator
}
