package rules

import (
	"reflect"
	"testing"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
)

func testInventory() *models.NetworkInventory {
	return &models.NetworkInventory{
		CompartmentID: "ocid1.compartment.oc1..test",
		SecurityLists: []models.SecurityList{
			{
				ID:          "ocid1.securitylist.oc1..a",
				DisplayName: "public-subnet",
				IngressRules: []models.SecurityRule{
					tcpRule(WorldCIDR, nil),
					tcpRule(WorldCIDR, &models.PortRange{Min: 5000, Max: 5001}),
					{Protocol: "17", Source: WorldCIDR},
					tcpRule("10.0.0.0/16", &models.PortRange{Min: 22, Max: 22}),
					tcpRule(WorldCIDR, &models.PortRange{Min: 443, Max: 443}),
				},
			},
			{ID: "ocid1.securitylist.oc1..empty", DisplayName: "empty"},
		},
		SecurityGroups: []models.NetworkSecurityGroup{
			{
				ID:          "ocid1.networksecuritygroup.oc1..n",
				DisplayName: "web-nsg",
				Rules: []models.SecurityRule{
					{Protocol: "6", Source: WorldCIDR, Direction: models.DirectionEgress},
					{Protocol: "6", Source: WorldCIDR, Direction: models.DirectionIngress, TCPDestination: &models.PortRange{Min: 20, Max: 25}},
					{Protocol: "all", Source: WorldCIDR, Direction: models.DirectionIngress},
				},
			},
		},
	}
}

func TestSecurityListExposureRule_ID(t *testing.T) {
	if (SecurityListExposureRule{}).ID() != "SECURITY_LIST_WORLD_INGRESS" {
		t.Error("unexpected rule ID")
	}
}

func TestSecurityListExposureRule_NilInventory(t *testing.T) {
	if findings := (SecurityListExposureRule{}).Evaluate(RuleContext{}); findings != nil {
		t.Errorf("want nil with nil Inventory, got %v", findings)
	}
}

func TestSecurityListExposureRule_Findings(t *testing.T) {
	findings := SecurityListExposureRule{}.Evaluate(RuleContext{Inventory: testInventory()})
	want := []models.Finding{
		{
			ResourceType: models.ResourceSecurityList,
			ResourceName: "public-subnet",
			ResourceID:   "ocid1.securitylist.oc1..a",
			RuleType:     "ingress",
			Source:       WorldCIDR,
			Protocol:     "TCP",
			Ports:        "ALL",
			Risk:         models.RiskHigh,
			Note:         "Ingress from 0.0.0.0/0 with no TCP destination port range specified.",
		},
		{
			ResourceType: models.ResourceSecurityList,
			ResourceName: "public-subnet",
			ResourceID:   "ocid1.securitylist.oc1..a",
			RuleType:     "ingress",
			Source:       WorldCIDR,
			Protocol:     "TCP",
			Ports:        "443-443",
			Risk:         models.RiskMedium,
			Note:         "Ingress from 0.0.0.0/0 on HTTPS(443).",
		},
	}
	if !reflect.DeepEqual(findings, want) {
		t.Errorf("findings mismatch\ngot:  %+v\nwant: %+v", findings, want)
	}
}

// TestNSGExposureRule_EgressIgnored verifies an egress rule is never
// evaluated even though it matches every exposure criterion.
func TestNSGExposureRule_EgressIgnored(t *testing.T) {
	inv := &models.NetworkInventory{SecurityGroups: []models.NetworkSecurityGroup{{
		ID: "nsg-1", DisplayName: "out",
		Rules: []models.SecurityRule{{Protocol: "6", Source: WorldCIDR, Direction: models.DirectionEgress}},
	}}}
	if findings := (NSGExposureRule{}).Evaluate(RuleContext{Inventory: inv}); len(findings) != 0 {
		t.Errorf("want 0 findings for egress rule, got %d", len(findings))
	}
}

func TestNSGExposureRule_Findings(t *testing.T) {
	findings := NSGExposureRule{}.Evaluate(RuleContext{Inventory: testInventory()})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.ResourceType != models.ResourceNSG || f.ResourceName != "web-nsg" {
		t.Errorf("unexpected resource: %+v", f)
	}
	if f.Risk != models.RiskMedium || f.Ports != "20-25" {
		t.Errorf("got %s/%s; want MEDIUM/20-25", f.Risk, f.Ports)
	}
	if f.Note != "NSG ingress from 0.0.0.0/0 on SSH(22)." {
		t.Errorf("note: got %q", f.Note)
	}
}

func TestRegistry_OrderAndPolicy(t *testing.T) {
	reg := exposureRegistry(NewEvaluator(nil))
	ctx := RuleContext{Inventory: testInventory()}

	findings := reg.EvaluateAll(ctx)
	if len(findings) != 3 {
		t.Fatalf("want 3 findings, got %d", len(findings))
	}
	if findings[0].ResourceType != models.ResourceSecurityList || findings[2].ResourceType != models.ResourceNSG {
		t.Errorf("security lists must precede NSGs: %+v", findings)
	}

	off := false
	ctx.Policy = &policy.PolicyConfig{Rules: map[string]policy.RuleConfig{
		"SECURITY_LIST_WORLD_INGRESS": {Enabled: &off},
	}}
	findings = reg.EvaluateAll(ctx)
	if len(findings) != 1 || findings[0].ResourceType != models.ResourceNSG {
		t.Errorf("disabled rule must not run, got %+v", findings)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("want panic on duplicate rule ID")
		}
	}()
	reg := NewDefaultRuleRegistry()
	reg.Register(NSGExposureRule{})
	reg.Register(NSGExposureRule{})
}

func TestRegistry_Idempotent(t *testing.T) {
	reg := exposureRegistry(NewEvaluator(nil))
	ctx := RuleContext{Inventory: testInventory()}
	first := reg.EvaluateAll(ctx)
	second := reg.EvaluateAll(ctx)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated evaluation must yield identical findings")
	}
}

func exposureRegistry(ev *Evaluator) *DefaultRuleRegistry {
	reg := NewDefaultRuleRegistry()
	reg.Register(SecurityListExposureRule{Evaluator: ev})
	reg.Register(NSGExposureRule{Evaluator: ev})
	return reg
}
