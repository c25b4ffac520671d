package rules

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
)

func world(min, max uint16) CanonicalRule {
	return CanonicalRule{Protocol: ProtocolTCP, Source: WorldCIDR, Ports: &PortSpan{Min: min, Max: max}}
}

func TestClassify_NoRangeIsHigh(t *testing.T) {
	cl, ok := DefaultPortTable().Classify(CanonicalRule{Protocol: ProtocolTCP, Source: WorldCIDR}, ScopeSecurityList)
	if !ok {
		t.Fatal("want a finding")
	}
	if cl.Risk != models.RiskHigh || cl.Ports != "ALL" {
		t.Errorf("got %+v; want HIGH/ALL", cl)
	}
	want := "Ingress from 0.0.0.0/0 with no TCP destination port range specified."
	if cl.Note != want {
		t.Errorf("note: got %q; want %q", cl.Note, want)
	}
}

func TestClassify_NSGScope(t *testing.T) {
	cl, _ := DefaultPortTable().Classify(CanonicalRule{Protocol: ProtocolTCP, Source: WorldCIDR}, ScopeNSG)
	want := "NSG ingress from 0.0.0.0/0 with no TCP destination port range specified."
	if cl.Note != want {
		t.Errorf("note: got %q; want %q", cl.Note, want)
	}
}

func TestClassify_SSHRange(t *testing.T) {
	cl, ok := DefaultPortTable().Classify(world(20, 25), ScopeSecurityList)
	if !ok {
		t.Fatal("want a finding")
	}
	if cl.Risk != models.RiskMedium || cl.Ports != "20-25" {
		t.Errorf("got %+v; want MEDIUM/20-25", cl)
	}
	if cl.Note != "Ingress from 0.0.0.0/0 on SSH(22)." {
		t.Errorf("note: got %q", cl.Note)
	}
}

func TestClassify_NoSensitivePort(t *testing.T) {
	if cl, ok := DefaultPortTable().Classify(world(5000, 5001), ScopeSecurityList); ok {
		t.Errorf("want no finding, got %+v", cl)
	}
}

// TestClassify_TableOrder verifies labels follow table order (22, 3389, 80,
// 443), not numeric order.
func TestClassify_TableOrder(t *testing.T) {
	cl, _ := DefaultPortTable().Classify(world(22, 3389), ScopeSecurityList)
	want := "Ingress from 0.0.0.0/0 on SSH(22), RDP(3389), HTTP(80), HTTPS(443)."
	if cl.Note != want {
		t.Errorf("note: got %q; want %q", cl.Note, want)
	}
	if strings.Index(cl.Note, "SSH(22)") > strings.Index(cl.Note, "RDP(3389)") {
		t.Error("SSH must precede RDP")
	}
}

// TestClassify_BreadthDoesNotRaiseRisk verifies a range covering every
// sensitive port is still MEDIUM.
func TestClassify_BreadthDoesNotRaiseRisk(t *testing.T) {
	cl, _ := DefaultPortTable().Classify(world(1, 65535), ScopeNSG)
	if cl.Risk != models.RiskMedium {
		t.Errorf("risk: got %q; want MEDIUM", cl.Risk)
	}
	if cl.Ports != "1-65535" {
		t.Errorf("ports: got %q", cl.Ports)
	}
}

func TestClassify_SinglePortBoundaries(t *testing.T) {
	table := DefaultPortTable()
	if _, ok := table.Classify(world(443, 443), ScopeSecurityList); !ok {
		t.Error("443-443 must match HTTPS")
	}
	if _, ok := table.Classify(world(23, 79), ScopeSecurityList); ok {
		t.Error("23-79 covers no sensitive port")
	}
}

func TestPortTableFromPolicy(t *testing.T) {
	if got := PortTableFromPolicy(nil); len(got) != 4 || got[0].Label != "SSH" {
		t.Errorf("nil policy must yield default table, got %+v", got)
	}

	cfg := &policy.PolicyConfig{SensitivePorts: []policy.PortConfig{
		{Port: 5432, Label: "POSTGRES"},
		{Port: 22, Label: "SSH"},
	}}
	table := PortTableFromPolicy(cfg)
	cl, ok := table.Classify(world(1, 10000), ScopeSecurityList)
	if !ok {
		t.Fatal("want a finding")
	}
	if cl.Note != "Ingress from 0.0.0.0/0 on POSTGRES(5432), SSH(22)." {
		t.Errorf("note: got %q", cl.Note)
	}
	if _, ok := table.Classify(world(80, 80), ScopeSecurityList); ok {
		t.Error("HTTP is not in the configured table")
	}
}

func TestPortTableFromPolicy_SkipsOutOfRangePorts(t *testing.T) {
	cfg := &policy.PolicyConfig{SensitivePorts: []policy.PortConfig{
		{Port: 65558, Label: "WRAP"},
		{Port: 0, Label: "ZERO"},
		{Port: -1, Label: "NEG"},
		{Port: 8080, Label: "ALT"},
	}}
	table := PortTableFromPolicy(cfg)
	if len(table) != 1 || table[0] != (SensitivePort{Port: 8080, Label: "ALT"}) {
		t.Fatalf("got %+v; want only ALT(8080)", table)
	}
	if hits := table.Hits(PortSpan{Min: 1, Max: 100}); len(hits) != 0 {
		t.Errorf("wrapped ports must not match low ranges, got %v", hits)
	}
}
