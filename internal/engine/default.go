package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
	ocinetwork "github.com/pankaj-dahiya-devops/netexpose/internal/providers/oci/network"
	"github.com/pankaj-dahiya-devops/netexpose/internal/rulepacks/exposure"
	"github.com/pankaj-dahiya-devops/netexpose/internal/rules"
)

// DefaultEngine implements Engine. Each scan collects one resource type into
// a partial inventory and runs the whole registry over it; rules for the
// other resource type find nothing to evaluate.
type DefaultEngine struct {
	collector ocinetwork.NetworkCollector
	registry  rules.RuleRegistry
	policy    *policy.PolicyConfig
	now       func() time.Time
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied
// collector, rule registry and optional policy.
func NewDefaultEngine(
	collector ocinetwork.NetworkCollector,
	registry rules.RuleRegistry,
	policyCfg *policy.PolicyConfig,
) *DefaultEngine {
	return &DefaultEngine{
		collector: collector,
		registry:  registry,
		policy:    policyCfg,
		now:       time.Now,
	}
}

// NewEngineForPolicy builds the standard registry from policyCfg (port
// table, rule toggles) and returns an engine using it.
func NewEngineForPolicy(collector ocinetwork.NetworkCollector, policyCfg *policy.PolicyConfig) *DefaultEngine {
	ev := rules.NewEvaluator(rules.PortTableFromPolicy(policyCfg))
	return NewDefaultEngine(collector, exposure.NewRegistry(ev), policyCfg)
}

// ScanSecurityLists implements Engine.
func (e *DefaultEngine) ScanSecurityLists(ctx context.Context, compartmentID string) ([]models.Finding, error) {
	lists, err := e.collector.CollectSecurityLists(ctx, compartmentID)
	if err != nil {
		return nil, fmt.Errorf("scan security lists: %w", err)
	}
	findings := e.evaluate(&models.NetworkInventory{CompartmentID: compartmentID, SecurityLists: lists})
	slog.Info("Scanned security lists", "compartment", compartmentID, "security_lists", len(lists), "findings", len(findings))
	return findings, nil
}

// ScanNSGs implements Engine.
func (e *DefaultEngine) ScanNSGs(ctx context.Context, compartmentID string) ([]models.Finding, error) {
	groups, err := e.collector.CollectSecurityGroups(ctx, compartmentID)
	if err != nil {
		return nil, fmt.Errorf("scan network security groups: %w", err)
	}
	findings := e.evaluate(&models.NetworkInventory{CompartmentID: compartmentID, SecurityGroups: groups})
	slog.Info("Scanned network security groups", "compartment", compartmentID, "nsgs", len(groups), "findings", len(findings))
	return findings, nil
}

// Scan implements Engine. Security list findings always precede NSG
// findings. The returned Findings slice is never nil.
func (e *DefaultEngine) Scan(ctx context.Context, opts ScanOptions) (*models.Report, error) {
	if opts.CompartmentID == "" {
		return nil, fmt.Errorf("scan: compartment ID is required")
	}

	findings := make([]models.Finding, 0)

	sl, err := e.ScanSecurityLists(ctx, opts.CompartmentID)
	if err != nil {
		return nil, err
	}
	findings = append(findings, sl...)

	nsg, err := e.ScanNSGs(ctx, opts.CompartmentID)
	if err != nil {
		return nil, err
	}
	findings = append(findings, nsg...)

	return &models.Report{
		GeneratedAt:   e.now().UTC(),
		CompartmentID: opts.CompartmentID,
		Findings:      findings,
	}, nil
}

func (e *DefaultEngine) evaluate(inv *models.NetworkInventory) []models.Finding {
	return e.registry.EvaluateAll(rules.RuleContext{
		CompartmentID: inv.CompartmentID,
		Inventory:     inv,
		Policy:        e.policy,
	})
}
