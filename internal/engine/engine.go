package engine

import (
	"context"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// ScanOptions configures a single scan run.
type ScanOptions struct {
	// CompartmentID is the compartment whose security lists and NSGs are scanned.
	CompartmentID string
}

// Engine is the central orchestration interface.
// It coordinates collection and rule evaluation and returns a fully
// populated Report. It never renders or uploads anything.
//
// Engine must not call the OCI SDK directly; it delegates to the collector
// and rule interfaces.
type Engine interface {
	// ScanSecurityLists returns findings for every security list in the
	// compartment, in listing order.
	ScanSecurityLists(ctx context.Context, compartmentID string) ([]models.Finding, error)

	// ScanNSGs returns findings for every NSG in the compartment, in listing
	// order. Egress rules are never evaluated.
	ScanNSGs(ctx context.Context, compartmentID string) ([]models.Finding, error)

	// Scan runs ScanSecurityLists then ScanNSGs and stamps the result.
	Scan(ctx context.Context, opts ScanOptions) (*models.Report, error)
}
