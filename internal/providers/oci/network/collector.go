package ocinetwork

import (
	"context"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// NetworkCollector collects raw access-control data from one compartment.
//
// Implementations must never apply business logic or produce findings, and
// must preserve the order in which the control plane returns objects.
// Listing failures are fatal and returned unchanged in meaning; nothing is
// retried.
type NetworkCollector interface {
	// CollectSecurityLists returns every security list in the compartment
	// with its ingress rules.
	CollectSecurityLists(ctx context.Context, compartmentID string) ([]models.SecurityList, error)

	// CollectSecurityGroups returns every NSG in the compartment with its full
	// rule collection (both directions).
	CollectSecurityGroups(ctx context.Context, compartmentID string) ([]models.NetworkSecurityGroup, error)
}
