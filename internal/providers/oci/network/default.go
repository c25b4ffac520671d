package ocinetwork

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oracle/oci-go-sdk/v65/core"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
	"github.com/pankaj-dahiya-devops/netexpose/internal/providers/oci/common"
)

// DefaultNetworkCollector is the production NetworkCollector. It follows
// opc-next-page tokens until every page has been read.
type DefaultNetworkCollector struct {
	client common.VirtualNetworkClient
}

// NewDefaultNetworkCollector returns a collector reading through client.
func NewDefaultNetworkCollector(client common.VirtualNetworkClient) *DefaultNetworkCollector {
	return &DefaultNetworkCollector{client: client}
}

// CollectSecurityLists implements NetworkCollector.
func (c *DefaultNetworkCollector) CollectSecurityLists(ctx context.Context, compartmentID string) ([]models.SecurityList, error) {
	var (
		lists []models.SecurityList
		page  *string
	)
	for {
		resp, err := c.client.ListSecurityLists(ctx, core.ListSecurityListsRequest{
			CompartmentId:   &compartmentID,
			Page:            page,
			RequestMetadata: common.NoRetry(),
		})
		if err != nil {
			return nil, fmt.Errorf("list security lists in %q: %w", compartmentID, err)
		}
		slog.Debug("Listed security lists", "compartment", compartmentID, "page", deref(page), "count", len(resp.Items))
		for _, sl := range resp.Items {
			lists = append(lists, convertSecurityList(sl))
		}
		if resp.OpcNextPage == nil {
			return lists, nil
		}
		page = resp.OpcNextPage
	}
}

// CollectSecurityGroups implements NetworkCollector. Rules are listed per
// NSG after the NSG listing completes.
func (c *DefaultNetworkCollector) CollectSecurityGroups(ctx context.Context, compartmentID string) ([]models.NetworkSecurityGroup, error) {
	var (
		groups []models.NetworkSecurityGroup
		page   *string
	)
	for {
		resp, err := c.client.ListNetworkSecurityGroups(ctx, core.ListNetworkSecurityGroupsRequest{
			CompartmentId:   &compartmentID,
			Page:            page,
			RequestMetadata: common.NoRetry(),
		})
		if err != nil {
			return nil, fmt.Errorf("list network security groups in %q: %w", compartmentID, err)
		}
		slog.Debug("Listed network security groups", "compartment", compartmentID, "page", deref(page), "count", len(resp.Items))
		for _, nsg := range resp.Items {
			groups = append(groups, models.NetworkSecurityGroup{
				ID:          deref(nsg.Id),
				DisplayName: deref(nsg.DisplayName),
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	for i := range groups {
		rules, err := c.collectSecurityGroupRules(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Rules = rules
	}
	return groups, nil
}

func (c *DefaultNetworkCollector) collectSecurityGroupRules(ctx context.Context, nsgID string) ([]models.SecurityRule, error) {
	var (
		rules []models.SecurityRule
		page  *string
	)
	for {
		resp, err := c.client.ListNetworkSecurityGroupSecurityRules(ctx, core.ListNetworkSecurityGroupSecurityRulesRequest{
			NetworkSecurityGroupId: &nsgID,
			Page:                   page,
			RequestMetadata:        common.NoRetry(),
		})
		if err != nil {
			return nil, fmt.Errorf("list security rules of NSG %q: %w", nsgID, err)
		}
		slog.Debug("Listed NSG security rules", "nsg", nsgID, "page", deref(page), "count", len(resp.Items))
		for _, r := range resp.Items {
			rules = append(rules, convertNSGRule(r))
		}
		if resp.OpcNextPage == nil {
			return rules, nil
		}
		page = resp.OpcNextPage
	}
}
