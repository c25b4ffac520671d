package ocinetwork

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

const compartment = "ocid1.compartment.oc1..test"

// MockVirtualNetworkClient is a mock implementation of common.VirtualNetworkClient
type MockVirtualNetworkClient struct {
	mock.Mock
}

func (m *MockVirtualNetworkClient) ListSecurityLists(ctx context.Context, request core.ListSecurityListsRequest) (core.ListSecurityListsResponse, error) {
	args := m.Called(ctx, deref(request.Page))
	return args.Get(0).(core.ListSecurityListsResponse), args.Error(1)
}

func (m *MockVirtualNetworkClient) ListNetworkSecurityGroups(ctx context.Context, request core.ListNetworkSecurityGroupsRequest) (core.ListNetworkSecurityGroupsResponse, error) {
	args := m.Called(ctx, deref(request.Page))
	return args.Get(0).(core.ListNetworkSecurityGroupsResponse), args.Error(1)
}

func (m *MockVirtualNetworkClient) ListNetworkSecurityGroupSecurityRules(ctx context.Context, request core.ListNetworkSecurityGroupSecurityRulesRequest) (core.ListNetworkSecurityGroupSecurityRulesResponse, error) {
	args := m.Called(ctx, *request.NetworkSecurityGroupId, deref(request.Page))
	return args.Get(0).(core.ListNetworkSecurityGroupSecurityRulesResponse), args.Error(1)
}

func tcpOpts(min, max int) *core.TcpOptions {
	return &core.TcpOptions{DestinationPortRange: &core.PortRange{Min: common.Int(min), Max: common.Int(max)}}
}

func TestCollectSecurityLists_Pagination(t *testing.T) {
	client := new(MockVirtualNetworkClient)
	ctx := context.Background()

	client.On("ListSecurityLists", ctx, "").Return(core.ListSecurityListsResponse{
		Items: []core.SecurityList{{
			Id:          common.String("sl-1"),
			DisplayName: common.String("public"),
			IngressSecurityRules: []core.IngressSecurityRule{
				{Protocol: common.String("6"), Source: common.String("0.0.0.0/0"), TcpOptions: tcpOpts(22, 22)},
				{Protocol: common.String("17"), Source: common.String("0.0.0.0/0")},
			},
		}},
		OpcNextPage: common.String("page-2"),
	}, nil).Once()
	client.On("ListSecurityLists", ctx, "page-2").Return(core.ListSecurityListsResponse{
		Items: []core.SecurityList{{Id: common.String("sl-2"), DisplayName: common.String("private")}},
	}, nil).Once()

	lists, err := NewDefaultNetworkCollector(client).CollectSecurityLists(ctx, compartment)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, "sl-1", lists[0].ID)
	assert.Equal(t, "public", lists[0].DisplayName)
	require.Len(t, lists[0].IngressRules, 2)
	assert.Equal(t, &models.PortRange{Min: 22, Max: 22}, lists[0].IngressRules[0].TCPDestination)
	assert.Nil(t, lists[0].IngressRules[1].TCPDestination)
	assert.Equal(t, "sl-2", lists[1].ID)
	assert.Empty(t, lists[1].IngressRules)

	client.AssertExpectations(t)
}

func TestCollectSecurityLists_Error(t *testing.T) {
	client := new(MockVirtualNetworkClient)
	ctx := context.Background()
	client.On("ListSecurityLists", ctx, "").Return(core.ListSecurityListsResponse{}, errors.New("429 TooManyRequests")).Once()

	_, err := NewDefaultNetworkCollector(client).CollectSecurityLists(ctx, compartment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), compartment)
	assert.Contains(t, err.Error(), "429")
	client.AssertNumberOfCalls(t, "ListSecurityLists", 1)
}

func TestCollectSecurityLists_Empty(t *testing.T) {
	client := new(MockVirtualNetworkClient)
	ctx := context.Background()
	client.On("ListSecurityLists", ctx, "").Return(core.ListSecurityListsResponse{}, nil).Once()

	lists, err := NewDefaultNetworkCollector(client).CollectSecurityLists(ctx, compartment)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestCollectSecurityGroups(t *testing.T) {
	client := new(MockVirtualNetworkClient)
	ctx := context.Background()

	client.On("ListNetworkSecurityGroups", ctx, "").Return(core.ListNetworkSecurityGroupsResponse{
		Items: []core.NetworkSecurityGroup{
			{Id: common.String("nsg-1"), DisplayName: common.String("web")},
			{Id: common.String("nsg-2"), DisplayName: common.String("db")},
		},
	}, nil).Once()
	client.On("ListNetworkSecurityGroupSecurityRules", ctx, "nsg-1", "").Return(core.ListNetworkSecurityGroupSecurityRulesResponse{
		Items: []core.SecurityRule{
			{Direction: core.SecurityRuleDirectionEgress, Protocol: common.String("all"), Destination: common.String("0.0.0.0/0")},
		},
		OpcNextPage: common.String("p2"),
	}, nil).Once()
	client.On("ListNetworkSecurityGroupSecurityRules", ctx, "nsg-1", "p2").Return(core.ListNetworkSecurityGroupSecurityRulesResponse{
		Items: []core.SecurityRule{
			{Direction: core.SecurityRuleDirectionIngress, Protocol: common.String("6"), Source: common.String("0.0.0.0/0"), TcpOptions: &core.TcpOptions{}},
		},
	}, nil).Once()
	client.On("ListNetworkSecurityGroupSecurityRules", ctx, "nsg-2", "").Return(core.ListNetworkSecurityGroupSecurityRulesResponse{}, nil).Once()

	groups, err := NewDefaultNetworkCollector(client).CollectSecurityGroups(ctx, compartment)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	require.Len(t, groups[0].Rules, 2)
	assert.Equal(t, models.DirectionEgress, groups[0].Rules[0].Direction)
	assert.Equal(t, models.DirectionIngress, groups[0].Rules[1].Direction)
	// TCP options without a destination range collapse to "all ports".
	assert.Nil(t, groups[0].Rules[1].TCPDestination)
	assert.Equal(t, "db", groups[1].DisplayName)
	assert.Empty(t, groups[1].Rules)

	client.AssertExpectations(t)
}

func TestCollectSecurityGroups_RuleListingFails(t *testing.T) {
	client := new(MockVirtualNetworkClient)
	ctx := context.Background()

	client.On("ListNetworkSecurityGroups", ctx, "").Return(core.ListNetworkSecurityGroupsResponse{
		Items: []core.NetworkSecurityGroup{{Id: common.String("nsg-1")}},
	}, nil).Once()
	client.On("ListNetworkSecurityGroupSecurityRules", ctx, "nsg-1", "").Return(core.ListNetworkSecurityGroupSecurityRulesResponse{}, errors.New("timeout")).Once()

	_, err := NewDefaultNetworkCollector(client).CollectSecurityGroups(ctx, compartment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nsg-1")
}

func TestTCPDestination(t *testing.T) {
	assert.Nil(t, tcpDestination(nil))
	assert.Nil(t, tcpDestination(&core.TcpOptions{}))
	assert.Nil(t, tcpDestination(&core.TcpOptions{DestinationPortRange: &core.PortRange{Min: common.Int(80)}}))
	assert.Equal(t, &models.PortRange{Min: 80, Max: 443}, tcpDestination(tcpOpts(80, 443)))
}

func TestCollectSecurityLists_LogsPageTokens(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	client := new(MockVirtualNetworkClient)
	ctx := context.Background()
	client.On("ListSecurityLists", ctx, "").Return(core.ListSecurityListsResponse{
		Items:       []core.SecurityList{{Id: common.String("sl-1")}},
		OpcNextPage: common.String("page-2"),
	}, nil).Once()
	client.On("ListSecurityLists", ctx, "page-2").Return(core.ListSecurityListsResponse{}, nil).Once()

	_, err := NewDefaultNetworkCollector(client).CollectSecurityLists(ctx, compartment)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, `page=""`)
	assert.Contains(t, logs, "page=page-2")
	assert.Contains(t, logs, "compartment="+compartment)
}
