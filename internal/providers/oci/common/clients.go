package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ocicommon "github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
)

// ---------------------------------------------------------------------------
// Per-service client interfaces
//
// Each interface covers only the operations used by this project. Using narrow
// interfaces instead of the full SDK clients makes mocking in unit tests
// trivial: create a struct that satisfies the interface and return canned data.
// ---------------------------------------------------------------------------

// VirtualNetworkClient is the subset of core.VirtualNetworkClient used by
// the network collector. All operations are read-only.
type VirtualNetworkClient interface {
	ListSecurityLists(ctx context.Context, request core.ListSecurityListsRequest) (core.ListSecurityListsResponse, error)
	ListNetworkSecurityGroups(ctx context.Context, request core.ListNetworkSecurityGroupsRequest) (core.ListNetworkSecurityGroupsResponse, error)
	ListNetworkSecurityGroupSecurityRules(ctx context.Context, request core.ListNetworkSecurityGroupSecurityRulesRequest) (core.ListNetworkSecurityGroupSecurityRulesResponse, error)
}

// ObjectStorageClient is the subset of objectstorage.ObjectStorageClient used
// for namespace lookup and report upload.
type ObjectStorageClient interface {
	GetNamespace(ctx context.Context, request objectstorage.GetNamespaceRequest) (objectstorage.GetNamespaceResponse, error)
	GetBucket(ctx context.Context, request objectstorage.GetBucketRequest) (objectstorage.GetBucketResponse, error)
	CreateBucket(ctx context.Context, request objectstorage.CreateBucketRequest) (objectstorage.CreateBucketResponse, error)
	PutObject(ctx context.Context, request objectstorage.PutObjectRequest) (objectstorage.PutObjectResponse, error)
}

// ---------------------------------------------------------------------------
// ClientSet and ClientFactory
// ---------------------------------------------------------------------------

// ClientSet holds fully initialised OCI service clients for one credential
// source. All fields are interfaces so they can be replaced with fakes in
// tests without touching the network.
type ClientSet struct {
	VirtualNetwork VirtualNetworkClient
	ObjectStorage  ObjectStorageClient
}

// ClientFactory creates a ClientSet from a configuration provider.
// Swap this in tests to inject fake clients.
type ClientFactory func(p ocicommon.ConfigurationProvider) (*ClientSet, error)

// NewClientSet is the production ClientFactory.
func NewClientSet(p ocicommon.ConfigurationProvider) (*ClientSet, error) {
	vcn, err := core.NewVirtualNetworkClientWithConfigurationProvider(p)
	if err != nil {
		return nil, fmt.Errorf("create virtual network client: %w", err)
	}
	objStore, err := objectstorage.NewObjectStorageClientWithConfigurationProvider(p)
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}
	return &ClientSet{
		VirtualNetwork: vcn,
		ObjectStorage:  objStore,
	}, nil
}

// NoRetry returns request metadata that disables the SDK's built-in retry
// policy. Every control-plane call made by this project uses it: faults
// surface to the caller on the first failure.
func NoRetry() ocicommon.RequestMetadata {
	p := ocicommon.NoRetryPolicy()
	return ocicommon.RequestMetadata{RetryPolicy: &p}
}

// IsNotFound reports whether err wraps an OCI service error with HTTP 404.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err wraps an OCI service error with HTTP 409.
func IsConflict(err error) bool {
	return statusCode(err) == http.StatusConflict
}

func statusCode(err error) int {
	var se ocicommon.ServiceError
	if errors.As(err, &se) {
		return se.GetHTTPStatusCode()
	}
	return 0
}
