package common

import (
	"context"

	ocicommon "github.com/oracle/oci-go-sdk/v65/common"
)

// AuthMethod selects how OCI credentials are resolved.
type AuthMethod string

const (
	// AuthConfigFile reads an API-key profile from an OCI CLI config file.
	AuthConfigFile AuthMethod = "config_file"
	// AuthInstancePrincipal uses the identity of the compute instance.
	AuthInstancePrincipal AuthMethod = "instance_principal"
)

// AuthConfig describes where credentials come from.
type AuthConfig struct {
	Method AuthMethod

	// ConfigFile is the OCI config file path. Empty means ~/.oci/config.
	// Ignored for instance principals.
	ConfigFile string

	// Profile is the config file section. Empty means DEFAULT.
	Profile string
}

// TenancyConfig is a resolved credential source with its initialised
// service clients. It is the unit passed between provider functions and
// into the engine.
type TenancyConfig struct {
	// ProfileName is the config file profile, or "instance_principal".
	ProfileName string

	// Region is the home region the clients are bound to.
	Region string

	// Provider is the SDK configuration provider backing Clients.
	Provider ocicommon.ConfigurationProvider

	// Clients holds initialised service clients for Region.
	Clients *ClientSet
}

// OCIClientProvider loads OCI credentials and resolves account-level
// settings. It is the sole entry point for OCI credential management across
// the provider layer.
type OCIClientProvider interface {
	// Load resolves credentials described by auth and builds the client set.
	Load(ctx context.Context, auth AuthConfig) (*TenancyConfig, error)

	// Namespace returns the Object Storage namespace of the tenancy.
	Namespace(ctx context.Context, cfg *TenancyConfig) (string, error)
}
