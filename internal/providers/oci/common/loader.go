package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ocicommon "github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/common/auth"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
)

const defaultProfile = "DEFAULT"

// DefaultOCIClientProvider is the production implementation of
// OCIClientProvider. It reads API-key credentials from the OCI CLI config
// file or uses instance principals.
//
// Inject a custom ClientFactory via NewDefaultOCIClientProviderWithFactory to
// replace real SDK clients with fakes in unit tests.
type DefaultOCIClientProvider struct {
	factory ClientFactory

	// resolve builds the SDK configuration provider. Replaced in tests.
	resolve func(auth AuthConfig) (ocicommon.ConfigurationProvider, string, error)
}

// NewDefaultOCIClientProvider returns a provider backed by the real OCI SDK.
func NewDefaultOCIClientProvider() *DefaultOCIClientProvider {
	return &DefaultOCIClientProvider{factory: NewClientSet, resolve: resolveConfigurationProvider}
}

// NewDefaultOCIClientProviderWithFactory returns a provider that uses f to
// create its ClientSet. Pass a fake factory in tests.
func NewDefaultOCIClientProviderWithFactory(f ClientFactory) *DefaultOCIClientProvider {
	return &DefaultOCIClientProvider{factory: f, resolve: resolveConfigurationProvider}
}

// Load resolves credentials, determines the home region and builds the
// client set.
func (p *DefaultOCIClientProvider) Load(ctx context.Context, a AuthConfig) (*TenancyConfig, error) {
	cp, name, err := p.resolve(a)
	if err != nil {
		return nil, fmt.Errorf("load OCI credentials %q: %w", name, err)
	}

	region, err := cp.Region()
	if err != nil {
		return nil, fmt.Errorf("resolve region for %q: %w", name, err)
	}

	clients, err := p.factory(cp)
	if err != nil {
		return nil, fmt.Errorf("create OCI clients for %q: %w", name, err)
	}

	return &TenancyConfig{
		ProfileName: name,
		Region:      region,
		Provider:    cp,
		Clients:     clients,
	}, nil
}

// Namespace returns the tenancy's Object Storage namespace.
func (p *DefaultOCIClientProvider) Namespace(ctx context.Context, cfg *TenancyConfig) (string, error) {
	resp, err := cfg.Clients.ObjectStorage.GetNamespace(ctx, objectstorage.GetNamespaceRequest{
		RequestMetadata: NoRetry(),
	})
	if err != nil {
		return "", fmt.Errorf("get object storage namespace: %w", err)
	}
	if resp.Value == nil || *resp.Value == "" {
		return "", fmt.Errorf("get object storage namespace: empty response")
	}
	return *resp.Value, nil
}

// ---------------------------------------------------------------------------
// Package-private helpers
// ---------------------------------------------------------------------------

// resolveConfigurationProvider builds the SDK provider for a and returns a
// display name for error messages.
func resolveConfigurationProvider(a AuthConfig) (ocicommon.ConfigurationProvider, string, error) {
	switch a.Method {
	case AuthInstancePrincipal:
		cp, err := auth.InstancePrincipalConfigurationProvider()
		return cp, string(AuthInstancePrincipal), err
	case AuthConfigFile, "":
		profile := profileDisplayName(a.Profile)
		path, err := configFilePath(a.ConfigFile)
		if err != nil {
			return nil, profile, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, profile, fmt.Errorf("stat config file: %w", err)
		}
		cp := ocicommon.CustomProfileConfigProvider(path, profile)
		if ok, err := ocicommon.IsConfigurationProviderValid(cp); !ok {
			return nil, profile, fmt.Errorf("invalid profile in %s: %w", path, err)
		}
		return cp, profile, nil
	default:
		return nil, string(a.Method), fmt.Errorf("unsupported auth method %q", a.Method)
	}
}

// profileDisplayName returns the config profile name, "DEFAULT" when empty.
func profileDisplayName(profile string) string {
	if profile == "" {
		return defaultProfile
	}
	return profile
}

// configFilePath expands an empty path to ~/.oci/config and a leading "~/"
// to the user's home directory.
func configFilePath(path string) (string, error) {
	if path != "" && path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "" {
		return filepath.Join(home, ".oci", "config"), nil
	}
	return filepath.Join(home, path[1:]), nil
}
