package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ocicommon "github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
)

// fakeObjectStorage satisfies ObjectStorageClient with canned namespace data.
type fakeObjectStorage struct {
	ObjectStorageClient
	namespace *string
	err       error
}

func (f *fakeObjectStorage) GetNamespace(_ context.Context, _ objectstorage.GetNamespaceRequest) (objectstorage.GetNamespaceResponse, error) {
	return objectstorage.GetNamespaceResponse{Value: f.namespace}, f.err
}

func rawProvider(region string) ocicommon.ConfigurationProvider {
	return ocicommon.NewRawConfigurationProvider("ocid1.tenancy.oc1..t", "ocid1.user.oc1..u", region, "aa:bb", "", nil)
}

func TestLoad_BuildsTenancyConfig(t *testing.T) {
	clients := &ClientSet{}
	p := &DefaultOCIClientProvider{
		factory: func(ocicommon.ConfigurationProvider) (*ClientSet, error) { return clients, nil },
		resolve: func(a AuthConfig) (ocicommon.ConfigurationProvider, string, error) {
			return rawProvider("eu-frankfurt-1"), profileDisplayName(a.Profile), nil
		},
	}

	cfg, err := p.Load(context.Background(), AuthConfig{Method: AuthConfigFile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProfileName != "DEFAULT" {
		t.Errorf("profile: got %q; want DEFAULT", cfg.ProfileName)
	}
	if cfg.Region != "eu-frankfurt-1" {
		t.Errorf("region: got %q", cfg.Region)
	}
	if cfg.Clients != clients {
		t.Error("clients from factory not used")
	}
}

func TestLoad_ResolveError(t *testing.T) {
	p := &DefaultOCIClientProvider{
		factory: func(ocicommon.ConfigurationProvider) (*ClientSet, error) { return &ClientSet{}, nil },
		resolve: func(a AuthConfig) (ocicommon.ConfigurationProvider, string, error) {
			return nil, "staging", errors.New("no key file")
		},
	}
	_, err := p.Load(context.Background(), AuthConfig{Profile: "staging"})
	if err == nil || !strings.Contains(err.Error(), `"staging"`) {
		t.Fatalf("want error naming profile, got %v", err)
	}
}

func TestLoad_FactoryError(t *testing.T) {
	p := &DefaultOCIClientProvider{
		factory: func(ocicommon.ConfigurationProvider) (*ClientSet, error) { return nil, errors.New("boom") },
		resolve: func(a AuthConfig) (ocicommon.ConfigurationProvider, string, error) {
			return rawProvider("us-ashburn-1"), "DEFAULT", nil
		},
	}
	if _, err := p.Load(context.Background(), AuthConfig{}); err == nil {
		t.Fatal("want factory error")
	}
}

func TestNamespace(t *testing.T) {
	ns := "axyz123"
	p := NewDefaultOCIClientProvider()
	cfg := &TenancyConfig{Clients: &ClientSet{ObjectStorage: &fakeObjectStorage{namespace: &ns}}}

	got, err := p.Namespace(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ns {
		t.Errorf("namespace: got %q; want %q", got, ns)
	}
}

func TestNamespace_Errors(t *testing.T) {
	p := NewDefaultOCIClientProvider()
	for name, fake := range map[string]*fakeObjectStorage{
		"api error": {err: errors.New("401 NotAuthenticated")},
		"nil value": {},
	} {
		cfg := &TenancyConfig{Clients: &ClientSet{ObjectStorage: fake}}
		if _, err := p.Namespace(context.Background(), cfg); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

func TestResolve_UnsupportedMethod(t *testing.T) {
	if _, _, err := resolveConfigurationProvider(AuthConfig{Method: "magic"}); err == nil {
		t.Fatal("want error for unsupported auth method")
	}
}

func TestResolve_MissingConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if _, _, err := resolveConfigurationProvider(AuthConfig{ConfigFile: path}); err == nil {
		t.Fatal("want error for missing config file")
	}
}

func TestConfigFilePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got, _ := configFilePath(""); got != filepath.Join(home, ".oci", "config") {
		t.Errorf("empty path: got %q", got)
	}
	if got, _ := configFilePath("~/custom/config"); got != filepath.Join(home, "custom", "config") {
		t.Errorf("tilde path: got %q", got)
	}
	if got, _ := configFilePath("/etc/oci/config"); got != "/etc/oci/config" {
		t.Errorf("absolute path: got %q", got)
	}
}

func TestIsNotFound(t *testing.T) {
	if IsNotFound(errors.New("plain")) {
		t.Error("plain error is not a 404")
	}
	if IsNotFound(nil) {
		t.Error("nil is not a 404")
	}
}

// fakeServiceError satisfies ocicommon.ServiceError.
type fakeServiceError struct{ status int }

func (e fakeServiceError) Error() string           { return "service error" }
func (e fakeServiceError) GetHTTPStatusCode() int  { return e.status }
func (e fakeServiceError) GetMessage() string      { return "message" }
func (e fakeServiceError) GetCode() string         { return "Code" }
func (e fakeServiceError) GetOpcRequestID() string { return "req-1" }

func TestStatusHelpers(t *testing.T) {
	notFound := fmt.Errorf("get bucket: %w", fakeServiceError{status: 404})
	conflict := fakeServiceError{status: 409}

	if !IsNotFound(notFound) {
		t.Error("wrapped 404 must be reported as not found")
	}
	if IsNotFound(conflict) {
		t.Error("409 is not a 404")
	}
	if !IsConflict(conflict) {
		t.Error("409 must be reported as conflict")
	}
}
