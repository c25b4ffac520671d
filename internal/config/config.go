// Package config resolves run settings from a .env file, an optional YAML
// settings file and the process environment.
package config

import (
	"errors"
	"fmt"
)

// Environment variable names.
const (
	EnvCompartment   = "OCI_COMPARTMENT_OCID"
	EnvBucket        = "OCI_BUCKET_NAME"
	EnvObjectPrefix  = "OCI_OBJECT_PREFIX"
	EnvConfigFile    = "OCI_CONFIG_FILE"
	EnvProfile       = "OCI_CONFIG_PROFILE"
	EnvAuth          = "OCI_AUTH"
	EnvReportsDir    = "OCI_REPORTS_DIR"
	EnvUploadBackend = "OCI_UPLOAD_BACKEND"
	EnvS3AccessKeyID = "OCI_S3_ACCESS_KEY_ID"
	EnvS3SecretKey   = "OCI_S3_SECRET_ACCESS_KEY"
)

const (
	DefaultObjectPrefix = "network-exposure"
	DefaultProfile      = "DEFAULT"
	DefaultReportsDir   = "reports"
)

// Auth methods and upload backends accepted by Validate.
const (
	AuthConfigFile        = "config_file"
	AuthInstancePrincipal = "instance_principal"
	BackendOCI            = "oci"
	BackendS3             = "s3"
)

// ErrMissingSetting is returned by Validate when a required setting is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Settings is the resolved configuration for one run. Secrets are never
// logged or written to reports.
type Settings struct {
	// CompartmentID is the compartment whose network rules are scanned.
	CompartmentID string `yaml:"compartment_ocid"`

	// BucketName receives the report files. Not required with --no-upload.
	BucketName string `yaml:"bucket_name"`

	// ObjectPrefix is prepended to uploaded object names.
	ObjectPrefix string `yaml:"object_prefix"`

	// ConfigFile is the OCI CLI config file. Empty means ~/.oci/config.
	ConfigFile string `yaml:"config_file"`

	// Profile is the section of ConfigFile to use.
	Profile string `yaml:"config_profile"`

	// Auth is config_file or instance_principal.
	Auth string `yaml:"auth"`

	// ReportsDir is the local directory report files are written to.
	ReportsDir string `yaml:"reports_dir"`

	// UploadBackend is oci (native API) or s3 (S3 compatibility API).
	UploadBackend string `yaml:"upload_backend"`

	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
}

// Overrides are command-line values; empty fields leave settings unchanged.
type Overrides struct {
	CompartmentID string
	BucketName    string
	ObjectPrefix  string
	ReportsDir    string
}

// Apply copies every non-empty override into s.
func (s *Settings) Apply(o Overrides) {
	setIfNotEmpty(&s.CompartmentID, o.CompartmentID)
	setIfNotEmpty(&s.BucketName, o.BucketName)
	setIfNotEmpty(&s.ObjectPrefix, o.ObjectPrefix)
	setIfNotEmpty(&s.ReportsDir, o.ReportsDir)
}

// Validate checks required settings and enumerated values. requireBucket is
// false when the run does not upload.
func (s *Settings) Validate(requireBucket bool) error {
	if s.CompartmentID == "" {
		return fmt.Errorf("%w: %s", ErrMissingSetting, EnvCompartment)
	}
	if requireBucket && s.BucketName == "" {
		return fmt.Errorf("%w: %s", ErrMissingSetting, EnvBucket)
	}
	switch s.Auth {
	case AuthConfigFile, AuthInstancePrincipal:
	default:
		return fmt.Errorf("invalid %s %q: must be %s or %s", EnvAuth, s.Auth, AuthConfigFile, AuthInstancePrincipal)
	}
	switch s.UploadBackend {
	case BackendOCI, BackendS3:
	default:
		return fmt.Errorf("invalid %s %q: must be %s or %s", EnvUploadBackend, s.UploadBackend, BackendOCI, BackendS3)
	}
	if (s.S3AccessKeyID == "") != (s.S3SecretAccessKey == "") {
		return fmt.Errorf("%s and %s must be set together", EnvS3AccessKeyID, EnvS3SecretKey)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	setIfEmpty(&s.ObjectPrefix, DefaultObjectPrefix)
	setIfEmpty(&s.Profile, DefaultProfile)
	setIfEmpty(&s.Auth, AuthConfigFile)
	setIfEmpty(&s.ReportsDir, DefaultReportsDir)
	setIfEmpty(&s.UploadBackend, BackendOCI)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
