package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDotEnvFile is read from the working directory when present.
const DefaultDotEnvFile = ".env"

// Loader resolves Settings. Precedence, lowest first: defaults, the YAML
// settings file, the .env file, the process environment.
type Loader struct {
	// ConfigPath is an optional YAML settings file. A missing file is an
	// error because it was asked for explicitly.
	ConfigPath string

	// DotEnvPath is the .env file. A missing file is ignored.
	DotEnvPath string

	// LookupEnv reads the process environment. Replaced in tests.
	LookupEnv func(string) (string, bool)
}

// NewLoader returns a Loader reading .env from the working directory and the
// real process environment.
func NewLoader(configPath string) *Loader {
	return &Loader{ConfigPath: configPath, DotEnvPath: DefaultDotEnvFile, LookupEnv: os.LookupEnv}
}

// Load reads all sources and returns the merged settings with defaults
// applied. It does not validate.
func (l *Loader) Load() (*Settings, error) {
	s := &Settings{}

	if l.ConfigPath != "" {
		data, err := os.ReadFile(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("read settings file %q: %w", l.ConfigPath, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse settings file %q: %w", l.ConfigPath, err)
		}
		slog.Debug("Loaded settings file", "path", l.ConfigPath)
	}

	dotenv := map[string]string{}
	if l.DotEnvPath != "" {
		m, err := godotenv.Read(l.DotEnvPath)
		switch {
		case err == nil:
			dotenv = m
			slog.Debug("Loaded .env file", "path", l.DotEnvPath, "keys", len(m))
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read env file %q: %w", l.DotEnvPath, err)
		}
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return dotenv[key]
	}

	for key, dst := range map[string]*string{
		EnvCompartment:   &s.CompartmentID,
		EnvBucket:        &s.BucketName,
		EnvObjectPrefix:  &s.ObjectPrefix,
		EnvConfigFile:    &s.ConfigFile,
		EnvProfile:       &s.Profile,
		EnvAuth:          &s.Auth,
		EnvReportsDir:    &s.ReportsDir,
		EnvUploadBackend: &s.UploadBackend,
		EnvS3AccessKeyID: &s.S3AccessKeyID,
		EnvS3SecretKey:   &s.S3SecretAccessKey,
	} {
		setIfNotEmpty(dst, strings.TrimSpace(get(key)))
	}

	s.applyDefaults()
	return s, nil
}
