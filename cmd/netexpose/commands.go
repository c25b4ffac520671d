package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/netexpose/internal/config"
	"github.com/pankaj-dahiya-devops/netexpose/internal/engine"
	"github.com/pankaj-dahiya-devops/netexpose/internal/output"
	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
	"github.com/pankaj-dahiya-devops/netexpose/internal/providers/oci/common"
	ocinetwork "github.com/pankaj-dahiya-devops/netexpose/internal/providers/oci/network"
	"github.com/pankaj-dahiya-devops/netexpose/internal/report"
	"github.com/pankaj-dahiya-devops/netexpose/internal/rulepacks/exposure"
	"github.com/pankaj-dahiya-devops/netexpose/internal/storage"
	"github.com/pankaj-dahiya-devops/netexpose/internal/version"
)

// ErrPolicyViolation is returned by scan when a finding meets the policy's
// fail_on_risk threshold. Reports are still written and uploaded.
var ErrPolicyViolation = errors.New("policy violation")

// deps are the collaborators the commands are built from. Tests replace
// them with fakes.
type deps struct {
	provider     common.OCIClientProvider
	loadSettings func(configPath string) (*config.Settings, error)
	newCollector func(t *common.TenancyConfig) ocinetwork.NetworkCollector
	newUploader  func(ctx context.Context, s *config.Settings, t *common.TenancyConfig, namespace string) (storage.Uploader, error)
}

func defaultDeps() deps {
	return deps{
		provider: common.NewDefaultOCIClientProvider(),
		loadSettings: func(configPath string) (*config.Settings, error) {
			return config.NewLoader(configPath).Load()
		},
		newCollector: func(t *common.TenancyConfig) ocinetwork.NetworkCollector {
			return ocinetwork.NewDefaultNetworkCollector(t.Clients.VirtualNetwork)
		},
		newUploader: newUploader,
	}
}

// newUploader selects the storage backend named in settings.
func newUploader(ctx context.Context, s *config.Settings, t *common.TenancyConfig, namespace string) (storage.Uploader, error) {
	if s.UploadBackend == config.BackendS3 {
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Namespace:       namespace,
			Region:          t.Region,
			AccessKeyID:     s.S3AccessKeyID,
			SecretAccessKey: s.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Uploader(client, t.Region), nil
	}
	return storage.NewOCIUploader(t.Clients.ObjectStorage, namespace, s.CompartmentID), nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithDeps(defaultDeps())
}

func newRootCmdWithDeps(d deps) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "netexpose",
		Short:         "Audit OCI security lists and NSGs for internet-exposed TCP ingress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	root.AddCommand(newScanCmd(d))
	root.AddCommand(newDoctorCmd(d))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// scanFlags holds the values of the scan command's flags.
type scanFlags struct {
	configPath string
	policyPath string
	overrides  config.Overrides
	noUpload   bool
	print      bool
	wide       bool
	color      bool
	ocid       bool
}

func newScanCmd(d deps) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a compartment, write JSON and Markdown reports and upload them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, d, f, cmd.Flags().Changed("policy"))
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML settings file (keys mirror the OCI_* variables in snake_case)")
	cmd.Flags().StringVar(&f.policyPath, "policy", policy.DefaultPolicyFile, "Policy file")
	cmd.Flags().StringVar(&f.overrides.CompartmentID, "compartment", "", "Compartment OCID (overrides "+config.EnvCompartment+")")
	cmd.Flags().StringVar(&f.overrides.BucketName, "bucket", "", "Bucket name (overrides "+config.EnvBucket+")")
	cmd.Flags().StringVar(&f.overrides.ObjectPrefix, "prefix", "", "Object name prefix (overrides "+config.EnvObjectPrefix+")")
	cmd.Flags().StringVar(&f.overrides.ReportsDir, "reports-dir", "", "Local reports directory (overrides "+config.EnvReportsDir+")")
	cmd.Flags().BoolVar(&f.noUpload, "no-upload", false, "Write local reports only")
	cmd.Flags().BoolVar(&f.print, "print", false, "Print findings as a table")
	cmd.Flags().BoolVar(&f.wide, "wide", false, "Do not shorten notes in the printed table")
	cmd.Flags().BoolVar(&f.color, "color", false, "Colour risk labels in the printed table")
	cmd.Flags().BoolVar(&f.ocid, "ocid", false, "Add a resource OCID column to the printed table")

	return cmd
}

// loadScanInputs resolves settings and policy. Every error here is a
// configuration error and happens before any OCI client is built.
func loadScanInputs(d deps, f scanFlags, policyExplicit bool) (*config.Settings, *policy.PolicyConfig, error) {
	settings, err := d.loadSettings(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	settings.Apply(f.overrides)
	if err := settings.Validate(!f.noUpload); err != nil {
		return nil, nil, err
	}

	policyCfg, err := policy.LoadOptional(f.policyPath, policyExplicit)
	if err != nil {
		return nil, nil, err
	}
	if policyCfg != nil {
		if errs := policy.Validate(policyCfg, exposure.IDs()); len(errs) > 0 {
			return nil, nil, fmt.Errorf("invalid policy %q: %w", f.policyPath, errors.Join(errs...))
		}
	}
	return settings, policyCfg, nil
}

func authConfig(s *config.Settings) common.AuthConfig {
	return common.AuthConfig{
		Method:     common.AuthMethod(s.Auth),
		ConfigFile: s.ConfigFile,
		Profile:    s.Profile,
	}
}

func runScan(cmd *cobra.Command, d deps, f scanFlags, policyExplicit bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	settings, policyCfg, err := loadScanInputs(d, f, policyExplicit)
	if err != nil {
		return err
	}

	tenancy, err := d.provider.Load(ctx, authConfig(settings))
	if err != nil {
		return err
	}
	slog.Info("Loaded OCI credentials", "profile", tenancy.ProfileName, "region", tenancy.Region)

	eng := engine.NewEngineForPolicy(d.newCollector(tenancy), policyCfg)
	rep, err := eng.Scan(ctx, engine.ScanOptions{CompartmentID: settings.CompartmentID})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	files, err := report.WriteFiles(settings.ReportsDir, rep)
	if err != nil {
		return err
	}

	if f.print {
		output.RenderTable(out, rep.Findings, output.TableOptions{Colored: f.color, Wide: f.wide, IncludeOCID: f.ocid})
		fmt.Fprintln(out)
	}

	summary := output.RunSummary{Findings: rep.Summary(), Files: files.Paths()}

	if !f.noUpload {
		namespace, err := d.provider.Namespace(ctx, tenancy)
		if err != nil {
			return err
		}
		uploader, err := d.newUploader(ctx, settings, tenancy, namespace)
		if err != nil {
			return err
		}
		status, err := uploader.EnsureBucket(ctx, settings.BucketName)
		if err != nil {
			return err
		}
		objects, err := storage.UploadAll(ctx, uploader, settings.BucketName, settings.ObjectPrefix, files.Paths())
		if err != nil {
			return err
		}
		summary.Bucket = settings.BucketName
		summary.BucketStatus = string(status)
		summary.Objects = objects
	}

	output.PrintSummary(out, summary)

	if policy.ShouldFail(rep.Findings, policyCfg) {
		return fmt.Errorf("%w: findings at or above %s", ErrPolicyViolation, policyCfg.Enforcement.FailOnRisk)
	}
	return nil
}
