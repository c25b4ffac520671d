package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
	"github.com/pankaj-dahiya-devops/netexpose/internal/rulepacks/exposure"
)

// DoctorResult is the structured output of netexpose doctor. It can be
// serialised to JSON via --format=json or rendered as a table (default).
type DoctorResult struct {
	Config struct {
		Valid         bool   `json:"valid"`
		CompartmentID string `json:"compartment_ocid,omitempty"`
		Bucket        string `json:"bucket,omitempty"`
		Error         string `json:"error,omitempty"`
	} `json:"config"`

	OCI struct {
		Profile     string `json:"profile,omitempty"`
		Region      string `json:"region,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		Namespace   string `json:"namespace,omitempty"`
		NamespaceOK bool   `json:"namespace_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"oci"`

	Policy struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			configPath, _ := cmd.Flags().GetString("config")
			policyPath, _ := cmd.Flags().GetString("policy")
			result, err := runDoctor(context.Background(), d, cmd.OutOrStdout(), format, configPath, policyPath)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main's stderr path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("config", "", "YAML settings file")
	cmd.Flags().String("policy", policy.DefaultPolicyFile, "Policy file")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures. Callers must inspect
// result.OverallHealthy to decide whether the environment is healthy.
func runDoctor(ctx context.Context, d deps, w io.Writer, format, configPath, policyPath string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, d, configPath, policyPath)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks. It performs no rendering.
func collectDoctorResult(ctx context.Context, d deps, configPath, policyPath string) DoctorResult {
	var result DoctorResult

	// Settings: load, validate without requiring a bucket.
	settings, err := d.loadSettings(configPath)
	if err == nil {
		err = settings.Validate(false)
	}
	if err != nil {
		result.Config.Error = err.Error()
	} else {
		result.Config.Valid = true
		result.Config.CompartmentID = settings.CompartmentID
		result.Config.Bucket = settings.BucketName
	}

	// OCI: credentials, then namespace lookup as a reachability probe.
	if settings != nil {
		result.OCI.Profile = settings.Profile
		tenancy, err := d.provider.Load(ctx, authConfig(settings))
		if err != nil {
			result.OCI.Error = err.Error()
		} else {
			result.OCI.Credentials = true
			result.OCI.Profile = tenancy.ProfileName
			result.OCI.Region = tenancy.Region
			ns, err := d.provider.Namespace(ctx, tenancy)
			if err != nil {
				result.OCI.Error = err.Error()
			} else {
				result.OCI.NamespaceOK = true
				result.OCI.Namespace = ns
			}
		}
	}

	// Policy: stat, load, validate (file is optional).
	result.Policy.Path = policyPath
	_, statErr := os.Stat(policyPath)
	if statErr == nil {
		result.Policy.Present = true
		cfg, loadErr := policy.LoadPolicy(policyPath)
		if loadErr != nil {
			result.Policy.Errors = []string{loadErr.Error()}
		} else {
			errs := policy.Validate(cfg, exposure.IDs())
			if len(errs) == 0 {
				result.Policy.Valid = true
			} else {
				for _, e := range errs {
					result.Policy.Errors = append(result.Policy.Errors, e.Error())
				}
			}
		}
	} else if !os.IsNotExist(statErr) {
		// Present but unreadable.
		result.Policy.Present = true
		result.Policy.Errors = []string{statErr.Error()}
	}

	result.OverallHealthy = result.Config.Valid &&
		result.OCI.Credentials &&
		result.OCI.NamespaceOK &&
		(!result.Policy.Present || result.Policy.Valid)

	return result
}

// renderDoctorTable writes the human-readable diagnostic output to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nConfiguration:")
	if result.Config.Valid {
		doctorPrint(w, "Settings", "OK", "")
		doctorPrint(w, "Compartment", "OK", result.Config.CompartmentID)
		if result.Config.Bucket != "" {
			doctorPrint(w, "Bucket", "OK", result.Config.Bucket)
		} else {
			doctorPrint(w, "Bucket", "Not set", "required unless --no-upload")
		}
	} else {
		doctorPrint(w, "Settings", "FAIL", result.Config.Error)
	}

	if result.OCI.Profile != "" {
		fmt.Fprintf(w, "\nOCI (profile: %s):\n", result.OCI.Profile)
	} else {
		fmt.Fprintln(w, "\nOCI:")
	}
	if !result.OCI.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.OCI.Error)
		doctorPrint(w, "Object Storage", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "Region: "+result.OCI.Region)
		if result.OCI.NamespaceOK {
			doctorPrint(w, "Object Storage", "OK", "Namespace: "+result.OCI.Namespace)
		} else {
			doctorPrint(w, "Object Storage", "FAIL", result.OCI.Error)
		}
	}

	fmt.Fprintln(w, "\nPolicy:")
	label := result.Policy.Path + " present"
	if !result.Policy.Present {
		doctorPrint(w, label, "Not found (optional)", "")
	} else {
		doctorPrint(w, label, "YES", "")
		if result.Policy.Valid {
			doctorPrint(w, "Policy valid", "OK", "")
		} else {
			for _, e := range result.Policy.Errors {
				doctorPrint(w, "Policy valid", "FAIL", e)
			}
		}
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
