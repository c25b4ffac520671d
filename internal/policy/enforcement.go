package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// ShouldFail reports whether any finding has a risk at or above the
// configured fail_on_risk threshold.
//
// It returns false when cfg is nil, fail_on_risk is empty or unrecognised,
// or findings is empty.
func ShouldFail(findings []models.Finding, cfg *PolicyConfig) bool {
	if cfg == nil || cfg.Enforcement.FailOnRisk == "" {
		return false
	}
	threshold := models.Risk(strings.ToUpper(cfg.Enforcement.FailOnRisk)).Rank()
	if threshold == 0 {
		return false
	}
	for _, f := range findings {
		if f.Risk.Rank() >= threshold {
			return true
		}
	}
	return false
}
