package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate dutybridge configuration and connectivity",
		Long: `Health check for the dutybridge environment.

Validates:
- Configuration file (~/.dutybridge/config.json)
- Flashduty settings (push URL, app key, channel)
- ServiceNow settings (instance URL, credentials)
- Flashduty API connectivity (escalation rule listing)

Examples:
  dutybridge doctor          # Run full health check
  dutybridge doctor --quiet  # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{}
			hasErrors := false

			results = append(results, checkConfigFile())
			results = append(results, checkFlashdutySettings())
			results = append(results, checkServiceNowSettings())
			results = append(results, checkFlashdutyAPI())

			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'dutybridge init' to update settings.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfigFile validates that the config file exists on disk
func checkConfigFile() CheckResult {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return CheckResult{Name: "Config file", Status: "✗", Details: "  Cannot get home directory"}
	}

	path := filepath.Join(homeDir, ".dutybridge", "config.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Config file",
			Status:  "⚠",
			Details: "  ~/.dutybridge/config.json not found (env overrides still apply)",
		}
	}

	return CheckResult{Name: "Config file", Status: "✓"}
}

// checkFlashdutySettings validates the Flashduty side of the config
func checkFlashdutySettings() CheckResult {
	cfg := wire.Config()

	missing := []string{}
	if !cfg.HasPushURL() {
		missing = append(missing, "push_url")
	}
	if !cfg.HasAppKey() {
		missing = append(missing, "app_key")
	}
	if cfg.ChannelID == 0 {
		missing = append(missing, "channel_id")
	}

	if len(missing) > 0 {
		details := "  Missing:"
		for _, m := range missing {
			details += " " + m
		}
		return CheckResult{Name: "Flashduty config", Status: "✗", Details: details}
	}

	return CheckResult{Name: "Flashduty config", Status: "✓"}
}

// checkServiceNowSettings validates the ServiceNow side of the config
func checkServiceNowSettings() CheckResult {
	cfg := wire.Config()

	if cfg.InstanceURL == "" {
		return CheckResult{
			Name:    "ServiceNow config",
			Status:  "✗",
			Details: "  instance_url is not set",
		}
	}
	if cfg.Username == "" || cfg.Password == "" {
		return CheckResult{
			Name:    "ServiceNow config",
			Status:  "⚠",
			Details: "  credentials incomplete; incident lookups will fail",
		}
	}

	return CheckResult{Name: "ServiceNow config", Status: "✓"}
}

// checkFlashdutyAPI verifies the escalation rule endpoint answers
func checkFlashdutyAPI() CheckResult {
	cfg := wire.Config()
	if !cfg.HasAppKey() || cfg.ChannelID == 0 {
		return CheckResult{
			Name:    "Flashduty API",
			Status:  "⚠",
			Details: "  Skipped: app_key/channel_id not configured",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	policies, err := wire.PolicyService().ResolvePolicies(ctx, primary.ResolvePoliciesRequest{})
	if err != nil {
		return CheckResult{
			Name:    "Flashduty API",
			Status:  "✗",
			Details: fmt.Sprintf("  %v", err),
		}
	}
	if len(policies) == 0 {
		return CheckResult{
			Name:    "Flashduty API",
			Status:  "⚠",
			Details: "  Reachable, but the channel has no enabled escalation rules",
		}
	}

	return CheckResult{Name: "Flashduty API", Status: "✓"}
}
