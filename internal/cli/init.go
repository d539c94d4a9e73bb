package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		pushURL     string
		apiDomain   string
		appKey      string
		channelID   int64
		teamsID     string
		instanceURL string
		username    string
		password    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the dutybridge configuration file",
		Long: `Write ~/.dutybridge/config.json with the Flashduty and ServiceNow
connection settings. Existing values are kept unless overridden by a flag,
so init can be re-run to update a single field.

Examples:
  dutybridge init --push-url https://push.flashcat.cloud/event/push/... --app-key SECRET
  dutybridge init --channel-id 12345
  dutybridge init --instance-url https://dev12345.service-now.com --username api_user --password PASS`,
		RunE: func(cmd *cobra.Command, args []string) error {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to resolve home directory: %w", err)
			}

			cfg := config.LoadOrDefault(homeDir)
			if cmd.Flags().Changed("push-url") {
				cfg.PushURL = pushURL
			}
			if cmd.Flags().Changed("api-domain") {
				cfg.APIDomain = apiDomain
			}
			if cmd.Flags().Changed("app-key") {
				cfg.AppKey = appKey
			}
			if cmd.Flags().Changed("channel-id") {
				cfg.ChannelID = channelID
			}
			if cmd.Flags().Changed("teams-id") {
				cfg.TeamsID = teamsID
			}
			if cmd.Flags().Changed("instance-url") {
				cfg.InstanceURL = instanceURL
			}
			if cmd.Flags().Changed("username") {
				cfg.Username = username
			}
			if cmd.Flags().Changed("password") {
				cfg.Password = password
			}

			if err := config.SaveConfig(homeDir, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Println("✓ Configuration written to ~/.dutybridge/config.json")
			if !cfg.HasPushURL() {
				fmt.Println("  Note: push_url is not set; notifications cannot be delivered.")
			}
			if !cfg.HasAppKey() {
				fmt.Println("  Note: app_key is not set; escalation policies cannot be loaded.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pushURL, "push-url", "", "Flashduty integration push URL")
	cmd.Flags().StringVar(&apiDomain, "api-domain", config.DefaultAPIDomain, "Flashduty API domain")
	cmd.Flags().StringVar(&appKey, "app-key", "", "Flashduty app key")
	cmd.Flags().Int64Var(&channelID, "channel-id", 0, "Flashduty channel ID scoping escalation rules")
	cmd.Flags().StringVar(&teamsID, "teams-id", "", "Teams integration ID")
	cmd.Flags().StringVar(&instanceURL, "instance-url", "", "ServiceNow instance URL")
	cmd.Flags().StringVar(&username, "username", "", "ServiceNow API username")
	cmd.Flags().StringVar(&password, "password", "", "ServiceNow API password")

	return cmd
}
