package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/wire"
)

// TimelineCmd returns the timeline command
func TimelineCmd() *cobra.Command {
	var channelID int64

	cmd := &cobra.Command{
		Use:   "timeline [rule-id]",
		Short: "Show the escalation timeline for a policy",
		Long: `Resolve and print the escalation timeline of one policy: who gets
paged at which point after the incident stays open, with person, team
and schedule names resolved through the Flashduty API.

Examples:
  dutybridge timeline 1234
  dutybridge timeline 1234 --channel-id 99`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ruleID := args[0]

			policies, err := wire.PolicyService().ResolvePolicies(ctx, primary.ResolvePoliciesRequest{
				ChannelID: channelID,
			})
			if err != nil {
				return fmt.Errorf("failed to resolve policies: %w", err)
			}

			var selected *primary.Timeline
			for _, p := range policies {
				if p.RuleID != ruleID {
					continue
				}
				selected, err = wire.TimelineSession().Select(ctx, p.Layers)
				if err != nil {
					return fmt.Errorf("failed to resolve timeline: %w", err)
				}
				fmt.Printf("Policy: %s (%s)\n", p.RuleName, p.RuleID)
				break
			}
			if selected == nil {
				return fmt.Errorf("policy %s not found in channel", ruleID)
			}

			if selected.Message != "" {
				fmt.Println(selected.Message)
				return nil
			}
			for _, entry := range selected.Entries {
				fmt.Printf("  %s\n", entry.Label())
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&channelID, "channel-id", 0, "Flashduty channel ID (defaults to configured channel)")

	return cmd
}
