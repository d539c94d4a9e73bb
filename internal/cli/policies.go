package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/wire"
)

// PoliciesCmd returns the policies command
func PoliciesCmd() *cobra.Command {
	var (
		groupName string
		channelID int64
		display   bool
	)

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List escalation policies ranked by group relevance",
		Long: `List the enabled Flashduty escalation policies for the configured
channel, ranked by how closely each policy name matches the given
assignment group.

With --display the looser word-overlap ranking is applied and matching
policies are marked as recommended, the way the notification form
presents them.

Examples:
  dutybridge policies --group-name "Payments Support"
  dutybridge policies --group-name Payments --display`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			policies, err := wire.PolicyService().ResolvePolicies(ctx, primary.ResolvePoliciesRequest{
				ChannelID: channelID,
				GroupName: groupName,
			})
			if err != nil {
				return fmt.Errorf("failed to resolve policies: %w", err)
			}
			if display {
				policies = wire.PolicyService().RankForDisplay(policies, groupName)
			}

			if len(policies) == 0 {
				fmt.Println("No escalation policies found.")
				fmt.Println()
				fmt.Println("Check the Flashduty settings:")
				fmt.Println("  dutybridge doctor")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "RULE\tNAME\tLAYERS\tSCORE")
			fmt.Fprintln(w, "----\t----\t------\t-----")

			for _, p := range policies {
				badge := ""
				if p.Recommended {
					badge = color.New(color.FgCyan).Sprint(" [recommended]")
				}
				fmt.Fprintf(w, "%s\t%s%s\t%d\t%d\n",
					p.RuleID,
					p.RuleName,
					badge,
					len(p.Layers),
					p.Score,
				)
			}

			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&groupName, "group-name", "g", "", "Assignment group name to rank against")
	cmd.Flags().Int64Var(&channelID, "channel-id", 0, "Flashduty channel ID (defaults to configured channel)")
	cmd.Flags().BoolVar(&display, "display", false, "Apply display ranking with recommended badges")

	return cmd
}
