package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/ports/primary"
	"github.com/example/dutybridge/internal/wire"
)

// SendCmd returns the send command
func SendCmd() *cobra.Command {
	var (
		groupID     string
		notifyTypes []string
		memberIDs   []string
		ruleID      string
	)

	cmd := &cobra.Command{
		Use:   "send [incident-sys-id]",
		Short: "Send an incident notification to Flashduty",
		Long: `Build the notification payload for the given incident and deliver
it to the configured Flashduty push URL.

At least one notification type and one member are required, matching
what the notification form enforces.

Examples:
  dutybridge send 9d385017c611228701d22104cc95c371 \
    --group GROUP_SYS_ID --type sms --type voice \
    --member USER_SYS_ID --rule 1234`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			resp, err := wire.NotificationService().SendNotification(ctx, primary.SendNotificationRequest{
				IncidentSysID: args[0],
				GroupID:       groupID,
				NotifyTypes:   notifyTypes,
				MemberIDs:     memberIDs,
				RuleID:        ruleID,
			})
			if err != nil {
				return fmt.Errorf("failed to send notification: %w", err)
			}

			fmt.Println(resp.Message)
			if !resp.Sent {
				return fmt.Errorf("notification was not delivered")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&groupID, "group", "g", "", "Assignment group sys_id")
	cmd.Flags().StringArrayVarP(&notifyTypes, "type", "t", nil, "Notification type (repeatable: sms, voice, email)")
	cmd.Flags().StringArrayVarP(&memberIDs, "member", "m", nil, "Member sys_id to notify (repeatable)")
	cmd.Flags().StringVarP(&ruleID, "rule", "r", "", "Selected escalation rule ID")

	return cmd
}

// NotifyStateCmd returns the notify-state command
func NotifyStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-state [incident-sys-id]",
		Short: "Push an incident state change to Flashduty",
		Long: `Send a state-change event for the given incident. Only Resolved and
Closed incidents produce an event; other states are skipped silently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := wire.NotificationService().NotifyStateChange(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to notify state change: %w", err)
			}

			fmt.Println("✓ State change processed")
			return nil
		},
	}
}
