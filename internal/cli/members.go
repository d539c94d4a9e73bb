package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/wire"
)

// MembersCmd returns the members command
func MembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members [group-sys-id]",
		Short: "List active members of a ServiceNow assignment group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			groupID := args[0]

			name, err := wire.Directory().GroupName(ctx, groupID)
			if err != nil {
				return fmt.Errorf("failed to look up group: %w", err)
			}
			members, err := wire.Directory().ActiveMembers(ctx, groupID)
			if err != nil {
				return fmt.Errorf("failed to list members: %w", err)
			}

			if name != "" {
				fmt.Printf("Group: %s\n", name)
			}
			if len(members) == 0 {
				fmt.Println("No active members found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "SYS_ID\tNAME\tEMAIL")
			fmt.Fprintln(w, "------\t----\t-----")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.SysID, m.Name, m.Email)
			}
			w.Flush()
			return nil
		},
	}

	return cmd
}
