package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/dutybridge/internal/server"
	"github.com/example/dutybridge/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dutybridge HTTP API",
		Long: `Start the HTTP API that backs the notification form: policy ranking,
escalation timelines, group member listing and notification delivery.

The server shuts down gracefully on SIGINT/SIGTERM.

Examples:
  dutybridge serve
  dutybridge serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(
				wire.PolicyService(),
				wire.TimelineSession(),
				wire.NotificationService(),
				wire.Directory(),
				wire.Config(),
				wire.Logger(),
			)

			fmt.Printf("Listening on %s\n", addr)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8484", "Listen address")

	return cmd
}
