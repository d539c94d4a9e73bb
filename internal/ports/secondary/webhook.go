package secondary

import "context"

// WebhookSender defines the secondary port for outbound notification
// delivery. Send classifies the HTTP outcome and never returns an error:
// transport failures are absorbed at this boundary, logged, and reported
// as false. There are no retries.
type WebhookSender interface {
	Send(ctx context.Context, payload any) bool
}
