package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/pulso-app/pulso/internal/services"
)

// ResendNotifier delivers reminder emails through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from}
}

// SendMissingSummary sends one email per tenant listing the players that
// have not submitted today's questionnaires.
func (n *ResendNotifier) SendMissingSummary(ctx context.Context, to []string, tenantName, dayKey string, missing []services.MissingReport) error {
	if len(to) == 0 || len(missing) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Pulso: %d jugadores sin registrar (%s)", len(missing), dayKey)
	sent, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      to,
		Subject: subject,
		Html:    renderMissingSummary(tenantName, dayKey, missing),
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	log.Printf("reminder sent: tenant=%s day=%s missing=%d message=%s", tenantName, dayKey, len(missing), sent.Id)
	return nil
}

func renderMissingSummary(tenantName, dayKey string, missing []services.MissingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h3>%s &mdash; registros pendientes del %s</h3><ul>", tenantName, dayKey)
	for _, m := range missing {
		var parts []string
		for _, v := range m.Missing {
			parts = append(parts, string(v))
		}
		fmt.Fprintf(&b, "<li>%s %s: %s</li>", m.Player.FirstName, m.Player.LastName, strings.Join(parts, ", "))
	}
	b.WriteString("</ul>")
	return b.String()
}

var _ services.Notifier = (*ResendNotifier)(nil)
