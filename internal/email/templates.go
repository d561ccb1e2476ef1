package email

import (
	"fmt"
	"html"

	"pledge/internal/config"
	"pledge/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #16a34a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #16a34a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .button:hover { background: #15803d; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SMTPFromName), content, html.EscapeString(t.cfg.SMTPFromName), t.cfg.BaseURL, t.cfg.BaseURL)
}

// ReceiptInvite generates the email for a recipient without an account yet.
// The receipt is waiting for them to sign up with this address.
func (t *Templates) ReceiptInvite(sender *models.Profile, receipt *models.Receipt) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %s sent you a receipt", t.cfg.SMTPFromName, sender.FullName())

	content := fmt.Sprintf(`
        <p>%s recorded a receipt addressed to this email.</p>

        <div class="info-box">
            <p><span class="label">From:</span> %s</p>
            <p><span class="label">Note:</span> %s</p>
        </div>

        <p>Sign up with this address to claim it. The receipt will be waiting on your account.</p>

        <p style="text-align: center;">
            <a href="%s" class="button">Join and claim</a>
        </p>
    `,
		html.EscapeString(sender.FullName()),
		html.EscapeString(sender.FullName()),
		html.EscapeString(receipt.Description),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`%s sent you a receipt

From: %s
Note: %s

Sign up with this address to claim it: %s

--
%s
%s`,
		sender.FullName(),
		sender.FullName(),
		receipt.Description,
		t.cfg.BaseURL,
		t.cfg.SMTPFromName,
		t.cfg.BaseURL,
	)

	return
}

// ReceiptReceived generates the email for an existing user who has a new
// receipt waiting for their acceptance.
func (t *Templates) ReceiptReceived(sender, recipient *models.Profile, receipt *models.Receipt) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %s sent you a receipt", t.cfg.SMTPFromName, sender.FullName())

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>%s recorded a receipt for you. Accept it to add it to your ledger, or reject it if it is not yours.</p>

        <div class="info-box">
            <p><span class="label">From:</span> %s</p>
            <p><span class="label">Note:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s" class="button">View receipt</a>
        </p>
    `,
		html.EscapeString(recipient.FirstName),
		html.EscapeString(sender.FullName()),
		html.EscapeString(sender.FullName()),
		html.EscapeString(receipt.Description),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

%s recorded a receipt for you.

From: %s
Note: %s

View it at: %s

--
%s
%s`,
		recipient.FirstName,
		sender.FullName(),
		sender.FullName(),
		receipt.Description,
		t.cfg.BaseURL,
		t.cfg.SMTPFromName,
		t.cfg.BaseURL,
	)

	return
}

// ConnectionRequest generates the email telling a user someone wants to
// connect with them.
func (t *Templates) ConnectionRequest(requester, target *models.Profile) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %s wants to connect", t.cfg.SMTPFromName, requester.FullName())

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>%s sent you a connection request.</p>

        <p style="text-align: center;">
            <a href="%s" class="button">Respond</a>
        </p>
    `,
		html.EscapeString(target.FirstName),
		html.EscapeString(requester.FullName()),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

%s sent you a connection request.

Respond at: %s

--
%s
%s`,
		target.FirstName,
		requester.FullName(),
		t.cfg.BaseURL,
		t.cfg.SMTPFromName,
		t.cfg.BaseURL,
	)

	return
}
