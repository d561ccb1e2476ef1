package email

import (
	"context"
	"log"

	"github.com/google/uuid"

	"pledge/internal/config"
	"pledge/internal/models"
)

// ProfileGetter is the slice of the store the notifier needs to resolve
// recipients.
type ProfileGetter interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// Notifier sends email notifications for various events. Every method is
// best effort; a notification failure never fails the operation that
// triggered it.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	profiles  ProfileGetter
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, profiles ProfileGetter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		profiles:  profiles,
	}
}

// NotifyReceiptCreated notifies the recipient of a new receipt. Recipients
// without an account get an invite; existing users get an acceptance prompt.
// Ghost-mode users asked not to be contacted.
func (n *Notifier) NotifyReceiptCreated(ctx context.Context, receipt *models.Receipt, sender *models.Profile) {
	if !n.service.IsEnabled() {
		return
	}

	if receipt.ToUserID == nil {
		subject, htmlBody, textBody := n.templates.ReceiptInvite(sender, receipt)
		n.service.SendAsync([]string{receipt.RecipientEmail}, subject, htmlBody, textBody)
		return
	}

	recipient, err := n.profiles.GetProfileByUserID(ctx, *receipt.ToUserID)
	if err != nil {
		log.Printf("Failed to load receipt recipient %s: %v", receipt.ToUserID, err)
		return
	}

	if recipient.GhostMode {
		return
	}

	subject, htmlBody, textBody := n.templates.ReceiptReceived(sender, recipient, receipt)
	n.service.SendAsync([]string{recipient.Email}, subject, htmlBody, textBody)
}

// NotifyConnectionRequested notifies a user of an incoming connection request.
func (n *Notifier) NotifyConnectionRequested(ctx context.Context, requester *models.Profile, targetID uuid.UUID) {
	if !n.service.IsEnabled() {
		return
	}

	target, err := n.profiles.GetProfileByUserID(ctx, targetID)
	if err != nil {
		log.Printf("Failed to load connection target %s: %v", targetID, err)
		return
	}

	if target.GhostMode {
		return
	}

	subject, htmlBody, textBody := n.templates.ConnectionRequest(requester, target)
	n.service.SendAsync([]string{target.Email}, subject, htmlBody, textBody)
}
