package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pledge/internal/models"
)

func TestCreateReceipt_InitialStatus(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")
	known := seedProfile(t, st, "known@lums.edu.pk")
	connected := seedProfile(t, st, "connected@lums.edu.pk")
	if _, err := svc.AutoConnect(ctx, sender, connected, sender); err != nil {
		t.Fatalf("AutoConnect() error = %v", err)
	}

	t.Run("recipient has no account", func(t *testing.T) {
		r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "Nobody@LUMS.edu.pk"})
		if err != nil {
			t.Fatalf("CreateReceipt() error = %v", err)
		}
		if r.Status != models.StatusAwaitingSignup {
			t.Errorf("status = %q, want %q", r.Status, models.StatusAwaitingSignup)
		}
		if r.ToUserID != nil {
			t.Errorf("to_user_id = %v, want nil", r.ToUserID)
		}
		if r.RecipientEmail != "nobody@lums.edu.pk" {
			t.Errorf("recipient_email = %q, want normalized", r.RecipientEmail)
		}
	})

	t.Run("recipient exists but is not connected", func(t *testing.T) {
		r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "known@lums.edu.pk"})
		if err != nil {
			t.Fatalf("CreateReceipt() error = %v", err)
		}
		if r.Status != models.StatusAwaitingConnection {
			t.Errorf("status = %q, want %q", r.Status, models.StatusAwaitingConnection)
		}
		if r.ToUserID == nil || *r.ToUserID != known {
			t.Errorf("to_user_id = %v, want %v", r.ToUserID, known)
		}
		if r.ConnectionID != nil {
			t.Errorf("connection_id = %v, want nil", r.ConnectionID)
		}
	})

	t.Run("recipient has an accepted connection", func(t *testing.T) {
		r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "connected@lums.edu.pk"})
		if err != nil {
			t.Fatalf("CreateReceipt() error = %v", err)
		}
		if r.Status != models.StatusAwaitingAcceptance {
			t.Errorf("status = %q, want %q", r.Status, models.StatusAwaitingAcceptance)
		}
		if r.ConnectionID == nil {
			t.Error("connection_id not set for connected pair")
		}
	})

	t.Run("self receipt", func(t *testing.T) {
		_, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "sender@lums.edu.pk"})
		if !errors.Is(err, ErrSelfReceipt) {
			t.Errorf("error = %v, want ErrSelfReceipt", err)
		}
	})
}

func TestCreateReceipt_PendingConnectionIsNotEnough(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")
	seedProfile(t, st, "pending@lums.edu.pk")

	if _, err := svc.RequestConnection(ctx, sender, "pending@lums.edu.pk"); err != nil {
		t.Fatalf("RequestConnection() error = %v", err)
	}

	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "pending@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}
	if r.Status != models.StatusAwaitingConnection {
		t.Errorf("status = %q, want %q for unaccepted connection", r.Status, models.StatusAwaitingConnection)
	}
}

func TestClaimReceipt_Assigned(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")
	recipient := seedProfile(t, st, "recipient@lums.edu.pk")
	if _, err := svc.AutoConnect(ctx, sender, recipient, sender); err != nil {
		t.Fatalf("AutoConnect() error = %v", err)
	}

	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "recipient@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}

	claimed, err := svc.ClaimReceipt(ctx, r.ID, recipient, "recipient@lums.edu.pk")
	if err != nil {
		t.Fatalf("ClaimReceipt() error = %v", err)
	}
	if claimed.Status != models.StatusAccepted {
		t.Errorf("status = %q, want %q", claimed.Status, models.StatusAccepted)
	}

	// A second claim hits the finalized guard and reports the status.
	_, err = svc.ClaimReceipt(ctx, r.ID, recipient, "recipient@lums.edu.pk")
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("ClaimReceipt() repeat error = %v, want ErrAlreadyFinalized", err)
	}
	if !strings.Contains(err.Error(), models.StatusAccepted) {
		t.Errorf("ClaimReceipt() repeat error %q does not mention current status", err)
	}
}

func TestClaimReceipt_LateBinding(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")

	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "newcomer@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}
	if r.Status != models.StatusAwaitingSignup {
		t.Fatalf("status = %q, want %q", r.Status, models.StatusAwaitingSignup)
	}

	// The recipient signs up later and claims by email match.
	newcomer := seedProfile(t, st, "newcomer@lums.edu.pk")

	claimed, err := svc.ClaimReceipt(ctx, r.ID, newcomer, "Newcomer@LUMS.edu.pk")
	if err != nil {
		t.Fatalf("ClaimReceipt() error = %v", err)
	}
	if claimed.Status != models.StatusAccepted {
		t.Errorf("status = %q, want %q (late binding skips intermediate states)", claimed.Status, models.StatusAccepted)
	}
	if claimed.ToUserID == nil || *claimed.ToUserID != newcomer {
		t.Errorf("to_user_id = %v, want %v", claimed.ToUserID, newcomer)
	}
	if claimed.ConnectionID == nil {
		t.Fatal("connection_id not set by late binding")
	}

	conn, err := st.GetConnectionByID(ctx, *claimed.ConnectionID)
	if err != nil {
		t.Fatalf("GetConnectionByID() error = %v", err)
	}
	if !conn.Accepted {
		t.Error("late binding should create an accepted connection")
	}
	if !conn.HasParty(sender) || !conn.HasParty(newcomer) {
		t.Error("late-binding connection does not join sender and claimant")
	}
	if conn.RequestedBy != newcomer {
		t.Errorf("requested_by = %v, want the claimant %v", conn.RequestedBy, newcomer)
	}
}

func TestClaimReceipt_NotAuthorized(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")
	recipient := seedProfile(t, st, "recipient@lums.edu.pk")
	stranger := seedProfile(t, st, "stranger@lums.edu.pk")

	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "recipient@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}
	_ = recipient

	if _, err := svc.ClaimReceipt(ctx, r.ID, stranger, "stranger@lums.edu.pk"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("ClaimReceipt() error = %v, want ErrNotAuthorized", err)
	}

	if _, err := svc.ClaimReceipt(ctx, uuid.New(), stranger, "stranger@lums.edu.pk"); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("ClaimReceipt() unknown id error = %v, want ErrReceiptNotFound", err)
	}
}

func TestClaimReceipt_BoundReceiptWithoutConnectionRelinks(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")
	recipient := seedProfile(t, st, "recipient@lums.edu.pk")

	// Recipient exists but the pair is unconnected, so the receipt binds
	// without a connection id.
	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "recipient@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}
	if r.Status != models.StatusAwaitingConnection || r.ConnectionID != nil {
		t.Fatalf("unexpected precondition: status=%q conn=%v", r.Status, r.ConnectionID)
	}

	claimed, err := svc.ClaimReceipt(ctx, r.ID, recipient, "recipient@lums.edu.pk")
	if err != nil {
		t.Fatalf("ClaimReceipt() error = %v", err)
	}
	if claimed.ConnectionID == nil {
		t.Fatal("ClaimReceipt() should have created and linked a connection")
	}
	conn, err := st.GetConnectionByID(ctx, *claimed.ConnectionID)
	if err != nil {
		t.Fatalf("GetConnectionByID() error = %v", err)
	}
	if !conn.Accepted {
		t.Error("claim should leave the pair with an accepted connection")
	}
}

func TestRejectReceipt(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")
	recipient := seedProfile(t, st, "recipient@lums.edu.pk")
	stranger := seedProfile(t, st, "stranger@lums.edu.pk")

	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "recipient@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}

	if _, err := svc.RejectReceipt(ctx, r.ID, stranger); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("RejectReceipt() stranger error = %v, want ErrNotAuthorized", err)
	}

	rejected, err := svc.RejectReceipt(ctx, r.ID, recipient)
	if err != nil {
		t.Fatalf("RejectReceipt() error = %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("status = %q, want %q", rejected.Status, models.StatusRejected)
	}

	if _, err := svc.RejectReceipt(ctx, uuid.New(), recipient); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("RejectReceipt() unknown id error = %v, want ErrReceiptNotFound", err)
	}
}

func TestClaimReceipt_EmailMatchBypassesFinalizedGuard(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	sender := seedProfile(t, st, "sender@lums.edu.pk")

	r, err := svc.CreateReceipt(ctx, sender, CreateReceiptInput{RecipientEmail: "later@lums.edu.pk"})
	if err != nil {
		t.Fatalf("CreateReceipt() error = %v", err)
	}

	// Force a terminal status while the receipt is still unbound.
	if err := st.UpdateReceiptStatus(ctx, r.ID, models.StatusRejected); err != nil {
		t.Fatalf("UpdateReceiptStatus() error = %v", err)
	}

	claimant := seedProfile(t, st, "later@lums.edu.pk")
	claimed, err := svc.ClaimReceipt(ctx, r.ID, claimant, "later@lums.edu.pk")
	if err != nil {
		t.Fatalf("ClaimReceipt() error = %v (email match may claim from a terminal state)", err)
	}
	if claimed.Status != models.StatusAccepted {
		t.Errorf("status = %q, want %q", claimed.Status, models.StatusAccepted)
	}
}
