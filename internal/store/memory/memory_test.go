package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
)

func TestInsertConnection_PairUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	low, high := models.CanonicalPair(uuid.New(), uuid.New())

	first := &models.Connection{LowID: low, HighID: high, RequestedBy: low}
	if err := s.InsertConnection(ctx, first); err != nil {
		t.Fatalf("InsertConnection() error = %v", err)
	}

	dup := &models.Connection{LowID: low, HighID: high, RequestedBy: high}
	if err := s.InsertConnection(ctx, dup); !errors.Is(err, store.ErrDuplicatePair) {
		t.Errorf("InsertConnection() duplicate error = %v, want ErrDuplicatePair", err)
	}
}

func TestUpsertAcceptedConnection_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	low, high := models.CanonicalPair(uuid.New(), uuid.New())
	first := time.Now().Add(-time.Hour)

	conn, err := s.UpsertAcceptedConnection(ctx, low, high, low, first)
	if err != nil {
		t.Fatalf("UpsertAcceptedConnection() error = %v", err)
	}
	if !conn.Accepted || conn.AcceptedAt == nil {
		t.Fatal("UpsertAcceptedConnection() did not accept the connection")
	}

	again, err := s.UpsertAcceptedConnection(ctx, low, high, high, time.Now())
	if err != nil {
		t.Fatalf("UpsertAcceptedConnection() second call error = %v", err)
	}
	if again.ID != conn.ID {
		t.Errorf("UpsertAcceptedConnection() created a second row: %v vs %v", again.ID, conn.ID)
	}
	if !again.AcceptedAt.Equal(first) {
		t.Errorf("UpsertAcceptedConnection() changed accepted_at: %v, want %v", again.AcceptedAt, first)
	}
	if again.RequestedBy != low {
		t.Errorf("UpsertAcceptedConnection() changed requested_by: %v, want %v", again.RequestedBy, low)
	}
}

func TestUpsertAcceptedConnection_PromotesPending(t *testing.T) {
	s := New()
	ctx := context.Background()

	low, high := models.CanonicalPair(uuid.New(), uuid.New())
	pending := &models.Connection{LowID: low, HighID: high, RequestedBy: low}
	if err := s.InsertConnection(ctx, pending); err != nil {
		t.Fatalf("InsertConnection() error = %v", err)
	}

	conn, err := s.UpsertAcceptedConnection(ctx, low, high, high, time.Now())
	if err != nil {
		t.Fatalf("UpsertAcceptedConnection() error = %v", err)
	}
	if conn.ID != pending.ID {
		t.Errorf("UpsertAcceptedConnection() created a new row for an existing pair")
	}
	if !conn.Accepted || conn.AcceptedAt == nil {
		t.Error("UpsertAcceptedConnection() did not promote the pending row")
	}
}

func TestGetProfileByEmail_CaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &models.Profile{UserID: uuid.New(), Email: "24100123@lums.edu.pk"}
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile() error = %v", err)
	}

	found, err := s.GetProfileByEmail(ctx, "24100123@LUMS.EDU.PK")
	if err != nil {
		t.Fatalf("GetProfileByEmail() error = %v", err)
	}
	if found.UserID != p.UserID {
		t.Errorf("GetProfileByEmail() = %v, want %v", found.UserID, p.UserID)
	}

	if _, err := s.GetProfileByEmail(ctx, "absent@lums.edu.pk"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetProfileByEmail() missing error = %v, want ErrNotFound", err)
	}
}

func TestBindReceiptsFromSender_OnlyUnboundFromSender(t *testing.T) {
	s := New()
	ctx := context.Background()

	sender := uuid.New()
	other := uuid.New()
	newUser := uuid.New()
	connID := uuid.New()
	email := "ghost@lums.edu.pk"

	seed := []models.Receipt{
		{FromUserID: sender, RecipientEmail: email, Status: models.StatusAwaitingSignup},
		{FromUserID: sender, RecipientEmail: "Ghost@LUMS.edu.pk", Status: models.StatusAwaitingSignup},
		{FromUserID: other, RecipientEmail: email, Status: models.StatusAwaitingSignup},
	}
	for i := range seed {
		if err := s.InsertReceipt(ctx, &seed[i]); err != nil {
			t.Fatalf("InsertReceipt() error = %v", err)
		}
	}
	// An already-bound receipt from the same sender should not be touched.
	bound := uuid.New()
	boundReceipt := models.Receipt{FromUserID: sender, ToUserID: &bound, RecipientEmail: email, Status: models.StatusAwaitingAcceptance}
	if err := s.InsertReceipt(ctx, &boundReceipt); err != nil {
		t.Fatalf("InsertReceipt() error = %v", err)
	}

	n, err := s.BindReceiptsFromSender(ctx, email, sender, newUser, connID, models.StatusAwaitingAcceptance)
	if err != nil {
		t.Fatalf("BindReceiptsFromSender() error = %v", err)
	}
	if n != 2 {
		t.Errorf("BindReceiptsFromSender() bound %d receipts, want 2", n)
	}

	remaining, err := s.ListUnboundReceiptsByEmail(ctx, email)
	if err != nil {
		t.Fatalf("ListUnboundReceiptsByEmail() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].FromUserID != other {
		t.Errorf("ListUnboundReceiptsByEmail() = %v, want only the other sender's receipt", remaining)
	}
}
