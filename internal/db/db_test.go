package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
	"pledge/internal/testutil"
)

func TestProfileRoundTrip(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	id := testutil.CreateTestProfile(t, database, "24100001@lums.edu.pk", "LUMS")

	profile, err := database.GetProfileByUserID(ctx, id)
	if err != nil {
		t.Fatalf("GetProfileByUserID: %v", err)
	}
	if profile.Email != "24100001@lums.edu.pk" {
		t.Errorf("email = %q", profile.Email)
	}

	// Lookup is case insensitive
	profile, err = database.GetProfileByEmail(ctx, "24100001@LUMS.EDU.PK")
	if err != nil {
		t.Fatalf("GetProfileByEmail: %v", err)
	}
	if profile.UserID != id {
		t.Errorf("user_id = %s, want %s", profile.UserID, id)
	}

	if _, err := database.GetProfileByEmail(ctx, "nobody@lums.edu.pk"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing profile error = %v, want ErrNotFound", err)
	}
}

func TestConnectionPairUniqueness(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	a := testutil.CreateTestProfile(t, database, "a@lums.edu.pk", "LUMS")
	b := testutil.CreateTestProfile(t, database, "b@lums.edu.pk", "LUMS")
	low, high := models.CanonicalPair(a, b)

	first := &models.Connection{ID: uuid.New(), LowID: low, HighID: high, RequestedBy: a}
	if err := database.InsertConnection(ctx, first); err != nil {
		t.Fatalf("InsertConnection: %v", err)
	}

	dup := &models.Connection{ID: uuid.New(), LowID: low, HighID: high, RequestedBy: b}
	if err := database.InsertConnection(ctx, dup); !errors.Is(err, store.ErrDuplicatePair) {
		t.Errorf("duplicate insert error = %v, want ErrDuplicatePair", err)
	}
}

func TestUpsertAcceptedConnectionIdempotent(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	a := testutil.CreateTestProfile(t, database, "a@lums.edu.pk", "LUMS")
	b := testutil.CreateTestProfile(t, database, "b@lums.edu.pk", "LUMS")
	low, high := models.CanonicalPair(a, b)

	t1 := time.Now().UTC().Truncate(time.Millisecond)
	first, err := database.UpsertAcceptedConnection(ctx, low, high, a, t1)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := database.UpsertAcceptedConnection(ctx, low, high, b, t1.Add(time.Hour))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Error("upsert should reuse the existing row")
	}
	if second.RequestedBy != a {
		t.Errorf("requested_by = %s, want original requester %s", second.RequestedBy, a)
	}
	if second.AcceptedAt == nil || !second.AcceptedAt.Equal(*first.AcceptedAt) {
		t.Errorf("accepted_at changed on re-upsert: %v vs %v", second.AcceptedAt, first.AcceptedAt)
	}
}

func TestReceiptBindingFlow(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender := testutil.CreateTestProfile(t, database, "sender@lums.edu.pk", "LUMS")

	receipt := &models.Receipt{
		ID:             uuid.New(),
		FromUserID:     sender,
		RecipientEmail: "future@lums.edu.pk",
		Tags:           []string{"khoka"},
		Status:         models.StatusAwaitingSignup,
	}
	if err := database.InsertReceipt(ctx, receipt); err != nil {
		t.Fatalf("InsertReceipt: %v", err)
	}

	unbound, err := database.ListUnboundReceiptsByEmail(ctx, "FUTURE@lums.edu.pk")
	if err != nil {
		t.Fatalf("ListUnboundReceiptsByEmail: %v", err)
	}
	if len(unbound) != 1 {
		t.Fatalf("unbound receipts = %d, want 1", len(unbound))
	}

	newUser := testutil.CreateTestProfile(t, database, "future@lums.edu.pk", "LUMS")
	low, high := models.CanonicalPair(sender, newUser)
	conn, err := database.UpsertAcceptedConnection(ctx, low, high, newUser, time.Now().UTC())
	if err != nil {
		t.Fatalf("UpsertAcceptedConnection: %v", err)
	}

	n, err := database.BindReceiptsFromSender(ctx, "future@lums.edu.pk", sender, newUser, conn.ID, models.StatusAwaitingAcceptance)
	if err != nil {
		t.Fatalf("BindReceiptsFromSender: %v", err)
	}
	if n != 1 {
		t.Errorf("bound %d receipts, want 1", n)
	}

	got, err := database.GetReceiptByID(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("GetReceiptByID: %v", err)
	}
	if got.ToUserID == nil || *got.ToUserID != newUser {
		t.Error("receipt not bound to the new account")
	}
	if got.Status != models.StatusAwaitingAcceptance {
		t.Errorf("status = %q, want %q", got.Status, models.StatusAwaitingAcceptance)
	}
}

func TestLeaderboardAndEdges(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	sender := testutil.CreateTestProfile(t, database, "s@lums.edu.pk", "LUMS")
	recipient := testutil.CreateTestProfile(t, database, "r@nust.edu.pk", "NUST")

	receipt := &models.Receipt{
		ID:             uuid.New(),
		FromUserID:     sender,
		ToUserID:       &recipient,
		RecipientEmail: "r@nust.edu.pk",
		Status:         models.StatusAccepted,
	}
	if err := database.InsertReceipt(ctx, receipt); err != nil {
		t.Fatalf("InsertReceipt: %v", err)
	}

	stats, err := database.GetLeaderboardStats(ctx)
	if err != nil {
		t.Fatalf("GetLeaderboardStats: %v", err)
	}
	byUser := make(map[uuid.UUID]models.LeaderboardStat, len(stats))
	for _, s := range stats {
		byUser[s.UserID] = s
	}
	if byUser[sender].GivenCount != 1 {
		t.Errorf("sender given = %d, want 1", byUser[sender].GivenCount)
	}
	if byUser[recipient].ReceivedCount != 1 {
		t.Errorf("recipient received = %d, want 1", byUser[recipient].ReceivedCount)
	}

	if err := database.RebuildInstitutionEdges(ctx); err != nil {
		t.Fatalf("RebuildInstitutionEdges: %v", err)
	}
	edges, err := database.ListInstitutionEdges(ctx)
	if err != nil {
		t.Fatalf("ListInstitutionEdges: %v", err)
	}
	if len(edges) != 1 || edges[0].FromInstitution != "LUMS" || edges[0].ToInstitution != "NUST" || edges[0].ExchangeCount != 1 {
		t.Errorf("edges = %+v, want one LUMS->NUST edge with count 1", edges)
	}
}
