// Package store defines the persistence contract the core depends on. The
// Postgres implementation lives in internal/db; an in-memory implementation
// for tests lives in internal/store/memory.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pledge/internal/models"
)

// Sentinel errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePair is returned when inserting a connection for a pair
	// that already has a row. Concurrent duplicate inserts lose to the
	// unique index on (low_id, high_id) and surface as this error; the
	// core treats it as the already-exists case, never as fatal.
	ErrDuplicatePair = errors.New("connection already exists for pair")
)

// Store is the persistence collaborator. All pair-keyed methods expect the
// (low, high) arguments already in canonical order; email-keyed lookups are
// case-insensitive on normalized input.
type Store interface {
	// Profiles
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error

	// Connections
	GetConnectionByID(ctx context.Context, id uuid.UUID) (*models.Connection, error)
	GetConnectionByPair(ctx context.Context, low, high uuid.UUID) (*models.Connection, error)
	InsertConnection(ctx context.Context, conn *models.Connection) error
	UpsertAcceptedConnection(ctx context.Context, low, high, requestedBy uuid.UUID, at time.Time) (*models.Connection, error)
	MarkConnectionAccepted(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteConnection(ctx context.Context, id uuid.UUID) error
	ListConnectionsForUser(ctx context.Context, userID uuid.UUID) ([]models.Connection, error)

	// Receipts
	InsertReceipt(ctx context.Context, receipt *models.Receipt) error
	GetReceiptByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	ListReceiptsForUser(ctx context.Context, userID uuid.UUID) ([]models.Receipt, error)
	ListUnboundReceiptsByEmail(ctx context.Context, email string) ([]models.Receipt, error)
	BindReceipt(ctx context.Context, id, toUserID, connectionID uuid.UUID) error
	BindReceiptsFromSender(ctx context.Context, email string, fromUserID, toUserID, connectionID uuid.UUID, status string) (int64, error)
	UpdateReceiptStatus(ctx context.Context, id uuid.UUID, status string) error

	// Read projections
	GetLeaderboardStats(ctx context.Context) ([]models.LeaderboardStat, error)
	ListInstitutionEdges(ctx context.Context) ([]models.InstitutionEdge, error)
}
