// Package memory provides an in-memory store for tests. It enforces the
// same invariants as the Postgres implementation, in particular pair
// uniqueness and upsert idempotence.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu          sync.RWMutex
	profiles    map[uuid.UUID]models.Profile
	connections map[uuid.UUID]models.Connection
	receipts    map[uuid.UUID]models.Receipt
	edges       []models.InstitutionEdge
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		profiles:    make(map[uuid.UUID]models.Profile),
		connections: make(map[uuid.UUID]models.Connection),
		receipts:    make(map[uuid.UUID]models.Receipt),
	}
}

// --- Profiles ---

func (s *Store) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, strings.TrimSpace(email)) {
			p := p
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetProfilesByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var profiles []models.Profile
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (s *Store) UpsertProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.profiles[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.UserID] = *p
	return nil
}

// --- Connections ---

func (s *Store) GetConnectionByID(_ context.Context, id uuid.UUID) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) GetConnectionByPair(_ context.Context, low, high uuid.UUID) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.findPair(low, high)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) InsertConnection(_ context.Context, c *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findPair(c.LowID, c.HighID); ok {
		return store.ErrDuplicatePair
	}

	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	s.connections[c.ID] = *c
	return nil
}

func (s *Store) UpsertAcceptedConnection(_ context.Context, low, high, requestedBy uuid.UUID, at time.Time) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.findPair(low, high); ok {
		existing.Accepted = true
		if existing.AcceptedAt == nil {
			existing.AcceptedAt = &at
		}
		s.connections[existing.ID] = existing
		return &existing, nil
	}

	c := models.Connection{
		ID:          uuid.New(),
		LowID:       low,
		HighID:      high,
		RequestedBy: requestedBy,
		Accepted:    true,
		AcceptedAt:  &at,
		CreatedAt:   time.Now(),
	}
	s.connections[c.ID] = c
	return &c, nil
}

func (s *Store) MarkConnectionAccepted(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.connections[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Accepted = true
	c.AcceptedAt = &at
	s.connections[id] = c
	return nil
}

func (s *Store) DeleteConnection(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connections[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.connections, id)
	return nil
}

func (s *Store) ListConnectionsForUser(_ context.Context, userID uuid.UUID) ([]models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conns []models.Connection
	for _, c := range s.connections {
		if c.HasParty(userID) {
			conns = append(conns, c)
		}
	}
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].CreatedAt.After(conns[j].CreatedAt)
	})
	return conns, nil
}

func (s *Store) findPair(low, high uuid.UUID) (models.Connection, bool) {
	for _, c := range s.connections {
		if c.LowID == low && c.HighID == high {
			return c, true
		}
	}
	return models.Connection{}, false
}

// --- Receipts ---

func (s *Store) InsertReceipt(_ context.Context, r *models.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.New()
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	s.receipts[r.ID] = *r
	return nil
}

func (s *Store) GetReceiptByID(_ context.Context, id uuid.UUID) (*models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.receipts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListReceiptsForUser(_ context.Context, userID uuid.UUID) ([]models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var receipts []models.Receipt
	for _, r := range s.receipts {
		if r.FromUserID == userID || (r.ToUserID != nil && *r.ToUserID == userID) {
			receipts = append(receipts, r)
		}
	}
	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].CreatedAt.After(receipts[j].CreatedAt)
	})
	return receipts, nil
}

func (s *Store) ListUnboundReceiptsByEmail(_ context.Context, email string) ([]models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var receipts []models.Receipt
	for _, r := range s.receipts {
		if r.ToUserID == nil && strings.EqualFold(r.RecipientEmail, strings.TrimSpace(email)) {
			receipts = append(receipts, r)
		}
	}
	return receipts, nil
}

func (s *Store) BindReceipt(_ context.Context, id, toUserID, connectionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.receipts[id]
	if !ok {
		return store.ErrNotFound
	}
	r.ToUserID = &toUserID
	r.ConnectionID = &connectionID
	r.UpdatedAt = time.Now()
	s.receipts[id] = r
	return nil
}

func (s *Store) BindReceiptsFromSender(_ context.Context, email string, fromUserID, toUserID, connectionID uuid.UUID, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bound int64
	for id, r := range s.receipts {
		if r.ToUserID != nil || r.FromUserID != fromUserID || !strings.EqualFold(r.RecipientEmail, strings.TrimSpace(email)) {
			continue
		}
		to := toUserID
		conn := connectionID
		r.ToUserID = &to
		r.ConnectionID = &conn
		r.Status = status
		r.UpdatedAt = time.Now()
		s.receipts[id] = r
		bound++
	}
	return bound, nil
}

func (s *Store) UpdateReceiptStatus(_ context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.receipts[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	s.receipts[id] = r
	return nil
}

// --- Read projections ---

func (s *Store) GetLeaderboardStats(_ context.Context) ([]models.LeaderboardStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats []models.LeaderboardStat
	for _, p := range s.profiles {
		stat := models.LeaderboardStat{
			UserID:      p.UserID,
			Name:        p.FullName(),
			Institution: p.Institution,
		}
		for _, r := range s.receipts {
			if r.Status != models.StatusAccepted {
				continue
			}
			if r.FromUserID == p.UserID {
				stat.GivenCount++
			}
			if r.ToUserID != nil && *r.ToUserID == p.UserID {
				stat.ReceivedCount++
			}
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (s *Store) ListInstitutionEdges(_ context.Context) ([]models.InstitutionEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var edges []models.InstitutionEdge
	for _, e := range s.edges {
		if e.ExchangeCount > 0 {
			edges = append(edges, e)
		}
	}
	return edges, nil
}

// SetInstitutionEdges seeds the institution graph for tests.
func (s *Store) SetInstitutionEdges(edges []models.InstitutionEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = edges
}
