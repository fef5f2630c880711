package market

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-process Store for tests and local runs without Postgres.
type MemStore struct {
	mu       sync.RWMutex
	games    []Game
	listings []Listing
	sellers  map[int64]bool
	nextID   int64
	now      func() time.Time
}

// NewMemStore returns a store holding the given games. Seller 1 exists from the start.
func NewMemStore(games ...Game) *MemStore {
	return &MemStore{
		games:   append([]Game(nil), games...),
		sellers: map[int64]bool{1: true},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for created_at/updated_at.
func (m *MemStore) WithClock(now func() time.Time) *MemStore {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
	return m
}

func (m *MemStore) gameName(id int64) string {
	for _, g := range m.games {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

func (m *MemStore) ListListings(ctx context.Context, f Filter, limit, offset int) ([]Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]Listing, 0)
	for _, l := range m.listings {
		if f.Matches(l) {
			matched = append(matched, l)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if offset < 0 || offset >= len(matched) {
		return []Listing{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return append([]Listing(nil), matched[offset:end]...), nil
}

func (m *MemStore) CountListings(ctx context.Context, f Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, l := range m.listings {
		if f.Matches(l) {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) InsertListing(ctx context.Context, in NewListing) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gameName(in.GameID) == "" {
		return 0, fmt.Errorf("%w: game %d does not exist", ErrStoreUnavailable, in.GameID)
	}
	if !m.sellers[in.SellerID] {
		return 0, fmt.Errorf("%w: seller %d does not exist", ErrStoreUnavailable, in.SellerID)
	}
	m.nextID++
	now := m.now()
	m.listings = append(m.listings, Listing{
		ID:          m.nextID,
		SellerID:    in.SellerID,
		GameID:      in.GameID,
		Title:       in.Title,
		Description: in.Description,
		Level:       in.Level,
		ItemsCount:  in.ItemsCount,
		Price:       in.Price,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		GameName:    m.gameName(in.GameID),
	})
	return m.nextID, nil
}

func (m *MemStore) GetListing(ctx context.Context, id int64) (Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return Listing{}, fmt.Errorf("listing %d: %w", id, ErrNotFound)
}

func (m *MemStore) UpdateListingStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.listings {
		if m.listings[i].ID == id && m.listings[i].Status == from {
			m.listings[i].Status = to
			m.listings[i].UpdatedAt = m.now()
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) ListingExists(ctx context.Context, sellerID, gameID int64, title string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.listings {
		if l.SellerID == sellerID && l.GameID == gameID && l.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) ListGames(ctx context.Context) ([]Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append([]Game(nil), m.games...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) GetGameBySlug(ctx context.Context, slug string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.games {
		if g.Slug == slug {
			g := g
			return &g, nil
		}
	}
	return nil, nil
}

func (m *MemStore) EnsureSeller(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.sellers[id] = true
	m.mu.Unlock()
	return nil
}

func (m *MemStore) Ping(ctx context.Context) error { return nil }
