package market

import (
	"context"
	"fmt"
	"strings"
)

// Service answers listing and game queries against a Store.
type Service struct {
	Store Store
	// MaxLimit caps the page size; 0 leaves it unbounded.
	MaxLimit int
}

func NewService(store Store, maxLimit int) *Service {
	return &Service{Store: store, MaxLimit: maxLimit}
}

// FetchPage returns one page of active listings, newest first, plus the total match count.
// The page and the count are two independent reads.
func (s *Service) FetchPage(ctx context.Context, q ListingQuery) (Page, error) {
	q, err := q.normalize(s.MaxLimit)
	if err != nil {
		return Page{}, err
	}
	f := q.Filter()

	var listings []Listing
	if q.offsetFits() {
		if listings, err = s.Store.ListListings(ctx, f, q.Limit, q.Offset()); err != nil {
			return Page{}, err
		}
	}
	total, err := s.Store.CountListings(ctx, f)
	if err != nil {
		return Page{}, err
	}
	if listings == nil {
		listings = []Listing{}
	}
	return Page{
		Listings:   listings,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: TotalPages(total, q.Limit),
	}, nil
}

func (s *Service) Count(ctx context.Context, f Filter) (int, error) {
	if f.GameID < 0 {
		return 0, fmt.Errorf("%w: gameId must be positive", ErrInvalidArgument)
	}
	return s.Store.CountListings(ctx, f)
}

func validateNewListing(in NewListing) error {
	var missing []string
	if in.SellerID <= 0 {
		missing = append(missing, "seller_id")
	}
	if in.GameID <= 0 {
		missing = append(missing, "game_id")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if !in.Price.IsPositive() {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	if in.Level != nil && *in.Level < 0 {
		return fmt.Errorf("%w: level must not be negative", ErrInvalidArgument)
	}
	if in.ItemsCount != nil && *in.ItemsCount < 0 {
		return fmt.Errorf("%w: items_count must not be negative", ErrInvalidArgument)
	}
	return nil
}

// CreateListing inserts an active listing and returns it as stored.
func (s *Service) CreateListing(ctx context.Context, in NewListing) (Listing, error) {
	if err := validateNewListing(in); err != nil {
		return Listing{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	id, err := s.Store.InsertListing(ctx, in)
	if err != nil {
		return Listing{}, err
	}
	return s.Store.GetListing(ctx, id)
}

func (s *Service) GetListing(ctx context.Context, id int64) (Listing, error) {
	if id <= 0 {
		return Listing{}, fmt.Errorf("%w: id must be positive", ErrInvalidArgument)
	}
	return s.Store.GetListing(ctx, id)
}

// ChangeStatus applies a lifecycle transition and returns the listing before and after it.
func (s *Service) ChangeStatus(ctx context.Context, id int64, to Status) (before, after Listing, err error) {
	before, err = s.GetListing(ctx, id)
	if err != nil {
		return Listing{}, Listing{}, err
	}
	if !CanTransition(before.Status, to) {
		return before, Listing{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, before.Status, to)
	}
	ok, err := s.Store.UpdateListingStatus(ctx, id, before.Status, to)
	if err != nil {
		return before, Listing{}, err
	}
	if !ok {
		return before, Listing{}, fmt.Errorf("%w: listing %d changed concurrently", ErrInvalidTransition, id)
	}
	after, err = s.Store.GetListing(ctx, id)
	return before, after, err
}

func (s *Service) ListGames(ctx context.Context) ([]Game, error) {
	return s.Store.ListGames(ctx)
}

// GameBySlug returns nil, nil when no game has that slug.
func (s *Service) GameBySlug(ctx context.Context, slug string) (*Game, error) {
	return s.Store.GetGameBySlug(ctx, slug)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}
