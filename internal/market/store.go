package market

import "context"

// Store is the persistence the listing service runs on.
type Store interface {
	ListListings(ctx context.Context, f Filter, limit, offset int) ([]Listing, error)
	CountListings(ctx context.Context, f Filter) (int, error)
	InsertListing(ctx context.Context, in NewListing) (int64, error)
	// GetListing returns ErrNotFound when no row has that id.
	GetListing(ctx context.Context, id int64) (Listing, error)
	// UpdateListingStatus moves the listing from -> to and reports false when it was not in "from".
	UpdateListingStatus(ctx context.Context, id int64, from, to Status) (bool, error)
	ListingExists(ctx context.Context, sellerID, gameID int64, title string) (bool, error)

	ListGames(ctx context.Context) ([]Game, error)
	// GetGameBySlug returns nil, nil on a miss.
	GetGameBySlug(ctx context.Context, slug string) (*Game, error)

	EnsureSeller(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
