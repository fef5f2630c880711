package market

import (
	"time"

	"github.com/shopspring/decimal"
)

type Game struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"` // nil for reference data not read from the store
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Listing is one game_accounts row. GameName comes from the join with games.
type Listing struct {
	ID          int64           `json:"id"`
	SellerID    int64           `json:"seller_id"`
	GameID      int64           `json:"game_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       *int            `json:"level"`
	ItemsCount  *int            `json:"items_count"`
	Price       decimal.Decimal `json:"price"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	GameName    string          `json:"game_name,omitempty"`
}

// NewListing is the seller input for CreateListing.
type NewListing struct {
	SellerID    int64           `json:"seller_id"`
	GameID      int64           `json:"game_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       *int            `json:"level,omitempty"`
	ItemsCount  *int            `json:"items_count,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

type Page struct {
	Listings   []Listing
	Page       int
	Limit      int
	Total      int
	TotalPages int
}
