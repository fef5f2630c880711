package market

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ListingQuery is one request for a page of active listings.
type ListingQuery struct {
	Page   int
	Limit  int
	Search string
	GameID int64 // 0 means any game
}

// Filter is the predicate shared by the page and count reads.
type Filter struct {
	Search string
	GameID int64
}

func (q ListingQuery) Filter() Filter {
	return Filter{Search: q.Search, GameID: q.GameID}
}

func (q ListingQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// offsetFits reports whether Offset can be computed without overflowing int.
// Pages that fail it lie past any stored row.
func (q ListingQuery) offsetFits() bool {
	return q.Limit > 0 && q.Page-1 <= math.MaxInt/q.Limit
}

// ParseListingQuery reads page, limit, search and gameId from a query string.
// Absent values take their defaults; present but malformed values fail with ErrInvalidArgument.
// search is used as given, surrounding spaces included.
func ParseListingQuery(v url.Values, defaultLimit int) (ListingQuery, error) {
	q := ListingQuery{Page: 1, Limit: defaultLimit, Search: v.Get("search")}

	var err error
	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%w: page %q is not a number", ErrInvalidArgument, s)
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%w: limit %q is not a number", ErrInvalidArgument, s)
		}
	}
	if s := v.Get("gameId"); s != "" {
		if q.GameID, err = strconv.ParseInt(s, 10, 64); err != nil {
			return q, fmt.Errorf("%w: gameId %q is not a number", ErrInvalidArgument, s)
		}
		if q.GameID <= 0 {
			return q, fmt.Errorf("%w: gameId must be positive", ErrInvalidArgument)
		}
	}
	return q, nil
}

// normalize rejects page < 1 and limit < 1 and clamps limit to maxLimit when maxLimit > 0.
func (q ListingQuery) normalize(maxLimit int) (ListingQuery, error) {
	if q.Page < 1 {
		return q, fmt.Errorf("%w: page must be >= 1", ErrInvalidArgument)
	}
	if q.Limit < 1 {
		return q, fmt.Errorf("%w: limit must be >= 1", ErrInvalidArgument)
	}
	if q.GameID < 0 {
		return q, fmt.Errorf("%w: gameId must be positive", ErrInvalidArgument)
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q, nil
}

// TotalPages is ceil(total/limit), never less than 1.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a substring pattern with LIKE wildcards escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// where renders the filter against the game_accounts alias "ga" with $1.. placeholders.
func (f Filter) where() (string, []any) {
	var b strings.Builder
	b.WriteString("ga.status = 'active'")
	args := make([]any, 0, 2)
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		fmt.Fprintf(&b, " AND (ga.title ILIKE $%d OR ga.description ILIKE $%d)", len(args), len(args))
	}
	if f.GameID > 0 {
		args = append(args, f.GameID)
		fmt.Fprintf(&b, " AND ga.game_id = $%d", len(args))
	}
	return b.String(), args
}

// Matches evaluates the same predicate as where in memory.
func (f Filter) Matches(l Listing) bool {
	if l.Status != StatusActive {
		return false
	}
	if f.GameID > 0 && l.GameID != f.GameID {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(l.Title), needle) ||
		strings.Contains(strings.ToLower(l.Description), needle)
}
