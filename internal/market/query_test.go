package market

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingQueryDefaults(t *testing.T) {
	q, err := ParseListingQuery(url.Values{}, 10)
	require.NoError(t, err)
	assert.Equal(t, ListingQuery{Page: 1, Limit: 10}, q)
}

func TestParseListingQueryValues(t *testing.T) {
	v := url.Values{"page": {"3"}, "limit": {"25"}, "search": {" Prestige "}, "gameId": {"6"}}
	q, err := ParseListingQuery(v, 10)
	require.NoError(t, err)
	assert.Equal(t, ListingQuery{Page: 3, Limit: 25, Search: " Prestige ", GameID: 6}, q)
}

func TestParseListingQueryMalformed(t *testing.T) {
	cases := map[string]url.Values{
		"page":         {"page": {"two"}},
		"limit":        {"limit": {"1e3"}},
		"gameId":       {"gameId": {"valorant"}},
		"gameId zero":  {"gameId": {"0"}},
		"gameId minus": {"gameId": {"-4"}},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListingQuery(v, 10)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestNormalize(t *testing.T) {
	_, err := ListingQuery{Page: 0, Limit: 10}.normalize(100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ListingQuery{Page: 1, Limit: 0}.normalize(100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ListingQuery{Page: 1, Limit: -5}.normalize(100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	q, err := ListingQuery{Page: 2, Limit: 500}.normalize(100)
	require.NoError(t, err)
	assert.Equal(t, 100, q.Limit)

	q, err = ListingQuery{Page: 2, Limit: 500}.normalize(0)
	require.NoError(t, err)
	assert.Equal(t, 500, q.Limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, ListingQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, ListingQuery{Page: 3, Limit: 10}.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(24, 10))
	assert.Equal(t, 24, TotalPages(24, 1))
}

func TestFilterWhere(t *testing.T) {
	where, args := Filter{}.where()
	assert.Equal(t, "ga.status = 'active'", where)
	assert.Empty(t, args)

	where, args = Filter{Search: "Prestige", GameID: 5}.where()
	assert.Equal(t, "ga.status = 'active' AND (ga.title ILIKE $1 OR ga.description ILIKE $1) AND ga.game_id = $2", where)
	assert.Equal(t, []any{"%Prestige%", int64(5)}, args)

	where, args = Filter{GameID: 6}.where()
	assert.Equal(t, "ga.status = 'active' AND ga.game_id = $1", where)
	assert.Equal(t, []any{int64(6)}, args)
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\x%`, likePattern(`c:\x`))
}

func TestFilterMatches(t *testing.T) {
	l := Listing{GameID: 6, Title: "Compte Valorant", Description: "Skins premium", Status: StatusActive}

	assert.True(t, Filter{}.Matches(l))
	assert.True(t, Filter{Search: "valorant"}.Matches(l), "case-insensitive title match")
	assert.True(t, Filter{Search: "PREMIUM"}.Matches(l), "description match")
	assert.False(t, Filter{Search: "fortnite"}.Matches(l))
	assert.False(t, Filter{GameID: 5}.Matches(l))

	l.Status = StatusSold
	assert.False(t, Filter{}.Matches(l))
}
