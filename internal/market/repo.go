package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DB is the subset of *pgxpool.Pool the repo needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Repo is the Postgres Store.
type Repo struct{ DB DB }

const listingColumns = `ga.id, ga.seller_id, ga.game_id, ga.title, ga.description, ga.level, ga.items_count,
       ga.price::text, ga.status, ga.created_at, ga.updated_at, g.name`

const listingFrom = `
FROM game_accounts ga
JOIN games g ON ga.game_id = g.id`

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (Listing, error) {
	var (
		l      Listing
		price  string
		status string
	)
	if err := row.Scan(&l.ID, &l.SellerID, &l.GameID, &l.Title, &l.Description, &l.Level, &l.ItemsCount,
		&price, &status, &l.CreatedAt, &l.UpdatedAt, &l.GameName); err != nil {
		return Listing{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Listing{}, fmt.Errorf("price %q: %w", price, err)
	}
	l.Price = p
	l.Status = Status(status)
	return l, nil
}

func scanGame(row rowScanner) (Game, error) {
	var (
		g                Game
		created, updated time.Time
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &created, &updated); err != nil {
		return Game{}, err
	}
	g.CreatedAt, g.UpdatedAt = &created, &updated
	return g, nil
}

func (r *Repo) ListListings(ctx context.Context, f Filter, limit, offset int) ([]Listing, error) {
	where, args := f.where()
	sql := fmt.Sprintf(`SELECT %s %s
WHERE %s
ORDER BY ga.created_at DESC, ga.id DESC
LIMIT $%d OFFSET $%d`, listingColumns, listingFrom, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("list listings", err)
	}
	defer rows.Close()

	out := make([]Listing, 0, min(limit, 64))
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, storeErr("scan listing", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list listings", err)
	}
	return out, nil
}

func (r *Repo) CountListings(ctx context.Context, f Filter) (int, error) {
	where, args := f.where()
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM game_accounts ga WHERE `+where, args...).Scan(&n)
	if err != nil {
		return 0, storeErr("count listings", err)
	}
	return int(n), nil
}

func (r *Repo) InsertListing(ctx context.Context, in NewListing) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO game_accounts (seller_id, game_id, title, description, level, items_count, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
		RETURNING id`,
		in.SellerID, in.GameID, in.Title, in.Description, in.Level, in.ItemsCount, in.Price.String(),
	).Scan(&id)
	if err != nil {
		return 0, storeErr("insert listing", err)
	}
	return id, nil
}

func (r *Repo) GetListing(ctx context.Context, id int64) (Listing, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+listingColumns+listingFrom+`
WHERE ga.id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Listing{}, storeErr("get listing", err)
	}
	return l, nil
}

func (r *Repo) UpdateListingStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE game_accounts SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`, id, string(from), string(to))
	if err != nil {
		return false, storeErr("update listing status", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) ListingExists(ctx context.Context, sellerID, gameID int64, title string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM game_accounts WHERE seller_id = $1 AND game_id = $2 AND title = $3
		)`, sellerID, gameID, title).Scan(&ok)
	if err != nil {
		return false, storeErr("listing exists", err)
	}
	return ok, nil
}

func (r *Repo) ListGames(ctx context.Context) ([]Game, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, slug, description, created_at, updated_at
                                FROM games ORDER BY name`)
	if err != nil {
		return nil, storeErr("list games", err)
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, storeErr("scan game", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list games", err)
	}
	return out, nil
}

func (r *Repo) GetGameBySlug(ctx context.Context, slug string) (*Game, error) {
	g, err := scanGame(r.DB.QueryRow(ctx, `SELECT id, name, slug, description, created_at, updated_at
                                         FROM games WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get game", err)
	}
	return &g, nil
}

// EnsureSeller creates the demo seller row used by seeding when it does not exist yet.
func (r *Repo) EnsureSeller(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_verified)
		VALUES ($1, 'demo', 'demo@example.com', 'hash-demo', true)
		ON CONFLICT DO NOTHING`, id)
	if err != nil {
		return storeErr("ensure seller", err)
	}
	// explicit ids leave the serial behind
	_, err = r.DB.Exec(ctx, `SELECT setval(pg_get_serial_sequence('users', 'id'), GREATEST((SELECT MAX(id) FROM users), 1))`)
	if err != nil {
		return storeErr("ensure seller", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := r.DB.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}
