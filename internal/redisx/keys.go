package redisx

import "time"

const (
	// Idempotent create listing: idem:listing:create:{idempotency_key} -> listing_id
	KeyIdemListingCreate = "idem:listing:create:%s"

	// Game catalogue cache: JSON array of games ordered by name.
	KeyGamesAll = "games:all"

	// Event dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Per-game activity counters: hash activity:game:{game_id} -> created|sold|deleted
	KeyGameActivity = "activity:game:%d"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLGamesCache  = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
