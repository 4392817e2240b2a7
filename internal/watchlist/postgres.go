package watchlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied at startup. The (user_id, mal_id) unique constraint
// backs the duplicate-entry rule at the storage boundary.
const Schema = `
CREATE TABLE IF NOT EXISTS watchlist (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    mal_id          BIGINT NOT NULL,
    anime_title     TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'plan_to_watch',
    current_episode INT NOT NULL DEFAULT 0,
    total_episodes  INT,
    score           INT,
    start_date      TIMESTAMPTZ,
    finish_date     TIMESTAMPTZ,
    notes           TEXT,
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, mal_id)
);
CREATE INDEX IF NOT EXISTS watchlist_user_updated_idx
    ON watchlist (user_id, updated_at DESC);
`

const itemColumns = `id, user_id, mal_id, anime_title, status, current_episode,
	total_episodes, score, start_date, finish_date, notes, created_at, updated_at`

// PostgresStore persists watchlist items in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by Postgres.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the watchlist schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}

func (s *PostgresStore) Add(ctx context.Context, it Item) (Item, error) {
	it.ID = uuid.NewString()
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now

	const q = `INSERT INTO watchlist
	    (id, user_id, mal_id, anime_title, status, current_episode,
	     total_episodes, score, start_date, finish_date, notes, created_at, updated_at)
	    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.pool.Exec(ctx, q,
		it.ID, it.UserID, it.MalID, it.AnimeTitle, it.Status, it.CurrentEpisode,
		it.TotalEpisodes, it.Score, it.StartDate, it.FinishDate, it.Notes,
		it.CreatedAt, it.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Item{}, ErrDuplicate
		}
		return Item{}, err
	}
	return it, nil
}

func (s *PostgresStore) List(ctx context.Context, userID, status string) ([]Item, error) {
	q := `SELECT ` + itemColumns + ` FROM watchlist WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY updated_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, itemID string, upd Update) (Item, error) {
	// COALESCE keeps the stored value for every field the caller omitted;
	// Update never clears a field back to NULL, matching partial-merge
	// semantics.
	const q = `UPDATE watchlist SET
	    status          = COALESCE($2, status),
	    current_episode = COALESCE($3, current_episode),
	    score           = COALESCE($4, score),
	    notes           = COALESCE($5, notes),
	    finish_date     = COALESCE($6, finish_date),
	    updated_at      = $7
	    WHERE id = $1
	    RETURNING ` + itemColumns
	row := s.pool.QueryRow(ctx, q, itemID,
		upd.Status, upd.CurrentEpisode, upd.Score, upd.Notes, upd.FinishDate,
		time.Now().UTC())
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (s *PostgresStore) Remove(ctx context.Context, itemID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlist WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.UserID, &it.MalID, &it.AnimeTitle, &it.Status,
		&it.CurrentEpisode, &it.TotalEpisodes, &it.Score, &it.StartDate,
		&it.FinishDate, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}
