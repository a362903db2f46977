package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmptyResult is returned when saving a result with no players.
var ErrEmptyResult = errors.New("result has no players")

// Result is one finished game.
type Result struct {
	ID         uuid.UUID
	TableID    string
	Server     string
	FinishedAt time.Time
	Players    []ResultPlayer
}

// ResultPlayer is one seat's final line in a Result.
type ResultPlayer struct {
	Seat  int
	Name  string
	Score int
	Rank  int
}

// HighScore is one row of the all-time leaderboard.
type HighScore struct {
	Name       string
	Score      int
	TableID    string
	FinishedAt time.Time
}

// ResultRepository persists finished games.
type ResultRepository struct {
	db *pgxpool.Pool
}

// NewResultRepository creates a ResultRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save writes r and its player rows in one transaction.
//
// Precondition: r.Players must be non-empty.
// Postcondition: Returns the stored Result with ID and FinishedAt set, or an
// error and nothing is written.
func (r *ResultRepository) Save(ctx context.Context, res Result) (Result, error) {
	if len(res.Players) == 0 {
		return Result{}, ErrEmptyResult
	}
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = time.Now()
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO game_results (id, table_id, server, finished_at)
			 VALUES ($1, $2, $3, $4)`,
			res.ID, res.TableID, res.Server, res.FinishedAt,
		); err != nil {
			return fmt.Errorf("inserting result: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range res.Players {
			batch.Queue(
				`INSERT INTO game_result_players (result_id, seat, name, score, rank)
				 VALUES ($1, $2, $3, $4, $5)`,
				res.ID, p.Seat, p.Name, p.Score, p.Rank,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting result players: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Get loads a stored result with its players in seat order.
//
// Postcondition: Returns pgx.ErrNoRows wrapped if id is unknown.
func (r *ResultRepository) Get(ctx context.Context, id uuid.UUID) (Result, error) {
	res := Result{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT table_id, server, finished_at FROM game_results WHERE id = $1`,
		id,
	).Scan(&res.TableID, &res.Server, &res.FinishedAt)
	if err != nil {
		return Result{}, fmt.Errorf("querying result %s: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT seat, name, score, rank FROM game_result_players
		 WHERE result_id = $1 ORDER BY seat`,
		id,
	)
	if err != nil {
		return Result{}, fmt.Errorf("querying result players: %w", err)
	}
	res.Players, err = pgx.CollectRows(rows, pgx.RowToStructByPos[ResultPlayer])
	if err != nil {
		return Result{}, fmt.Errorf("scanning result players: %w", err)
	}
	return res, nil
}

// TopScores returns the highest individual scores across all games, best
// first. Equal scores are ordered by who got there first.
//
// Precondition: limit must be positive.
func (r *ResultRepository) TopScores(ctx context.Context, limit int) ([]HighScore, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	rows, err := r.db.Query(ctx,
		`SELECT p.name, p.score, g.table_id, g.finished_at
		 FROM game_result_players p
		 JOIN game_results g ON g.id = p.result_id
		 ORDER BY p.score DESC, g.finished_at ASC, p.seat ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying top scores: %w", err)
	}
	scores, err := pgx.CollectRows(rows, pgx.RowToStructByPos[HighScore])
	if err != nil {
		return nil, fmt.Errorf("scanning top scores: %w", err)
	}
	return scores, nil
}
