package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type sqliteLeaderboard struct {
	db *sql.DB
}

func NewSQLiteLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &sqliteLeaderboard{
		db: db,
	}
}

func (that *sqliteLeaderboard) Increment(ctx context.Context, name string, delta entity.Score) error {
	query := `INSERT INTO scores (name, wins, losses, draws) VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			wins = wins + excluded.wins,
			losses = losses + excluded.losses,
			draws = draws + excluded.draws`

	if _, err := that.db.ExecContext(ctx, query, name, delta.Wins, delta.Losses, delta.Draws); err != nil {
		return fmt.Errorf("failed to increment score: %w", err)
	}

	return nil
}

func (that *sqliteLeaderboard) GetByName(ctx context.Context, name string) (*entity.Score, error) {
	query := `SELECT name, wins, losses, draws FROM scores WHERE name = ?`

	var score entity.Score
	err := that.db.QueryRowContext(ctx, query, name).Scan(&score.Name, &score.Wins, &score.Losses, &score.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScoreNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return &score, nil
}

func (that *sqliteLeaderboard) Top(ctx context.Context, limit int) ([]*entity.Score, error) {
	query := `SELECT name, wins, losses, draws FROM scores ORDER BY wins DESC, name ASC LIMIT ?`

	rows, err := that.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var scores []*entity.Score
	for rows.Next() {
		var score entity.Score
		if err = rows.Scan(&score.Name, &score.Wins, &score.Losses, &score.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}

		scores = append(scores, &score)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return scores, nil
}
