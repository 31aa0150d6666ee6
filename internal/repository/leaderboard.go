package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const leaderboardKey = "leaderboard"

var ErrScoreNotFound = fmt.Errorf("score %w", apperror.ErrNotFound)

type LeaderboardRepository interface {
	// Increment - adds delta to the tally of name, creating it when missing.
	Increment(ctx context.Context, name string, delta entity.Score) error
	GetByName(ctx context.Context, name string) (*entity.Score, error)
	// Top - best tallies ordered by wins.
	Top(ctx context.Context, limit int) ([]*entity.Score, error)
}

type dbScore struct {
	Wins   int64 `redis:"wins"`
	Losses int64 `redis:"losses"`
	Draws  int64 `redis:"draws"`
}

type redisLeaderboard struct {
	client *redis.Client
}

func NewRedisLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &redisLeaderboard{
		client: client,
	}
}

func (that *redisLeaderboard) Increment(ctx context.Context, name string, delta entity.Score) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := scoreKey(name)

		pipe.HIncrBy(ctx, key, "wins", delta.Wins)
		pipe.HIncrBy(ctx, key, "losses", delta.Losses)
		pipe.HIncrBy(ctx, key, "draws", delta.Draws)
		pipe.ZIncrBy(ctx, leaderboardKey, float64(delta.Wins), name)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment score: %w", err)
	}

	return nil
}

func (that *redisLeaderboard) GetByName(ctx context.Context, name string) (*entity.Score, error) {
	response := that.client.HGetAll(ctx, scoreKey(name))
	if err := response.Err(); err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	if len(response.Val()) == 0 {
		return nil, ErrScoreNotFound
	}

	var score dbScore
	if err := response.Scan(&score); err != nil {
		return nil, fmt.Errorf("failed to scan score: %w", err)
	}

	return &entity.Score{
		Name:   name,
		Wins:   score.Wins,
		Losses: score.Losses,
		Draws:  score.Draws,
	}, nil
}

func (that *redisLeaderboard) Top(ctx context.Context, limit int) ([]*entity.Score, error) {
	names, err := that.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	scores := make([]*entity.Score, 0, len(names))
	for _, name := range names {
		score, err := that.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}

		scores = append(scores, score)
	}

	return scores, nil
}

func scoreKey(name string) string {
	return "score:" + name
}
