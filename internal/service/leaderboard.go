package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type LeaderboardService interface {
	// Record - adds the result of a finished game to the tally of every human player.
	Record(ctx context.Context, game *entity.Game) error
	GetScore(ctx context.Context, name string) (*entity.Score, error)
	Top(ctx context.Context) ([]*entity.Score, error)
}

type leaderboardRepo interface {
	Increment(ctx context.Context, name string, delta entity.Score) error
	GetByName(ctx context.Context, name string) (*entity.Score, error)
	Top(ctx context.Context, limit int) ([]*entity.Score, error)
}

type leaderboardService struct {
	leaderboardRepo leaderboardRepo
	topLimit        int
}

func NewLeaderboardService(leaderboardRepo leaderboardRepo, topLimit int) LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		topLimit:        topLimit,
	}
}

func (that *leaderboardService) Record(ctx context.Context, game *entity.Game) error {
	if !game.IsFinished() {
		return nil
	}

	for _, player := range game.Players {
		if player.IsBot {
			continue
		}

		var delta entity.Score
		switch game.Winner {
		case entity.PlayerTie:
			delta.Draws = 1
		case string(player.Mark):
			delta.Wins = 1
		default:
			delta.Losses = 1
		}

		if err := that.leaderboardRepo.Increment(ctx, scoreName(player), delta); err != nil {
			return fmt.Errorf("failed to record result of %s: %w", player.ID, err)
		}
	}

	return nil
}

func (that *leaderboardService) GetScore(ctx context.Context, name string) (*entity.Score, error) {
	score, err := that.leaderboardRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

func (that *leaderboardService) Top(ctx context.Context) ([]*entity.Score, error) {
	scores, err := that.leaderboardRepo.Top(ctx, that.topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return scores, nil
}

func scoreName(player *entity.Player) string {
	if player.Name != "" {
		return player.Name
	}

	return player.ID
}
