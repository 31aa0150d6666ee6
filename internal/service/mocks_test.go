package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockPlayerRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockLeaderboardRepo struct {
	mock.Mock
}

func (that *mockLeaderboardRepo) Increment(ctx context.Context, name string, delta entity.Score) error {
	args := that.Called(ctx, name, delta)
	return args.Error(0)
}

func (that *mockLeaderboardRepo) GetByName(ctx context.Context, name string) (*entity.Score, error) {
	args := that.Called(ctx, name)
	score, _ := args.Get(0).(*entity.Score)
	return score, args.Error(1)
}

func (that *mockLeaderboardRepo) Top(ctx context.Context, limit int) ([]*entity.Score, error) {
	args := that.Called(ctx, limit)
	scores, _ := args.Get(0).([]*entity.Score)
	return scores, args.Error(1)
}
