package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID, name string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID, gameType string, mark entity.Cell) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (entity.Move, error)

	GetScore(ctx context.Context, name string) (*entity.Score, error)
	Leaderboard(ctx context.Context) ([]*entity.Score, error)
}

type playerService interface {
	CreatePlayer(ctx context.Context, name string) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gamePlayService interface {
	NewGame(ctx context.Context, playerID, gameType string, mark entity.Cell) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (entity.Move, error)
}

type leaderboardService interface {
	GetScore(ctx context.Context, name string) (*entity.Score, error)
	Top(ctx context.Context) ([]*entity.Score, error)
}

type gameUseCase struct {
	playerService      playerService
	gamePlayService    gamePlayService
	leaderboardService leaderboardService
}

func NewGameUseCase(playerService playerService, gamePlayService gamePlayService, leaderboardService leaderboardService) GameUseCase {
	return &gameUseCase{
		playerService:      playerService,
		gamePlayService:    gamePlayService,
		leaderboardService: leaderboardService,
	}
}

// GetOrCreatePlayer - an unknown or empty id registers a new player under name.
func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID, name string) (*entity.Player, error) {
	if playerID != "" {
		player, err := that.playerService.GetPlayerByID(ctx, playerID)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	player, err := that.playerService.CreatePlayer(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not create player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) NewGame(ctx context.Context, playerID, gameType string, mark entity.Cell) (*entity.Game, error) {
	game, err := that.gamePlayService.NewGame(ctx, playerID, gameType, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinGame(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gamePlayService.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	game, err := that.gamePlayService.MakeTurn(ctx, playerID, cell)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) Hint(ctx context.Context, playerID string) (entity.Move, error) {
	move, err := that.gamePlayService.Hint(ctx, playerID)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to get hint: %w", err)
	}

	return move, nil
}

func (that *gameUseCase) GetScore(ctx context.Context, name string) (*entity.Score, error) {
	score, err := that.leaderboardService.GetScore(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

func (that *gameUseCase) Leaderboard(ctx context.Context) ([]*entity.Score, error) {
	scores, err := that.leaderboardService.Top(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return scores, nil
}
