package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type gamePlayDeps struct {
	playerRepo      *mockPlayerRepo
	gameRepo        *mockGameRepo
	leaderboardRepo *mockLeaderboardRepo

	service GamePlayService
}

func newGamePlayDeps() *gamePlayDeps {
	deps := &gamePlayDeps{
		playerRepo:      &mockPlayerRepo{},
		gameRepo:        &mockGameRepo{},
		leaderboardRepo: &mockLeaderboardRepo{},
	}

	deps.service = NewGamePlayService(
		discardLogger(),
		NewPlayerService(deps.playerRepo),
		NewGameService(deps.gameRepo),
		NewBotService(discardLogger(), 0),
		NewLeaderboardService(deps.leaderboardRepo, 10),
	)

	return deps
}

func TestGamePlayService_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot opens when the human picks O", func(t *testing.T) {
		deps := newGamePlayDeps()

		// Given: a player without a game
		deps.playerRepo.On("GetByID", mock.Anything, "human").Return(&entity.Player{ID: "human", Name: "alice"}, nil)
		deps.playerRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil)
		deps.gameRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil)

		// When: starting a bot game as O
		game, err := deps.service.NewGame(ctx, "human", entity.WithBotType, entity.PlayerO)

		// Then: the bot already played the top left corner
		require.NoError(t, err)
		assert.True(t, game.IsOngoing())
		require.Len(t, game.Players, 2)
		assert.Equal(t, entity.PlayerO, game.Players[0].Mark)
		assert.Equal(t, entity.PlayerX, game.GetBot().Mark)
		assert.Equal(t, entity.PlayerX, game.Board[0])
		assert.Equal(t, entity.PlayerO, game.Turn)
	})

	t.Run("PvP game waits for the second player", func(t *testing.T) {
		deps := newGamePlayDeps()

		deps.playerRepo.On("GetByID", mock.Anything, "p1").Return(&entity.Player{ID: "p1"}, nil)
		deps.playerRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil)
		deps.gameRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil)

		game, err := deps.service.NewGame(ctx, "p1", entity.PvPType, entity.PlayerO)

		require.NoError(t, err)
		assert.True(t, game.IsWaiting())
		assert.Equal(t, entity.PlayerX, game.Players[0].Mark)
	})

	t.Run("Returns the unfinished game", func(t *testing.T) {
		deps := newGamePlayDeps()

		existing := newBotGame(entity.Board{}, entity.PlayerX, entity.PlayerO)
		deps.playerRepo.On("GetByID", mock.Anything, "human").Return(&entity.Player{ID: "human", GameID: existing.ID}, nil)
		deps.gameRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		game, err := deps.service.NewGame(ctx, "human", entity.WithBotType, entity.PlayerX)

		require.NoError(t, err)
		assert.Same(t, existing, game)
		deps.gameRepo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Unknown game type", func(t *testing.T) {
		deps := newGamePlayDeps()

		deps.playerRepo.On("GetByID", mock.Anything, "human").Return(&entity.Player{ID: "human"}, nil)

		_, err := deps.service.NewGame(ctx, "human", "chess", entity.PlayerX)

		require.ErrorIs(t, err, apperror.ErrUnknownGameType)
	})
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot answers the human move", func(t *testing.T) {
		deps := newGamePlayDeps()

		// Given: a fresh bot game where the human plays X
		game := newBotGame(entity.Board{}, entity.PlayerX, entity.PlayerO)
		deps.playerRepo.On("GetByID", mock.Anything, "human").Return(game.Players[0], nil)
		deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)
		deps.gameRepo.On("CreateOrUpdate", mock.Anything, game).Return(nil).Once()

		// When: the human takes the center
		updated, err := deps.service.MakeTurn(ctx, "human", 4)

		// Then: the bot answers in the first corner
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, updated.Board[4])
		assert.Equal(t, entity.PlayerO, updated.Board[0])
		assert.Equal(t, entity.PlayerX, updated.Turn)
		assert.Len(t, updated.History, 2)
		deps.gameRepo.AssertExpectations(t)
	})

	t.Run("Winning move records the result and frees the player", func(t *testing.T) {
		deps := newGamePlayDeps()

		// Given:
		//  X | X | _
		//  O | O | _
		//  X | _ | _
		game := newBotGame(entity.Board{
			entity.PlayerX, entity.PlayerX, entity.EmptyCell,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.PlayerX, entity.EmptyCell, entity.EmptyCell,
		}, entity.PlayerO, entity.PlayerX)

		deps.playerRepo.On("GetByID", mock.Anything, "human").Return(game.Players[0], nil)
		deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)
		deps.gameRepo.On("CreateOrUpdate", mock.Anything, game).Return(nil).Once()
		deps.leaderboardRepo.On("Increment", mock.Anything, "alice", entity.Score{Wins: 1}).Return(nil).Once()
		deps.playerRepo.On("DeleteByID", mock.Anything, "bot").Return(nil).Once()
		deps.playerRepo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(player *entity.Player) bool {
			return player.ID == "human" && player.GameID == "" && player.Mark == entity.EmptyCell
		})).Return(nil).Once()

		// When: the human completes the middle row
		updated, err := deps.service.MakeTurn(ctx, "human", 5)

		// Then: the game is over and everything is recorded
		require.NoError(t, err)
		assert.True(t, updated.IsFinished())
		assert.Equal(t, string(entity.PlayerO), updated.Winner)
		assert.Equal(t, &entity.Lines[1], updated.WinLine)
		assert.Equal(t, entity.PlayerO, updated.Players[0].Mark)

		deps.playerRepo.AssertExpectations(t)
		deps.leaderboardRepo.AssertExpectations(t)
	})

	t.Run("Occupied cell", func(t *testing.T) {
		deps := newGamePlayDeps()

		game := newBotGame(entity.Board{entity.PlayerO}, entity.PlayerX, entity.PlayerO)
		deps.playerRepo.On("GetByID", mock.Anything, "human").Return(game.Players[0], nil)
		deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)

		_, err := deps.service.MakeTurn(ctx, "human", 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		deps.gameRepo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Not your turn", func(t *testing.T) {
		deps := newGamePlayDeps()

		game := entity.NewGame("game-1", entity.PvPType)
		game.Status = entity.StatusOngoing
		player := &entity.Player{ID: "p2", Mark: entity.PlayerO, GameID: game.ID}
		game.Players = []*entity.Player{{ID: "p1", Mark: entity.PlayerX, GameID: game.ID}, player}

		deps.playerRepo.On("GetByID", mock.Anything, "p2").Return(player, nil)
		deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)

		_, err := deps.service.MakeTurn(ctx, "p2", 4)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Player without game", func(t *testing.T) {
		deps := newGamePlayDeps()

		deps.playerRepo.On("GetByID", mock.Anything, "p1").Return(&entity.Player{ID: "p1"}, nil)

		_, err := deps.service.MakeTurn(ctx, "p1", 4)

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})
}

func TestGamePlayService_JoinGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Second player joins as O", func(t *testing.T) {
		deps := newGamePlayDeps()

		game := entity.NewGame("game-1", entity.PvPType)
		game.Players = []*entity.Player{{ID: "p1", Mark: entity.PlayerX, GameID: game.ID}}

		deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)
		deps.gameRepo.On("CreateOrUpdate", mock.Anything, game).Return(nil)
		deps.playerRepo.On("GetByID", mock.Anything, "p2").Return(&entity.Player{ID: "p2"}, nil)
		deps.playerRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil)

		joined, err := deps.service.JoinGame(ctx, game.ID, "p2")

		require.NoError(t, err)
		assert.True(t, joined.IsOngoing())
		assert.Equal(t, entity.PlayerO, joined.Players[1].Mark)
	})

	t.Run("Bot games cannot be joined", func(t *testing.T) {
		deps := newGamePlayDeps()

		game := newBotGame(entity.Board{}, entity.PlayerX, entity.PlayerO)
		deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)
		deps.playerRepo.On("GetByID", mock.Anything, "p2").Return(&entity.Player{ID: "p2"}, nil)

		_, err := deps.service.JoinGame(ctx, game.ID, "p2")

		require.ErrorIs(t, err, apperror.ErrGameIsFull)
	})
}

func TestGamePlayService_Hint(t *testing.T) {
	deps := newGamePlayDeps()

	// Given: the human (O) must block the bottom row
	game := newBotGame(entity.Board{
		entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		entity.EmptyCell, entity.PlayerO, entity.EmptyCell,
		entity.PlayerX, entity.PlayerX, entity.EmptyCell,
	}, entity.PlayerO, entity.PlayerX)

	deps.playerRepo.On("GetByID", mock.Anything, "human").Return(game.Players[0], nil)
	deps.gameRepo.On("GetByID", mock.Anything, game.ID).Return(game, nil)

	// When: asking for a hint
	move, err := deps.service.Hint(context.Background(), "human")

	// Then: the blocking cell is suggested
	require.NoError(t, err)
	assert.Equal(t, 8, move.Index())
}
