package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type GamePlayService interface {
	NewGame(ctx context.Context, playerID, gameType string, mark entity.Cell) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (entity.Move, error)
}

type gamePlayService struct {
	logger *slog.Logger

	playerService      PlayerService
	gameService        GameService
	botService         BotService
	leaderboardService LeaderboardService

	locksMutex sync.Mutex
	locks      map[string]*sync.Mutex
}

func NewGamePlayService(
	logger *slog.Logger,
	playerService PlayerService,
	gameService GameService,
	botService BotService,
	leaderboardService LeaderboardService,
) GamePlayService {
	return &gamePlayService{
		logger:             logger,
		playerService:      playerService,
		gameService:        gameService,
		botService:         botService,
		leaderboardService: leaderboardService,
		locks:              make(map[string]*sync.Mutex),
	}
}

// NewGame - returns the player's unfinished game or starts a new one.
// In a bot game the human picks a mark, X always moves first.
func (that *gamePlayService) NewGame(ctx context.Context, playerID, gameType string, mark entity.Cell) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		game, err := that.gameService.GetGameByID(ctx, player.GameID)
		if err == nil && !game.IsFinished() {
			return game, nil
		}

		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}
	}

	if mark == entity.EmptyCell {
		mark = entity.PlayerX
	}

	if !mark.IsMark() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	game, err := that.gameService.CreateGame(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	player.GameID = game.ID
	player.Mark = entity.PlayerX
	if game.IsWithBot() {
		player.Mark = mark
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Players = []*entity.Player{player}

	if game.IsWithBot() {
		if err = that.addBotToGame(ctx, game, player.Mark.Opponent()); err != nil {
			return nil, fmt.Errorf("failed to add bot to game: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) addBotToGame(ctx context.Context, game *entity.Game, botMark entity.Cell) error {
	botPlayer := entity.NewBotPlayer(uuid.NewString(), game.ID, botMark)
	if err := that.playerService.UpdatePlayer(ctx, botPlayer); err != nil {
		return fmt.Errorf("failed to update bot player: %w", err)
	}

	game.Players = append(game.Players, botPlayer)
	game.Status = entity.StatusOngoing

	if game.IsBotTurn() {
		if _, err := that.botService.MakeTurn(ctx, game); err != nil {
			return fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	return nil
}

func (that *gamePlayService) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	unlock := that.lock(gameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if game.IsWithBot() || len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, gameID)
	}

	player.GameID = game.ID
	player.Mark = entity.PlayerO
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn - applies the player's move and, in a bot game, the bot's reply.
func (that *gamePlayService) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrGameIsNotStarted
	}

	unlock := that.lock(player.GameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsBotTurn() {
		if _, err = that.botService.MakeTurn(ctx, game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		that.finishGame(ctx, game)
	}

	return game, nil
}

// Hint - the move the engine recommends for the player on turn.
func (that *gamePlayService) Hint(ctx context.Context, playerID string) (entity.Move, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return entity.Move{}, apperror.ErrGameIsNotStarted
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return entity.Move{}, err
	}

	if game.Turn != player.Mark {
		return entity.Move{}, apperror.ErrNotYourTurn
	}

	move, err := that.botService.SuggestMove(game, player.Mark)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to suggest move: %w", err)
	}

	return move, nil
}

// finishGame - records the result and frees the players for a new game.
// The finished game stays in storage so its final board can still be read.
func (that *gamePlayService) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	if err := that.leaderboardService.Record(ctx, game); err != nil {
		log.Error("failed to record game result", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot {
			if err := that.playerService.DeletePlayer(ctx, player.ID); err != nil {
				log.Error("failed to delete bot", "player", player.ID, "error", err)
			}

			continue
		}

		released := *player
		released.GameID = ""
		released.Mark = entity.EmptyCell
		if err := that.playerService.UpdatePlayer(ctx, &released); err != nil {
			log.Error("failed to update", "player", player.ID, "error", err)
		}
	}

	log.Info("game finished", "winner", game.Winner)

	that.locksMutex.Lock()
	delete(that.locks, game.ID)
	that.locksMutex.Unlock()
}

// lock - serializes turns of one game.
func (that *gamePlayService) lock(gameID string) func() {
	that.locksMutex.Lock()
	gameLock, ok := that.locks[gameID]
	if !ok {
		gameLock = &sync.Mutex{}
		that.locks[gameID] = gameLock
	}
	that.locksMutex.Unlock()

	gameLock.Lock()

	return gameLock.Unlock
}
