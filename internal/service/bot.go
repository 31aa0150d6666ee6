package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	// MakeTurn - plays the bot's reply on game and returns the chosen move.
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
	// SuggestMove - the move the engine would play for mark, game is left unchanged.
	SuggestMove(game *entity.Game, mark entity.Cell) (entity.Move, error)
}

type botService struct {
	logger     *slog.Logger
	thinkDelay time.Duration
}

func NewBotService(logger *slog.Logger, thinkDelay time.Duration) BotService {
	return &botService{
		logger:     logger,
		thinkDelay: thinkDelay,
	}
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", game.ID)

	botPlayer := game.GetBot()
	if botPlayer == nil {
		return entity.Move{}, ErrBotNotFound
	}

	engine, err := minimax.New(botPlayer.Mark)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to create engine: %w", err)
	}

	// the engine works on its own copy, the game applies the move itself
	board := game.Board
	move, err := engine.SelectMove(&board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to select move: %w", err)
	}

	log.Debug("bot selected move", "cell", move.Index(), "nodes", engine.Stats().Nodes)

	if err = that.think(ctx); err != nil {
		return entity.Move{}, err
	}

	if err = game.MakeTurn(botPlayer.Mark, move.Index()); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, nil
}

func (that *botService) SuggestMove(game *entity.Game, mark entity.Cell) (entity.Move, error) {
	engine, err := minimax.New(mark)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to create engine: %w", err)
	}

	board := game.Board
	scores, err := engine.Evaluate(&board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to evaluate board: %w", err)
	}

	best := scores[0]
	for _, candidate := range scores[1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	that.logger.Debug("hint evaluated", "method", "SuggestMove", "game_id", game.ID, "cell", best.Move.Index(), "score", best.Score)

	return best.Move, nil
}

// think - cosmetic pause, the move is already chosen when it starts.
func (that *botService) think(ctx context.Context) error {
	if that.thinkDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(that.thinkDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("bot interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
