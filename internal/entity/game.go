package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerTie = "-"
)

const (
	PvPType     = "pvp"
	WithBotType = "bot"
)

type Turn struct {
	Mark Cell `json:"mark"`
	Cell int  `json:"cell"`
}

type Game struct {
	ID      string    `json:"id"`
	Board   Board     `json:"board"`
	Winner  string    `json:"winner"`
	WinLine *Line     `json:"win_line,omitempty"`
	Status  string    `json:"status"`
	Turn    Cell      `json:"player_turn"`
	Players []*Player `json:"players,omitempty"`
	Type    string    `json:"type,omitempty"`
	History []Turn    `json:"history,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Turn:   PlayerX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

func IsKnownGameType(gameType string) bool {
	return gameType == PvPType || gameType == WithBotType
}

func (that *Game) UpdateGameState() {
	if won, line := that.Board.Winner(PlayerX); won {
		that.finish(string(PlayerX), &line)
		return
	}

	if won, line := that.Board.Winner(PlayerO); won {
		that.finish(string(PlayerO), &line)
		return
	}

	if that.Board.IsFull() {
		that.finish(PlayerTie, nil)
		return
	}

	that.Status = StatusOngoing
}

func (that *Game) finish(winner string, line *Line) {
	that.Winner = winner
	that.WinLine = line
	that.Status = StatusFinished
	that.Turn = EmptyCell
}

// MakeTurn - applies mark to cell for the side whose turn it is.
func (that *Game) MakeTurn(playerMark Cell, cell int) error {
	if _, err := MoveFromIndex(cell); err != nil {
		return err
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if err := that.Board.PlaceAt(cell, playerMark); err != nil {
		return err
	}

	that.History = append(that.History, Turn{Mark: playerMark, Cell: cell})
	that.Turn = playerMark.Opponent()

	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) GetBot() *Player {
	for _, player := range that.Players {
		if player.IsBot {
			return player
		}
	}

	return nil
}

func (that *Game) GetPlayerByMark(mark Cell) *Player {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}

	return nil
}

// IsBotTurn - the game is ongoing and the bot holds the current mark.
func (that *Game) IsBotTurn() bool {
	bot := that.GetBot()

	return bot != nil && that.IsOngoing() && that.Turn == bot.Mark
}
