package apperror

import "errors"

var (
	ErrOutOfRange   = errors.New("coordinate is out of range")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrNoLegalMoves = errors.New("no legal moves left")

	ErrInvalidMark      = errors.New("invalid mark")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameIsFull       = errors.New("game already has two players")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNotFound         = errors.New("not found")
	ErrUnknownGameType  = errors.New("unknown game type")
)
