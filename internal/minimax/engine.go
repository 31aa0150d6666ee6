// Package minimax implements the computer opponent: an exhaustive minimax search with
// alpha-beta pruning over the 3x3 board.
//
// Scores are seen from the maximizing mark. A win for the maximizer scores 10 - depth,
// a win for the minimizer depth - 10 and a draw 0, so the engine prefers the fastest
// win and the slowest loss.
package minimax

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	winScore = 10

	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Stats - counters of the last search run by the engine.
type Stats struct {
	Nodes int
}

type MoveScore struct {
	Move  entity.Move `json:"move"`
	Score int         `json:"score"`
}

type Engine struct {
	maxMark entity.Cell
	minMark entity.Cell

	stats Stats
}

// New - creates an engine playing mark as the maximizing side.
func New(mark entity.Cell) (*Engine, error) {
	if !mark.IsMark() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	return &Engine{
		maxMark: mark,
		minMark: mark.Opponent(),
	}, nil
}

func (that *Engine) Mark() entity.Cell {
	return that.maxMark
}

func (that *Engine) Stats() Stats {
	return that.stats
}

// Score - game-theoretic value of board with the given side to move.
// The board is mutated during the search and restored before returning.
func (that *Engine) Score(board *entity.Board, depth int, maximizing bool, alpha, beta int) int {
	that.stats.Nodes++

	if won, _ := board.Winner(that.maxMark); won {
		return winScore - depth
	}

	if won, _ := board.Winner(that.minMark); won {
		return depth - winScore
	}

	if board.IsFull() {
		return 0
	}

	if maximizing {
		best := NegInf
		for i := range board {
			if board[i] != entity.EmptyCell {
				continue
			}

			board[i] = that.maxMark
			score := that.Score(board, depth+1, false, alpha, beta)
			board[i] = entity.EmptyCell

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				return best
			}
		}

		return best
	}

	best := PosInf
	for i := range board {
		if board[i] != entity.EmptyCell {
			continue
		}

		board[i] = that.minMark
		score := that.Score(board, depth+1, true, alpha, beta)
		board[i] = entity.EmptyCell

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			return best
		}
	}

	return best
}

// Evaluate - scores every legal move of the maximizing side in row-major order.
// The board is left unchanged.
func (that *Engine) Evaluate(board *entity.Board) ([]MoveScore, error) {
	if board.IsFull() {
		return nil, apperror.ErrNoLegalMoves
	}

	that.stats = Stats{}

	scores := make([]MoveScore, 0, len(board))
	for _, cell := range board.EmptyCells() {
		board[cell] = that.maxMark
		score := that.Score(board, 0, false, NegInf, PosInf)
		board[cell] = entity.EmptyCell

		move, err := entity.MoveFromIndex(cell)
		if err != nil {
			return nil, err
		}

		scores = append(scores, MoveScore{Move: move, Score: score})
	}

	return scores, nil
}

// SelectMove - picks the best move for the maximizing side and places it on board.
// Ties go to the first move in row-major order.
func (that *Engine) SelectMove(board *entity.Board) (entity.Move, error) {
	scores, err := that.Evaluate(board)
	if err != nil {
		return entity.Move{}, err
	}

	best := scores[0]
	for _, candidate := range scores[1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	if err = board.Place(best.Move.Row, best.Move.Col, that.maxMark); err != nil {
		return entity.Move{}, fmt.Errorf("failed to apply move: %w", err)
	}

	return best.Move, nil
}
