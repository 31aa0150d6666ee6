package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const BoardSize = 3

type Cell string

const (
	EmptyCell Cell = ""
	PlayerX   Cell = "X"
	PlayerO   Cell = "O"
)

// Opponent - returns the other mark, EmptyCell stays empty.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Cell) IsMark() bool {
	return that == PlayerX || that == PlayerO
}

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewMove(row, col int) (Move, error) {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return Move{}, fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfRange, row, col)
	}

	return Move{Row: row, Col: col}, nil
}

func MoveFromIndex(index int) (Move, error) {
	if index < 0 || index >= BoardSize*BoardSize {
		return Move{}, fmt.Errorf("%w: cell %d", apperror.ErrOutOfRange, index)
	}

	return Move{Row: index / BoardSize, Col: index % BoardSize}, nil
}

func (that Move) Index() int {
	return that.Row*BoardSize + that.Col
}

type Line [3]Move

// Lines - every winning triple: rows, columns, then both diagonals.
var Lines = [8]Line{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWinX    Outcome = "win_x"
	OutcomeWinO    Outcome = "win_o"
	OutcomeDraw    Outcome = "draw"
)

// Board - row-major 3x3 grid, cell index is row*3 + col.
type Board [BoardSize * BoardSize]Cell

func (that *Board) CellAt(row, col int) (Cell, error) {
	move, err := NewMove(row, col)
	if err != nil {
		return EmptyCell, err
	}

	return that[move.Index()], nil
}

// Place - puts mark on an empty cell.
func (that *Board) Place(row, col int, mark Cell) error {
	move, err := NewMove(row, col)
	if err != nil {
		return err
	}

	return that.place(move.Index(), mark)
}

func (that *Board) PlaceAt(index int, mark Cell) error {
	if _, err := MoveFromIndex(index); err != nil {
		return err
	}

	return that.place(index, mark)
}

func (that *Board) place(index int, mark Cell) error {
	if !mark.IsMark() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if that[index] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, index)
	}

	that[index] = mark

	return nil
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// EmptyCells - indexes of empty cells in row-major order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// Winner - reports whether mark owns a full line and returns the first such line.
func (that *Board) Winner(mark Cell) (bool, Line) {
	if !mark.IsMark() {
		return false, Line{}
	}

	for _, line := range Lines {
		if that[line[0].Index()] == mark && that[line[1].Index()] == mark && that[line[2].Index()] == mark {
			return true, line
		}
	}

	return false, Line{}
}

func (that *Board) IsDraw() bool {
	if !that.IsFull() {
		return false
	}

	wonX, _ := that.Winner(PlayerX)
	wonO, _ := that.Winner(PlayerO)

	return !wonX && !wonO
}

func (that *Board) IsTerminal() bool {
	if won, _ := that.Winner(PlayerX); won {
		return true
	}

	if won, _ := that.Winner(PlayerO); won {
		return true
	}

	return that.IsFull()
}

func (that *Board) Outcome() Outcome {
	if won, _ := that.Winner(PlayerX); won {
		return OutcomeWinX
	}

	if won, _ := that.Winner(PlayerO); won {
		return OutcomeWinO
	}

	if that.IsFull() {
		return OutcomeDraw
	}

	return OutcomeOngoing
}

// MarksCount - number of marks placed by each side.
func (that *Board) MarksCount() (int, int) {
	var x, o int
	for _, cell := range that {
		switch cell {
		case PlayerX:
			x++
		case PlayerO:
			o++
		}
	}

	return x, o
}
