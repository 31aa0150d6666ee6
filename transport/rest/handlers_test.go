package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetOrCreatePlayer(ctx context.Context, playerID, name string) (*entity.Player, error) {
	args := that.Called(ctx, playerID, name)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockGameUseCase) NewGame(ctx context.Context, playerID, gameType string, mark entity.Cell) (*entity.Game, error) {
	args := that.Called(ctx, playerID, gameType, mark)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, gameID, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	args := that.Called(ctx, gameID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, cell)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) Hint(ctx context.Context, playerID string) (entity.Move, error) {
	args := that.Called(ctx, playerID)
	move, _ := args.Get(0).(entity.Move)
	return move, args.Error(1)
}

func (that *mockGameUseCase) GetScore(ctx context.Context, name string) (*entity.Score, error) {
	args := that.Called(ctx, name)
	score, _ := args.Get(0).(*entity.Score)
	return score, args.Error(1)
}

func (that *mockGameUseCase) Leaderboard(ctx context.Context) ([]*entity.Score, error) {
	args := that.Called(ctx)
	scores, _ := args.Get(0).([]*entity.Score)
	return scores, args.Error(1)
}

func newTestServer(uGame *mockGameUseCase) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, uGame).Router()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(playerIDHeader, "p1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	return recorder
}

func TestServer_Ping(t *testing.T) {
	recorder := doRequest(t, newTestServer(&mockGameUseCase{}), http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestServer_NewGame(t *testing.T) {
	uGame := &mockGameUseCase{}
	handler := newTestServer(uGame)

	// Given: the use case starts a bot game where the bot opened
	game := entity.NewGame("game-1", entity.WithBotType)
	game.Board[0] = entity.PlayerX
	game.Turn = entity.PlayerO
	uGame.On("NewGame", mock.Anything, "p1", entity.WithBotType, entity.PlayerO).Return(game, nil).Once()

	// When: posting a new game without type
	recorder := doRequest(t, handler, http.MethodPost, "/games", `{"mark":"O"}`)

	// Then: the bot game is returned
	require.Equal(t, http.StatusCreated, recorder.Code)

	var body entity.Game
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, game.Board, body.Board)
	assert.Equal(t, entity.PlayerO, body.Turn)
}

func TestServer_MakeTurn(t *testing.T) {
	t.Run("Row and column are converted to a cell", func(t *testing.T) {
		uGame := &mockGameUseCase{}
		handler := newTestServer(uGame)

		game := entity.NewGame("game-1", entity.WithBotType)
		uGame.On("MakeTurn", mock.Anything, "p1", 5).Return(game, nil).Once()

		recorder := doRequest(t, handler, http.MethodPost, "/turns", `{"row":1,"col":2}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		uGame.AssertExpectations(t)
	})

	t.Run("Coordinates outside the grid", func(t *testing.T) {
		uGame := &mockGameUseCase{}
		handler := newTestServer(uGame)

		recorder := doRequest(t, handler, http.MethodPost, "/turns", `{"row":3,"col":0}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		uGame.AssertNotCalled(t, "MakeTurn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Occupied cell is a conflict", func(t *testing.T) {
		uGame := &mockGameUseCase{}
		handler := newTestServer(uGame)

		uGame.On("MakeTurn", mock.Anything, "p1", 0).Return(nil, apperror.ErrCellOccupied).Once()

		recorder := doRequest(t, handler, http.MethodPost, "/turns", `{"cell":0}`)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), apperror.ErrCellOccupied.Error())
	})
}

func TestServer_GetGame(t *testing.T) {
	uGame := &mockGameUseCase{}
	handler := newTestServer(uGame)

	uGame.On("GetGame", mock.Anything, "missing").Return(nil, repository.ErrGameNotFound).Once()

	recorder := doRequest(t, handler, http.MethodGet, "/games/missing", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestServer_Hint(t *testing.T) {
	uGame := &mockGameUseCase{}
	handler := newTestServer(uGame)

	uGame.On("Hint", mock.Anything, "p1").Return(entity.Move{Row: 2, Col: 2}, nil).Once()

	recorder := doRequest(t, handler, http.MethodGet, "/hint", "")

	require.Equal(t, http.StatusOK, recorder.Code)

	var body hintResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, 8, body.Cell)
}

func TestServer_Leaderboard(t *testing.T) {
	t.Run("Empty leaderboard is an empty list", func(t *testing.T) {
		uGame := &mockGameUseCase{}
		handler := newTestServer(uGame)

		uGame.On("Leaderboard", mock.Anything).Return(nil, nil).Once()

		recorder := doRequest(t, handler, http.MethodGet, "/leaderboard", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `[]`, recorder.Body.String())
	})

	t.Run("Score of one player", func(t *testing.T) {
		uGame := &mockGameUseCase{}
		handler := newTestServer(uGame)

		uGame.On("GetScore", mock.Anything, "alice").Return(&entity.Score{Name: "alice", Wins: 1, Draws: 2}, nil).Once()

		recorder := doRequest(t, handler, http.MethodGet, "/leaderboard/alice", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"name":"alice","wins":1,"losses":0,"draws":2}`, recorder.Body.String())
	})
}
