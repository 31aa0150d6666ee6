package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const playerIDHeader = "X-Player-ID"

type createPlayerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type newGameRequest struct {
	Type string      `json:"type"`
	Mark entity.Cell `json:"mark"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
	Row  *int `json:"row"`
	Col  *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type hintResponse struct {
	Move entity.Move `json:"move"`
	Cell int         `json:"cell"`
}

func (that *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	player, err := that.uGame.GetOrCreatePlayer(r.Context(), req.ID, req.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) newGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Type == "" {
		req.Type = entity.WithBotType
	}

	game, err := that.uGame.NewGame(r.Context(), r.Header.Get(playerIDHeader), req.Type, req.Mark)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) joinGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.JoinGame(r.Context(), chi.URLParam(r, "gameID"), r.Header.Get(playerIDHeader))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// makeTurn - plays in the caller's active game, accepts a cell index or a row/col pair.
func (that *Server) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cell, err := req.cellIndex()
	if err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), r.Header.Get(playerIDHeader), cell)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) hint(w http.ResponseWriter, r *http.Request) {
	move, err := that.uGame.Hint(r.Context(), r.Header.Get(playerIDHeader))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, hintResponse{Move: move, Cell: move.Index()})
}

func (that *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := that.uGame.Leaderboard(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	if scores == nil {
		scores = []*entity.Score{}
	}

	that.writeJSON(w, http.StatusOK, scores)
}

func (that *Server) score(w http.ResponseWriter, r *http.Request) {
	score, err := that.uGame.GetScore(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, score)
}

func (that turnRequest) cellIndex() (int, error) {
	if that.Cell != nil {
		return *that.Cell, nil
	}

	if that.Row == nil || that.Col == nil {
		return 0, apperror.ErrOutOfRange
	}

	move, err := entity.NewMove(*that.Row, *that.Col)
	if err != nil {
		return 0, err
	}

	return move.Index(), nil
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrOutOfRange),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrUnknownGameType):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrGameIsFull),
		errors.Is(err, apperror.ErrNoLegalMoves):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
