package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var errNotConnected = errors.New("player is not connected")

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *client) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return conn.sendError(msg.Action, "invalid payload")
	}

	var playerID, name string
	if payloadReq.Player != nil {
		playerID, name = payloadReq.Player.ID, payloadReq.Player.Name
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID, name)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return conn.sendError(msg.Action, "failed to create a new player")
	}

	conn.playerID = player.ID

	that.connectionsMutex.Lock()
	that.connections[player.ID] = conn
	that.connectionsMutex.Unlock()

	if err = conn.send(msg.Action, Payload{Player: player}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *client) error {
	log := that.logger.With("method", "handleNewGame")

	if conn.playerID == "" {
		return conn.sendError(msg.Action, errNotConnected.Error())
	}

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return conn.sendError(msg.Action, "invalid payload")
	}

	gameType := payloadReq.GameType
	if gameType == "" {
		gameType = entity.WithBotType
	}

	game, err := that.uGame.NewGame(ctx, conn.playerID, gameType, payloadReq.Mark)
	if err != nil {
		log.Error("failed to create game", "playerID", conn.playerID, "error", err)
		return conn.sendError(msg.Action, err.Error())
	}

	that.broadcast(msg.Action, game)

	log.Info("game started", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *client) error {
	log := that.logger.With("method", "handleJoinGame")

	if conn.playerID == "" {
		return conn.sendError(msg.Action, errNotConnected.Error())
	}

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil || payloadReq.Game == nil {
		return conn.sendError(msg.Action, "game is required")
	}

	game, err := that.uGame.JoinGame(ctx, payloadReq.Game.ID, conn.playerID)
	if err != nil {
		log.Error("failed to join game", "gameID", payloadReq.Game.ID, "error", err)
		return conn.sendError(msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcast(msg.Action, game)

	log.Info("player joined game", "gameID", game.ID, "playerID", conn.playerID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *client) error {
	log := that.logger.With("method", "handleGameTurn")

	if conn.playerID == "" {
		return conn.sendError(msg.Action, errNotConnected.Error())
	}

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil || payloadReq.Cell == nil {
		return conn.sendError(msg.Action, "cell is required")
	}

	game, err := that.uGame.MakeTurn(ctx, conn.playerID, *payloadReq.Cell)
	if err != nil {
		log.Warn("failed to make turn", "playerID", conn.playerID, "error", err)
		return conn.sendError(msg.Action, err.Error())
	}

	that.broadcast(msg.Action, game)

	if game.IsFinished() {
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
	}

	return nil
}

func (that *Server) handleGameHint(ctx context.Context, msg *Message, conn *client) error {
	if conn.playerID == "" {
		return conn.sendError(msg.Action, errNotConnected.Error())
	}

	move, err := that.uGame.Hint(ctx, conn.playerID)
	if err != nil {
		return conn.sendError(msg.Action, err.Error())
	}

	cell := move.Index()

	return conn.send(msg.Action, Payload{Move: &move, Cell: &cell})
}

// broadcast - pushes the game to every connected human player of it.
func (that *Server) broadcast(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "gameID", game.ID)

	for _, player := range game.Players {
		if player.IsBot {
			continue
		}

		that.connectionsMutex.RLock()
		conn, ok := that.connections[player.ID]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		if err := conn.send(action, Payload{Player: player, Game: game}); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}
