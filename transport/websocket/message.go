package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player   *entity.Player `json:"player,omitempty"`
	Game     *entity.Game   `json:"game,omitempty"`
	GameType string         `json:"game_type,omitempty"`
	Mark     entity.Cell    `json:"mark,omitempty"`
	Cell     *int           `json:"cell,omitempty"`
	Move     *entity.Move   `json:"move,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// client is one websocket connection; gorilla allows a single concurrent writer.
type client struct {
	conn     *websocket.Conn
	playerID string

	mu sync.Mutex
}

func (that *client) send(action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) sendError(action, errorMsg string) error {
	if err := that.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
