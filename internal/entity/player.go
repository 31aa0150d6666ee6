package entity

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Mark   Cell   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
	IsBot  bool   `json:"is_bot,omitempty"`
}

const BotName = "computer"

func NewBotPlayer(id, gameID string, mark Cell) *Player {
	return &Player{
		ID:     id,
		Name:   BotName,
		Mark:   mark,
		GameID: gameID,
		IsBot:  true,
	}
}

// Score - win/loss/draw tally of one player name.
type Score struct {
	Name   string `json:"name"`
	Wins   int64  `json:"wins"`
	Losses int64  `json:"losses"`
	Draws  int64  `json:"draws"`
}
