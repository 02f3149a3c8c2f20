package mcp

import (
	"encoding/json"
	"fmt"

	battlenet "github.com/peterkuimelis/cardclash/internal/net"
	"github.com/peterkuimelis/cardclash/internal/session"
)

// DecisionType identifies what the battle is waiting for.
type DecisionType string

const (
	DecisionChoosePlay DecisionType = "choose_play"
	DecisionGameOver   DecisionType = "game_over"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	BattleID string                `json:"battle_id"`
	Events   []battlenet.EventView `json:"events"`
	State    *battlenet.StateView  `json:"state,omitempty"`
	Pending  *PendingView          `json:"pending,omitempty"`
	GameOver bool                  `json:"game_over"`
	Winner   string                `json:"winner,omitempty"`
	Result   string                `json:"result,omitempty"`
}

// PendingView is the decision the agent has to make next.
type PendingView struct {
	Type       DecisionType         `json:"type"`
	Plays      []battlenet.PlayView `json:"plays,omitempty"`
	CanEndTurn bool                 `json:"can_end_turn"`
}

// buildResponse folds one or more updates, oldest first, into a tool
// response. Events accumulate; state and pending come from the last one.
func buildResponse(sess *session.Session, updates ...*session.Update) *ToolResponse {
	resp := &ToolResponse{
		BattleID: sess.ID,
		Events:   []battlenet.EventView{},
	}
	if len(updates) == 0 {
		return resp
	}
	for _, u := range updates {
		resp.Events = append(resp.Events, battlenet.BuildEventViews(u.Events)...)
	}

	last := updates[len(updates)-1]
	human := sess.Human()
	resp.State = battlenet.BuildStateView(last.State, human)
	switch {
	case last.GameOver:
		resp.GameOver = true
		resp.Winner = last.Winner
		resp.Result = last.Result
	case last.YourTurn:
		resp.Pending = &PendingView{
			Type:       DecisionChoosePlay,
			Plays:      battlenet.BuildPlayViews(last.State, human, last.Legal),
			CanEndTurn: last.State.CardsPlayed >= last.State.MaxPlays,
		}
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
