package net

import "github.com/peterkuimelis/cardclash/internal/anim"

// Message types for the JSON protocol over TCP and WebSocket.

const (
	MsgUpdate     = "update"
	MsgChoosePlay = "choose_play"
	MsgError      = "error"
	MsgGameOver   = "game_over"

	MsgJoin    = "join"
	MsgPlay    = "play"
	MsgEndTurn = "end_turn"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "update"
	Events     []EventView     `json:"events,omitempty"`
	Animations []anim.Envelope `json:"animations,omitempty"`
	State      *StateView      `json:"state,omitempty"`

	// For "choose_play"
	Plays      []PlayView `json:"plays,omitempty"`
	CanEndTurn bool       `json:"can_end_turn,omitempty"`

	// For "error"
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// For "game_over"
	Winner   string `json:"winner,omitempty"`
	Result   string `json:"result,omitempty"`
	ReplayID string `json:"replay_id,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Side    string `json:"side"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// PlayView is a numbered Hand→Waiting move.
type PlayView struct {
	Index     int    `json:"index"`
	HandIndex int    `json:"hand_index"`
	Slot      int    `json:"slot"`
	Desc      string `json:"desc"`
}

// StateView is the battle from one side's perspective.
type StateView struct {
	You         PlayerView `json:"you"`
	Opponent    PlayerView `json:"opponent"`
	Turn        int        `json:"turn"`
	Phase       string     `json:"phase"`
	IsYourTurn  bool       `json:"is_your_turn"`
	CardsPlayed int        `json:"cards_played"`
	MaxPlays    int        `json:"max_plays"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Side      string     `json:"side"`
	HP        int        `json:"hp"`
	HandCount int        `json:"hand_count"`
	Hand      []CardView `json:"hand,omitempty"` // only for "you"
	Waiting   []ZoneView `json:"waiting"`
	Battle    []ZoneView `json:"battle"`
	Discard   int        `json:"discard"`
	DeckCount int        `json:"deck_count"`
}

// CardView describes a card in hand.
type CardView struct {
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	ATK    int      `json:"atk"`
	HP     int      `json:"hp"`
	CD     int      `json:"cd"`
	Traits []string `json:"traits,omitempty"`
}

// ZoneView describes a single waiting or battle slot.
type ZoneView struct {
	Empty  bool     `json:"empty,omitempty"`
	Name   string   `json:"name,omitempty"`
	ATK    int      `json:"atk,omitempty"`
	HP     int      `json:"hp,omitempty"`
	MaxHP  int      `json:"max_hp,omitempty"`
	CD     int      `json:"cd,omitempty"`
	Traits []string `json:"traits,omitempty"`
	Token  bool     `json:"token,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "play"
	HandIndex int `json:"hand_index,omitempty"`
	Slot      int `json:"slot,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int `json:"deck_number,omitempty"`
}
