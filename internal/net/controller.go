package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/game"
	"github.com/peterkuimelis/cardclash/internal/log"
	"github.com/peterkuimelis/cardclash/internal/session"
)

// NetworkController plays the human side of a session for a remote client.
type NetworkController struct {
	conn io.ReadWriter
	enc  *json.Encoder
	dec  *json.Decoder
	sess *session.Session
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn io.ReadWriter, sess *session.Session) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
		sess: sess,
	}
}

// BuildStateView creates a StateView from the perspective of the given side.
func BuildStateView(snap game.Snapshot, side game.Side) *StateView {
	sv := &StateView{
		Turn:        snap.Turn,
		Phase:       snap.Phase,
		IsYourTurn:  snap.Active == side && !snap.Over,
		CardsPlayed: snap.CardsPlayed,
		MaxPlays:    snap.MaxPlays,
		You:         buildPlayerView(snap.Sides[side], side),
		Opponent:    buildPlayerView(snap.Sides[side.Opponent()], side.Opponent()),
	}
	sv.Opponent.Hand = nil
	return sv
}

func buildPlayerView(v game.SideView, side game.Side) PlayerView {
	pv := PlayerView{
		Side:      side.String(),
		HP:        v.HP,
		HandCount: len(v.Hand),
		Discard:   len(v.Discard),
		DeckCount: v.Deck,
		Waiting:   zoneViews(v.Waiting),
		Battle:    zoneViews(v.Battle),
	}
	for i, c := range v.Hand {
		pv.Hand = append(pv.Hand, CardView{
			Index:  i,
			Name:   c.Name,
			ATK:    c.ATK,
			HP:     c.HP,
			CD:     c.CD,
			Traits: c.Traits,
		})
	}
	return pv
}

func zoneViews(slots []*game.CardView) []ZoneView {
	out := make([]ZoneView, len(slots))
	for i, c := range slots {
		if c == nil {
			out[i] = ZoneView{Empty: true}
			continue
		}
		out[i] = ZoneView{
			Name:   c.Name,
			ATK:    c.ATK,
			HP:     c.HP,
			MaxHP:  c.MaxHP,
			CD:     c.CD,
			Traits: c.Traits,
			Token:  c.Token,
		}
	}
	return out
}

// BuildEventViews converts engine events for the wire.
func BuildEventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, len(events))
	for i, e := range events {
		out[i] = EventView{
			Seq:     e.Seq,
			Turn:    e.Turn,
			Phase:   e.Phase,
			Side:    log.SideName(e.Player),
			Type:    e.Type.String(),
			Card:    e.Card,
			Details: e.Details,
		}
	}
	return out
}

// BuildPlayViews numbers the legal plays and describes each one.
func BuildPlayViews(snap game.Snapshot, side game.Side, legal []game.Play) []PlayView {
	hand := snap.Sides[side].Hand
	out := make([]PlayView, len(legal))
	for i, p := range legal {
		desc := p.String()
		if p.HandIndex < len(hand) {
			c := hand[p.HandIndex]
			desc = fmt.Sprintf("Play %s (%d/%d, CD %d) to waiting slot %d", c.Name, c.ATK, c.HP, c.CD, p.Slot+1)
		}
		out[i] = PlayView{Index: i, HandIndex: p.HandIndex, Slot: p.Slot, Desc: desc}
	}
	return out
}

func (nc *NetworkController) send(msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.enc.Encode(msg)
}

// SendUpdate sends the update, then a choose_play or game_over message when
// the update calls for one.
func (nc *NetworkController) SendUpdate(u *session.Update) error {
	human := nc.sess.Human()
	if err := nc.send(ServerMessage{
		Type:       MsgUpdate,
		Events:     BuildEventViews(u.Events),
		Animations: u.Animations,
		State:      BuildStateView(u.State, human),
	}); err != nil {
		return err
	}
	switch {
	case u.GameOver:
		return nc.send(ServerMessage{
			Type:     MsgGameOver,
			Winner:   u.Winner,
			Result:   u.Result,
			ReplayID: nc.sess.ID,
		})
	case u.YourTurn:
		return nc.send(ServerMessage{
			Type:       MsgChoosePlay,
			State:      BuildStateView(u.State, human),
			Plays:      BuildPlayViews(u.State, human, u.Legal),
			CanEndTurn: u.State.CardsPlayed >= u.State.MaxPlays,
		})
	}
	return nil
}

// SendError reports a rejected client message.
func (nc *NetworkController) SendError(err error) error {
	return nc.send(ServerMessage{
		Type:    MsgError,
		Code:    errors.GetCode(err).String(),
		Message: err.Error(),
	})
}

// Run drives the session until the battle ends or the connection drops.
func (nc *NetworkController) Run(ctx context.Context) error {
	u, err := nc.sess.FastForward(ctx)
	if err != nil {
		return err
	}
	if err := nc.SendUpdate(u); err != nil {
		return fmt.Errorf("send update: %w", err)
	}

	for !u.GameOver {
		var msg ClientMessage
		if err := nc.dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		var (
			acted  *session.Update
			actErr error
		)
		switch msg.Type {
		case MsgPlay:
			acted, actErr = nc.sess.Play(ctx, msg.HandIndex, msg.Slot)
		case MsgEndTurn:
			acted, actErr = nc.sess.EndTurn(ctx)
		default:
			actErr = errors.InvalidArgumentf("unexpected message type %q", msg.Type)
		}
		if actErr != nil {
			if err := nc.SendError(actErr); err != nil {
				return fmt.Errorf("send error: %w", err)
			}
			continue
		}

		// The action's own descriptors go out before the engine moves on.
		if err := nc.send(ServerMessage{
			Type:       MsgUpdate,
			Events:     BuildEventViews(acted.Events),
			Animations: acted.Animations,
			State:      BuildStateView(acted.State, nc.sess.Human()),
		}); err != nil {
			return fmt.Errorf("send update: %w", err)
		}
		if u, err = nc.sess.FastForward(ctx); err != nil {
			return err
		}
		if err := nc.SendUpdate(u); err != nil {
			return fmt.Errorf("send update: %w", err)
		}
	}
	return nil
}
