package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn io.ReadWriter
	in   *bufio.Reader
	out  io.Writer
}

// NewClient builds a client reading moves from in and rendering to out.
func NewClient(conn io.ReadWriter, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the battle to start...")

	return NewClient(conn, os.Stdin, os.Stdout).RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	var last *ServerMessage // most recent choose_play, re-prompted after an error

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgUpdate:
			for i := range msg.Events {
				c.renderEvent(&msg.Events[i])
			}

		case MsgChoosePlay:
			last = &msg
			reply, err := c.prompt(&msg)
			if err != nil {
				return err
			}
			if err := enc.Encode(reply); err != nil {
				return fmt.Errorf("send %s: %w", reply.Type, err)
			}

		case MsgError:
			fmt.Fprintf(c.out, "Rejected: %s\n", msg.Message)
			if last == nil {
				continue
			}
			reply, err := c.prompt(last)
			if err != nil {
				return err
			}
			if err := enc.Encode(reply); err != nil {
				return fmt.Errorf("send %s: %w", reply.Type, err)
			}

		case MsgGameOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          BATTLE OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			if msg.ReplayID != "" {
				fmt.Fprintf(c.out, "Replay: %s\n", msg.ReplayID)
			}
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) prompt(msg *ServerMessage) (ClientMessage, error) {
	c.renderState(msg.State)
	c.renderPlays(msg.Plays, msg.CanEndTurn)
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return ClientMessage{}, fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(strings.ToLower(line))
		if line == "e" || line == "end" {
			if !msg.CanEndTurn {
				fmt.Fprintln(c.out, "Play a card first")
				continue
			}
			return ClientMessage{Type: MsgEndTurn}, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(msg.Plays) {
			if len(msg.Plays) == 0 {
				fmt.Fprintln(c.out, "Enter e to end the turn")
			} else {
				fmt.Fprintf(c.out, "Enter a number between 1 and %d, or e to end the turn\n", len(msg.Plays))
			}
			continue
		}
		p := msg.Plays[n-1]
		return ClientMessage{Type: MsgPlay, HandIndex: p.HandIndex, Slot: p.Slot}, nil
	}
}

func (c *Client) renderEvent(ev *EventView) {
	phase := ev.Phase
	for len(phase) < 10 {
		phase += " "
	}
	fmt.Fprintf(c.out, "T%-3d %s| %s\n", ev.Turn, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(w, "║  OPPONENT (HP: %d)  Hand: %d  Deck: %d  Discard: %d\n",
		opp.HP, opp.HandCount, opp.DeckCount, opp.Discard)
	fmt.Fprintf(w, "║  Waiting: %s\n", formatRow(opp.Waiting))
	fmt.Fprintf(w, "║  Battle:  %s\n", formatRow(opp.Battle))

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Fprintf(w, "║  Battle:  %s\n", formatRow(you.Battle))
	fmt.Fprintf(w, "║  Waiting: %s\n", formatRow(you.Waiting))
	fmt.Fprintf(w, "║  YOU (HP: %d)  Hand: %d  Deck: %d  Discard: %d\n",
		you.HP, you.HandCount, you.DeckCount, you.Discard)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for _, cv := range you.Hand {
			fmt.Fprintf(w, "[%d] %s %d/%d CD%d  ", cv.Index+1, cv.Name, cv.ATK, cv.HP, cv.CD)
		}
		fmt.Fprintln(w)
	}
}

func formatRow(zones []ZoneView) string {
	parts := make([]string, len(zones))
	for i, zv := range zones {
		parts[i] = formatZone(zv)
	}
	return strings.Join(parts, " ")
}

func formatZone(zv ZoneView) string {
	if zv.Empty {
		return "[ ]"
	}
	s := fmt.Sprintf("[%s %d/%d", zv.Name, zv.ATK, zv.HP)
	if zv.CD > 0 {
		s += fmt.Sprintf(" CD%d", zv.CD)
	}
	return s + "]"
}

func (c *Client) renderPlays(plays []PlayView, canEnd bool) {
	fmt.Fprintln(c.out, "\nPlays:")
	for _, p := range plays {
		fmt.Fprintf(c.out, "  %d) %s\n", p.Index+1, p.Desc)
	}
	if canEnd {
		fmt.Fprintln(c.out, "  e) End turn")
	}
}
