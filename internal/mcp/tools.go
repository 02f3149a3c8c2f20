package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/cardclash/internal/game"
)

// RegisterTools adds all battle tools to the MCP server.
func RegisterTools(s *server.MCPServer, c *Controller) {
	s.AddTool(startBattleTool(), c.handleStartBattle)
	s.AddTool(playCardTool(), c.handlePlayCard)
	s.AddTool(endTurnTool(), c.handleEndTurn)
	s.AddTool(getBattleStateTool(), c.handleGetBattleState)
}

// --- Tool definitions ---

func startBattleTool() mcp.Tool {
	return mcp.NewTool("start_battle",
		mcp.WithDescription("Start a new cardclash battle against the AI. You play side A and move first. "+
			"Returns the opening events, the board and your first decision."),
		mcp.WithNumber("deck", mcp.Required(), mcp.Description("Your deck number (1-indexed from decks.yaml)")),
		mcp.WithNumber("opponent_deck", mcp.Required(), mcp.Description("The AI's deck number (1-indexed from decks.yaml)")),
		mcp.WithNumber("seed", mcp.Description("RNG seed; the same seed and decks replay the same battle. 0 picks one.")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Move a card from your hand into an empty waiting slot. Use one of the pending plays. "+
			"After your quota of plays, call end_turn."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index of the card in your hand")),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description(fmt.Sprintf("0-based waiting slot (0-%d)", game.WaitingSlots-1))),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your Playing phase. The battle runs through both sides' attacks until your next decision or the end."),
	)
}

func getBattleStateTool() mcp.Tool {
	return mcp.NewTool("get_battle_state",
		mcp.WithDescription("Get the current board, events since the last call, and the pending decision. Read-only."),
	)
}

// --- Tool handlers ---

func (c *Controller) handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := request.GetInt("deck", 0)
	opponent := request.GetInt("opponent_deck", 0)
	seed := request.GetInt("seed", 0)
	if deck < 1 || opponent < 1 {
		return mcp.NewToolResultError("deck and opponent_deck must be >= 1"), nil
	}
	if seed < 0 {
		return mcp.NewToolResultError("seed must be >= 0"), nil
	}

	resp, err := c.Start(ctx, deck, opponent, uint64(seed))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start battle: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (c *Controller) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hand := request.GetInt("hand_index", -1)
	slot := request.GetInt("slot", -1)

	resp, err := c.Play(ctx, hand, slot)
	if err != nil {
		return mcp.NewToolResultErrorf("Play rejected: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (c *Controller) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := c.EndTurn(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot end turn: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (c *Controller) handleGetBattleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := c.State(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
