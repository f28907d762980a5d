package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaryTools(t *testing.T) {
	s := NewServer("test", WithLimits(bot.Limits{MaxExpandedTokens: 4}))
	ctx := context.Background()

	resp, err := s.unary(listops.OpSort)(ctx, mcp.CallToolRequest{}, textArgs{Text: "a 30\nb 4"})
	require.NoError(t, err)
	assert.Equal(t, "4 30", resp.Text)
	assert.True(t, resp.Found)

	resp, err = s.unary(listops.OpFilter)(ctx, mcp.CallToolRequest{}, textArgs{Text: "a (1x)"})
	require.NoError(t, err)
	assert.False(t, resp.Found)
	assert.Equal(t, listops.NoMultiUnitMessage, resp.Display)

	resp, err = s.unary(listops.OpExpand)(ctx, mcp.CallToolRequest{}, textArgs{Text: "12345 (2x)\n54321"})
	require.NoError(t, err)
	assert.Equal(t, "12345 12345 54321", resp.Text)

	_, err = s.unary(listops.OpExpand)(ctx, mcp.CallToolRequest{}, textArgs{Text: "12345 (5x)"})
	assert.ErrorContains(t, err, "limit is 4")
}

func TestCompareTool(t *testing.T) {
	s := NewServer("test")
	resp, err := s.handleCompare(context.Background(), mcp.CallToolRequest{}, compareArgs{
		First:  "Sword 12345\nBow 22222",
		Second: "22222 other",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bow 22222"}, resp.Lines)

	_, err = s.handleCompare(context.Background(), mcp.CallToolRequest{}, compareArgs{First: "ok", Second: "bad\xff"})
	assert.ErrorIs(t, err, bot.ErrInvalidUTF8)
}

func TestNormalizeTool(t *testing.T) {
	s := NewServer("test")
	resp, err := s.handleNormalize(context.Background(), mcp.CallToolRequest{}, lineArgs{Line: "3. 💎 Fire Sword (2x) 12345"})
	require.NoError(t, err)
	assert.Equal(t, "fire sword  12345", resp.Name)
	assert.Equal(t, "3.  Fire Sword  12345", resp.Display)
	assert.Equal(t, "12345", resp.ID)
}

func rpc(t *testing.T, s *Server, method string, params any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	out, err := json.Marshal(s.MCPServer().HandleMessage(context.Background(), raw))
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(out, &msg))
	require.Nil(t, msg["error"], "unexpected error: %v", msg["error"])
	return msg["result"].(map[string]any)
}

func TestServer_Protocol(t *testing.T) {
	s := NewServer("test")
	rpc(t, s, "initialize", map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
		"capabilities":    map[string]any{},
	})

	t.Run("List Tools", func(t *testing.T) {
		result := rpc(t, s, "tools/list", map[string]any{})
		var names []string
		for _, tool := range result["tools"].([]any) {
			names = append(names, tool.(map[string]any)["name"].(string))
		}
		assert.ElementsMatch(t, []string{"sort_numbers", "filter_multiple_units", "expand_ids", "compare_lists", "normalize_name"}, names)
	})

	t.Run("Call Tool", func(t *testing.T) {
		result := rpc(t, s, "tools/call", map[string]any{
			"name":      "sort_numbers",
			"arguments": map[string]any{"text": "x 9\ny 1"},
		})
		structured := result["structuredContent"].(map[string]any)
		assert.Equal(t, "1 9", structured["text"])
		assert.Equal(t, true, structured["found"])
	})

	t.Run("Read Modes", func(t *testing.T) {
		result := rpc(t, s, "resources/read", map[string]any{"uri": ModesURI})
		contents := result["contents"].([]any)
		require.Len(t, contents, 1)

		var doc struct {
			Modes []modeDescription `json:"modes"`
		}
		require.NoError(t, json.Unmarshal([]byte(contents[0].(map[string]any)["text"].(string)), &doc))
		require.Len(t, doc.Modes, 4)
		assert.Equal(t, "mode_sort", doc.Modes[0].Callback)
		assert.Equal(t, 2, doc.Modes[1].Inputs)
	})
}
