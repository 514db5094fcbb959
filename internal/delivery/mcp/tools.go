// Package mcp exposes transcript parsing as Model Context Protocol tools so
// assistants can price spoken cart entries without going through HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/voicecart/backend/internal/domain"
	"github.com/voicecart/backend/internal/usecase"
)

// ServerName identifies this server during MCP initialization
const ServerName = "voicecart"

// NewServer creates an MCP server with all VoiceCart tools registered.
func NewServer(svc *usecase.ParseService, version string) *server.MCPServer {
	srv := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	RegisterTools(srv, svc)
	return srv
}

// RegisterTools registers the extract_item_price and format_rupiah tools.
func RegisterTools(srv *server.MCPServer, svc *usecase.ParseService) {
	registerExtractItemPrice(srv, svc)
	registerFormatRupiah(srv, svc)
}

func registerExtractItemPrice(srv *server.MCPServer, svc *usecase.ParseService) {
	tool := mcpgo.NewTool("extract_item_price",
		mcpgo.WithDescription("Extract the item name and whole-Rupiah price from one Indonesian spoken transcript, e.g. \"mangga lima puluh ribu\"."),
		mcpgo.WithString("transcript", mcpgo.Required(), mcpgo.Description("Finalized speech-to-text transcript of a single cart entry")),
	)

	srv.AddTool(tool, func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		transcript, ok := req.GetArguments()["transcript"].(string)
		if !ok {
			return mcpgo.NewToolResultError("invalid arguments: transcript must be a string"), nil
		}

		parsed, err := svc.ParseTranscript(ctx, transcript)
		if err != nil {
			return mcpgo.NewToolResultError(fmt.Sprintf("%s: %v", domain.ErrorCode(err), err)), nil
		}
		return jsonResult(parsed)
	})
}

func registerFormatRupiah(srv *server.MCPServer, svc *usecase.ParseService) {
	tool := mcpgo.NewTool("format_rupiah",
		mcpgo.WithDescription("Format a whole-Rupiah amount for display, e.g. 50000 becomes \"Rp 50.000\"."),
		mcpgo.WithNumber("amount", mcpgo.Required(), mcpgo.Description("Amount in whole Rupiah")),
	)

	srv.AddTool(tool, func(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		amount, err := wholeRupiah(req.GetArguments()["amount"])
		if err != nil {
			return mcpgo.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		return jsonResult(domain.FormattedPrice{
			Amount:    amount,
			Formatted: svc.FormatPrice(amount),
		})
	})
}

// wholeRupiah converts a JSON number argument to an integer amount
func wholeRupiah(v any) (int64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("amount must be a number")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount must be a whole number of Rupiah")
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("amount out of range")
	}
	return int64(f), nil
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
	}
	return mcpgo.NewToolResultText(string(data)), nil
}
