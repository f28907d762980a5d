package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/listbot/internal/logging"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ModesURI is the resource describing the available modes and commands.
const ModesURI = "listbot://modes"

// TransformResponse aligns with the HTTP API and gives agents the tagged result.
type TransformResponse struct {
	Op      listops.Op `json:"op" jsonschema_description:"The operation that ran"`
	Found   bool       `json:"found" jsonschema_description:"False when the input had nothing to work on"`
	Text    string     `json:"text,omitempty" jsonschema_description:"Raw result text"`
	Lines   []string   `json:"lines,omitempty" jsonschema_description:"Result lines, when the operation yields lines"`
	Display string     `json:"display" jsonschema_description:"Text a chat user would see"`
}

// NormalizeResponse is the result of normalize_name.
type NormalizeResponse struct {
	Name    string `json:"name" jsonschema_description:"Lower-cased name without markers, parentheticals or list number"`
	Display string `json:"display" jsonschema_description:"Line without markers or parentheticals, case kept"`
	ID      string `json:"id,omitempty" jsonschema_description:"First 5-digit identifier of the line"`
}

type textArgs struct {
	Text string `json:"text"`
}

type compareArgs struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

type lineArgs struct {
	Line string `json:"line"`
}

// Server exposes the list engine as MCP tools.
type Server struct {
	mcpServer    *server.MCPServer
	limits       bot.Limits
	maxInputSize int
	logger       *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLimits bounds the work a tool call may cause.
func WithLimits(limits bot.Limits) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// WithMaxInputSize sets the largest accepted text in bytes.
func WithMaxInputSize(size int) Option {
	return func(s *Server) {
		s.maxInputSize = size
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(version string, opts ...Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("listbot-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("sort_numbers",
		mcp.WithDescription("Sort the first number of every line ascending and join them with spaces."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Newline separated list")),
		mcp.WithOutputSchema[TransformResponse](),
	), mcp.NewStructuredToolHandler(s.unary(listops.OpSort)))

	s.mcpServer.AddTool(mcp.NewTool("filter_multiple_units",
		mcp.WithDescription("Keep only the lines whose (Nx) quantity is greater than 1."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Newline separated list")),
		mcp.WithOutputSchema[TransformResponse](),
	), mcp.NewStructuredToolHandler(s.unary(listops.OpFilter)))

	s.mcpServer.AddTool(mcp.NewTool("expand_ids",
		mcp.WithDescription("Repeat the 5-digit ID of every line as many times as its (Nx) quantity."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Newline separated list")),
		mcp.WithOutputSchema[TransformResponse](),
	), mcp.NewStructuredToolHandler(s.unary(listops.OpExpand)))

	s.mcpServer.AddTool(mcp.NewTool("compare_lists",
		mcp.WithDescription("Return the lines of the first list whose 5-digit ID also appears in the second list."),
		mcp.WithString("first", mcp.Required(), mcp.Description("First list")),
		mcp.WithString("second", mcp.Required(), mcp.Description("Second list")),
		mcp.WithOutputSchema[TransformResponse](),
	), mcp.NewStructuredToolHandler(s.handleCompare))

	s.mcpServer.AddTool(mcp.NewTool("normalize_name",
		mcp.WithDescription("Strip markers, parentheticals and list numbering from a single line."),
		mcp.WithString("line", mcp.Required(), mcp.Description("One list line")),
		mcp.WithOutputSchema[NormalizeResponse](),
	), mcp.NewStructuredToolHandler(s.handleNormalize))
}

// Handler methods for structured tools

func (s *Server) unary(op listops.Op) func(context.Context, mcp.CallToolRequest, textArgs) (TransformResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args textArgs) (TransformResponse, error) {
		clean, err := s.sanitize(args.Text)
		if err != nil {
			return TransformResponse{}, err
		}
		if op == listops.OpExpand && s.limits.MaxExpandedTokens > 0 {
			if n := listops.ExpandedCount(clean); n > s.limits.MaxExpandedTokens {
				return TransformResponse{}, fmt.Errorf("expansion produces %d IDs, limit is %d", n, s.limits.MaxExpandedTokens)
			}
		}
		res, err := listops.Apply(op, clean)
		if err != nil {
			return TransformResponse{}, err
		}
		return toResponse(res), nil
	}
}

func (s *Server) handleCompare(ctx context.Context, request mcp.CallToolRequest, args compareArgs) (TransformResponse, error) {
	first, err := s.sanitize(args.First)
	if err != nil {
		return TransformResponse{}, err
	}
	second, err := s.sanitize(args.Second)
	if err != nil {
		return TransformResponse{}, err
	}
	return toResponse(listops.Compare(first, second)), nil
}

func (s *Server) handleNormalize(ctx context.Context, request mcp.CallToolRequest, args lineArgs) (NormalizeResponse, error) {
	id, _ := listops.ExtractID(args.Line)
	return NormalizeResponse{
		Name:    listops.NameOnly(args.Line),
		Display: listops.CleanDisplayLine(args.Line),
		ID:      id,
	}, nil
}

func (s *Server) sanitize(text string) (string, error) {
	clean, err := bot.SanitizeInput(text, s.maxInputSize)
	if err != nil {
		s.logger.Warn("MCP: Input rejected", "err", err, "size", len(text))
		return "", fmt.Errorf("input rejected: %w", err)
	}
	return clean, nil
}

func toResponse(res listops.Result) TransformResponse {
	return TransformResponse{
		Op:      res.Op,
		Found:   res.Found,
		Text:    res.Text,
		Lines:   res.Lines,
		Display: res.Display(),
	}
}

type modeDescription struct {
	Mode     domain.Mode `json:"mode"`
	Op       listops.Op  `json:"op"`
	Callback string      `json:"callback"`
	Inputs   int         `json:"inputs"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ModesURI, "Available modes",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(describeModes())
		if err != nil {
			return nil, fmt.Errorf("failed to describe modes: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ModesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func describeModes() map[string]any {
	modes := make([]modeDescription, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		op, _ := bot.OpFor(m)
		modes = append(modes, modeDescription{
			Mode:     m,
			Op:       op,
			Callback: m.Callback(),
			Inputs:   op.Arity(),
		})
	}
	return map[string]any{
		"modes":    modes,
		"commands": bot.Commands(),
	}
}
