// Package mcp provides an MCP (Model Context Protocol) server for pullrefresh.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/juanibiapina/pullrefresh/internal/config"
	"github.com/juanibiapina/pullrefresh/internal/feed"
	"github.com/juanibiapina/pullrefresh/internal/headless"
	"github.com/juanibiapina/pullrefresh/internal/logging"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/juanibiapina/pullrefresh/internal/telemetry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with pullrefresh-specific functionality.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	tools     []string
}

// NewServer creates a new MCP server. Feed tools use the database named
// in cfg.
func NewServer(version string, cfg *config.Config) *Server {
	s := &Server{cfg: cfg}

	s.mcpServer = server.NewMCPServer(
		"pullrefresh",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()

	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	telemetry.MCPSessionStart()
	defer telemetry.MCPSessionEnd()
	return server.ServeStdio(s.mcpServer)
}

// ListToolNames returns the names of every registered tool.
func (s *Server) ListToolNames() []string {
	return append([]string(nil), s.tools...)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.registerSimulate()
	s.registerMeasure()
	s.registerFeedList()
	s.registerFeedPrepend()
	s.registerFeedAppend()
	s.registerFeedSeed()
	s.registerFeedClear()
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool.Name)
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		telemetry.MCPToolCall(tool.Name)
		return handler(ctx, request)
	})
}

// openFeed opens the configured feed database.
func (s *Server) openFeed() (*feed.Store, error) {
	if err := config.EnsureDir(s.cfg.Feed.Database); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := feed.Open(s.cfg.Feed.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	return store, nil
}

// jsonResult marshals a result to JSON and returns a tool result.
func jsonResult(result any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// registerSimulate registers the pullrefresh_simulate tool.
func (s *Server) registerSimulate() {
	tool := mcp.NewTool("pullrefresh_simulate",
		mcp.WithDescription("Run a gesture script against a headless controller and return the trace of what it did"),
		mcp.WithString("script",
			mcp.Required(),
			mcp.Description(`Script as JSON, e.g. {"direction":"top","width":320,"height":480,"content_height":1000,"steps":[{"action":"drag","offset":-50},{"action":"release"},{"action":"wait","duration":"1s"}]}`),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("script")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		script, err := headless.ParseScript(strings.NewReader(raw))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		trace, err := headless.Run(script, logging.Logger)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("script failed: %v", err)), nil
		}

		return jsonResult(trace)
	})
}

// registerMeasure registers the pullrefresh_measure tool.
func (s *Server) registerMeasure() {
	tool := mcp.NewTool("pullrefresh_measure",
		mcp.WithDescription("Compute the trigger threshold and pull percentage for one content offset"),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Enum("top", "left", "bottom", "right"),
			mcp.Description("Edge the controller is attached to"),
		),
		mcp.WithNumber("offset",
			mcp.Required(),
			mcp.Description("Content offset along the direction's axis"),
		),
		mcp.WithNumber("width", mcp.Description("Viewport width (default: 320)")),
		mcp.WithNumber("height", mcp.Description("Viewport height (default: 480)")),
		mcp.WithNumber("content_width", mcp.Description("Content width (default: viewport width)")),
		mcp.WithNumber("content_height", mcp.Description("Content height (default: 1000)")),
		mcp.WithNumber("inset_top", mcp.Description("Top content inset")),
		mcp.WithNumber("inset_left", mcp.Description("Left content inset")),
		mcp.WithNumber("inset_bottom", mcp.Description("Bottom content inset")),
		mcp.WithNumber("inset_right", mcp.Description("Right content inset")),
		mcp.WithNumber("extent", mcp.Description("Indicator size along the axis (default: 44)")),
		mcp.WithBoolean("auto_load_more", mcp.Description("Load more on reaching the end (default: true for bottom/right)")),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("direction")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dir, err := refresh.ParseDirection(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		offset, err := request.RequireFloat("offset")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		width := request.GetFloat("width", 320)
		m := refresh.Metrics{
			Size: refresh.Size{
				Width:  request.GetFloat("content_width", width),
				Height: request.GetFloat("content_height", 1000),
			},
			Inset: refresh.Insets{
				Top:    request.GetFloat("inset_top", 0),
				Left:   request.GetFloat("inset_left", 0),
				Bottom: request.GetFloat("inset_bottom", 0),
				Right:  request.GetFloat("inset_right", 0),
			},
			Bounds: refresh.Rect{Size: refresh.Size{Width: width, Height: request.GetFloat("height", 480)}},
		}
		if dir.IsVertical() {
			m.Offset.Y = offset
		} else {
			m.Offset.X = offset
		}

		extent := request.GetFloat("extent", refresh.DefaultIndicatorExtent)
		if extent <= 0 {
			return mcp.NewToolResultError("extent must be positive"), nil
		}
		auto := request.GetBool("auto_load_more", dir.IsLoadMore())

		return jsonResult(refresh.Measure(dir, auto, extent, m))
	})
}

// registerFeedList registers the pullrefresh_feed_list tool.
func (s *Server) registerFeedList() {
	tool := mcp.NewTool("pullrefresh_feed_list",
		mcp.WithDescription("List the entries of the demo feed in display order"),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		store, err := s.openFeed()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer store.Close()

		entries, err := store.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if entries == nil {
			entries = []feed.Entry{}
		}

		return jsonResult(map[string]any{"entries": entries})
	})
}

// registerFeedPrepend registers the pullrefresh_feed_prepend tool.
func (s *Server) registerFeedPrepend() {
	tool := mcp.NewTool("pullrefresh_feed_prepend",
		mcp.WithDescription("Add an entry stamped with the current time at the top of the feed, as a refresh does"),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.insertEntry(ctx, (*feed.Store).Prepend)
	})
}

// registerFeedAppend registers the pullrefresh_feed_append tool.
func (s *Server) registerFeedAppend() {
	tool := mcp.NewTool("pullrefresh_feed_append",
		mcp.WithDescription("Add an entry stamped with the current time at the bottom of the feed, as a load-more does"),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.insertEntry(ctx, (*feed.Store).Append)
	})
}

func (s *Server) insertEntry(ctx context.Context, insert func(*feed.Store, context.Context, time.Time) (feed.Entry, error)) (*mcp.CallToolResult, error) {
	store, err := s.openFeed()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer store.Close()

	entry, err := insert(store, ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(entry)
}

// registerFeedSeed registers the pullrefresh_feed_seed tool.
func (s *Server) registerFeedSeed() {
	tool := mcp.NewTool("pullrefresh_feed_seed",
		mcp.WithDescription("Append entries going back in time from now"),
		mcp.WithNumber("rows",
			mcp.Description("Number of entries to add (default: seed_rows from config)"),
		),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rows := request.GetInt("rows", s.cfg.Feed.SeedRows)
		if rows < 0 {
			return mcp.NewToolResultError("rows must not be negative"), nil
		}

		store, err := s.openFeed()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer store.Close()

		if err := store.Seed(ctx, rows, time.Now()); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		count, err := store.Count(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(map[string]any{"added": rows, "count": count})
	})
}

// registerFeedClear registers the pullrefresh_feed_clear tool.
func (s *Server) registerFeedClear() {
	tool := mcp.NewTool("pullrefresh_feed_clear",
		mcp.WithDescription("Remove every entry from the feed"),
	)

	s.addTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		store, err := s.openFeed()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer store.Close()

		count, err := store.Count(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := store.Clear(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(map[string]any{"removed": count})
	})
}
