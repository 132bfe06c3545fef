package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/internal/dto"
	"github.com/aretw0/vantage/internal/presentation/graph"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resolver defines what the MCP server needs from the resolution core.
type Resolver interface {
	Resolve(ctx context.Context, reference domain.EntityPath, query domain.LatestAtQuery) (*vantage.TransformCache, error)
	Tree() ports.EntityTree
	KindAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.TransformKind, bool)
}

// TimelineFunc resolves a timeline name. An empty name selects the default.
type TimelineFunc func(name string) (domain.Timeline, error)

// Server wraps the resolver and exposes it as an MCP Server.
type Server struct {
	resolver  Resolver
	timelines TimelineFunc
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(resolver Resolver, timelines TimelineFunc) *Server {
	s := &Server{
		resolver:  resolver,
		timelines: timelines,
		mcpServer: server.NewMCPServer("vantage-mcp", strings.TrimSpace(vantage.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: resolve_transforms
	resolveTool := mcp.NewTool("resolve_transforms",
		mcp.WithDescription("Resolve the transform of every entity into the frame of a reference entity, and explain which entities cannot be placed."),
		mcp.WithString("reference", mcp.Description("Reference entity path, e.g. /world/camera (default: /)")),
		mcp.WithString("timeline", mcp.Description("Timeline name (optional if the scene has a single timeline)")),
		mcp.WithString("at", mcp.Description("Time or sequence number to query (default: latest)")),
		mcp.WithOutputSchema[dto.CacheReport](),
	)
	s.mcpServer.AddTool(resolveTool, mcp.NewStructuredToolHandler(s.handleResolve))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the entity tree as a Mermaid flowchart, styled with the resolution result."),
		mcp.WithString("reference", mcp.Description("Reference entity path (default: /)")),
		mcp.WithString("timeline", mcp.Description("Timeline name")),
		mcp.WithString("at", mcp.Description("Time or sequence number to query (default: latest)")),
	), s.handleGraph)

	// TOOL: list_entities
	s.mcpServer.AddTool(mcp.NewTool("list_entities",
		mcp.WithDescription("List every entity path of the scene."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.entities())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (dto.CacheReport, error) {
	reference, query, err := s.parseArgs(args)
	if err != nil {
		return dto.CacheReport{}, err
	}

	cache, err := s.resolver.Resolve(ctx, reference, query)
	if err != nil {
		return dto.CacheReport{}, fmt.Errorf("resolve failed: %w", err)
	}
	return dto.NewCacheReport(cache, query), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference, query, err := s.parseArgs(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, ok := s.resolver.Tree().Subtree(domain.RootPath)
	if !ok {
		return mcp.NewToolResultError("entity tree has no root"), nil
	}
	cache, err := s.resolver.Resolve(ctx, reference, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
	}

	kinds := func(p domain.EntityPath) (domain.TransformKind, bool) {
		return s.resolver.KindAt(p, query)
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(root, kinds, graph.OverlayFromCache(cache))), nil
}

func (s *Server) entities() []domain.EntityPath {
	root, ok := s.resolver.Tree().Subtree(domain.RootPath)
	if !ok {
		return nil
	}
	var paths []domain.EntityPath
	var walk func(ports.EntityNode)
	walk = func(n ports.EntityNode) {
		paths = append(paths, n.Path())
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return paths
}

func (s *Server) parseArgs(args map[string]interface{}) (domain.EntityPath, domain.LatestAtQuery, error) {
	refStr, _ := args["reference"].(string)
	reference, err := domain.ParseEntityPath(refStr)
	if err != nil {
		return "", domain.LatestAtQuery{}, err
	}

	timelineName, _ := args["timeline"].(string)
	timeline, err := s.timelines(timelineName)
	if err != nil {
		return "", domain.LatestAtQuery{}, err
	}

	switch at := args["at"].(type) {
	case nil:
		return reference, domain.LatestAtEnd(timeline), nil
	case float64:
		return reference, domain.NewLatestAtQuery(timeline, domain.TimeInt(at)), nil
	case string:
		if at == "" {
			return reference, domain.LatestAtEnd(timeline), nil
		}
		value, err := strconv.ParseInt(at, 10, 64)
		if err != nil {
			return "", domain.LatestAtQuery{}, fmt.Errorf("at must be an integer: %w", err)
		}
		return reference, domain.NewLatestAtQuery(timeline, domain.TimeInt(value)), nil
	default:
		return "", domain.LatestAtQuery{}, fmt.Errorf("at has unsupported type %T", at)
	}
}
