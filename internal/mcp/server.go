package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mehanshivam/visitingcard/internal/config"
	"github.com/mehanshivam/visitingcard/internal/descriptions"
	"github.com/mehanshivam/visitingcard/internal/extract"
	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *extract.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *extract.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	cardExtractTool := mcp.NewTool(
		"card_extract",
		mcp.WithDescription("Extract a structured contact record from a business card image"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the card image (jpeg, png, or pdf)"),
		),
	)
	s.mcpServer.AddTool(cardExtractTool, s.handleCardExtract)

	cardBackendRecommendTool := mcp.NewTool(
		"card_backend_recommend",
		mcp.WithDescription("Report which recognition engine would handle the next extraction and why"),
	)
	s.mcpServer.AddTool(cardBackendRecommendTool, s.handleCardBackendRecommend)

	cardUsageStatsTool := mcp.NewTool(
		"card_usage_stats",
		mcp.WithDescription("Get per-engine invocation counts, recent errors, and timing samples"),
	)
	s.mcpServer.AddTool(cardUsageStatsTool, s.handleCardUsageStats)

	cardUsageResetTool := mcp.NewTool(
		"card_usage_reset",
		mcp.WithDescription("Clear all usage counters, error samples, and timing samples"),
	)
	s.mcpServer.AddTool(cardUsageResetTool, s.handleCardUsageReset)

	cardValidateFileTool := mcp.NewTool(
		"card_validate_file",
		mcp.WithDescription("Validate that a file is a readable card image within the size limit"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the card image"),
		),
	)
	s.mcpServer.AddTool(cardValidateFileTool, s.handleCardValidateFile)

	cardServerInfoTool := mcp.NewTool(
		"card_server_info",
		mcp.WithDescription("Get server information, engine availability, available tools, and usage guidance"),
	)
	s.mcpServer.AddTool(cardServerInfoTool, s.handleCardServerInfo)
}

// Handler functions
func (s *Server) handleCardExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	img, err := recognize.LoadCardImage(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.service.ExtractContact(ctx, extract.ExtractRequest{Image: img})
	if err != nil {
		if failed, ok := extract.IsExtractionFailed(err); ok {
			text := fmt.Sprintf("Extraction %s failed: %v\n", failed.Record.Diagnostics.ExtractionID, failed.Err)
			if failed.Record.Diagnostics.StrategyNote != "" {
				text += fmt.Sprintf("Strategy: %s\n", failed.Record.Diagnostics.StrategyNote)
			}
			return mcp.NewToolResultError(text), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatContactRecord(path, record)), nil
}

func (s *Server) handleCardBackendRecommend(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy := s.service.Orchestrator().Recommend(ctx)

	text := fmt.Sprintf("Recommended engine: %s\n", strategy.Primary)
	if strategy.HasFallback() {
		text += fmt.Sprintf("Fallback engine: %s\n", strategy.Fallback)
	} else {
		text += "Fallback engine: none\n"
	}
	text += fmt.Sprintf("Reason: %s\n", strategy.Reason)

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleCardUsageStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.service.Orchestrator().Usage().Snapshot()
	return mcp.NewToolResultText(s.formatUsageSnapshot(snap)), nil
}

func (s *Server) handleCardUsageReset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.service.Orchestrator().Usage().Reset()
	return mcp.NewToolResultText("Usage counters, error samples, and timing samples cleared"), nil
}

func (s *Server) handleCardValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	img, err := recognize.LoadCardImage(path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Card validation failed for %s: %v", path, err)), nil
	}
	if err := img.Validate(s.config.MaxImageSize); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Card validation failed for %s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Card image %s is valid (%s, %d bytes)", path, img.Format, len(img.Data))), nil
}

func (s *Server) handleCardServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy := s.service.Orchestrator().Recommend(ctx)

	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Card Directory: %s\n", s.config.CardDirectory)
	text += fmt.Sprintf("Max Image Size: %d MB\n", s.config.MaxImageSize/(1024*1024))
	text += fmt.Sprintf("Supported Formats: %s\n", strings.Join(recognize.SupportedFormats(), ", "))
	text += fmt.Sprintf("Current Engine: %s (%s)\n", strategy.Primary, strategy.Reason)

	text += "\nAvailable Tools:\n"
	for _, name := range []string{
		"card_extract", "card_backend_recommend", "card_usage_stats",
		"card_usage_reset", "card_validate_file", "card_server_info",
	} {
		desc := descriptions.GetToolDescription(name)
		// First line of the long-form description is the summary.
		if idx := strings.Index(desc, "\n"); idx > 0 {
			desc = desc[:idx]
		}
		text += fmt.Sprintf("• %s: %s\n", name, desc)
	}

	return mcp.NewToolResultText(text), nil
}

// Formatting methods
func (s *Server) formatContactRecord(path string, record *extract.ContactRecord) string {
	text := fmt.Sprintf("Contact record extracted from: %s\n", path)
	text += fmt.Sprintf("Extraction ID: %s\n", record.Diagnostics.ExtractionID)
	text += fmt.Sprintf("Engine: %s", record.Diagnostics.Backend)
	if record.Diagnostics.FallbackUsed {
		text += " (fallback)"
	}
	text += fmt.Sprintf("\nElapsed: %d ms\n", record.Diagnostics.ElapsedMS)
	text += fmt.Sprintf("Overall Confidence: %d\n\nFields:\n", record.Overall)

	appendField := func(label string, f extract.FieldValue) {
		if f.IsSet() {
			text += fmt.Sprintf("  %-8s %s (confidence %d)\n", label+":", f.Text, f.Confidence)
		}
	}
	appendField("Name", record.Name)
	appendField("Title", record.Title)
	appendField("Company", record.Company)
	appendField("Phone", record.Phone)
	appendField("Email", record.Email)
	appendField("Website", record.Website)
	if record.Address.Full != "" {
		text += fmt.Sprintf("  %-8s %s (confidence %d)\n", "Address:", record.Address.Full, record.Address.Confidence)
	}

	if len(record.Diagnostics.QualityIssues) > 0 {
		text += fmt.Sprintf("\nQuality Issues: %s\n", strings.Join(record.Diagnostics.QualityIssues, "; "))
	}
	return text
}

func (s *Server) formatUsageSnapshot(snap extract.UsageSnapshot) string {
	text := "Recognition Usage Statistics\n"
	text += fmt.Sprintf("Cloud invocations: %d\n", snap.CloudCount)
	text += fmt.Sprintf("Local invocations: %d\n", snap.LocalCount)
	text += fmt.Sprintf("PDF text-layer invocations: %d\n", snap.PDFCardCount)

	if len(snap.Errors) > 0 {
		text += fmt.Sprintf("\nRecent Errors (%d):\n", len(snap.Errors))
		for i, e := range snap.Errors {
			text += fmt.Sprintf("%d. [%s] %s: %s (extraction %s, %s)\n",
				i+1, e.Backend, e.Kind, e.Message, e.ExtractionID, e.At.Format("2006-01-02 15:04:05"))
		}
	} else {
		text += "\nRecent Errors: none\n"
	}

	if len(snap.Timings) > 0 {
		text += fmt.Sprintf("\nRecent Timings (%d):\n", len(snap.Timings))
		for i, t := range snap.Timings {
			text += fmt.Sprintf("%d. [%s] %d ms (extraction %s)\n", i+1, t.Backend, t.ElapsedMS, t.ExtractionID)
		}
	}
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting visiting card MCP server in stdio mode")
		log.Printf("Card directory: %s", s.config.CardDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// For now, we'll just use stdio mode since the mark3labs library
	// handles the transport differently
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
