/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/perspecto/internal/logger"
	"github.com/josephgoksu/perspecto/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can drive the
same session the CLI uses: generate personas and JTBD statements, save them into
projects, browse projects and history, and export artifacts.

Example usage with Claude Code:
  perspecto mcp

The server will run until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// mcpMarkdownResponse wraps Markdown content in an MCP tool result.
func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpErrorResponse wraps an error in an MCP tool result with IsError=true.
// Tool errors stay in the result so the model can read them and retry.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: mcp.FormatError(userError(err).Error())}},
		IsError: true,
	}, nil
}

// mcpValidationErrorResponse reports bad tool arguments.
func mcpValidationErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	detail := strings.TrimPrefix(err.Error(), mcp.ErrInvalidParams.Error()+": ")
	field, message, ok := strings.Cut(detail, ": ")
	if !ok {
		field, message = "arguments", detail
	}
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: mcp.FormatValidationError(field, message)}},
		IsError: true,
	}, nil
}

// mcpHandler adapts a Markdown handler to the SDK's tool signature.
func mcpHandler[T any](name string, fn func(context.Context, T) (string, error)) func(context.Context, *mcpsdk.ServerSession, *mcpsdk.CallToolParamsFor[T]) (*mcpsdk.CallToolResultFor[any], error) {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[T]) (*mcpsdk.CallToolResultFor[any], error) {
		logger.SetCommand("mcp " + name)
		out, err := fn(ctx, params.Arguments)
		switch {
		case errors.Is(err, mcp.ErrInvalidParams):
			return mcpValidationErrorResponse(err)
		case err != nil:
			return mcpErrorResponse(err)
		}
		return mcpMarkdownResponse(out)
	}
}

func runMCPServer(ctx context.Context) error {
	// NOTE: MCP uses stdio transport. stdout MUST be pure JSON-RPC.
	// All status/debug output goes to stderr only.
	fmt.Fprintln(os.Stderr, "Perspecto MCP Server starting...")

	w, err := openWorkspace(ctx)
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	defer func() { _ = w.Close() }()

	h := mcp.NewHandlers(w.ctrl, w.deps)

	impl := &mcpsdk.Implementation{
		Name:    "perspecto-mcp",
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintf(os.Stderr, "✓ MCP connection established\n")
			if viper.GetBool("verbose") {
				fmt.Fprintf(os.Stderr, "[DEBUG] Client initialized\n")
			}
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "state",
		Description: "Show the current view, the open project and item, the pending save (if any) and the current persona/JTBD result. Call this first to see where the session is.",
	}, mcpHandler("state", h.State))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "generate",
		Description: `Generate a persona, JTBD statements or both from a project description. Use {"context":"...","type":"both"}; type defaults to both. Use {"regenerate":true} to repeat the current request. Generating only a persona leaves an intermediate result; call jtbd next.`,
	}, mcpHandler("generate", h.Generate))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "jtbd",
		Description: "Generate JTBD statements grounded on a persona. Without arguments the current persona is used; pass {\"persona\":\"name\"} to pick one from the active project.",
	}, mcpHandler("jtbd", h.JTBD))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "orphan",
		Description: `Give a saved JTBD set without a persona one. {"action":"generate"} creates a persona from the original description; {"action":"link","persona":"name"} reuses a persona of the active project.`,
	}, mcpHandler("orphan", h.Orphan))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "save",
		Description: `Save the current result. Inside a project it updates or adds the item. For a standalone result the save is pending until a target is given: {"project_id":"..."} or {"new_project":"Name"}.`,
	}, mcpHandler("save", h.Save))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "project",
		Description: "Manage projects. Actions: list, create (name), open (id), rename (id, name), delete (id). Ids accept unique prefixes.",
	}, mcpHandler("project", h.Project))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "item",
		Description: "Open or delete an artifact of a project. Actions: open, delete. project_id defaults to the active project; ids accept unique prefixes.",
	}, mcpHandler("item", h.Item))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "history",
		Description: "Activity history of generations. Actions: list (limit, default 20), recall (id) to make an entry the current result, clear.",
	}, mcpHandler("history", h.History))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "export",
		Description: "Export the current result as markdown (default), json or yaml.",
	}, mcpHandler("export", h.Export))

	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
