// Package mcp exposes the screenshot catalog over the Model Context
// Protocol. Tools map one-to-one onto catalog operations; the tagging
// pipeline stays on the CLI, where a human reviews before committing.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"screenshot_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"screenshot_tag_search": {
		def:     tagSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTagSearch },
	},
	"screenshot_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"screenshot_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"screenshot_update": {
		def:     updateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdate },
	},
	"screenshot_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"project_retag": {
		def:     projectRetagToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProjectRetag },
	},
	"project_delete": {
		def:     projectDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProjectDelete },
	},
	"catalog_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"catalog_distinct": {
		def:     distinctToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDistinct },
	},
	"category_list": {
		def:     categoryListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategoryList },
	},
	"category_add": {
		def:     categoryAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategoryAdd },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with screendex tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(store *catalog.Store, cfg *config.Config, baseDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"screendex",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(store, cfg, baseDir)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(store *catalog.Store, cfg *config.Config, baseDir, version string) error {
	s := NewServer(store, cfg, baseDir, version)
	return server.ServeStdio(s)
}
