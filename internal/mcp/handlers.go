package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/config"
	"github.com/screendex/screendex/internal/errors"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store   *catalog.Store
	cfg     *config.Config
	baseDir string // where category changes are persisted
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *catalog.Store, cfg *config.Config, baseDir string) *Handlers {
	return &Handlers{store: store, cfg: cfg, baseDir: baseDir}
}

// Request types for each tool

// SearchRequest represents the arguments for search and tag_search.
type SearchRequest struct {
	Query   string `json:"query"`
	Limit   int    `json:"limit,omitempty"`
	Project string `json:"project,omitempty"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	Project string `json:"project,omitempty"`
}

// GetRequest represents the arguments for get and delete.
type GetRequest struct {
	ID string `json:"id"`
}

// UpdateRequest represents the arguments for update.
type UpdateRequest struct {
	ID              string   `json:"id"`
	CompanyName     string   `json:"company_name,omitempty"`
	ProductCategory string   `json:"product_category,omitempty"`
	DescriptiveTags []string `json:"descriptive_tags,omitempty"`
}

// ProjectRetagRequest represents the arguments for project_retag.
type ProjectRetagRequest struct {
	ProjectName string   `json:"project_name"`
	ProjectTags []string `json:"project_tags"`
}

// ProjectDeleteRequest represents the arguments for project_delete.
type ProjectDeleteRequest struct {
	ProjectName string `json:"project_name"`
}

// CategoryAddRequest represents the arguments for category_add.
type CategoryAddRequest struct {
	Category string `json:"category"`
}

// Handler implementations

// HandleSearch handles the screenshot_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	results, err := h.store.Search(ctx, input.Query, input.Limit, input.Project)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"results": results, "count": len(results)})
}

// HandleTagSearch handles the screenshot_tag_search tool call.
func (h *Handlers) HandleTagSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	results, err := h.store.SearchByTags(ctx, input.Query, input.Limit, input.Project)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"results": results, "count": len(results)})
}

// HandleList handles the screenshot_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	shots, err := h.store.ListAll(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if input.Project != "" {
		filtered := shots[:0]
		for _, s := range shots {
			if s.ProjectName == input.Project {
				filtered = append(filtered, s)
			}
		}
		shots = filtered
	}

	return successResult(map[string]any{"screenshots": shots, "count": len(shots)})
}

// HandleGet handles the screenshot_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	shot, err := h.store.Get(ctx, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(shot)
}

// HandleUpdate handles the screenshot_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ok, err := h.store.UpdateMetadata(ctx, input.ID, catalog.UpdateMetadataInput{
		CompanyName:     input.CompanyName,
		ProductCategory: input.ProductCategory,
		DescriptiveTags: input.DescriptiveTags,
	})
	if err != nil {
		return errorResult(err), nil
	}
	if !ok {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}

	shot, err := h.store.Get(ctx, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(shot)
}

// HandleDelete handles the screenshot_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	removed, err := h.store.Delete(ctx, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	if !removed {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}

	return successResult(map[string]any{"deleted": input.ID})
}

// HandleProjectRetag handles the project_retag tool call.
func (h *Handlers) HandleProjectRetag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectRetagRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	updated, err := h.store.UpdateProjectTags(ctx, input.ProjectName, input.ProjectTags)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"project_name": input.ProjectName, "updated": updated})
}

// HandleProjectDelete handles the project_delete tool call.
func (h *Handlers) HandleProjectDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	deleted, err := h.store.DeleteProject(ctx, input.ProjectName)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"project_name": input.ProjectName, "deleted": deleted})
}

// HandleStats handles the catalog_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.store.Stats(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(stats)
}

// HandleDistinct handles the catalog_distinct tool call.
func (h *Handlers) HandleDistinct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	distinct, err := h.store.Distinct(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(distinct)
}

// HandleCategoryList handles the category_list tool call.
func (h *Handlers) HandleCategoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{
		"categories": h.cfg.CanonicalCategories,
		"threshold":  h.cfg.SimilarityThreshold,
	})
}

// HandleCategoryAdd handles the category_add tool call.
func (h *Handlers) HandleCategoryAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	added := h.cfg.AddCanonicalCategory(input.Category)
	if !added {
		return errorResult(errors.NewDuplicateEntity(input.Category)), nil
	}
	if h.baseDir != "" {
		if err := config.Save(h.baseDir, h.cfg); err != nil {
			return errorResult(err), nil
		}
	}

	return successResult(map[string]any{"categories": h.cfg.CanonicalCategories})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if cErr, ok := err.(*errors.CatalogError); ok {
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": cErr.Message,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
