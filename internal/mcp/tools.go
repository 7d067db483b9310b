package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Descriptions are what MCP clients show their users, so
// they name concrete behavior, not implementation.

var searchToolDef = mcp.NewTool("screenshot_search",
	mcp.WithDescription("Find cataloged UI screenshots by describing what they show. Returns the closest matches with similarity scores."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language description of the UI to find (e.g. 'dark mode login screen with social buttons').")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of results. Defaults to the configured search size.")),
	mcp.WithString("project", mcp.Description("Restrict results to a single project.")),
)

var tagSearchToolDef = mcp.NewTool("screenshot_tag_search",
	mcp.WithDescription("Find screenshots whose tags contain the given text. Case-insensitive substring match over project and descriptive tags."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for inside tags (e.g. 'dark mode').")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of results.")),
	mcp.WithString("project", mcp.Description("Restrict results to a single project.")),
)

var listToolDef = mcp.NewTool("screenshot_list",
	mcp.WithDescription("List every screenshot in the catalog with its full metadata."),
	mcp.WithString("project", mcp.Description("Only list screenshots from this project.")),
)

var getToolDef = mcp.NewTool("screenshot_get",
	mcp.WithDescription("Fetch one screenshot's record by its ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Screenshot ID, in the form <project>_<filename>.")),
)

var updateToolDef = mcp.NewTool("screenshot_update",
	mcp.WithDescription("Replace a screenshot's company name, product category, and descriptive tags. The tag aggregate is recomputed automatically."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Screenshot ID to update.")),
	mcp.WithString("company_name", mcp.Description("New company or brand name.")),
	mcp.WithString("product_category", mcp.Description("New product category.")),
	mcp.WithArray("descriptive_tags", mcp.Description("New descriptive tags; replaces the existing set."),
		mcp.Items(map[string]any{"type": "string"})),
)

var deleteToolDef = mcp.NewTool("screenshot_delete",
	mcp.WithDescription("Remove a screenshot from the catalog and delete its backing image file."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Screenshot ID to delete.")),
)

var projectRetagToolDef = mcp.NewTool("project_retag",
	mcp.WithDescription("Replace the project-level tags on every screenshot in a project. Each record's tag aggregate is recomputed."),
	mcp.WithString("project_name", mcp.Required(), mcp.Description("Project whose screenshots get the new tags.")),
	mcp.WithArray("project_tags", mcp.Required(), mcp.Description("The new project tags."),
		mcp.Items(map[string]any{"type": "string"})),
)

var projectDeleteToolDef = mcp.NewTool("project_delete",
	mcp.WithDescription("Delete all of a project's screenshots from the catalog along with its image directory."),
	mcp.WithString("project_name", mcp.Required(), mcp.Description("Project to delete.")),
)

var statsToolDef = mcp.NewTool("catalog_stats",
	mcp.WithDescription("Report catalog totals: image count, project count, and project names."),
)

var distinctToolDef = mcp.NewTool("catalog_distinct",
	mcp.WithDescription("List the distinct company names and product categories present in the catalog."),
)

var categoryListToolDef = mcp.NewTool("category_list",
	mcp.WithDescription("List the canonical product categories used to normalize model output."),
)

var categoryAddToolDef = mcp.NewTool("category_add",
	mcp.WithDescription("Add a canonical product category and persist it to the configuration."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Category name to add; stored lowercase.")),
)
