package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/config"
	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/normalize"
	"github.com/screendex/screendex/internal/pipeline"
	"github.com/screendex/screendex/internal/vision"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(store *catalog.Store, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "screendex",
		Usage:   "UI screenshot catalog and retrieval",
		Version: Version,
		Commands: []*cli.Command{
			ingestCmd(store, cfg),
			searchCmd(store),
			tagSearchCmd(store),
			listCmd(store),
			getCmd(store),
			updateCmd(store),
			projectTagsCmd(store),
			deleteCmd(store),
			deleteProjectCmd(store),
			statsCmd(store),
			distinctCmd(store),
			categoriesCmd(cfg, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// ingestCmd creates the ingest command.
func ingestCmd(store *catalog.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Tag screenshots with the vision model and add them to the catalog",
		ArgsUsage: "<files or directories>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Required: true, Usage: "Project name for the batch"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Run the tagging passes and print the staged batch without committing"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one file or directory is required"))
			}
			paths, err := expandPaths(c.Args().Slice())
			if err != nil {
				return outputError(err)
			}

			client, err := visionClient(cfg)
			if err != nil {
				return outputError(err)
			}
			norm := normalize.New(cfg.CanonicalCategories, cfg.SimilarityThreshold)
			p := pipeline.NewPipeline(client, norm, store, cfg)

			batch, err := p.Start(c.Context, c.String("project"), paths)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("dry-run") {
				return outputJSON(batch)
			}

			ids, err := p.Commit(c.Context, batch.ID)
			if err != nil {
				// Print the staged batch so the gaps are visible, then fail.
				_ = outputJSON(batch)
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"batch_id":  batch.ID,
				"committed": ids,
				"skipped":   batch.Skipped,
			})
		},
	}
}

// searchCmd creates the search command.
func searchCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find screenshots by describing what they show",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum results"},
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Restrict to one project"},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			results, err := store.Search(c.Context, query, c.Int("limit"), c.String("project"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"results": results, "count": len(results)})
		},
	}
}

// tagSearchCmd creates the tag-search command.
func tagSearchCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "tag-search",
		Usage:     "Find screenshots whose tags contain the given text",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum results"},
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Restrict to one project"},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			results, err := store.SearchByTags(c.Context, query, c.Int("limit"), c.String("project"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"results": results, "count": len(results)})
		},
	}
}

// listCmd creates the list command.
func listCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every screenshot in the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Only list this project"},
		},
		Action: func(c *cli.Context) error {
			shots, err := store.ListAll(c.Context)
			if err != nil {
				return outputError(err)
			}
			if project := c.String("project"); project != "" {
				filtered := shots[:0]
				for _, s := range shots {
					if s.ProjectName == project {
						filtered = append(filtered, s)
					}
				}
				shots = filtered
			}
			return outputJSON(map[string]any{"screenshots": shots, "count": len(shots)})
		},
	}
}

// getCmd creates the get command.
func getCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch one screenshot's record by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			shot, err := store.Get(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(shot)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Replace a screenshot's company, category, and descriptive tags",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "company", Usage: "New company name"},
			&cli.StringFlag{Name: "category", Usage: "New product category"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated descriptive tags"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			id := c.Args().First()

			ok, err := store.UpdateMetadata(c.Context, id, catalog.UpdateMetadataInput{
				CompanyName:     c.String("company"),
				ProductCategory: c.String("category"),
				DescriptiveTags: parseTags(c.String("tags")),
			})
			if err != nil {
				return outputError(err)
			}
			if !ok {
				return outputError(errors.NewNotFound(id))
			}

			shot, err := store.Get(c.Context, id)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(shot)
		},
	}
}

// projectTagsCmd creates the project-tags command.
func projectTagsCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "project-tags",
		Usage:     "Replace project-level tags on every screenshot in a project",
		ArgsUsage: "<project>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tags", Required: true, Usage: "New comma-separated project tags"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("project name is required"))
			}
			project := c.Args().First()

			updated, err := store.UpdateProjectTags(c.Context, project, parseTags(c.String("tags")))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"project_name": project, "updated": updated})
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove a screenshot and its backing image file",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			id := c.Args().First()

			removed, err := store.Delete(c.Context, id)
			if err != nil {
				return outputError(err)
			}
			if !removed {
				return outputError(errors.NewNotFound(id))
			}
			return outputJSON(map[string]any{"deleted": id})
		},
	}
}

// deleteProjectCmd creates the delete-project command.
func deleteProjectCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete-project",
		Usage:     "Delete all of a project's screenshots and its image directory",
		ArgsUsage: "<project>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("project name is required"))
			}
			project := c.Args().First()

			deleted, err := store.DeleteProject(c.Context, project)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"project_name": project, "deleted": deleted})
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Report catalog totals",
		Action: func(c *cli.Context) error {
			stats, err := store.Stats(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(stats)
		},
	}
}

// distinctCmd creates the distinct command.
func distinctCmd(store *catalog.Store) *cli.Command {
	return &cli.Command{
		Name:  "distinct",
		Usage: "List distinct company names and product categories",
		Action: func(c *cli.Context) error {
			distinct, err := store.Distinct(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(distinct)
		},
	}
}

// categoriesCmd creates the categories command.
func categoriesCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List or extend the canonical product categories",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "add", Usage: "Category to add; stored lowercase and persisted"},
		},
		Action: func(c *cli.Context) error {
			if category := c.String("add"); category != "" {
				if !cfg.AddCanonicalCategory(category) {
					return outputError(errors.NewDuplicateEntity(category))
				}
				if err := config.Save(baseDir, cfg); err != nil {
					return outputError(err)
				}
			}
			return outputJSON(map[string]any{
				"categories": cfg.CanonicalCategories,
				"threshold":  cfg.SimilarityThreshold,
			})
		},
	}
}

// Helper functions

// visionClient builds the vision collaborator from the environment.
func visionClient(cfg *config.Config) (vision.Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.NewInvalidRequest("ANTHROPIC_API_KEY must be set to ingest")
	}
	return vision.NewAnthropicClient(vision.AnthropicConfig{
		APIKey:    apiKey,
		Model:     cfg.VisionModel,
		MaxTokens: cfg.VisionMaxTokens,
	})
}

// expandPaths resolves directories to the image files directly inside them.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", arg, err))
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", arg, err))
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if vision.IsSupportedImage(entry.Name()) {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cErr, ok := err.(*errors.CatalogError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
