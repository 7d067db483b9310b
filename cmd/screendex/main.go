package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/config"
	"github.com/screendex/screendex/internal/index"
	"github.com/screendex/screendex/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// embeddingDims is the dimensionality of the local embedder. Changing it
// invalidates existing index files.
const embeddingDims = 256

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"ingest": true, "search": true, "tag-search": true,
	"list": true, "get": true, "update": true, "delete": true,
	"project-tags": true, "delete-project": true,
	"stats": true, "distinct": true, "categories": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  ___  __ _ _ ___ ___ _ _  __| |_____ __
 (_-< / _| '_/ -_) -_) ' \/ _' / -_) \ /
 /__/ \__|_| \___\___|_||_\__,_\___/_\_\

  UI screenshot catalog and retrieval

  Usage: screendex <command> [options]
         screendex --help

  MCP server mode requires piped input.`)
}

// baseDir resolves the data directory, honoring SCREENDEX_HOME.
func baseDir() (string, error) {
	if dir := os.Getenv("SCREENDEX_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".screendex"), nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before index init (no store needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, "")
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dir, err := baseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	idx, err := index.Open(dir, index.NewHashEmbedder(embeddingDims))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()
	idx.ConfigurePool(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)

	storageRoot := cfg.StorageRoot
	if storageRoot == "" {
		storageRoot = filepath.Join(dir, "images")
	}
	store := catalog.NewStore(idx, cfg, storageRoot)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(store, cfg, dir)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'screendex --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(store, cfg, dir, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
