package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/image-edit-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-edit-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-edit-mcp - MCP server for interactive image editing")
			fmt.Println()
			fmt.Println("Usage: image-edit-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_EDIT_LOG_LEVEL=debug       Enable debug logging")
			fmt.Println("  IMAGE_EDIT_HISTORY_DEPTH=<n>     Maximum undo steps (default 50, 0 = unlimited)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Register it as a stdio server in your MCP client configuration.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := loadConfig()
	if cfg.Debug {
		log.Printf("Image Edit MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("History depth: %d", cfg.HistoryDepth)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadConfig reads the server settings from the environment.
func loadConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Debug = os.Getenv("IMAGE_EDIT_LOG_LEVEL") == "debug"

	if v := os.Getenv("IMAGE_EDIT_HISTORY_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 0 {
			log.Printf("Ignoring invalid IMAGE_EDIT_HISTORY_DEPTH=%q, using %d", v, cfg.HistoryDepth)
		} else {
			cfg.HistoryDepth = depth
		}
	}
	return cfg
}
