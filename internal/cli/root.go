// Package cli provides the cobra-based command surface for fig: inspecting
// and editing Claude Code settings files at global and per-project scope,
// watching for external changes, and browsing the CLAUDE.md hierarchy.
package cli

import (
	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output
const (
	GroupEditing       = "editing"
	GroupInspection    = "inspection"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "fig",
	Short: "fig - Claude Code settings editor",
	Long: `fig - Claude Code settings editor

Edit permission rules, environment variables, attribution settings, and the
CLAUDE.md hierarchy at global and per-project scope. fig detects external
modifications to settings files and never silently overwrites them.`,
	Example: `  # Show the effective project settings
  fig show

  # Allow a tool pattern in the local override file
  fig allow --target local "Bash(make:*)"

  # Set an environment variable in global settings
  fig env set --target global ANTHROPIC_MODEL claude-sonnet-4-5

  # Watch open targets for external changes
  fig watch

  # List the CLAUDE.md hierarchy with git state
  fig memory list`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupEditing, Title: "Editing:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupInspection, Title: "Inspection:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project root (default: enclosing git repository or cwd)")
	rootCmd.PersistentFlags().StringP("target", "t", "", "Settings target: global, project, local, or mcp")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a local fig config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
}
