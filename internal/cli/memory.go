package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/claudemd"
	"github.com/utensils/fig/internal/git"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Browse the CLAUDE.md hierarchy",
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List CLAUDE.md files with existence and git state",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		entries, err := claudemd.List(app.ProjectRoot)
		if err != nil {
			return err
		}

		dim := color.New(color.Faint)
		for _, e := range entries {
			marker := "✓"
			if !e.Exists {
				marker = "·"
			}
			fmt.Printf("%s %-7s %s", marker, e.Scope, e.Path)
			if e.Exists && e.Tracked != git.Tracked {
				dim.Printf("  (%s)", e.Tracked)
			}
			fmt.Println()
		}
		return nil
	},
}

var memoryShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the body of a CLAUDE.md file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := claudemd.Read(args[0])
		if err != nil {
			return err
		}
		fmt.Print(body)
		return nil
	},
}

func init() {
	memoryCmd.GroupID = GroupInspection
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryShowCmd)
	rootCmd.AddCommand(memoryCmd)
}
