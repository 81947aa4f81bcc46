package cli

import (
	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/session"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Manage the disallowed tool list",
}

var toolsDisallowCmd = &cobra.Command{
	Use:     "disallow <tool>",
	Short:   "Add a tool to the disallowed list",
	Example: `  fig tools disallow WebSearch`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.AddDisallowedTool(args[0])
		})
	},
}

var toolsPermitCmd = &cobra.Command{
	Use:   "permit <tool>",
	Short: "Remove a tool from the disallowed list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.RemoveDisallowedTool(args[0])
		})
	},
}

func init() {
	toolsCmd.GroupID = GroupEditing
	addResolutionFlags(toolsDisallowCmd)
	addResolutionFlags(toolsPermitCmd)
	toolsCmd.AddCommand(toolsDisallowCmd)
	toolsCmd.AddCommand(toolsPermitCmd)
	rootCmd.AddCommand(toolsCmd)
}
