package cli

import (
	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/session"
)

var allowCmd = &cobra.Command{
	Use:   "allow <pattern>",
	Short: "Add a permission allow rule",
	Example: `  fig allow "Bash(make:*)"
  fig allow --target local "WebFetch(domain:docs.example.com)"
  fig allow --remove "Bash(make:*)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		remove, _ := cmd.Flags().GetBool("remove")
		return app.editSession(cmd, func(sess *session.Session) error {
			if remove {
				return sess.RemoveAllowRule(args[0])
			}
			return sess.AddAllowRule(args[0])
		})
	},
}

var denyCmd = &cobra.Command{
	Use:   "deny <pattern>",
	Short: "Add a permission deny rule",
	Example: `  fig deny "Bash(curl:*)"
  fig deny --remove "Bash(curl:*)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		remove, _ := cmd.Flags().GetBool("remove")
		return app.editSession(cmd, func(sess *session.Session) error {
			if remove {
				return sess.RemoveDenyRule(args[0])
			}
			return sess.AddDenyRule(args[0])
		})
	},
}

func init() {
	allowCmd.GroupID = GroupEditing
	denyCmd.GroupID = GroupEditing
	allowCmd.Flags().Bool("remove", false, "Remove the rule instead of adding it")
	denyCmd.Flags().Bool("remove", false, "Remove the rule instead of adding it")
	addResolutionFlags(allowCmd)
	addResolutionFlags(denyCmd)
	rootCmd.AddCommand(allowCmd)
	rootCmd.AddCommand(denyCmd)
}
