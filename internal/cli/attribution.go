package cli

import (
	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/session"
	"github.com/utensils/fig/internal/settings"
)

var attributionCmd = &cobra.Command{
	Use:   "attribution",
	Short: "Set commit and pull request attribution flags",
	Example: `  fig attribution --commits --pull-requests
  fig attribution --commits=false --pull-requests=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		commits, _ := cmd.Flags().GetBool("commits")
		prs, _ := cmd.Flags().GetBool("pull-requests")
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.SetAttribution(settings.Attribution{
				Commits:      commits,
				PullRequests: prs,
			})
		})
	},
}

func init() {
	attributionCmd.GroupID = GroupEditing
	attributionCmd.Flags().Bool("commits", false, "Attribute Claude in commit messages")
	attributionCmd.Flags().Bool("pull-requests", false, "Attribute Claude in pull request descriptions")
	addResolutionFlags(attributionCmd)
	rootCmd.AddCommand(attributionCmd)
}
