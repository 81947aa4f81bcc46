package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/session"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage environment variables in settings",
}

var envSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set an environment variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.SetEnv(args[0], args[1])
		})
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove an environment variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.UnsetEnv(args[0])
		})
	},
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List environment variables",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		target, err := app.Target(cmd)
		if err != nil {
			return err
		}
		doc, err := app.Store.Load(context.Background(), target)
		if err != nil {
			return app.reportLoadError(err)
		}

		env := doc.Content.Env()
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, env[k])
		}
		return nil
	},
}

func init() {
	envCmd.GroupID = GroupEditing
	addResolutionFlags(envSetCmd)
	addResolutionFlags(envUnsetCmd)
	envCmd.AddCommand(envSetCmd)
	envCmd.AddCommand(envUnsetCmd)
	envCmd.AddCommand(envListCmd)
	rootCmd.AddCommand(envCmd)
}
