package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the settings for a target",
	Long: `Show the parsed settings for an editing target: permission rules,
environment variables, attribution flags, and disallowed tools. Unrecognized
keys are listed by name so nothing in the file is hidden.`,
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

		heading := color.New(color.Bold)
		heading.Printf("%s\n", doc.Path)
		if !doc.Exists {
			fmt.Println("  (file does not exist; run 'fig create' to create it)")
			return nil
		}

		c := doc.Content
		if rules := c.AllowRules(); len(rules) > 0 {
			heading.Println("Allowed:")
			for _, r := range rules {
				fmt.Printf("  %s\n", r)
			}
		}
		if rules := c.DenyRules(); len(rules) > 0 {
			heading.Println("Denied:")
			for _, r := range rules {
				fmt.Printf("  %s\n", r)
			}
		}
		if env := c.Env(); len(env) > 0 {
			heading.Println("Environment:")
			for k, v := range env {
				fmt.Printf("  %s=%s\n", k, v)
			}
		}
		attr := c.Attribution()
		heading.Println("Attribution:")
		fmt.Printf("  commits: %v\n  pullRequests: %v\n", attr.Commits, attr.PullRequests)
		if tools := c.DisallowedTools(); len(tools) > 0 {
			heading.Println("Disallowed tools:")
			for _, t := range tools {
				fmt.Printf("  %s\n", t)
			}
		}
		return nil
	},
}

func init() {
	showCmd.GroupID = GroupInspection
	rootCmd.AddCommand(showCmd)
}
