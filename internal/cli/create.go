package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the settings file for a target",
	Long: `Create the settings file for a target with a default empty structure.
Does nothing if the file already exists.`,
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
		if doc.Exists {
			fmt.Printf("%s already exists\n", doc.Path)
			return nil
		}

		if _, err := app.Store.Create(context.Background(), target); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", doc.Path)
		return nil
	},
}

func init() {
	createCmd.GroupID = GroupEditing
	rootCmd.AddCommand(createCmd)
}
