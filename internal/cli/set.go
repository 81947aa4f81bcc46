package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/session"
)

var setCmd = &cobra.Command{
	Use:   "set <field-path> <value>",
	Short: "Set a settings field by dot-separated path",
	Long: `Set a settings field by dot-separated path. The value is parsed as
JSON when possible (numbers, booleans, objects, arrays) and treated as a
plain string otherwise.`,
	Example: `  fig set permissions.defaultMode acceptEdits
  fig set --target global cleanupPeriodDays 30`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.Set(args[0], parseValue(args[1]))
		})
	},
}

var unsetCmd = &cobra.Command{
	Use:   "unset <field-path>",
	Short: "Remove a settings field by dot-separated path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.editSession(cmd, func(sess *session.Session) error {
			return sess.Unset(args[0])
		})
	},
}

// parseValue interprets a CLI argument as a JSON value, falling back to a
// raw string. Quoting a value forces string interpretation: '"30"'.
func parseValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func init() {
	setCmd.GroupID = GroupEditing
	unsetCmd.GroupID = GroupEditing
	addResolutionFlags(setCmd)
	addResolutionFlags(unsetCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
}
