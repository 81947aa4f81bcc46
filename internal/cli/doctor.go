package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	figerrors "github.com/utensils/fig/internal/errors"
	"github.com/utensils/fig/internal/git"
	"github.com/utensils/fig/internal/progress"
	"github.com/utensils/fig/internal/settings"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment and settings files",
	Long: `Check that settings files parse, their directories are writable, and
the project's git state is readable. Problems are reported with remediation
steps; nothing is modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		display := progress.NewDisplay(app.Config.Color)
		failures := 0

		targets := []settings.Target{
			settings.GlobalTarget(),
			settings.ProjectTarget(settings.TargetProject, app.ProjectRoot),
			settings.ProjectTarget(settings.TargetLocal, app.ProjectRoot),
			settings.ProjectTarget(settings.TargetMCP, app.ProjectRoot),
		}
		for _, target := range targets {
			label := fmt.Sprintf("checking %s settings", target.Kind)
			display.Start(label)
			if err := checkTarget(target); err != nil {
				display.Fail(label, err)
				figerrors.PrintError(err)
				failures++
				continue
			}
			display.Done(label)
		}

		display.Start("checking git repository")
		if _, ok := git.Root(app.ProjectRoot); ok {
			display.Done("git repository found")
		} else {
			display.Done("no git repository (CLAUDE.md tracking state unavailable)")
		}

		if failures > 0 {
			return NewExitError(ExitFailure)
		}
		return nil
	},
}

// checkTarget verifies a target parses and its directory is writable.
func checkTarget(target settings.Target) error {
	path, err := target.Path()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if _, perr := settings.ParseContent(data); perr != nil {
			return figerrors.MalformedSettings(path, perr)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		probe, err := os.CreateTemp(dir, ".fig-doctor-*")
		if err != nil {
			return figerrors.SaveFailed(path, err)
		}
		probe.Close()
		os.Remove(probe.Name())
	}
	return nil
}

func init() {
	doctorCmd.GroupID = GroupInspection
	rootCmd.AddCommand(doctorCmd)
}
