package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/session"
	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/store"
	"github.com/utensils/fig/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch settings files for external changes",
	Long: `Watch the project's settings targets for external modifications.
Changes against clean targets are adopted silently; a change against a
target with unsaved edits prompts for keep-local or use-external.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		targets := []settings.Target{
			settings.GlobalTarget(),
			settings.ProjectTarget(settings.TargetProject, app.ProjectRoot),
			settings.ProjectTarget(settings.TargetLocal, app.ProjectRoot),
			settings.ProjectTarget(settings.TargetMCP, app.ProjectRoot),
		}

		var sessions []*session.Session
		for _, target := range targets {
			sess, err := app.Registry.Open(ctx, target)
			if err != nil {
				app.Logger.Warn("skipping target", "target", target.String(), "error", err)
				continue
			}
			defer app.Registry.Close(sess)
			sessions = append(sessions, sess)
			fmt.Printf("watching %s\n", sess.Path())
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no watchable targets")
		}

		w := watch.New(app.Logger, time.Duration(app.Config.PollInterval)*time.Second, func(sess *session.Session, record *store.ExternalChangeRecord) {
			app.Notifier.ConflictDetected(sess.Path())
			if !stdinIsTerminal() {
				app.Logger.Error("conflict unresolved", "path", sess.Path())
				return
			}
			if err := promptResolution(app.Config, sess, record); err != nil {
				app.Logger.Error("conflict unresolved", "path", sess.Path(), "error", err)
			}
		})

		err = w.Run(ctx, sessions)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.GroupID = GroupInspection
	rootCmd.AddCommand(watchCmd)
}
