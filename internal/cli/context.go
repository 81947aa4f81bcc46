package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/utensils/fig/internal/config"
	figerrors "github.com/utensils/fig/internal/errors"
	"github.com/utensils/fig/internal/git"
	"github.com/utensils/fig/internal/notify"
	"github.com/utensils/fig/internal/session"
	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/state"
	"github.com/utensils/fig/internal/store"
)

// App bundles the services a command needs: configuration, logger, document
// store, session registry, and the injected notifier. Built once per
// invocation from the command flags; nothing here is a global.
type App struct {
	Config      *config.Configuration
	Logger      *log.Logger
	Store       *store.Store
	Registry    *session.Registry
	Notifier    notify.Notifier
	ProjectRoot string
	StateDir    string
}

// newApp constructs the application context from persistent flags.
func newApp(cmd *cobra.Command) (*App, error) {
	localConfig, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(localConfig)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	projectRoot, err := resolveProjectRoot(cmd)
	if err != nil {
		return nil, err
	}

	st := store.New(logger)
	app := &App{
		Config:      cfg,
		Logger:      logger,
		Store:       st,
		Registry:    session.NewRegistry(st, logger),
		Notifier:    notify.NewHandler(cfg.Notifications),
		ProjectRoot: projectRoot,
	}
	if home, err := os.UserHomeDir(); err == nil {
		app.StateDir = filepath.Join(home, ".fig", "state")
	}
	return app, nil
}

// resolveProjectRoot picks the project root: --project flag, then the
// enclosing git repository, then the working directory.
func resolveProjectRoot(cmd *cobra.Command) (string, error) {
	if flagRoot, _ := cmd.Flags().GetString("project"); flagRoot != "" {
		abs, err := filepath.Abs(flagRoot)
		if err != nil {
			return "", fmt.Errorf("resolving project root: %w", err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	if root, ok := git.Root(cwd); ok {
		return root, nil
	}
	return cwd, nil
}

// Target resolves the editing target from the --target flag, falling back to
// the last target remembered for this project, then the configured default.
func (a *App) Target(cmd *cobra.Command) (settings.Target, error) {
	name, _ := cmd.Flags().GetString("target")
	if name == "" {
		name = a.lastTargetName()
	}
	if name == "" {
		name = a.Config.DefaultTarget
	}

	kind, err := settings.ParseTargetKind(name)
	if err != nil {
		return settings.Target{}, figerrors.UnknownTarget(name)
	}
	if kind == settings.TargetGlobal {
		return settings.GlobalTarget(), nil
	}
	return settings.ProjectTarget(kind, a.ProjectRoot), nil
}

// lastTargetName returns the target kind last used for this project, if any.
func (a *App) lastTargetName() string {
	if a.StateDir == "" {
		return ""
	}
	st, err := state.Load(a.StateDir)
	if err != nil {
		return ""
	}
	return st.LastTarget[a.projectKey()]
}

func (a *App) projectKey() string {
	if a.ProjectRoot == "" {
		return "global"
	}
	return a.ProjectRoot
}

// rememberTarget persists the target kind for the next invocation. Failures
// are logged, never surfaced: state is a convenience.
func (a *App) rememberTarget(target settings.Target) {
	if a.StateDir == "" {
		return
	}
	if err := state.RememberTarget(a.StateDir, a.projectKey(), target.Kind.String()); err != nil {
		a.Logger.Debug("cannot persist editor state", "error", err)
	}
}

// editSession runs fn against the target's edit session and saves. Before
// saving it runs one external-change check; a conflict is resolved from the
// --keep-local/--use-external flags, or reported with exit code ExitConflict
// when neither is given.
func (a *App) editSession(cmd *cobra.Command, fn func(*session.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := a.Target(cmd)
	if err != nil {
		return err
	}

	sess, err := a.Registry.Open(ctx, target)
	if err != nil {
		return a.reportLoadError(err)
	}
	defer a.Registry.Close(sess)

	if err := fn(sess); err != nil {
		return err
	}
	if !sess.Dirty() {
		fmt.Println("No changes.")
		return nil
	}

	if record, err := sess.CheckExternal(ctx); err != nil {
		return err
	} else if record != nil {
		if err := a.resolveConflict(cmd, sess, record); err != nil {
			return err
		}
	}

	if err := sess.Save(ctx); err != nil {
		a.Notifier.SaveFailed(sess.Path(), err)
		figerrors.PrintError(figerrors.SaveFailed(sess.Path(), err))
		return NewExitError(ExitFailure)
	}

	a.Notifier.SaveSucceeded(sess.Path())
	a.rememberTarget(target)
	fmt.Printf("Saved %s\n", sess.Path())
	return nil
}

// resolveConflict applies --keep-local/--use-external to a pending conflict.
// With neither flag, an interactive session gets the resolution prompt; a
// non-interactive one fails with ExitConflict without touching the file.
func (a *App) resolveConflict(cmd *cobra.Command, sess *session.Session, record *store.ExternalChangeRecord) error {
	keepLocal, _ := cmd.Flags().GetBool("keep-local")
	useExternal, _ := cmd.Flags().GetBool("use-external")

	switch {
	case keepLocal && useExternal:
		return fmt.Errorf("--keep-local and --use-external are mutually exclusive")
	case keepLocal:
		return sess.Resolve(session.KeepLocal)
	case useExternal:
		return sess.Resolve(session.UseExternal)
	}

	if stdinIsTerminal() {
		a.Notifier.ConflictDetected(sess.Path())
		return promptResolution(a.Config, sess, record)
	}

	a.Notifier.ConflictDetected(sess.Path())
	figerrors.PrintError(figerrors.UnresolvedConflict(sess.Path()))
	return NewExitError(ExitConflict)
}

// stdinIsTerminal reports whether stdin is attached to a terminal, so a
// resolution prompt can actually be answered.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// needsDiscardConfirmation reports whether a resolution choice requires an
// extra confirmation: adopting the external version discards unsaved edits,
// which confirm_discard guards.
func needsDiscardConfirmation(choice session.Resolution, cfg *config.Configuration) bool {
	return choice == session.UseExternal && cfg.ConfirmDiscard
}

// promptResolution asks the user to resolve a pending conflict with an
// interactive select. Choosing the external version while confirm_discard is
// set adds a confirmation step before the unsaved edits are dropped.
func promptResolution(cfg *config.Configuration, sess *session.Session, record *store.ExternalChangeRecord) error {
	title := fmt.Sprintf("%s was modified outside fig", sess.Path())
	if record.Deleted {
		title = fmt.Sprintf("%s was deleted outside fig", sess.Path())
	}

	choice := session.KeepLocal
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[session.Resolution]().
			Title(title).
			Description("You have unsaved edits for this file.").
			Options(
				huh.NewOption("Keep my edits (overwrite on next save)", session.KeepLocal),
				huh.NewOption("Use the external version (discard my edits)", session.UseExternal),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if needsDiscardConfirmation(choice, cfg) {
		confirmed := false
		confirm := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Discard your unsaved edits?").
				Value(&confirmed),
		))
		if err := confirm.Run(); err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("resolution cancelled")
		}
	}

	return sess.Resolve(choice)
}

// reportLoadError maps store load failures onto CLI errors and exit codes.
func (a *App) reportLoadError(err error) error {
	var pe *figerrors.ParseError
	if errors.As(err, &pe) {
		figerrors.PrintError(figerrors.MalformedSettings(pe.Path, pe.Err))
		return NewExitError(ExitParseError)
	}
	return err
}

// addResolutionFlags registers the conflict resolution flags on a command
// that saves.
func addResolutionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("keep-local", false, "On conflict, keep local edits and overwrite the external change")
	cmd.Flags().Bool("use-external", false, "On conflict, discard local edits and adopt the external change")
}
