package notify

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// dispatchTimeout bounds how long a platform notification command may run.
const dispatchTimeout = 5 * time.Second

// Handler dispatches notifications through a platform Sender according to
// configuration. It implements Notifier and no-ops when disabled, running in
// CI, or without a TTY.
type Handler struct {
	config Config
	sender Sender
}

// NewHandler creates a notification handler with the platform sender.
func NewHandler(config Config) *Handler {
	return &Handler{config: config, sender: NewSender()}
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config Config, sender Sender) *Handler {
	return &Handler{config: config, sender: sender}
}

// Config returns the handler's configuration.
func (h *Handler) Config() Config {
	return h.config
}

// SaveSucceeded reports a completed save.
func (h *Handler) SaveSucceeded(path string) {
	h.dispatch(Notification{
		Title:   "fig",
		Message: fmt.Sprintf("Saved %s", path),
		Type:    TypeSuccess,
	})
}

// SaveFailed reports a failed save.
func (h *Handler) SaveFailed(path string, err error) {
	h.dispatch(Notification{
		Title:   "fig",
		Message: fmt.Sprintf("Save failed for %s: %v", path, err),
		Type:    TypeFailure,
	})
}

// ConflictDetected reports an external change against a dirty session.
func (h *Handler) ConflictDetected(path string) {
	h.dispatch(Notification{
		Title:   "fig",
		Message: fmt.Sprintf("%s changed outside fig while you have unsaved edits", path),
		Type:    TypeConflict,
	})
}

// isEnabled checks if notifications should be sent.
func (h *Handler) isEnabled() bool {
	if !h.config.Enabled {
		return false
	}
	if isCI() {
		return false
	}
	return isInteractive()
}

// dispatch sends a notification asynchronously; delivery failures are
// swallowed, a broken notifier must never fail an edit operation.
func (h *Handler) dispatch(n Notification) {
	if !h.isEnabled() {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if h.config.Type == OutputVisual || h.config.Type == OutputBoth {
			_ = h.sender.SendVisual(n)
		}
		if h.config.Type == OutputSound || h.config.Type == OutputBoth {
			_ = h.sender.SendSound(h.config.SoundFile)
		}
	}()

	select {
	case <-done:
	case <-time.After(dispatchTimeout):
	}
}

// isCI checks for common CI environment variables.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks if the session has a terminal attached. Checks stdout
// rather than stdin because CLI tools often have stdin piped while stdout
// remains connected to the terminal.
func isInteractive() bool {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Noop is a Notifier that does nothing, for tests and quiet mode.
type Noop struct{}

// SaveSucceeded implements Notifier.
func (Noop) SaveSucceeded(string) {}

// SaveFailed implements Notifier.
func (Noop) SaveFailed(string, error) {}

// ConflictDetected implements Notifier.
func (Noop) ConflictDetected(string) {}
