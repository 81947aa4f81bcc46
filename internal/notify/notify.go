// Package notify delivers user-visible notifications for save results and
// detected conflicts. The Notifier is an explicitly injected service, not a
// package-level singleton: components that need to report take it as a
// dependency. Platform delivery uses native OS tools via os/exec only.
package notify

// EventType represents the type of notification event
type EventType string

const (
	// TypeSuccess indicates a successful operation
	TypeSuccess EventType = "success"
	// TypeFailure indicates a failed operation
	TypeFailure EventType = "failure"
	// TypeConflict indicates a detected external-change conflict
	TypeConflict EventType = "conflict"
)

// OutputType represents the notification output type
type OutputType string

const (
	// OutputSound sends only an audible notification
	OutputSound OutputType = "sound"
	// OutputVisual sends only a visual notification
	OutputVisual OutputType = "visual"
	// OutputBoth sends both sound and visual notifications
	OutputBoth OutputType = "both"
)

// ValidOutputType checks if the given string is a valid output type
func ValidOutputType(s string) bool {
	switch OutputType(s) {
	case OutputSound, OutputVisual, OutputBoth:
		return true
	default:
		return false
	}
}

// Config holds user preferences for notification behavior.
type Config struct {
	// Enabled is the master switch for all notifications (default: false, opt-in)
	Enabled bool `koanf:"enabled" json:"enabled"`

	// Type specifies the notification output type: sound, visual, or both
	Type OutputType `koanf:"type" json:"type"`

	// SoundFile is an optional custom sound file path
	SoundFile string `koanf:"sound_file" json:"sound_file"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Type:    OutputBoth,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	Title   string
	Message string
	Type    EventType
}

// Notifier is the injected notification service.
type Notifier interface {
	// SaveSucceeded reports a completed save of the given file.
	SaveSucceeded(path string)
	// SaveFailed reports a failed save of the given file.
	SaveFailed(path string, err error)
	// ConflictDetected reports an external change against a dirty session.
	ConflictDetected(path string)
}
