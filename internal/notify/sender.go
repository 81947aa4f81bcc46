package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Sender defines the interface for platform-specific notification senders
type Sender interface {
	// SendVisual sends a visual notification to the OS notification system
	SendVisual(n Notification) error

	// SendSound plays an audio notification
	SendSound(soundFile string) error
}

// NewSender creates a platform-specific notification sender based on the
// current OS. Unsupported platforms get a no-op sender; so do platforms
// whose notification tools are missing from PATH (graceful degradation).
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return &execSender{
			visual: func(n Notification) *exec.Cmd {
				script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
				return exec.Command("osascript", "-e", script)
			},
			visualTool: "osascript",
			sound: func(file string) *exec.Cmd {
				if file == "" {
					file = "/System/Library/Sounds/Glass.aiff"
				}
				return exec.Command("afplay", file)
			},
			soundTool: "afplay",
		}
	case "linux":
		return &execSender{
			visual: func(n Notification) *exec.Cmd {
				return exec.Command("notify-send", n.Title, n.Message)
			},
			visualTool: "notify-send",
			sound: func(file string) *exec.Cmd {
				if file == "" {
					file = "/usr/share/sounds/freedesktop/stereo/complete.oga"
				}
				return exec.Command("paplay", file)
			},
			soundTool: "paplay",
		}
	default:
		return &noopSender{}
	}
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// execSender shells out to native OS notification tools.
type execSender struct {
	visual     func(Notification) *exec.Cmd
	visualTool string
	sound      func(string) *exec.Cmd
	soundTool  string
}

func (s *execSender) SendVisual(n Notification) error {
	if !toolAvailable(s.visualTool) {
		return nil
	}
	return s.visual(n).Run()
}

func (s *execSender) SendSound(soundFile string) error {
	if !toolAvailable(s.soundTool) {
		return nil
	}
	return s.sound(soundFile).Run()
}

// noopSender is a sender that does nothing (for unsupported platforms)
type noopSender struct{}

func (s *noopSender) SendVisual(_ Notification) error { return nil }
func (s *noopSender) SendSound(_ string) error        { return nil }
