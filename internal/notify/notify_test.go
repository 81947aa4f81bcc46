// Package notify_test tests notification gating and sender degradation.
// Related: internal/notify/handler.go, internal/notify/sender.go
// Tags: notify, platform

package notify

import (
	"errors"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockSender records deliveries.
type mockSender struct {
	mu      sync.Mutex
	visuals []Notification
	sounds  []string
}

func (m *mockSender) SendVisual(n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visuals = append(m.visuals, n)
	return nil
}

func (m *mockSender) SendSound(file string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sounds = append(m.sounds, file)
	return nil
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visuals) + len(m.sounds)
}

func TestValidOutputType(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  bool
	}{
		"sound":   {input: "sound", want: true},
		"visual":  {input: "visual", want: true},
		"both":    {input: "both", want: true},
		"empty":   {input: "", want: false},
		"unknown": {input: "desktop", want: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, ValidOutputType(test.input))
		})
	}
}

func TestDefaultConfigIsOptIn(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, OutputBoth, cfg.Type)
}

func TestDisabledHandlerSendsNothing(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	h := NewHandlerWithSender(Config{Enabled: false, Type: OutputBoth}, sender)

	h.SaveSucceeded("/p/.claude/settings.json")
	h.SaveFailed("/p/.claude/settings.json", errors.New("disk full"))
	h.ConflictDetected("/p/.claude/settings.json")

	assert.Zero(t, sender.count())
}

func TestCIEnvironmentSuppressesNotifications(t *testing.T) {
	t.Setenv("CI", "true")

	sender := &mockSender{}
	h := NewHandlerWithSender(Config{Enabled: true, Type: OutputBoth}, sender)
	h.SaveSucceeded("/p/.claude/settings.json")

	assert.Zero(t, sender.count())
	assert.False(t, h.isEnabled())
}

func TestMissingToolDegradesGracefully(t *testing.T) {
	t.Parallel()

	s := &execSender{
		visual:     func(Notification) *exec.Cmd { return exec.Command("fig-no-such-tool") },
		visualTool: "fig-no-such-tool",
		sound:      func(string) *exec.Cmd { return exec.Command("fig-no-such-tool") },
		soundTool:  "fig-no-such-tool",
	}

	assert.NoError(t, s.SendVisual(Notification{Title: "fig", Message: "saved"}))
	assert.NoError(t, s.SendSound(""))
}

func TestNoopImplementsNotifier(t *testing.T) {
	t.Parallel()

	var n Notifier = Noop{}
	n.SaveSucceeded("x")
	n.SaveFailed("x", errors.New("boom"))
	n.ConflictDetected("x")
}
