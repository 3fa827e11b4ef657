// Package tts plays dictation prompts aloud. Playback is fire and
// forget: the session never blocks on it, and the only state the rest
// of the application keeps is whether a prompt was already played.
package tts

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Speaker reads text aloud.
type Speaker interface {
	// Speak plays the text. Blocks until playback finishes or ctx is
	// cancelled; callers wanting fire-and-forget run it in a goroutine.
	Speak(ctx context.Context, text string) error
}

// defaultCommand picks the platform's stock speech synthesizer.
func defaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak"
}

// ExecSpeaker shells out to a speech-synthesis binary that takes the
// text as its single argument.
type ExecSpeaker struct {
	command string
	log     *logrus.Entry
}

// NewExecSpeaker creates a speaker for the given command. An empty
// command selects the platform default.
func NewExecSpeaker(command string, log *logrus.Entry) *ExecSpeaker {
	if command == "" {
		command = defaultCommand()
	}
	return &ExecSpeaker{command: command, log: log}
}

// Available reports whether the synthesizer binary is on PATH.
func (s *ExecSpeaker) Available() bool {
	_, err := exec.LookPath(s.command)
	return err == nil
}

// Speak implements Speaker.
func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, s.command, text)
	if err := cmd.Run(); err != nil {
		s.log.WithError(err).WithField("command", s.command).Warn("tts playback failed")
		return fmt.Errorf("tts playback: %w", err)
	}
	return nil
}

// Silent is a Speaker that plays nothing. Used when no synthesizer is
// installed; dictation prompts are then shown as text instead.
type Silent struct{}

// Speak implements Speaker.
func (Silent) Speak(context.Context, string) error { return nil }
