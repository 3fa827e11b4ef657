package tts

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func discardLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestExecSpeaker_Speak(t *testing.T) {
	s := NewExecSpeaker("true", discardLog())
	if err := s.Speak(context.Background(), "hello"); err != nil {
		t.Errorf("Speak() error = %v", err)
	}
}

func TestExecSpeaker_EmptyTextIsNoOp(t *testing.T) {
	s := NewExecSpeaker("/does/not/exist", discardLog())
	if err := s.Speak(context.Background(), ""); err != nil {
		t.Errorf("Speak(\"\") error = %v", err)
	}
}

func TestExecSpeaker_MissingBinary(t *testing.T) {
	s := NewExecSpeaker("/does/not/exist", discardLog())
	if err := s.Speak(context.Background(), "hello"); err == nil {
		t.Error("Speak() with missing binary returned nil")
	}
	if s.Available() {
		t.Error("Available() = true for missing binary")
	}
}

func TestSilent(t *testing.T) {
	if err := (Silent{}).Speak(context.Background(), "anything"); err != nil {
		t.Errorf("Silent.Speak() error = %v", err)
	}
}
