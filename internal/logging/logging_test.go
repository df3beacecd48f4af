package logging

import "testing"

func TestDebugGate(t *testing.T) {
	DebugEnabled = false
	Debug("should not panic when disabled")

	DebugEnabled = true
	Debug("should not panic when enabled: %d", 42)
	DebugEnabled = false
}

func TestInfoWarnErrorDoNotPanic(t *testing.T) {
	Info("info %s", "msg")
	Warn("warn %s", "msg")
	Error("error %s", "msg")
}
