package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusUninitialized, "uninitialized"},
		{StatusConnecting, "connecting"},
		{StatusConnected, "connected"},
		{StatusClosing, "closing"},
		{StatusClosed, "closed"},
		{StatusDisconnected, "disconnected"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusUninitialized: false,
		StatusConnecting:    false,
		StatusConnected:     false,
		StatusClosing:       false,
		StatusClosed:        true,
		StatusDisconnected:  true,
	}

	for status, want := range terminal {
		assert.Equal(t, want, status.Terminal(), "Terminal() for %s", status)
	}
}
