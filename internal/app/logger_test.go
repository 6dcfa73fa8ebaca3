package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerSelectsHandlerByFormat(t *testing.T) {
	_, ok := NewLogger(&Config{LogFormat: "json"}).Handler().(*slog.JSONHandler)
	require.True(t, ok)

	_, ok = NewLogger(&Config{LogFormat: "pretty"}).Handler().(*slog.TextHandler)
	require.True(t, ok)

	_, ok = NewLogger(nil).Handler().(*slog.TextHandler)
	require.True(t, ok)
}
