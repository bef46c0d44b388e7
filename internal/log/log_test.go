package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cases := []struct {
		debug, verbose bool
		want           slog.Level
	}{
		{false, false, slog.LevelWarn},
		{false, true, slog.LevelInfo},
		{true, false, slog.LevelDebug},
		{true, true, slog.LevelDebug},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		l := Setup(&buf, tc.debug, tc.verbose)
		assert.True(t, l.Enabled(context.Background(), tc.want))
		assert.False(t, l.Enabled(context.Background(), tc.want-1))
	}
}

func TestSetupWritesText(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Setup(&buf, false, false)
	slog.Warn("storage almost full", "free", "8.0 MiB")
	assert.Contains(t, buf.String(), `msg="storage almost full" free="8.0 MiB"`)
}
