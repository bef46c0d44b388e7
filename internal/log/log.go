package log

import (
	"io"
	"log/slog"
)

// Setup инициализирует глобальный slog.Logger, пишущий в w.
// Если debug=true — уровень Debug; если verbose=true — Info; иначе — Warn.
// Функция также делает этот логгер логгером по-умолчанию (slog.SetDefault).
func Setup(w io.Writer, debug bool, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
