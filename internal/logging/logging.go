package logging

import (
	"io"
	"log/slog"
)

// New builds the process logger. debug logs at Debug without timestamps;
// advanced logs at Debug with timestamps and source locations.
func New(w io.Writer, debug, advanced bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch {
	case advanced:
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case debug:
		opts.Level = slog.LevelDebug
		opts.ReplaceAttr = dropTime
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
