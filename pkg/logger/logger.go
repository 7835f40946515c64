package logger

import (
	"io"
	"log/slog"
	"os"
)

// Init installe le logger par défaut : texte lisible en local, JSON ailleurs.
func Init(env string) *slog.Logger {
	l := New(os.Stdout, env)
	slog.SetDefault(l)
	return l
}

func New(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "local" {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "local" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
