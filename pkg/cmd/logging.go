package cmd

import (
	"log/slog"
	"os"
)

// initLogger installs the process-wide slog handler per the persistent
// --log-level/--log-text flags: text format by default, JSON when
// log-text is false.
func initLogger(flags *cmdFlags) error {
	level, err := parseLevel(flags.LogLevel)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if flags.TextFormat {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, err
	}

	return level, nil
}
