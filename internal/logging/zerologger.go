package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Shared log field keys so every component tags games and seats the same way.
const (
	GameCodeKey   = "gameCode"
	SeatKey       = "seat"
	PlayerNameKey = "playerName"
	VersionKey    = "version"
	MsgTypeKey    = "msgType"
)

// NewLogger returns a named console logger. LOG_LEVEL adjusts verbosity
// (debug, info, warn, error); anything unrecognized means info.
func NewLogger(name string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(output).
		Level(levelFromEnv()).
		With().
		Timestamp().
		Str("logger", name).
		Logger()
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
