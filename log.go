package pagebook

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger is a console-writer zerolog.Logger used when a Book is
// opened without WithLogger. Logging is side-effect only: nothing it
// does ever changes control flow or the error a caller sees.
var defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
