// Package logging holds the component loggers and context fields shared by
// the review engine and the CLI.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child of the global logger tagged with cmp=name.
// It reads log.Logger at call time, so call it after the root command has
// installed the configured logger.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
