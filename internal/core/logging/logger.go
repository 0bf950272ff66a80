// Package logging provides component loggers and context-carried log fields.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ForReview derives a component logger bound to a review id.
func ForReview(name, reviewID string) zerolog.Logger {
	l := Component(name)
	if reviewID == "" {
		return l
	}
	return l.With().Str("review_id", reviewID).Logger()
}
