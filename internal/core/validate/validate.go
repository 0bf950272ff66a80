// Package validate provides shared validation functions for user input.
package validate

import (
	"errors"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

var (
	ErrReviewIDRequired = errors.New("review id is required")
	ErrReviewIDInvalid  = errors.New("review id may not contain whitespace or slashes")
)

// ReviewID checks that id can be placed in a request path as one segment.
func ReviewID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrReviewIDRequired
	}
	if strings.ContainsFunc(id, func(r rune) bool { return unicode.IsSpace(r) || r == '/' || r == '\\' }) {
		return ErrReviewIDInvalid
	}
	return nil
}

// ReviewIDField returns a criterio validator for review ids.
func ReviewIDField(field, id string) error {
	return criterio.Run(field, id, ReviewID)
}
