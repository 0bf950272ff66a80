// Package iojson writes JSON command output.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the body written for failures in --json mode.
type Error struct {
	Error    string `json:"error"`
	ReviewID string `json:"review_id,omitempty"`
}

// Write encodes obj as indented JSON followed by a newline.
func Write(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine encodes obj as a single JSON line, for streamed output.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteError writes an Error line for err.
func WriteError(w io.Writer, reviewID string, err error) error {
	return WriteLine(w, Error{Error: err.Error(), ReviewID: reviewID})
}
