// Package docinput reads the document to review from a file or from a piped
// stdin.
package docinput

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var (
	ErrNoInput       = errors.New("no document provided (stdin is a terminal); pass a file or pipe the document")
	ErrEmptyDocument = errors.New("document is empty")
)

// Reader resolves the document source for a command. A positional path wins
// over --file, which wins over stdin.
type Reader struct {
	fileFlagValue string

	// Stdin and IsTerminal are replaceable for tests.
	Stdin      io.Reader
	IsTerminal func() bool
}

func New() *Reader {
	return &Reader{
		Stdin:      os.Stdin,
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

func (r *Reader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to the document (reads from stdin if not provided)",
		Destination: &r.fileFlagValue,
	}
}

// Read returns the document text. path may be empty.
func (r *Reader) Read(path string) (text string, source string, err error) {
	if path == "" {
		path = r.fileFlagValue
	}

	var data []byte
	if path != "" && path != "-" {
		data, err = os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read document: %w", err)
		}
		source = path
	} else {
		if r.IsTerminal != nil && r.IsTerminal() {
			return "", "", ErrNoInput
		}
		data, err = io.ReadAll(r.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		source = "stdin"
	}

	text = string(data)
	if strings.TrimSpace(text) == "" {
		return "", source, ErrEmptyDocument
	}
	return text, source, nil
}
