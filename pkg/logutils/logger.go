package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/pkg/utils"
)

// deferredLogLimit caps the console log buffer kept while no log file is set.
const deferredLogLimit = 1 << 20

// New returns a new logger that appends JSON to the specified file.
// If file is empty, console-formatted logs are buffered and written to
// stderr when the closer runs, so they never interleave with a TUI.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer
	if file == "" {
		deferred := &utils.DeferredWriter{Limit: deferredLogLimit}
		writer = zerolog.ConsoleWriter{Out: deferred, NoColor: true}
		closer = func() { _ = deferred.Flush(os.Stderr) }
	} else {
		logsDir := filepath.Dir(file)
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		osFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl).
		Hook(logging.ContextHook{})

	return l, closer, nil
}
