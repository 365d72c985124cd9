/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package clilog provides the logger singleton: Writer.

A full-screen application cannot log to stdout, so the writer appends to a
file in the config directory. It is a thin leveled wrapper over zerolog;
the helper functions are not synchronized beyond what zerolog guarantees.
*/
package clilog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyPath = errors.New("path cannot be empty")
	ErrBadLevel  = errors.New("invalid log level")
)

// Writer is the logging singleton.
var Writer *Logger

// Logger wraps a zerolog logger and the file it appends to.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// Init initializes Writer. Safe (ineffectual) if already initialized.
func Init(path, lvlString string) error {
	if Writer != nil {
		return nil
	}
	if path = strings.TrimSpace(path); path == "" {
		return ErrEmptyPath
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(lvlString)))
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrBadLevel, lvlString, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}).
		Level(lvl).
		With().Timestamp().Logger()

	Writer = &Logger{zl: zl, file: f}
	Writer.Infof("logger initialized at %v level", lvl)
	return nil
}

// InitDiscard points Writer at a no-op logger; used by tests and by early
// startup paths that fail before the config directory exists.
func InitDiscard() {
	Writer = &Logger{zl: zerolog.Nop()}
}

// Destroy closes the log file and nils out Writer.
func Destroy() error {
	if Writer == nil {
		return nil
	}
	var err error
	if Writer.file != nil {
		err = Writer.file.Close()
	}
	Writer = nil
	return err
}

func (l *Logger) Debugf(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }

// Level returns the active level.
func (l *Logger) Level() zerolog.Level { return l.zl.GetLevel() }

// Tee writes str to the log and a secondary writer, usually stderr.
func Tee(alt io.Writer, str string) {
	fmt.Fprint(alt, str)
	if Writer != nil {
		Writer.Errorf("%s", strings.TrimRight(str, "\n"))
	}
}
