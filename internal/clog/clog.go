// Package clog wires up the logrus logger dbcctl shares across its
// subcommands. Grounded on the teacher's base/log.go package-level
// `Logger = logrus.New()` plus the formatter selection done in
// `init()` in the teacher's cmd/main.go.
package clog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// TimestampFormat matches the teacher's own base.TimestampFormat.
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// Logger is the process-wide logger, configured by Configure.
var Logger = logrus.New()

// Configure sets Logger's level and output format. format is "json"
// or "text"; any other value falls back to text, matching the
// teacher's own LOG.Format config field semantics.
func Configure(level, format string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(parsed)
	Logger.SetOutput(os.Stderr)

	if format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: TimestampFormat})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: TimestampFormat,
		})
	}
	return nil
}
