// Package logging builds the application's logrus logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out (stdout when nil) at the named level,
// formatted as "json" or "text".
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stdout
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	switch format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}
