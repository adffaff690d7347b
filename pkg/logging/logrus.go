package logging

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Setter applies a configuration change to the shared root logger.
type Setter func(*logrus.Logger) error

var root = struct {
	logger *logrus.Logger
	mutex  *sync.Mutex
}{
	logger: func() *logrus.Logger {
		l := logrus.New()

		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		// Quiet by default; raised through Verbosity at startup.
		l.SetLevel(logrus.WarnLevel)

		return l
	}(),
	mutex: &sync.Mutex{},
}

// Logger is the field-structured logger handed out to components.
type Logger interface {
	logrus.FieldLogger

	Writer() *io.PipeWriter
	WriterLevel(logrus.Level) *io.PipeWriter
}

// New returns a Logger scoped to the named component.
func New(component string, setters ...Setter) Logger {
	for _, setter := range setters {
		// no errors handling for now
		_ = Set(setter)
	}
	return root.logger.WithField("component", component)
}

// Set applies a Setter to the root logger shared by all components.
func Set(setter Setter) error {
	root.mutex.Lock()
	err := setter(root.logger)
	root.mutex.Unlock()
	return err
}

// Level configures the root logger to emit records at or above the named
// level.
func Level(lvl string) Setter {
	l, err := logrus.ParseLevel(lvl)
	if err != nil {
		root.logger.WithError(err).Errorf("unable to parse provided level %q", lvl)
		l = logrus.DebugLevel
	}
	return func(r *logrus.Logger) error {
		r.SetLevel(l)
		return nil
	}
}

// Verbosity maps a repeated -v flag count onto the root logger's level:
// warn when unset, then info, debug, and trace.
func Verbosity(count int) Setter {
	var l logrus.Level
	switch {
	case count <= 0:
		l = logrus.WarnLevel
	case count == 1:
		l = logrus.InfoLevel
	case count == 2:
		l = logrus.DebugLevel
	default:
		l = logrus.TraceLevel
	}
	return func(r *logrus.Logger) error {
		r.SetLevel(l)
		return nil
	}
}
