// logging.go provides a package-defined, dependency-light logging
// interface, following the same shape as the teacher event loop package's
// own SetStructuredLogger/Logger surface: a small interface so callers
// aren't forced onto one logging library, plus a ready-to-use
// implementation. Where the teacher hand-rolled its default implementation's
// JSON/pretty-print formatting, this module backs its default with
// zerolog, since that is the logging library the rest of this codebase's
// corpus (via its logiface-zerolog adapter) already depends on.
package ringalloc

import "github.com/rs/zerolog"

// Level mirrors zerolog's severity levels closely enough that
// NewZerologLogger can translate directly, without tying this package's
// public API to zerolog's own Level type.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// Event is one structured diagnostic emitted by an Allocator: construction,
// a wrap-around commit, a corruption observation, or (at debug level) a
// retry-budget exhaustion. Allocate/Deallocate's hot path never blocks on
// Logger.Log; see Logger's doc comment.
type Event struct {
	Level    Level
	Category string
	Message  string
	Fields   map[string]any
}

// Logger is the structured logging interface an Allocator reports its
// non-hot-path diagnostics through. Implementations must not block: they run
// synchronously on the goroutine that observed the event, inline after the
// allocator has already committed (or failed) its public return value, so a
// slow Logger only delays that one caller's return, never another
// goroutine's access to the allocator.
type Logger interface {
	Log(Event)
	Enabled(Level) bool
}

type noopLogger struct{}

func (noopLogger) Log(Event) {}
func (noopLogger) Enabled(Level) bool { return false }

// defaultLogger is used when no WithLogger option is supplied: an Allocator
// never logs unless asked to.
var defaultLogger Logger = noopLogger{}

// zerologLogger adapts a configured zerolog.Logger to the Logger interface.
type zerologLogger struct {
	z zerolog.Logger
}

// NewZerologLogger wraps z (e.g. zerolog.New(os.Stderr).With().Timestamp().Logger(),
// or zerolog.Nop() to disable) as a ringalloc Logger.
func NewZerologLogger(z zerolog.Logger) Logger {
	return &zerologLogger{z: z}
}

func (l *zerologLogger) Enabled(level Level) bool {
	return l.z.GetLevel() <= toZerologLevel(level)
}

func (l *zerologLogger) Log(e Event) {
	var evt *zerolog.Event
	switch e.Level {
	case LevelDebug:
		evt = l.z.Debug()
	case LevelInfo:
		evt = l.z.Info()
	case LevelWarn:
		evt = l.z.Warn()
	default:
		evt = l.z.Error()
	}
	evt = evt.Str("category", e.Category)
	for k, v := range e.Fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg(e.Message)
}

func toZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
