// Package logger provides the leveled logger used throughout FuseLLM:
// TRACE/DEBUG/INFO/WARNING/ERROR severities over a pluggable text or
// JSON handler, built on log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Severity levels, ordered below slog's own Debug/Info/Warn/Error so
// Trace can sit under Debug.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var severityNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

func severityName(l slog.Level) string {
	if name, ok := severityNames[l]; ok {
		return name
	}
	return l.String()
}

var programLevel = new(slog.LevelVar)
var defaultLogger = slog.New(newTextHandler(os.Stderr, programLevel))

// Init (re)configures the package-level default logger. format is "text"
// or "json"; severity is one of trace/debug/info/warning/error.
func Init(w io.Writer, format, severity string) {
	setLevel(severity)
	switch format {
	case "json":
		defaultLogger = slog.New(newJSONHandler(w, programLevel))
	default:
		defaultLogger = slog.New(newTextHandler(w, programLevel))
	}
}

func setLevel(severity string) {
	switch severity {
	case "trace":
		programLevel.Set(LevelTrace)
	case "debug":
		programLevel.Set(LevelDebug)
	case "warning":
		programLevel.Set(LevelWarn)
	case "error":
		programLevel.Set(LevelError)
	default:
		programLevel.Set(LevelInfo)
	}
}

func log(level slog.Level, format string, args ...interface{}) {
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	defaultLogger.Log(context.Background(), level, msg)
}

// Tracef logs at TRACE severity.
func Tracef(format string, args ...interface{}) { log(LevelTrace, format, args...) }

// Debugf logs at DEBUG severity.
func Debugf(format string, args ...interface{}) { log(LevelDebug, format, args...) }

// Infof logs at INFO severity.
func Infof(format string, args ...interface{}) { log(LevelInfo, format, args...) }

// Warnf logs at WARNING severity.
func Warnf(format string, args ...interface{}) { log(LevelWarn, format, args...) }

// Errorf logs at ERROR severity.
func Errorf(format string, args ...interface{}) { log(LevelError, format, args...) }

// textHandler renders time="2006/01/02 15:04:05.000000" severity=X message="...".
type textHandler struct {
	w     io.Writer
	level slog.Leveler
}

func newTextHandler(w io.Writer, level slog.Leveler) *textHandler {
	return &textHandler{w: w, level: level}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("time=%q severity=%s message=%q\n",
		r.Time.Format("2006/01/02 15:04:05.000000"), severityName(r.Level), r.Message)
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *textHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *textHandler) WithGroup(_ string) slog.Handler       { return h }

// jsonHandler renders {"timestamp":{"seconds":N,"nanos":N},"severity":"X","message":"..."}.
type jsonHandler struct {
	w     io.Writer
	level slog.Leveler
}

func newJSONHandler(w io.Writer, level slog.Leveler) *jsonHandler {
	return &jsonHandler{w: w, level: level}
}

func (h *jsonHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *jsonHandler) Handle(_ context.Context, r slog.Record) error {
	t := r.Time
	line := fmt.Sprintf(`{"timestamp":{"seconds":%d,"nanos":%d},"severity":%q,"message":%q}`+"\n",
		t.Unix(), t.Nanosecond(), severityName(r.Level), r.Message)
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *jsonHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *jsonHandler) WithGroup(_ string) slog.Handler       { return h }
