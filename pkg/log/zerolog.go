package log

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	lcerrors "github.com/YuminosukeSato/landcover/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger writes JSON records at or above level to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// WrapZerolog adapts an already configured zerolog.Logger.
func WrapZerolog(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *ZerologLogger) Info(msg string, fields ...any)  { z.emit(z.zl.Info(), msg, fields) }
func (z *ZerologLogger) Warn(msg string, fields ...any)  { z.emit(z.zl.Warn(), msg, fields) }
func (z *ZerologLogger) Error(msg string, fields ...any) { z.emit(z.zl.Error(), msg, fields) }

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(fields[i]), fields[i+1])
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
			if key == ErrAttrKey {
				if st := extractStacktrace(v); st != "" {
					e = e.Str(StacktraceAttrKey, st)
				}
			}
			var obj zerolog.LogObjectMarshaler
			if lcerrors.As(v, &obj) {
				e = e.Object(key+"_detail", obj)
			}
		case int:
			e = e.Int(key, v)
		case float64:
			e = e.Float64(key, v)
		case string:
			e = e.Str(key, v)
		case bool:
			e = e.Bool(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

// InstallWarningHook routes pkg/errors warnings through this logger.
// Warnings that implement zerolog.LogObjectMarshaler are logged with their structured fields.
func (z *ZerologLogger) InstallWarningHook() {
	zl := z.zl
	lcerrors.SetZerologWarnFunc(func(w error) {
		e := zl.Warn()
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			e = e.EmbedObject(obj)
		}
		e.Msg(w.Error())
	})
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
