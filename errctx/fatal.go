package errctx

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	fatalHook   zapcore.CheckWriteHook = zapcore.WriteThenFatal
	fatalOutput zapcore.WriteSyncer    = zapcore.Lock(os.Stderr)
)

// Fatal reports an internal invariant violation and terminates the
// process. It is not part of the recoverable error taxonomy and must never
// be reached from caller input alone: it signals corruption or a broken
// contract between two steps that were supposed to agree.
//
// The diagnostic goes to stderr and to the package logger, both are
// synced, then the process exits.
func Fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		fatalOutput,
		zapcore.FatalLevel,
	)
	l := zap.New(
		zapcore.NewTee(Logger().Core(), console),
		zap.WithFatalHook(fatalHook),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	)
	l.Fatal(msg)
}
