package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface, so any
// zap core (including the test observer) can be used as an appender.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed.
	Sync() error
}

// ConsoleAppender will create human readable logs.
type ConsoleAppender struct {
	zapcore.Encoder
	zapcore.WriteSyncer
}

// NewStdoutAppender creates a new appender that outputs to stdout.
func NewStdoutAppender() ConsoleAppender {
	return NewWriterAppender(os.Stdout)
}

// NewWriterAppender creates a new appender that outputs to the input syncer.
func NewWriterAppender(writer zapcore.WriteSyncer) ConsoleAppender {
	return ConsoleAppender{
		zapcore.NewConsoleEncoder(NewLoggerConfig()),
		zapcore.Lock(writer),
	}
}

// Write outputs the log entry to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := appender.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	_, err = appender.WriteSyncer.Write(buf.Bytes())
	return err
}

// Sync flushes the underlying stream. Terminals and pipes reject fsync; that is not an error.
func (appender ConsoleAppender) Sync() error {
	if err := appender.WriteSyncer.Sync(); err != nil && !isUnsyncable(err) {
		return err
	}
	return nil
}

func isUnsyncable(err error) bool {
	pathErr, ok := err.(*os.PathError)
	return ok && pathErr.Op == "sync"
}
