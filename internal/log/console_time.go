package log

import (
	"time"

	"go.uber.org/zap/zapcore"
)

const consoleSeparator = " | "

// consoleTimeEncoder writes the date and the millisecond clock as two console columns.
func consoleTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02") + consoleSeparator + t.Format("15:04:05.000"))
}
