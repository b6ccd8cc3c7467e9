package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the process-wide logger. "development" gets a console encoder at debug level,
// everything else JSON at info.
func Init(env string) {
	var cfg zap.Config
	if env == "development" || env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapcore.InfoLevel,
		))
	}

	sugar = l.Sugar()
}

func Debug(msg string, keysAndValues ...interface{}) {
	sugar.Debugw(msg, fields(keysAndValues)...)
}

func Info(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, fields(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	sugar.Warnw(msg, fields(keysAndValues)...)
}

func Error(msg string, keysAndValues ...interface{}) {
	sugar.Errorw(msg, fields(keysAndValues)...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	sugar.Fatalw(msg, fields(keysAndValues)...)
}

// fields keys a lone trailing value as "error" so logger.Error(msg, err) works.
func fields(kv []interface{}) []interface{} {
	if len(kv)%2 == 0 {
		return kv
	}
	last := len(kv) - 1
	out := make([]interface{}, 0, len(kv)+1)
	out = append(out, kv[:last]...)
	return append(out, "error", kv[last])
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = sugar.Sync()
}
