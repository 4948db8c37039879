package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	Level        zapcore.Level `json:"level" yaml:"level"`               // Level 最低日志等级，DEBUG<INFO<WARN<ERROR<FATAL 例如：info-->收集info等级以上的日志
	FileName     string        `json:"fileName" yaml:"fileName"`         // FileName 日志文件位置，为空则只输出到控制台
	MaxSize      int           `json:"maxSize" yaml:"maxSize"`           // MaxSize 进行切割之前，日志文件的最大大小(MB为单位)
	MaxAge       int           `json:"maxAge" yaml:"maxAge"`             // MaxAge 保留旧日志文件的最大天数
	MaxBackups   int           `json:"maxBackups" yaml:"maxBackups"`     // MaxBackups 保留旧日志文件的最大数量
	IsStdout     bool          `json:"isStdout" yaml:"isStdout"`         // IsStdout 是否输出到控制台
	IsStackTrace bool          `json:"isStackTrace" yaml:"isStackTrace"` // IsStackTrace 是否输出堆栈信息
}

// InitLogger 初始化Logger，并替换全局logger
func InitLogger(lCfg *LogConfig) *zap.Logger {
	writeSyncer := getLogWriter(lCfg)
	encoder := getEncoder()

	core := zapcore.NewCore(encoder, writeSyncer, lCfg.Level)
	var logger *zap.Logger
	if lCfg.IsStackTrace {
		logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	} else {
		logger = zap.New(core, zap.AddCaller())
	}
	zap.ReplaceGlobals(logger)
	return logger
}

// getEncoder 负责设置 encoding 的日志格式
func getEncoder() zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encodeConfig)
}

// getLogWriter 负责日志写入的位置
func getLogWriter(lCfg *LogConfig) zapcore.WriteSyncer {
	if lCfg.FileName == "" {
		return zapcore.AddSync(os.Stdout)
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   lCfg.FileName,   // 文件位置
		MaxSize:    lCfg.MaxSize,    // 进行切割之前,日志文件的最大大小(MB为单位)
		MaxAge:     lCfg.MaxAge,     // 保留旧文件的最大天数
		MaxBackups: lCfg.MaxBackups, // 保留旧文件的最大个数
		Compress:   true,            // 是否压缩/归档旧文件
	}
	if lCfg.IsStdout {
		return zapcore.NewMultiWriteSyncer(zapcore.AddSync(lumberJackLogger), zapcore.AddSync(os.Stdout))
	}
	return zapcore.AddSync(lumberJackLogger)
}
