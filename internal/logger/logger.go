package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"exchange_sdk/internal/config"
)

var log *logrus.Logger

// Fields 结构化日志字段
type Fields = logrus.Fields

// Init 根据配置初始化日志
func Init(cfg config.LogConfig) error {
	l := logrus.New()

	logLevel, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	l.SetLevel(logLevel)
	l.SetFormatter(newFormatter(cfg.Format))

	// 始终输出到控制台
	writers := []io.Writer{os.Stdout}

	// 如果配置了日志文件，也输出到文件
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return err
		}

		// 使用lumberjack进行日志轮转
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // MB
			MaxAge:     cfg.MaxAge,  // days
			MaxBackups: 10,
			Compress:   cfg.Compress,
		})
	}

	l.SetOutput(io.MultiWriter(writers...))
	log = l
	return nil
}

func newFormatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// GetLogger 获取日志实例，未初始化时使用默认配置
func GetLogger() *logrus.Logger {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(newFormatter("text"))
		log.SetOutput(os.Stdout)
	}
	return log
}

// SetOutput 替换输出目标，测试中用于捕获日志
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// WithFields 带字段的日志条目
func WithFields(fields Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// Debugf 记录Debug级别格式化日志
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Info 记录Info级别日志
func Info(args ...interface{}) {
	GetLogger().Info(args...)
}

// Infof 记录Info级别格式化日志
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warnf 记录Warn级别格式化日志
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

// Errorf 记录Error级别格式化日志
func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// Fatalf 记录Fatal级别格式化日志并退出
func Fatalf(format string, args ...interface{}) {
	GetLogger().Fatalf(format, args...)
}
