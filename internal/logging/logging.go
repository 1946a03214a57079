// Package logging 基于 zap 构造结构化日志器。
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format 表示日志输出格式。
type Format string

const (
	// JSONFormat 输出 JSON 行日志。
	JSONFormat Format = "json"
	// ConsoleFormat 输出便于人工阅读的日志。
	ConsoleFormat Format = "console"
)

// ParseFormat 解析日志格式，空字符串视为 console。
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", ConsoleFormat:
		return ConsoleFormat, nil
	case JSONFormat:
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("unsupported log format %q, allowed values: console, json", value)
	}
}

// New 创建日志器。writer 为 nil 时写到标准错误，避免污染标准输出中的表格/JSON。
func New(level string, format string, writer io.Writer) (*zap.Logger, error) {
	parsedLevel := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		var err error
		parsedLevel, err = zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
	}

	parsedFormat, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if writer == nil {
		writer = os.Stderr
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if parsedFormat == JSONFormat {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), parsedLevel)
	return zap.New(core), nil
}

// OrNop 在 logger 为 nil 时返回空日志器。
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
