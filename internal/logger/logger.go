// Package logger 基于 zerolog 的组件化日志。TUI 占用了标准输出，日志只写文件。
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	base    = zerolog.Nop()
	logFile *os.File
)

// Init 打开日志文件并设置级别，重复调用会替换之前的输出
func Init(path, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("无效的日志级别 %q: %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	base = newLogger(f, lvl)
	return nil
}

// SetOutput 直接替换输出，测试用
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(w, level)
}

// Close 关闭日志文件
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.Nop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func write(ev *zerolog.Event, component, msg string, fields map[string]interface{}) {
	if ev == nil {
		return
	}
	ev.Str("component", component)
	for k, v := range fields {
		switch val := v.(type) {
		case error:
			ev.AnErr(k, val)
		case time.Duration:
			ev.Dur(k, val)
		default:
			ev.Interface(k, val)
		}
	}
	ev.Msg(msg)
}

func DebugCF(component, msg string, fields map[string]interface{}) {
	l := current()
	write(l.Debug(), component, msg, fields)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	l := current()
	write(l.Info(), component, msg, fields)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	l := current()
	write(l.Warn(), component, msg, fields)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	l := current()
	write(l.Error(), component, msg, fields)
}
