package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// setupLogger 创建日志器；debug 时写入程序目录下的 sketchpad_debug.log
func setupLogger(debug bool) (*slog.Logger, func()) {
	if !debug {
		return newLogger(os.Stderr, slog.LevelInfo), func() {}
	}

	f, err := openDebugLog()
	if err != nil {
		logger := newLogger(os.Stderr, slog.LevelDebug)
		logger.Warn("无法创建调试日志文件", slog.Any("error", err))
		return logger, func() {}
	}

	var once sync.Once
	return newLogger(f, slog.LevelDebug), func() {
		once.Do(func() { f.Close() })
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openDebugLog() (*os.File, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	logPath := filepath.Join(filepath.Dir(exePath), "sketchpad_debug.log")
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}
