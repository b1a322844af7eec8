//go:build !windows

package notify

import "log/slog"

// logNotifier 没有系统通知的平台上把通知写到日志
type logNotifier struct {
	logger *slog.Logger
}

// NewNotifier 创建通知器
func NewNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Show(title, message string) error {
	n.logger.Warn(title, slog.String("message", message))
	return nil
}
