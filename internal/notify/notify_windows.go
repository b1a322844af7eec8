//go:build windows

package notify

import (
	"log/slog"

	"github.com/go-toast/toast"
)

// WindowsNotifier Windows通知实现
type WindowsNotifier struct {
	appID  string
	logger *slog.Logger
}

// NewNotifier 创建通知器
func NewNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &WindowsNotifier{
		appID:  "Sketchpad",
		logger: logger,
	}
}

// Show 显示通知（异步，不阻塞主流程）
func (n *WindowsNotifier) Show(title, message string) error {
	go func() {
		notification := toast.Notification{
			AppID:   n.appID,
			Title:   title,
			Message: message,
		}
		if err := notification.Push(); err != nil {
			n.logger.Warn("推送通知失败", slog.Any("error", err))
		}
	}()
	return nil
}
