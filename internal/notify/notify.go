// Package notify 系统通知
package notify

import "log/slog"

// Notifier 通知接口
type Notifier interface {
	Show(title, message string) error
}

// Quiet 包装 Notifier，enabled 为 false 时只写日志不弹通知
type Quiet struct {
	Notifier Notifier
	Enabled  bool
	Logger   *slog.Logger
}

// Show 显示通知
func (q Quiet) Show(title, message string) error {
	if q.Logger != nil {
		q.Logger.Info("通知", slog.String("title", title), slog.String("message", message))
	}
	if !q.Enabled || q.Notifier == nil {
		return nil
	}
	return q.Notifier.Show(title, message)
}
