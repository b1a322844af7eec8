//go:build windows

package main

import (
	"context"
	"log/slog"
	"syscall"
	"unsafe"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")
	shcore = syscall.NewLazyDLL("shcore.dll")
)

func init() {
	// DPI 感知必须在任何 Win32 调用之前设置，否则画布像素会被系统缩放
	setDPIAware()
}

// setDPIAware 依次尝试 Win10 1703+、Win8.1+、Vista+ 的接口
func setDPIAware() {
	ctx := user32.NewProc("SetProcessDpiAwarenessContext")
	if ctx.Find() == nil {
		// PER_MONITOR_AWARE_V2 = -4，V1 = -3
		for _, v := range []uintptr{^uintptr(3), ^uintptr(2)} {
			if r, _, _ := ctx.Call(v); r != 0 {
				return
			}
		}
	}

	awareness := shcore.NewProc("SetProcessDpiAwareness")
	if awareness.Find() == nil {
		if r, _, _ := awareness.Call(2); r == 0 { // PROCESS_PER_MONITOR_DPI_AWARE, S_OK
			return
		}
		// E_ACCESSDENIED = 已设置过，尝试 SYSTEM_DPI_AWARE
		awareness.Call(1)
		return
	}

	user32.NewProc("SetProcessDPIAware").Call()
}

// logDPIInfo 记录系统 DPI 和进程 DPI 感知级别
func logDPIInfo(logger *slog.Logger) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{}
	if p := user32.NewProc("GetDpiForSystem"); p.Find() == nil {
		dpi, _, _ := p.Call()
		attrs = append(attrs, slog.Int("systemDPI", int(dpi)), slog.Int("scalePercent", int(dpi*100/96)))
	}
	if p := shcore.NewProc("GetProcessDpiAwareness"); p.Find() == nil {
		var awareness uint32
		p.Call(0, uintptr(unsafe.Pointer(&awareness)))
		// 0=unaware,1=system,2=permonitor
		attrs = append(attrs, slog.Int("awareness", int(awareness)))
	}
	logger.Debug("DPI 诊断", attrs...)
}
