package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"sketchpad/internal/config"
	"sketchpad/internal/engine"
	"sketchpad/internal/hotkey"
	"sketchpad/internal/notify"
	"sketchpad/internal/sketch"
	"sketchpad/internal/tray"
)

const version = "v1.0.0"

var debugFlag *bool

func main() {
	// 命令行参数
	setHotkeyFlag := flag.String("set-hotkey", "", "设置打开画板的快捷键，格式：ctrl+alt+d")
	showConfig := flag.Bool("config", false, "显示配置文件路径")
	showVersion := flag.Bool("version", false, "显示版本信息")
	debugFlag = flag.Bool("debug", false, "把调试日志写入程序目录下的 sketchpad_debug.log")
	flag.Parse()

	if *showVersion {
		fmt.Println("Sketchpad", version)
		fmt.Println("托盘常驻的简易画板")
		return
	}

	if *showConfig {
		fmt.Println("配置文件路径:", config.GetConfigPath())
		return
	}

	if *setHotkeyFlag != "" {
		if err := updateHotkey(*setHotkeyFlag); err != nil {
			fmt.Println("设置快捷键失败:", err)
			os.Exit(1)
		}
		fmt.Println("快捷键已设置为:", *setHotkeyFlag)
		return
	}

	// 热键和托盘需要在主线程运行
	hotkey.Run(run)
}

func run() {
	logger, closeLog := setupLogger(*debugFlag)
	defer closeLog()
	engine.SetLogger(logger)
	logDPIInfo(logger)

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("加载配置失败，使用默认配置", slog.Any("error", err))
	}

	notifier := notify.Quiet{
		Notifier: notify.NewNotifier(logger),
		Enabled:  cfg.Behavior.ShowNotification,
		Logger:   logger,
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		logger.Warn("画板参数无效，使用默认值", slog.Any("error", err))
		opts = engine.DefaultOptions()
	}
	eng, err := engine.New(opts)
	if err != nil {
		// 启动失败总是提示
		notify.NewNotifier(logger).Show("画板启动失败", err.Error())
		logger.Error("创建画板失败", slog.Any("error", err))
		os.Exit(1)
	}

	keymap, err := cfg.Keymap()
	if err != nil {
		logger.Warn("按键配置无效，使用默认按键", slog.Any("error", err))
		keymap, _ = config.DefaultKeys().Keymap()
	}

	openCanvas := func() {
		go func() {
			err := sketch.Open(eng, sketch.Options{
				Title:  "Sketchpad",
				Keymap: keymap,
				Logger: logger,
			})
			switch {
			case err == nil, errors.Is(err, sketch.ErrAlreadyOpen):
			case errors.Is(err, sketch.ErrUnsupported):
				notifier.Show("无法打开画板", "当前平台不支持画板窗口")
			default:
				notifier.Show("无法打开画板", err.Error())
			}
		}()
	}

	logger.Info("Sketchpad 已启动",
		slog.String("version", version),
		slog.String("hotkey", cfg.GetHotkeyString()),
		slog.String("config", cfg.Path()))

	// 创建并注册热键
	hkMgr := hotkey.NewManager(logger)
	chord, err := cfg.Hotkey.Chord()
	if err == nil {
		err = hkMgr.Register(chord, openCanvas)
	}
	if err != nil {
		fmt.Println("注册热键失败:", err)
		fmt.Println("请检查快捷键是否被其他程序占用")
		fmt.Println("提示: 可以通过 --set-hotkey 参数设置其他快捷键")
		os.Exit(1)
	}
	defer hkMgr.Unregister()

	// 创建系统托盘
	t := tray.NewTray(eng, logger)
	t.SetHotkeyText(cfg.GetHotkeyString())
	t.SetOnOpen(openCanvas)
	t.SetOnSetHotkey(func() {
		chord, err := hotkey.ShowHotkeySetter(cfg.GetHotkeyString())
		switch {
		case errors.Is(err, hotkey.ErrCancelled):
			return
		case err != nil:
			notifier.Show("设置快捷键失败", err.Error())
			return
		}
		mods, key := hotkeyParts(chord.String())
		if err := cfg.SetHotkey(mods, key); err != nil {
			notifier.Show("保存快捷键失败", err.Error())
			return
		}
		if err := hkMgr.Rebind(chord, openCanvas); err != nil {
			notifier.Show("注册热键失败", err.Error())
			return
		}
		t.SetHotkeyText(cfg.GetHotkeyString())
		notifier.Show("快捷键已更新", cfg.GetHotkeyString())
	})
	t.SetOnQuit(func() {
		hkMgr.Unregister()
		closeLog()
		os.Exit(0)
	})

	if cfg.Behavior.OpenOnStart {
		openCanvas()
	}

	// 运行托盘（阻塞）
	t.Run()
}

func updateHotkey(hotkeyStr string) error {
	chord, err := hotkey.ParseInput(hotkeyStr)
	if err != nil {
		return err
	}

	cfg, _ := config.Load()
	mods, key := hotkeyParts(chord.String())
	return cfg.SetHotkey(mods, key)
}

// hotkeyParts 拆出修饰键和主键，如 "ctrl+alt+s" -> [ctrl alt], s
func hotkeyParts(s string) ([]string, string) {
	parts := splitHotkey(s)
	if len(parts) == 0 {
		return nil, ""
	}
	return parts[:len(parts)-1], parts[len(parts)-1]
}

func splitHotkey(s string) []string {
	result := []string{}
	current := ""

	for _, c := range s {
		if c == '+' {
			if current != "" {
				result = append(result, current)
				current = ""
			}
		} else {
			current += string(c)
		}
	}

	if current != "" {
		result = append(result, current)
	}

	return result
}
