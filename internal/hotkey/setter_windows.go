//go:build windows

package hotkey

import (
	"fmt"
	"os/exec"
	"strings"

	"sketchpad/internal/config"
)

// ShowHotkeySetter 显示快捷键设置对话框
// 使用 PowerShell InputBox，避免 Windows GUI 线程问题
func ShowHotkeySetter(currentHotkey string) (config.Chord, error) {
	script := fmt.Sprintf(`
Add-Type -AssemblyName Microsoft.VisualBasic
$msg = "请输入打开画板的快捷键" + [char]10 + [char]10 + "格式: 修饰键+主键" + [char]10 + "示例: alt+2, ctrl+shift+d" + [char]10 + [char]10 + "支持的修饰键: ctrl, alt, shift, win" + [char]10 + "支持的主键: a-z, 0-9, f1-f12"
$result = [Microsoft.VisualBasic.Interaction]::InputBox($msg, "设置快捷键", "%s")
Write-Output $result
`, currentHotkey)

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.Output()
	if err != nil {
		return config.Chord{}, fmt.Errorf("PowerShell 执行失败: %w", err)
	}

	return ParseInput(strings.TrimSpace(string(output)))
}
