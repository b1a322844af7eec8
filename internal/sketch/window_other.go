//go:build !windows

package sketch

import "sketchpad/internal/engine"

// Open 当前平台没有画板窗口
func Open(*engine.Engine, Options) error {
	return ErrUnsupported
}
