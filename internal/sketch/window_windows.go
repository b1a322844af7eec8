//go:build windows

package sketch

import (
	"log/slog"
	"runtime"
	"syscall"
	"unsafe"

	"sketchpad/internal/config"
	"sketchpad/internal/engine"
)

// ============================================================================
// Win32 DLL 和 API 声明
// ============================================================================

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	gdi32    = syscall.NewLazyDLL("gdi32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")
)

// user32 函数
var (
	getModuleHandle     = kernel32.NewProc("GetModuleHandleW")
	registerClassExW    = user32.NewProc("RegisterClassExW")
	createWindowExW     = user32.NewProc("CreateWindowExW")
	adjustWindowRect    = user32.NewProc("AdjustWindowRect")
	showWindow          = user32.NewProc("ShowWindow")
	updateWindow        = user32.NewProc("UpdateWindow")
	destroyWindow       = user32.NewProc("DestroyWindow")
	setForegroundWindow = user32.NewProc("SetForegroundWindow")
	setFocus            = user32.NewProc("SetFocus")
	setWindowTextW      = user32.NewProc("SetWindowTextW")
	defWindowProcW      = user32.NewProc("DefWindowProcW")
	postQuitMessage     = user32.NewProc("PostQuitMessage")
	getMessageW         = user32.NewProc("GetMessageW")
	translateMessage    = user32.NewProc("TranslateMessage")
	dispatchMessageW    = user32.NewProc("DispatchMessageW")
	peekMessageW        = user32.NewProc("PeekMessageW")
	setCapture          = user32.NewProc("SetCapture")
	releaseCapture      = user32.NewProc("ReleaseCapture")
	trackMouseEvent     = user32.NewProc("TrackMouseEvent")
	setCursor           = user32.NewProc("SetCursor")
	loadCursorW         = user32.NewProc("LoadCursorW")
	invalidateRect      = user32.NewProc("InvalidateRect")
	beginPaint          = user32.NewProc("BeginPaint")
	endPaint            = user32.NewProc("EndPaint")
	getKeyState         = user32.NewProc("GetKeyState")
)

// gdi32 函数
var (
	createCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	createDIBSection   = gdi32.NewProc("CreateDIBSection")
	selectObject       = gdi32.NewProc("SelectObject")
	bitBlt             = gdi32.NewProc("BitBlt")
	deleteDC           = gdi32.NewProc("DeleteDC")
	deleteObject       = gdi32.NewProc("DeleteObject")
)

// ============================================================================
// Win32 常量
// ============================================================================

const (
	wsOverlapped  = 0x00000000
	wsCaption     = 0x00C00000
	wsSysMenu     = 0x00080000
	wsMinimizeBox = 0x00020000
	wsVisible     = 0x10000000

	cwUseDefault = 0x80000000

	swShow = 5

	wmDestroy      = 0x0002
	wmPaint        = 0x000F
	wmClose        = 0x0010
	wmQuit         = 0x0012
	wmEraseBkgnd   = 0x0014
	wmSetCursor    = 0x0020
	wmKeyDown      = 0x0100
	wmSysKeyDown   = 0x0104
	wmMouseMove    = 0x0200
	wmLButtonDown  = 0x0201
	wmLButtonUp    = 0x0202
	wmMouseLeave   = 0x02A3
	wmCaptureChg   = 0x0215
	mkLButton      = 0x0001
	tmeLeave       = 0x00000002
	htClient       = 1
	idcCross       = 32515
	idcArrow       = 32512
	pmRemove       = 0x0001
	srccopy        = 0x00CC0020
	biRGB          = 0
	dibRGBColors   = 0
	csOwnDC        = 0x0020
	windowStyle    = wsOverlapped | wsCaption | wsSysMenu | wsMinimizeBox
	windowClassStr = "SketchpadCanvasClass"
)

// ============================================================================
// Win32 结构体
// ============================================================================

type wndClassExW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     uintptr
	HIcon         uintptr
	HCursor       uintptr
	HbrBackground uintptr
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       uintptr
}

type msg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type point struct {
	X int32
	Y int32
}

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type paintStruct struct {
	Hdc         uintptr
	FErase      int32
	RcPaint     rect
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	BmiHeader bitmapInfoHeader
	BmiColors [1]uint32
}

type trackMouseEventStruct struct {
	CbSize      uint32
	DwFlags     uint32
	HwndTrack   uintptr
	DwHoverTime uint32
}

// window 一个打开的画板窗口
type window struct {
	eng    *engine.Engine
	opts   Options
	logger *slog.Logger

	hwnd     uintptr
	tracking bool // 是否已请求 WM_MOUSELEAVE
	title    string

	// GDI 离屏缓冲
	memDC     uintptr
	memBitmap uintptr
	memBits   uintptr
	bufWidth  int
	bufHeight int

	done bool
}

// ============================================================================
// 全局状态（用于窗口回调）
// ============================================================================

var (
	windowInstance        *window
	windowClassRegistered bool
)

// Open 打开画板窗口并运行消息循环，窗口关闭后返回
//
// 已有窗口打开时把它提到前台并返回 ErrAlreadyOpen。
func Open(eng *engine.Engine, opts Options) error {
	if !acquire() {
		if w := windowInstance; w != nil && w.hwnd != 0 {
			setForegroundWindow.Call(w.hwnd)
		}
		return ErrAlreadyOpen
	}
	defer release()

	// 锁定当前 goroutine 到 OS 线程，确保 Win32 窗口消息循环的线程亲和性
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	opts = opts.withDefaults()
	w := &window{
		eng:    eng,
		opts:   opts,
		logger: opts.Logger.With(slog.String("component", "sketch"), slog.String("engine", eng.ID())),
	}
	windowInstance = w
	defer func() { windowInstance = nil }()

	// 清理消息队列中可能残留的 WM_QUIT 消息
	drainQuitMessages()

	hInstance, _, _ := getModuleHandle.Call(0)

	// 注册窗口类（只注册一次）
	className := syscall.StringToUTF16Ptr(windowClassStr)
	if !windowClassRegistered {
		var wc wndClassExW
		wc.CbSize = uint32(unsafe.Sizeof(wc))
		wc.Style = csOwnDC
		wc.LpfnWndProc = syscall.NewCallback(windowProc)
		wc.HInstance = hInstance
		wc.HCursor, _, _ = loadCursorW.Call(0, uintptr(idcArrow))
		wc.LpszClassName = className

		registerClassExW.Call(uintptr(unsafe.Pointer(&wc)))
		windowClassRegistered = true
	}

	// 客户区与画布等大
	width, height := eng.Size()
	r := rect{Right: int32(width), Bottom: int32(height)}
	adjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), windowStyle, 0)

	w.title = titleFor(opts.Title, eng.Pen())
	hwnd, _, _ := createWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(w.title))),
		windowStyle|wsVisible,
		cwUseDefault, cwUseDefault,
		uintptr(r.Right-r.Left), uintptr(r.Bottom-r.Top),
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		w.logger.Error("创建画板窗口失败")
		return syscall.GetLastError()
	}
	w.hwnd = hwnd
	w.logger.Info("画板窗口已打开", slog.Int("width", width), slog.Int("height", height))

	// 引擎有变化时请求重绘；InvalidateRect 可跨线程调用
	cancel := eng.OnChange(func() {
		invalidateRect.Call(hwnd, 0, 0)
	})
	defer cancel()

	showWindow.Call(hwnd, swShow)
	updateWindow.Call(hwnd)
	setForegroundWindow.Call(hwnd)
	setFocus.Call(hwnd)

	// 消息循环
	var m msg
	for !w.done {
		ret, _, _ := getMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if ret == 0 || ret == ^uintptr(0) {
			break
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&m)))
		dispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}

	// 窗口关闭时结束未完成的笔画
	eng.PointerLeave()
	destroyWindow.Call(hwnd)
	w.cleanupGDICache()
	w.hwnd = 0
	w.logger.Info("画板窗口已关闭")
	return nil
}

func windowProc(hwnd, umsg, wParam, lParam uintptr) uintptr {
	w := windowInstance
	if w == nil {
		ret, _, _ := defWindowProcW.Call(hwnd, umsg, wParam, lParam)
		return ret
	}

	switch umsg {
	case wmSetCursor:
		if lParam&0xFFFF == htClient {
			cursor, _, _ := loadCursorW.Call(0, uintptr(idcCross))
			setCursor.Call(cursor)
			return 1
		}

	case wmEraseBkgnd:
		return 1 // 阻止系统擦除背景

	case wmPaint:
		var ps paintStruct
		hdc, _, _ := beginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
		w.onPaint(hdc)
		endPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
		return 0

	case wmKeyDown, wmSysKeyDown:
		if w.onKeyDown(wParam) {
			return 0
		}

	case wmLButtonDown:
		x, y := lparamPoint(lParam)
		setCapture.Call(hwnd)
		w.eng.PointerDown(x, y)
		return 0

	case wmMouseMove:
		x, y := lparamPoint(lParam)
		w.trackLeave()
		if wParam&mkLButton != 0 {
			w.eng.PointerDrag(x, y)
		} else {
			w.eng.PointerMove(x, y)
		}
		return 0

	case wmLButtonUp:
		releaseCapture.Call()
		w.eng.PointerUp()
		return 0

	case wmCaptureChg:
		// 捕获被系统夺走（如 Alt+Tab），按抬起处理
		if w.eng.State() == engine.Stroking {
			w.eng.PointerUp()
		}
		return 0

	case wmMouseLeave:
		w.tracking = false
		if w.eng.State() != engine.Stroking {
			w.eng.PointerLeave()
		}
		return 0

	case wmClose:
		w.done = true
		postQuitMessage.Call(0)
		return 0

	case wmDestroy:
		return 0
	}

	ret, _, _ := defWindowProcW.Call(hwnd, umsg, wParam, lParam)
	return ret
}

// trackLeave 请求指针离开客户区时的 WM_MOUSELEAVE
func (w *window) trackLeave() {
	if w.tracking {
		return
	}
	tme := trackMouseEventStruct{DwFlags: tmeLeave, HwndTrack: w.hwnd}
	tme.CbSize = uint32(unsafe.Sizeof(tme))
	trackMouseEvent.Call(uintptr(unsafe.Pointer(&tme)))
	w.tracking = true
}

// onKeyDown 按键映射到引擎动作；Esc 未绑定时关闭窗口
func (w *window) onKeyDown(wParam uintptr) bool {
	name, ok := vkName(wParam)
	if !ok {
		return false
	}

	chord := config.Chord{Key: name}
	if keyDown(vkControl) {
		chord.Mods |= config.ModCtrl
	}
	if keyDown(vkShift) {
		chord.Mods |= config.ModShift
	}
	if keyDown(vkMenu) {
		chord.Mods |= config.ModAlt
	}
	if keyDown(vkLWin) || keyDown(vkRWin) {
		chord.Mods |= config.ModMeta
	}

	action := w.opts.Keymap.Resolve(chord)
	if action == config.ActionNone {
		if chord.Mods == 0 && name == "escape" {
			w.done = true
			postQuitMessage.Call(0)
			return true
		}
		return false
	}

	w.logger.Debug("按键动作", slog.String("chord", chord.String()), slog.String("action", action.String()))
	Dispatch(w.eng, action)
	return true
}

func keyDown(vk uintptr) bool {
	state, _, _ := getKeyState.Call(vk)
	return int16(state) < 0
}

// onPaint 取引擎合成的一帧，转换后一次性 BitBlt 到屏幕
func (w *window) onPaint(hdc uintptr) {
	frame, err := w.eng.Frame()
	if err != nil {
		w.logger.Warn("合成画面失败", slog.Any("error", err))
		return
	}
	width, height := frame.Rect.Dx(), frame.Rect.Dy()

	w.ensureGDIBuffer(hdc, width, height)
	if w.memDC == 0 {
		return
	}

	pixels := unsafe.Slice((*byte)(unsafe.Pointer(w.memBits)), width*height*4)
	toBGRA(pixels, frame)

	bitBlt.Call(hdc, 0, 0, uintptr(width), uintptr(height), w.memDC, 0, 0, srccopy)

	// 标题随画笔变化
	if title := titleFor(w.opts.Title, w.eng.Pen()); title != w.title {
		w.title = title
		setWindowTextW.Call(w.hwnd, uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(title))))
	}
}

// ensureGDIBuffer 确保 GDI 离屏缓冲区已创建
func (w *window) ensureGDIBuffer(hdc uintptr, width, height int) {
	if w.memDC != 0 && w.bufWidth == width && w.bufHeight == height {
		return
	}

	w.cleanupGDICache()

	w.memDC, _, _ = createCompatibleDC.Call(hdc)

	var bi bitmapInfo
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = int32(width)
	bi.BmiHeader.BiHeight = -int32(height) // 自顶向下
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = biRGB

	w.memBitmap, _, _ = createDIBSection.Call(
		w.memDC,
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&w.memBits)),
		0, 0,
	)

	if w.memBitmap == 0 {
		deleteDC.Call(w.memDC)
		w.memDC = 0
		return
	}

	selectObject.Call(w.memDC, w.memBitmap)
	w.bufWidth = width
	w.bufHeight = height
}

// cleanupGDICache 清理 GDI 缓存资源
func (w *window) cleanupGDICache() {
	if w.memBitmap != 0 {
		deleteObject.Call(w.memBitmap)
		w.memBitmap = 0
	}
	if w.memDC != 0 {
		deleteDC.Call(w.memDC)
		w.memDC = 0
	}
	w.memBits = 0
	w.bufWidth = 0
	w.bufHeight = 0
}

// drainQuitMessages 清理消息队列中残留的 WM_QUIT 消息
func drainQuitMessages() {
	var m msg
	for {
		ret, _, _ := peekMessageW.Call(
			uintptr(unsafe.Pointer(&m)),
			0,
			wmQuit,
			wmQuit,
			pmRemove,
		)
		if ret == 0 {
			break
		}
	}
}
