package engine

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"sketchpad/internal/canvas"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 200
	return opts
}

func pixel(e *Engine, x, y int) color.RGBA {
	return e.CurrentBuffer().At(x, y).(color.RGBA)
}

func drawStroke(e *Engine, pts ...[2]int) {
	e.PointerDown(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		e.PointerDrag(p[0], p[1])
	}
	e.PointerUp()
}

func TestNewIsBlankAndIdle(t *testing.T) {
	e := newEngine(t, DefaultOptions())

	if w, h := e.Size(); w != 800 || h != 800 {
		t.Fatalf("Size() = %dx%d, want 800x800", w, h)
	}
	for _, p := range [][2]int{{0, 0}, {799, 799}, {400, 400}} {
		if got := pixel(e, p[0], p[1]); got != white {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("fresh engine has history")
	}
	if e.State() != Idle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	if pen := e.Pen(); pen.Color != black || pen.Width != 1 {
		t.Errorf("Pen() = %+v, want black width 1", pen)
	}
}

func TestNewAllocationError(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"negative height", 10, -1},
		{"too large", canvas.MaxDimension + 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Width, opts.Height = tt.w, tt.h
			_, err := New(opts)
			if !errors.Is(err, canvas.ErrAllocation) {
				t.Errorf("New(%dx%d) error = %v, want ErrAllocation", tt.w, tt.h, err)
			}
		})
	}
}

func TestStrokeThenUndoRedo(t *testing.T) {
	e := newEngine(t, DefaultOptions())
	blank := e.Snapshot()

	drawStroke(e, [2]int{100, 100}, [2]int{110, 110})

	if got := pixel(e, 105, 105); got != black {
		t.Fatalf("pixel (105,105) = %v, want black", got)
	}
	if e.UndoDepth() != 1 || e.RedoDepth() != 0 {
		t.Fatalf("depths = (%d, %d), want (1, 0)", e.UndoDepth(), e.RedoDepth())
	}
	drawn := e.Snapshot()

	if !e.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if !bytes.Equal(e.Snapshot().Pix, blank.Pix) {
		t.Error("canvas after undo is not blank")
	}
	if e.UndoDepth() != 0 || e.RedoDepth() != 1 {
		t.Errorf("depths after undo = (%d, %d), want (0, 1)", e.UndoDepth(), e.RedoDepth())
	}

	if !e.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if !bytes.Equal(e.Snapshot().Pix, drawn.Pix) {
		t.Error("canvas after redo differs from drawn state")
	}
	if e.UndoDepth() != 1 || e.RedoDepth() != 0 {
		t.Errorf("depths after redo = (%d, %d), want (1, 0)", e.UndoDepth(), e.RedoDepth())
	}
}

func TestClickLeavesDot(t *testing.T) {
	e := newEngine(t, smallOptions())
	if got := e.SetWidth(5); got != 5 {
		t.Fatalf("SetWidth(5) = %d", got)
	}

	e.PointerDown(50, 50)
	e.PointerUp()

	for _, p := range [][2]int{{50, 50}, {52, 50}, {48, 50}, {50, 52}, {50, 48}} {
		if got := pixel(e, p[0], p[1]); got != black {
			t.Errorf("pixel %v = %v, want black", p, got)
		}
	}
	for _, p := range [][2]int{{53, 50}, {47, 50}, {52, 52}, {50, 54}} {
		if got := pixel(e, p[0], p[1]); got != white {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
	if e.UndoDepth() != 1 {
		t.Errorf("UndoDepth() = %d, want 1", e.UndoDepth())
	}
}

func TestUndoAllRestoresBlankRedoAllRestoresFinal(t *testing.T) {
	e := newEngine(t, smallOptions())
	blank := e.Snapshot()

	const n = 6
	for i := 0; i < n; i++ {
		e.SetWidth(1 + i*3)
		e.SelectRGB(uint8(i*40), 0, uint8(255-i*40))
		drawStroke(e, [2]int{10 + i*20, 10}, [2]int{30 + i*10, 150}, [2]int{190, 190 - i*15})
	}
	final := e.Snapshot()

	for i := 0; i < n; i++ {
		if !e.Undo() {
			t.Fatalf("Undo() #%d = false", i+1)
		}
	}
	if e.Undo() {
		t.Error("extra Undo() reported success")
	}
	if !bytes.Equal(e.Snapshot().Pix, blank.Pix) {
		t.Error("undoing every stroke did not restore the blank canvas")
	}

	for i := 0; i < n; i++ {
		if !e.Redo() {
			t.Fatalf("Redo() #%d = false", i+1)
		}
	}
	if e.Redo() {
		t.Error("extra Redo() reported success")
	}
	if !bytes.Equal(e.Snapshot().Pix, final.Pix) {
		t.Error("redoing every stroke did not restore the final canvas")
	}
}

func TestNewStrokeInvalidatesRedo(t *testing.T) {
	e := newEngine(t, smallOptions())
	drawStroke(e, [2]int{10, 10}, [2]int{20, 20})
	e.Undo()
	if !e.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}

	drawStroke(e, [2]int{50, 50}, [2]int{60, 60})

	if e.CanRedo() {
		t.Error("CanRedo() = true after a new stroke")
	}
	if e.UndoDepth() != 1 {
		t.Errorf("UndoDepth() = %d, want 1", e.UndoDepth())
	}
}

func TestUndoRedoOnEmptyHistoryIsNoop(t *testing.T) {
	e := newEngine(t, smallOptions())
	before := e.Snapshot()

	calls := 0
	e.OnChange(func() { calls++ })

	if e.Undo() || e.Redo() {
		t.Error("Undo/Redo on empty history reported success")
	}
	if !bytes.Equal(e.Snapshot().Pix, before.Pix) {
		t.Error("canvas changed")
	}
	if calls != 0 {
		t.Errorf("change callbacks = %d, want 0", calls)
	}
}

func TestSetWidthClamps(t *testing.T) {
	e := newEngine(t, smallOptions())
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-7, 1},
		{1, 1},
		{25, 25},
		{50, 50},
		{999, 50},
	}
	for _, tt := range tests {
		if got := e.SetWidth(tt.in); got != tt.want {
			t.Errorf("SetWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if got := e.Pen().Width; got != tt.want {
			t.Errorf("Pen().Width after SetWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHoverDoesNotMutate(t *testing.T) {
	e := newEngine(t, smallOptions())
	before := e.Snapshot()

	e.PointerMove(40, 40)
	e.PointerMove(80, 120)
	e.PointerDrag(90, 90) // 未按下
	e.SelectRGB(255, 0, 0)
	e.SetWidth(30)
	e.PointerUp()

	if !bytes.Equal(e.Snapshot().Pix, before.Pix) {
		t.Error("canvas changed without a press")
	}
	if e.CanUndo() {
		t.Error("history recorded without a press")
	}
	cur := e.PreviewCursor()
	if cur.X != 90 || cur.Y != 90 || cur.Radius != 15 || !cur.Visible {
		t.Errorf("PreviewCursor() = %+v, want (90,90) r=15 visible", cur)
	}
}

func TestPointerLeaveEndsStrokeAndHidesCursor(t *testing.T) {
	e := newEngine(t, smallOptions())
	e.PointerDown(10, 10)
	e.PointerDrag(20, 10)
	e.PointerLeave()

	if e.State() != Idle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	if e.PreviewCursor().Visible {
		t.Error("cursor still visible after leave")
	}

	before := e.Snapshot()
	e.PointerDrag(100, 100)
	if !bytes.Equal(e.Snapshot().Pix, before.Pix) {
		t.Error("drag after leave drew on the canvas")
	}
}

func TestPointerDownWhileStroking(t *testing.T) {
	e := newEngine(t, smallOptions())
	e.PointerDown(10, 10)
	e.PointerDrag(30, 10)
	e.PointerDown(100, 100)
	e.PointerDrag(120, 100)
	e.PointerUp()

	if e.UndoDepth() != 2 {
		t.Errorf("UndoDepth() = %d, want 2", e.UndoDepth())
	}
	// 第二笔从新的按下点开始，两笔之间没有连线
	if got := pixel(e, 65, 55); got != white {
		t.Errorf("pixel (65,55) = %v, want white", got)
	}
}

func TestUndoDuringStrokeKeepsDrawing(t *testing.T) {
	e := newEngine(t, smallOptions())
	e.PointerDown(10, 10)
	e.PointerDrag(20, 10)
	e.Undo()

	if e.State() != Stroking {
		t.Fatalf("State() = %v, want stroking", e.State())
	}
	e.PointerDrag(30, 10)
	e.PointerUp()

	if got := pixel(e, 25, 10); got != black {
		t.Errorf("pixel (25,10) = %v, want black", got)
	}
}

func TestClearIsUndoable(t *testing.T) {
	e := newEngine(t, smallOptions())
	drawStroke(e, [2]int{10, 10}, [2]int{190, 190})
	drawn := e.Snapshot()

	e.Clear()
	if got := pixel(e, 100, 100); got != white {
		t.Errorf("pixel after clear = %v, want white", got)
	}
	if e.UndoDepth() != 2 {
		t.Errorf("UndoDepth() = %d, want 2", e.UndoDepth())
	}

	e.Undo()
	if !bytes.Equal(e.Snapshot().Pix, drawn.Pix) {
		t.Error("undoing clear did not restore the drawing")
	}
}

func TestClearDropsRedo(t *testing.T) {
	e := newEngine(t, smallOptions())
	drawStroke(e, [2]int{10, 10}, [2]int{20, 20})
	e.Undo()

	e.Clear()
	if e.CanRedo() {
		t.Error("Clear kept the redo stack")
	}
}

func TestDepthBound(t *testing.T) {
	opts := smallOptions()
	opts.MaxDepth = 3
	e := newEngine(t, opts)

	for i := 0; i < 5; i++ {
		drawStroke(e, [2]int{i * 10, 0}, [2]int{i * 10, 50})
	}
	if e.UndoDepth() != 3 {
		t.Fatalf("UndoDepth() = %d, want 3", e.UndoDepth())
	}

	for e.Undo() {
	}
	// 最早两笔的快照已被淘汰，无法回到空白
	if got := pixel(e, 0, 25); got != black {
		t.Errorf("pixel (0,25) = %v, want black (oldest stroke kept)", got)
	}
	if got := pixel(e, 30, 25); got != white {
		t.Errorf("pixel (30,25) = %v, want white", got)
	}
}

func TestEraserPaintsBackground(t *testing.T) {
	e := newEngine(t, smallOptions())
	e.SetWidth(9)
	drawStroke(e, [2]int{20, 50}, [2]int{180, 50})

	e.SelectEraser()
	e.SetWidth(20)
	drawStroke(e, [2]int{100, 50})

	if got := pixel(e, 100, 50); got != white {
		t.Errorf("erased pixel = %v, want white", got)
	}
	if got := pixel(e, 30, 50); got != black {
		t.Errorf("untouched pixel = %v, want black", got)
	}
}

func TestOnChange(t *testing.T) {
	e := newEngine(t, smallOptions())
	var a, b int
	cancelA := e.OnChange(func() { a++ })
	e.OnChange(func() { b++ })

	drawStroke(e, [2]int{1, 1}, [2]int{5, 5}) // down, drag, up
	if a != 3 || b != 3 {
		t.Fatalf("callbacks = (%d, %d), want (3, 3)", a, b)
	}

	cancelA()
	e.Clear()
	if a != 3 || b != 4 {
		t.Errorf("callbacks after cancel = (%d, %d), want (3, 4)", a, b)
	}
}

func TestOnChangeMayQueryEngine(t *testing.T) {
	e := newEngine(t, smallOptions())
	var canUndo bool
	e.OnChange(func() { canUndo = e.CanUndo() })

	e.PointerDown(5, 5)
	if !canUndo {
		t.Error("callback observed CanUndo() = false after press")
	}
}

func TestFrameDoesNotTouchCanvas(t *testing.T) {
	e := newEngine(t, smallOptions())
	e.SelectRGB(255, 0, 0)
	e.SetWidth(20)
	e.PointerMove(100, 100)

	frame, err := e.Frame()
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if frame.Bounds() != e.CurrentBuffer().Bounds() {
		t.Fatalf("frame bounds = %v, want %v", frame.Bounds(), e.CurrentBuffer().Bounds())
	}
	if got := frame.RGBAAt(100, 100); got == white {
		t.Error("frame has no preview circle at the cursor")
	}
	if got := frame.RGBAAt(10, 10); got != white {
		t.Errorf("frame pixel far from cursor = %v, want white", got)
	}
	if got := pixel(e, 100, 100); got != white {
		t.Errorf("canvas pixel under cursor = %v, want white", got)
	}
	if e.CanUndo() {
		t.Error("Frame recorded history")
	}
}

func TestFrameWithoutCursorMatchesCanvas(t *testing.T) {
	e := newEngine(t, smallOptions())
	drawStroke(e, [2]int{10, 10}, [2]int{100, 150})
	e.PointerLeave()

	frame, err := e.Frame()
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if !bytes.Equal(frame.Pix, e.Snapshot().Pix) {
		t.Error("frame differs from canvas with hidden cursor")
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Stroking.String() != "stroking" {
		t.Errorf("State strings = %q, %q", Idle, Stroking)
	}
	if got := State(9).String(); got != "State(9)" {
		t.Errorf("State(9).String() = %q", got)
	}
}
