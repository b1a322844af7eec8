package sketch

import (
	"image"
	"image/color"
	"testing"

	"sketchpad/internal/config"
	"sketchpad/internal/engine"
	"sketchpad/internal/stroke"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Width, opts.Height = 64, 64
	e, err := engine.New(opts)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return e
}

func TestDispatch(t *testing.T) {
	e := newEngine(t)

	if Dispatch(e, config.ActionUndo) {
		t.Error("undo on empty history reported a change")
	}

	e.PointerDown(10, 10)
	e.PointerUp()
	if !Dispatch(e, config.ActionUndo) || e.CanUndo() || !e.CanRedo() {
		t.Error("ActionUndo did not undo the stroke")
	}
	if !Dispatch(e, config.ActionRedo) || !e.CanUndo() {
		t.Error("ActionRedo did not redo the stroke")
	}
	if !Dispatch(e, config.ActionClear) || e.UndoDepth() != 2 {
		t.Errorf("ActionClear: UndoDepth() = %d, want 2", e.UndoDepth())
	}
	if Dispatch(e, config.ActionNone) {
		t.Error("ActionNone reported a change")
	}
}

func TestToBGRA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	src.SetRGBA(1, 0, color.RGBA{200, 100, 50, 255})

	dst := make([]byte, 8)
	toBGRA(dst, src)

	want := []byte{30, 20, 10, 255, 50, 100, 200, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("toBGRA() = %v, want %v", dst, want)
		}
	}
}

func TestToBGRAShortDestination(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dst := make([]byte, 6)
	toBGRA(dst, src) // 不应越界
	if dst[3] != 255 || dst[4] != 0 {
		t.Errorf("dst = %v", dst)
	}
}

func TestVKName(t *testing.T) {
	tests := []struct {
		vk   uintptr
		want string
		ok   bool
	}{
		{'Z', "z", true},
		{'A', "a", true},
		{'7', "7", true},
		{vkF1, "f1", true},
		{vkF12, "f12", true},
		{vkDelete, "delete", true},
		{vkEscape, "escape", true},
		{vkReturn, "enter", true},
		{vkShift, "", false},
		{0x7C, "", false}, // F13
	}
	for _, tt := range tests {
		got, ok := vkName(tt.vk)
		if got != tt.want || ok != tt.ok {
			t.Errorf("vkName(0x%X) = (%q, %v), want (%q, %v)", tt.vk, got, ok, tt.want, tt.ok)
		}
	}
}

func TestVKNamesParseAsChords(t *testing.T) {
	for vk := uintptr(0); vk < 0x100; vk++ {
		name, ok := vkName(vk)
		if !ok {
			continue
		}
		if _, err := config.ParseChord("ctrl+" + name); err != nil {
			t.Errorf("vkName(0x%X) = %q does not parse: %v", vk, name, err)
		}
	}
}

func TestLparamPoint(t *testing.T) {
	x, y := lparamPoint(uintptr(0x0020_0010))
	if x != 16 || y != 32 {
		t.Errorf("lparamPoint = (%d, %d), want (16, 32)", x, y)
	}
	// 捕获鼠标时坐标可能为负
	x, y = lparamPoint(uintptr(0xFFFE_FFFF))
	if x != -1 || y != -2 {
		t.Errorf("lparamPoint negative = (%d, %d), want (-1, -2)", x, y)
	}
}

func TestTitleFor(t *testing.T) {
	got := titleFor("Sketchpad", stroke.Pen{Color: color.RGBA{255, 0, 0, 255}, Width: 5})
	if got != "Sketchpad - #ff0000 5px" {
		t.Errorf("titleFor() = %q", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Title == "" || o.Keymap == nil || o.Logger == nil {
		t.Errorf("withDefaults() = %+v", o)
	}
	if o.Keymap.Resolve(config.Chord{Mods: config.ModCtrl, Key: "z"}) != config.ActionUndo {
		t.Error("default keymap does not bind ctrl+z")
	}
}

func TestSingleInstanceGuard(t *testing.T) {
	if !acquire() {
		t.Fatal("first acquire failed")
	}
	if acquire() {
		t.Error("second acquire succeeded")
	}
	if !IsOpen() {
		t.Error("IsOpen() = false while held")
	}
	release()
	if IsOpen() {
		t.Error("IsOpen() = true after release")
	}
}
