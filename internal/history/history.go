package history

import (
	"errors"
	"image"
)

// DefaultMaxDepth 默认撤销/重做深度
const DefaultMaxDepth = 50

// ErrEmptyStack 撤销或重做栈为空
var ErrEmptyStack = errors.New("history: 栈为空")

// Store 撤销/重做快照管理器
//
// 两个栈各自独立限深；超出深度时丢弃栈底（最旧的）快照。
// 压栈后的快照不再被修改，调用方必须先复制再交出。
type Store struct {
	undo stack
	redo stack
}

// NewStore 创建快照管理器，maxDepth <= 0 时使用 DefaultMaxDepth
func NewStore(maxDepth int) *Store {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Store{
		undo: stack{max: maxDepth},
		redo: stack{max: maxDepth},
	}
}

// MaxDepth 每个栈的最大深度
func (h *Store) MaxDepth() int { return h.undo.max }

// PushUndo 保存快照到撤销栈，返回是否因此淘汰了最旧的快照
func (h *Store) PushUndo(snap *image.RGBA) bool { return h.undo.push(snap) }

// PopUndo 弹出最近的撤销快照
func (h *Store) PopUndo() (*image.RGBA, error) { return h.undo.pop() }

// PushRedo 保存快照到重做栈
func (h *Store) PushRedo(snap *image.RGBA) bool { return h.redo.push(snap) }

// PopRedo 弹出最近的重做快照
func (h *Store) PopRedo() (*image.RGBA, error) { return h.redo.pop() }

// ClearRedo 清空重做栈（新操作后重做无效）
func (h *Store) ClearRedo() { h.redo.clear() }

// HasUndo 是否可以撤销
func (h *Store) HasUndo() bool { return len(h.undo.items) > 0 }

// HasRedo 是否可以重做
func (h *Store) HasRedo() bool { return len(h.redo.items) > 0 }

// UndoDepth 撤销栈当前深度
func (h *Store) UndoDepth() int { return len(h.undo.items) }

// RedoDepth 重做栈当前深度
func (h *Store) RedoDepth() int { return len(h.redo.items) }

// Reset 清空所有历史
func (h *Store) Reset() {
	h.undo.clear()
	h.redo.clear()
}

// stack 限深 LIFO 栈，满时从栈底淘汰
type stack struct {
	items []*image.RGBA
	max   int
}

func (s *stack) push(snap *image.RGBA) bool {
	if snap == nil {
		return false
	}
	evicted := false
	if len(s.items) >= s.max {
		n := copy(s.items, s.items[1:])
		s.items[n] = nil
		s.items = s.items[:n]
		evicted = true
	}
	s.items = append(s.items, snap)
	return evicted
}

func (s *stack) pop() (*image.RGBA, error) {
	n := len(s.items)
	if n == 0 {
		return nil, ErrEmptyStack
	}
	snap := s.items[n-1]
	s.items[n-1] = nil
	s.items = s.items[:n-1]
	return snap, nil
}

func (s *stack) clear() {
	clear(s.items)
	s.items = s.items[:0]
}
