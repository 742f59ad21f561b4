package appmode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// 应用模式常量
const (
	ModeReadWrite = "read_write"
	ModeReadOnly  = "read_only"
)

// 事件常量
const (
	EventLockAcquired  = "lock_acquired"
	EventLockLost      = "lock_lost"
	EventForceReadOnly = "force_read_only"
)

// Status 当前模式及原因，供 API 返回
type Status struct {
	Mode   string    `json:"mode"`
	Reason string    `json:"reason"`
	Since  time.Time `json:"since"`
}

// Machine 应用读写模式状态机。
// 写操作（行程/车辆编辑）只在 read_write 模式下允许；
// 台账计算不受模式影响，任何模式下都可重算
type Machine struct {
	mu       sync.RWMutex
	fsm      *fsm.FSM
	reason   string
	since    time.Time
	onChange func(from, to, reason string)
}

// NewMachine 创建模式状态机，初始为只读直到拿到数据库锁
func NewMachine(onChange func(from, to, reason string)) *Machine {
	m := &Machine{
		reason:   "starting up",
		since:    time.Now(),
		onChange: onChange,
	}

	m.fsm = fsm.NewFSM(
		ModeReadOnly,
		fsm.Events{
			{Name: EventLockAcquired, Src: []string{ModeReadOnly}, Dst: ModeReadWrite},
			{Name: EventLockLost, Src: []string{ModeReadWrite}, Dst: ModeReadOnly},
			{Name: EventForceReadOnly, Src: []string{ModeReadWrite, ModeReadOnly}, Dst: ModeReadOnly},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onChange != nil && e.Src != e.Dst {
					m.onChange(e.Src, e.Dst, m.reason)
				}
			},
		},
	)

	return m
}

// Trigger 触发模式切换事件
func (m *Machine) Trigger(event, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 回调读取 m.reason，须先赋值；事件被拒绝时恢复原值
	prev := m.reason
	m.reason = reason
	if err := m.fsm.Event(context.Background(), event); err != nil {
		// 原地转换（如启动时强制只读）不算错误
		if _, ok := err.(fsm.NoTransitionError); !ok {
			m.reason = prev
			return fmt.Errorf("trigger event %s: %w", event, err)
		}
	}
	m.since = time.Now()
	return nil
}

// CanWrite 是否允许持久化修改
func (m *Machine) CanWrite() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current() == ModeReadWrite
}

// Status 获取当前模式
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		Mode:   m.fsm.Current(),
		Reason: m.reason,
		Since:  m.since,
	}
}
