package appmode

import "testing"

func TestMachineTransitions(t *testing.T) {
	var changes [][2]string
	m := NewMachine(func(from, to, reason string) {
		changes = append(changes, [2]string{from, to})
	})

	if m.CanWrite() {
		t.Fatal("machine must start read-only")
	}

	if err := m.Trigger(EventLockAcquired, "database lock held"); err != nil {
		t.Fatalf("lock_acquired: %v", err)
	}
	if !m.CanWrite() {
		t.Error("expected read-write after lock acquired")
	}

	if err := m.Trigger(EventLockLost, "connection lost"); err != nil {
		t.Fatalf("lock_lost: %v", err)
	}
	if m.CanWrite() {
		t.Error("expected read-only after lock lost")
	}

	status := m.Status()
	if status.Mode != ModeReadOnly || status.Reason != "connection lost" {
		t.Errorf("status = %+v", status)
	}

	if len(changes) != 2 {
		t.Errorf("expected 2 change callbacks, got %d", len(changes))
	}
}

func TestMachineRejectsInvalidEvent(t *testing.T) {
	m := NewMachine(nil)

	// 未持锁时不能直接失锁
	if err := m.Trigger(EventLockLost, "x"); err == nil {
		t.Error("lock_lost from read_only should fail")
	}
	// 被拒绝的事件不得覆盖当前原因
	if got := m.Status().Reason; got != "starting up" {
		t.Errorf("reason = %q, want unchanged %q", got, "starting up")
	}
}

func TestMachineForceReadOnly(t *testing.T) {
	m := NewMachine(nil)

	if err := m.Trigger(EventLockAcquired, "database lock held"); err != nil {
		t.Fatalf("lock_acquired: %v", err)
	}
	if err := m.Trigger(EventForceReadOnly, "READ_ONLY set"); err != nil {
		t.Fatalf("force_read_only: %v", err)
	}
	if m.CanWrite() {
		t.Error("expected read-only after force")
	}
	if m.Status().Reason != "READ_ONLY set" {
		t.Errorf("reason = %q", m.Status().Reason)
	}
}
