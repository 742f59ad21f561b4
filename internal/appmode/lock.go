package appmode

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// 咨询锁键：同一数据库上只有一个实例能拿到写权限
const advisoryLockKey = int64(0x6675656c626b)

// LockKeeper 通过 PostgreSQL 会话级咨询锁仲裁读写模式。
// 拿到锁的实例进入 read_write，其余实例（如第二台机器）保持只读。
// 锁随专用连接存活，连接断开即视为失锁
type LockKeeper struct {
	logger   *zap.Logger
	pool     *pgxpool.Pool
	machine  *Machine
	interval time.Duration

	conn *pgxpool.Conn // 持锁的专用连接
}

// NewLockKeeper 创建锁维持器
func NewLockKeeper(logger *zap.Logger, pool *pgxpool.Pool, machine *Machine, interval time.Duration) *LockKeeper {
	return &LockKeeper{
		logger:   logger,
		pool:     pool,
		machine:  machine,
		interval: interval,
	}
}

// Run 周期性检查/获取咨询锁，阻塞直到 ctx 结束
func (k *LockKeeper) Run(ctx context.Context) {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	k.check(ctx)

	for {
		select {
		case <-ctx.Done():
			k.release()
			return
		case <-ticker.C:
			k.check(ctx)
		}
	}
}

func (k *LockKeeper) check(ctx context.Context) {
	if k.conn != nil {
		// 已持锁：确认连接仍然存活
		if err := k.conn.Ping(ctx); err != nil {
			k.logger.Warn("Lock connection lost", zap.Error(err))
			k.release()
			if err := k.machine.Trigger(EventLockLost, "database lock connection lost"); err != nil {
				k.logger.Error("Failed to switch to read-only", zap.Error(err))
			}
		}
		return
	}

	conn, err := k.pool.Acquire(ctx)
	if err != nil {
		k.logger.Warn("Failed to acquire connection for lock", zap.Error(err))
		return
	}

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, advisoryLockKey).Scan(&locked); err != nil {
		k.logger.Warn("Advisory lock query failed", zap.Error(err))
		conn.Release()
		return
	}

	if !locked {
		// 另一个实例持有数据库，保持只读
		conn.Release()
		return
	}

	k.conn = conn
	k.logger.Info("Database lock acquired, switching to read-write")
	if err := k.machine.Trigger(EventLockAcquired, "database lock held"); err != nil {
		k.logger.Error("Failed to switch to read-write", zap.Error(err))
	}
}

func (k *LockKeeper) release() {
	if k.conn == nil {
		return
	}

	// 连接回池前显式解锁，否则会话带着锁在池里存活到进程退出。
	// 连接已断开时解锁自然失败，只记录告警
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := k.conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, advisoryLockKey); err != nil {
		k.logger.Warn("Advisory unlock failed", zap.Error(err))
	}

	k.conn.Release()
	k.conn = nil
}
