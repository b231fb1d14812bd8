package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

var errLockBusy = errors.New("advisory lock is busy")

// AdvisoryLocker блокировка по ключу через advisory lock PostgreSQL.
// Работает между несколькими экземплярами сервиса.
//
// Пул должен быть отдельным от пула репозиториев: держатель блокировки
// занимает соединение, пока ходит в базу через пул репозиториев
type AdvisoryLocker struct {
	pool     *pgxpool.Pool
	interval time.Duration
	logger   *zap.Logger
}

// NewAdvisoryLocker создаёт блокировщик с интервалом повторных попыток interval
func NewAdvisoryLocker(pool *pgxpool.Pool, interval time.Duration, logger *zap.Logger) *AdvisoryLocker {
	if interval <= 0 {
		interval = 25 * time.Millisecond
	}
	return &AdvisoryLocker{pool: pool, interval: interval, logger: logger}
}

// NewLockPool создаёт отдельный пул для AdvisoryLocker на maxConns соединений
func NewLockPool(ctx context.Context, dsn string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse lock pool config: %w", err)
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create lock pool: %w", err)
	}
	return pool, nil
}

// Acquire держит отдельное соединение до вызова функции освобождения:
// advisory lock принадлежит сессии. Ожидание соединения и самой
// блокировки вместе ограничены timeout
func (l *AdvisoryLocker) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := l.pool.Acquire(waitCtx)
	if err != nil {
		if lockWaitExpired(ctx, err) {
			return nil, fmt.Errorf("%w: %s: no free lock connection", model.ErrLockTimeout, key)
		}
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	backoff := retry.WithMaxDuration(timeout, retry.NewConstant(l.interval))
	err = retry.Do(waitCtx, backoff, func(ctx context.Context) error {
		var locked bool
		if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtextextended($1, 0))`, key).Scan(&locked); err != nil {
			return fmt.Errorf("try advisory lock: %w", err)
		}
		if !locked {
			return retry.RetryableError(errLockBusy)
		}
		return nil
	})
	if err != nil {
		conn.Release()
		if errors.Is(err, errLockBusy) || lockWaitExpired(ctx, err) {
			return nil, fmt.Errorf("%w: %s", model.ErrLockTimeout, key)
		}
		return nil, err
	}

	return func() {
		// Снимаем блокировку даже если контекст запроса уже отменён
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock(hashtextextended($1, 0))`, key); err != nil {
			l.logger.Error("Failed to release advisory lock", zap.String("key", key), zap.Error(err))
			// Соединение с висящей блокировкой в пул не возвращаем
			conn.Conn().Close(unlockCtx)
		}
		conn.Release()
	}, nil
}

// lockWaitExpired истёк собственный timeout ожидания, а не контекст вызывающего
func lockWaitExpired(parent context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil
}
