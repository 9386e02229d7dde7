package joblock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLockHeld - лок уже держит другой экземпляр, цикл нужно пропустить.
var ErrLockHeld = errors.New("job lock held by another instance")

// Repository раздаёт advisory-локи Postgres для фоновых задач. Лок живёт
// на выделенном соединении и исчезает вместе с ним, упавший экземпляр
// ничего не оставляет за собой.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// TryAcquire пытается взять лок по имени задачи. Возвращает release,
// который обязан быть вызван в конце цикла.
func (r *Repository) TryAcquire(ctx context.Context, jobName string) (func(), error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	var locked bool
	err = conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, jobName).Scan(&locked)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("try advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, ErrLockHeld
	}

	release := func() {
		//nolint:errcheck // соединение возвращается в пул в любом случае
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, jobName)
		conn.Release()
	}
	return release, nil
}
