package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/room_scheduler/internal/model"
)

// KeyedMutex взаимное исключение в пределах одного ключа.
// Разные ключи друг друга не блокируют
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// NewKeyedMutex создаёт пустой набор блокировок
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Acquire захватывает блокировку по ключу, ожидая не дольше timeout.
// Возвращает функцию освобождения
func (k *KeyedMutex) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}

	e := k.ref(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				k.unref(key)
			})
		}, nil
	case <-timer.C:
		k.unref(key)
		return nil, fmt.Errorf("%w: %s", model.ErrLockTimeout, key)
	case <-ctx.Done():
		k.unref(key)
		return nil, fmt.Errorf("acquire %s: %w", key, ctx.Err())
	}
}

// Len количество ключей, по которым есть держатели или ожидающие
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func (k *KeyedMutex) ref(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, exists := k.locks[key]
	if !exists {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *KeyedMutex) unref(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, exists := k.locks[key]
	if !exists {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}
