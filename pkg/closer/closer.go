package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Closer закрывает зарегистрированные ресурсы в обратном порядке (LIFO).
type Closer struct {
	mu    sync.Mutex
	once  sync.Once
	funcs []namedFunc
	err   error
}

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type namedFunc struct {
	name string
	f    Func
}

func NewCloser() *Closer {
	return &Closer{}
}

// Add добавляет функцию в список закрытия
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, namedFunc{name: name, f: f})
}

// Close вызывает функции закрытия начиная с последней добавленной.
// Ошибки не прерывают закрытие остальных ресурсов и возвращаются вместе.
// Если контекст истек, оставшиеся ресурсы не закрываются и об этом сообщается в ошибке.
// Повторные вызовы возвращают результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		var errs []error
		for i := len(funcs) - 1; i >= 0; i-- {
			nf := funcs[i]

			done := make(chan error, 1)
			go func() {
				done <- nf.f(ctx)
			}()

			select {
			case err := <-done:
				if err != nil {
					errs = append(errs, fmt.Errorf("close %s: %w", nf.name, err))
				}
			case <-ctx.Done():
				errs = append(errs, fmt.Errorf("shutdown interrupted after %d/%d resources: %w", len(funcs)-1-i, len(funcs), ctx.Err()))
				c.err = errors.Join(errs...)
				return
			}
		}

		c.err = errors.Join(errs...)
	})

	return c.err
}
