// Package closer releases resources at shutdown in reverse order of acquisition.
package closer

import (
	"errors"
	"sync"
)

var globalCloser = New()

// Add registers closers on the process-wide Closer.
func Add(f ...func() error) {
	globalCloser.Add(f...)
}

// CloseAll runs the process-wide closers.
func CloseAll() error {
	return globalCloser.CloseAll()
}

type Closer struct {
	mu    sync.Mutex
	once  sync.Once
	funcs []func() error
	err   error
}

func New() *Closer {
	return &Closer{}
}

func (c *Closer) Add(f ...func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f...)
}

// CloseAll calls every registered function once, last added first, and
// returns all their errors joined. Later calls return the same result.
func (c *Closer) CloseAll() error {
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.funcs = nil
		c.mu.Unlock()

		var errs []error
		for i := len(funcs) - 1; i >= 0; i-- {
			if err := funcs[i](); err != nil {
				errs = append(errs, err)
			}
		}
		c.err = errors.Join(errs...)
	})
	return c.err
}
