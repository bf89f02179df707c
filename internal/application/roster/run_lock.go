package roster

import "context"

// RunLocker serialises import runs. Lock returns ErrRunLocked when another run
// holds the lock; the returned func releases it.
type RunLocker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// LocalRunLocker serialises runs within one process.
type LocalRunLocker struct {
	sem chan struct{}
}

func NewLocalRunLocker() *LocalRunLocker {
	return &LocalRunLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalRunLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	default:
		return nil, ErrRunLocked
	}
}
